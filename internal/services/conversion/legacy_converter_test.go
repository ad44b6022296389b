package conversion_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/agency-api/internal/entities/agency"
	"github.com/KirkDiggler/agency-api/internal/errors"
	"github.com/KirkDiggler/agency-api/internal/pkg/clock"
	"github.com/KirkDiggler/agency-api/internal/pkg/idgen"
	"github.com/KirkDiggler/agency-api/internal/services/conversion"
	"github.com/KirkDiggler/agency-api/internal/testutils"
)

type ConverterTestSuite struct {
	suite.Suite
	now       time.Time
	converter conversion.Converter
}

func (s *ConverterTestSuite) SetupTest() {
	s.now = time.Date(2025, 7, 8, 9, 10, 11, 0, time.UTC)

	converter, err := conversion.NewConverter(&conversion.ConverterConfig{
		Clock:       clock.NewFixed(s.now),
		IDGenerator: idgen.NewSequential("mig"),
	})
	s.Require().NoError(err)
	s.converter = converter
}

func (s *ConverterTestSuite) toRaw(c *agency.Character) map[string]any {
	data, err := json.Marshal(c)
	s.Require().NoError(err)
	var raw map[string]any
	s.Require().NoError(json.Unmarshal(data, &raw))
	return raw
}

func (s *ConverterTestSuite) TestNewConverter() {
	s.Run("nil config", func() {
		_, err := conversion.NewConverter(nil)
		s.Error(err)
	})

	s.Run("missing fields", func() {
		_, err := conversion.NewConverter(&conversion.ConverterConfig{})
		s.Require().Error(err)
		s.Contains(err.Error(), "clock")
		s.Contains(err.Error(), "id_generator")
	})
}

func (s *ConverterTestSuite) TestIsValid() {
	testCases := []struct {
		name     string
		raw      map[string]any
		expected bool
	}{
		{"current record", map[string]any{"id": "a", "version": "2.0.0", "name": ""}, true},
		{"missing version", map[string]any{"id": "a", "name": "x"}, false},
		{"numeric name", map[string]any{"id": "a", "version": "2.0.0", "name": 3.0}, false},
		{"nil", nil, false},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.expected, s.converter.IsValid(tc.raw))
		})
	}
}

func (s *ConverterTestSuite) TestMigrateCurrentRecordIsNoOp() {
	x := testutils.CreateTestCharacter("char-1")
	x.SelectSelfAssessment("pr-1", []agency.AssessmentOption{{Attribute: agency.AttributeEmpathy}}, 0)
	x.AddRelationship(agency.NewRelationship("rel-1"))

	s.Equal(x, s.converter.Migrate(s.toRaw(x)))
}

func (s *ConverterTestSuite) TestMigrateLegacyRecord() {
	out := s.converter.Migrate(testutils.LegacyRecord())

	s.Equal("legacy-1", out.ID)
	s.Equal(agency.CurrentVersion, out.Version)
	s.Equal(agency.FormatTimestamp(s.now), out.UpdatedAt)
	s.Equal("老特工", out.Name)
	s.Equal("他/him", out.GenderPronoun)
	s.Equal("公关部", out.FunctionType)
	s.Equal([]string{"发言", "调用媒体", "保密协议"}, out.Permissions)
	s.Equal(agency.PermissionCounts{Perm1: 1, Perm2: 0, Perm3: 2}, out.PermissionCounts)
	s.Equal(3, out.Commendations)
	s.Equal(2, out.AnomalySlots)

	s.Equal(agency.AttributeValue{Current: 2, Max: 4, Marked: true}, out.Attributes[agency.AttributeFocus])
	s.Equal(agency.AttributeValue{Max: 3}, out.Attributes[agency.AttributeMystique])

	s.Equal([]int{0, 1}, out.ProgressTracks.Functional.Filled)
	s.Equal([]int{2}, out.ProgressTracks.Functional.Ignored)
	s.Equal([]int{0, 1}, out.ProgressTracks.Reality.Ignored)
	s.Empty(out.ProgressTracks.Anomaly.Filled)

	s.Equal([]bool{true, false, false, false}, out.CollapseProgress.Slots)

	s.Require().Len(out.Anomalies, 1)
	s.Equal(agency.Anomaly{ID: "mig_1", Name: "回声", Notes: "夜里更强"}, out.Anomalies[0])
	s.Require().Len(out.Realities, 1)
	s.Equal("mig_2", out.Realities[0].ID)
	s.Require().Len(out.Items, 1)
	s.Equal(agency.Item{ID: "mig_3", Name: "手电筒", Effect: "照明"}, out.Items[0])

	s.Equal([]string{"第一条", "第二条"}, out.Notes)
	s.Equal("为了钱", out.Questions["q1"])
	s.Equal("没有", out.Questions["q9"])
	s.Equal("", out.Questions["q5"])
}

func (s *ConverterTestSuite) TestMigrateLegacyTrackSanitising() {
	raw := map[string]any{
		"version": "1.2.0",
		"pa":      []any{3.0, 3.0, 40.0, -1.0, 5.0, "x"},
		"pa_ign":  []any{5.0, 6.0, 6.0},
	}

	out := s.converter.Migrate(raw)

	s.Equal([]int{3, 5}, out.ProgressTracks.Anomaly.Filled)
	s.Equal([]int{6}, out.ProgressTracks.Anomaly.Ignored)
	s.Equal("", out.ID, "ids are assigned by the caller")
}

func (s *ConverterTestSuite) TestMigrateEmptyRecord() {
	out := s.converter.Migrate(map[string]any{})

	expected := agency.NewCharacter("", s.now)
	s.Equal(expected, out)
}

func (s *ConverterTestSuite) TestMigrateUnknownVersionDecodesOverDefaults() {
	raw := map[string]any{
		"version":      "2.1.0",
		"name":         42.0,
		"anomalySlots": 3.0,
		"notes":        []any{},
	}

	out := s.converter.Migrate(raw)

	s.Equal("2.1.0", out.Version)
	s.Equal("", out.Name)
	s.Equal(3, out.AnomalySlots)
	s.Equal([]string{""}, out.Notes)
	s.Len(out.Attributes, 9)
}

func (s *ConverterTestSuite) TestDecode() {
	s.Run("current record", func() {
		x := testutils.CreateTestCharacter("char-1")
		data, err := json.Marshal(x)
		s.Require().NoError(err)

		out, err := s.converter.Decode(data)
		s.Require().NoError(err)
		s.Equal(x, out)
	})

	s.Run("legacy record", func() {
		data, err := json.Marshal(testutils.LegacyRecord())
		s.Require().NoError(err)

		out, err := s.converter.Decode(data)
		s.Require().NoError(err)
		s.Equal("老特工", out.Name)
	})

	s.Run("partial current record gets defaults", func() {
		out, err := s.converter.Decode([]byte(`{"id":"p","version":"2.0.0","name":"半成品","attributes":{"专注":{"current":1,"max":2,"marked":false}}}`))
		s.Require().NoError(err)
		s.Equal("半成品", out.Name)
		s.Equal(agency.AttributeValue{Current: 1, Max: 2}, out.Attributes[agency.AttributeFocus])
		s.Len(out.Attributes, 9)
		s.Len(out.Notes, agency.DefaultNoteCount)
	})

	s.Run("malformed json", func() {
		_, err := s.converter.Decode([]byte(`{"id":`))
		s.Require().Error(err)
		s.True(errors.IsInvalidArgument(err))
		s.Equal("invalid JSON file", errors.GetMessage(err))
	})

	s.Run("not an object", func() {
		_, err := s.converter.Decode([]byte(`[1,2,3]`))
		s.Require().Error(err)
		s.True(errors.IsInvalidArgument(err))
	})
}

func TestConverterTestSuite(t *testing.T) {
	suite.Run(t, new(ConverterTestSuite))
}
