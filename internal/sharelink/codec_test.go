package sharelink_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/agency-api/internal/entities/agency"
	"github.com/KirkDiggler/agency-api/internal/errors"
	"github.com/KirkDiggler/agency-api/internal/pkg/clock"
	"github.com/KirkDiggler/agency-api/internal/pkg/idgen"
	"github.com/KirkDiggler/agency-api/internal/services/conversion"
	"github.com/KirkDiggler/agency-api/internal/sharelink"
	"github.com/KirkDiggler/agency-api/internal/testutils"
	"github.com/KirkDiggler/agency-api/internal/testutils/builders"
)

type CodecTestSuite struct {
	suite.Suite
	codec     *sharelink.Codec
	converter conversion.Converter
}

func (s *CodecTestSuite) SetupTest() {
	codec, err := sharelink.New(&sharelink.Config{BaseURL: "https://sheet.example.com/app"})
	s.Require().NoError(err)
	s.codec = codec

	s.converter, err = conversion.NewConverter(&conversion.ConverterConfig{
		Clock:       clock.NewFixed(time.Date(2025, 7, 8, 9, 10, 11, 0, time.UTC)),
		IDGenerator: idgen.NewSequential("mig"),
	})
	s.Require().NoError(err)
}

// decode reads a payload the way imports do
func (s *CodecTestSuite) decode(payload string) *agency.Character {
	data, err := s.codec.DecodeBytes(payload)
	s.Require().NoError(err)
	character, err := s.converter.Decode(data)
	s.Require().NoError(err)
	return character
}

func (s *CodecTestSuite) TearDownTest() {
	s.codec.Close()
}

func (s *CodecTestSuite) TestRoundTrip() {
	s.Run("fixture character", func() {
		original := testutils.CreateTestCharacter("char-1")

		payload, err := s.codec.Encode(original)
		s.Require().NoError(err)

		decoded := s.decode(payload)
		s.Equal(original, decoded)
		s.Equal(testutils.TestCharacterName, decoded.Name)
	})

	s.Run("populated character", func() {
		original := builders.NewCharacterBuilder().
			WithID("char-2").
			WithName("满员特工").
			WithFunctionType("公关部").
			WithAttribute(agency.AttributeMystique, 5, 7).
			WithAnomaly("anom-1", "回声").
			WithReality("real-1", "照顾者").
			WithFilledCells(agency.TrackAnomaly, 29, 3, 14).
			Build()
		bonus := 2
		original.AddRelationship(agency.Relationship{ID: "rel-1", Name: "老王", Type: "朋友", BondValue: 2, BonusIndex: &bonus})
		original.SelectSelfAssessment("pr-1", []agency.AssessmentOption{{Attribute: agency.AttributeEmpathy}}, 0)

		payload, err := s.codec.Encode(original)
		s.Require().NoError(err)

		s.Equal(original, s.decode(payload))
	})
}

func (s *CodecTestSuite) TestPayloadIsURLSafe() {
	payload, err := s.codec.Encode(testutils.CreateTestCharacter("char-1"))
	s.Require().NoError(err)

	s.NotContains(payload, "+")
	s.NotContains(payload, "/")
	s.NotContains(payload, "=")
}

func (s *CodecTestSuite) TestDecodeRejectsGarbage() {
	testCases := []struct {
		name    string
		payload string
	}{
		{"empty", ""},
		{"not base64", "!!!"},
		{"not zstd", "aGVsbG8"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := s.codec.DecodeBytes(tc.payload)
			s.Require().Error(err)
			s.True(errors.IsInvalidArgument(err))
		})
	}
}

func (s *CodecTestSuite) TestEncodeNil() {
	_, err := s.codec.Encode(nil)
	s.Error(err)
}

func (s *CodecTestSuite) TestURL() {
	payload, err := s.codec.Encode(testutils.CreateTestCharacter("char-1"))
	s.Require().NoError(err)

	link := s.codec.URL(payload)
	s.True(strings.HasPrefix(link, "https://sheet.example.com/app?share="))

	extracted, err := sharelink.PayloadFromURL(link)
	s.Require().NoError(err)
	s.Equal(payload, extracted)

	s.Run("without base url", func() {
		codec, err := sharelink.New(&sharelink.Config{})
		s.Require().NoError(err)
		defer codec.Close()

		s.Equal("?share=abc", codec.URL("abc"))
	})

	s.Run("missing payload", func() {
		_, err := sharelink.PayloadFromURL("https://sheet.example.com/app")
		s.True(errors.IsInvalidArgument(err))
	})
}

func TestCodecTestSuite(t *testing.T) {
	suite.Run(t, new(CodecTestSuite))
}
