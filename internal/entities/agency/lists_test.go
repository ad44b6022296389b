package agency_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/agency-api/internal/entities/agency"
)

type ListsTestSuite struct {
	suite.Suite
	character *agency.Character
}

func (s *ListsTestSuite) SetupTest() {
	s.character = agency.NewCharacter("char-1", time.Now())
}

func ptr[T any](v T) *T {
	return &v
}

func (s *ListsTestSuite) TestAnomalyLifecycle() {
	id := s.character.AddAnomaly(agency.Anomaly{ID: "a1", Name: "回声"})
	s.Equal("a1", id)
	s.character.AddAnomaly(agency.Anomaly{ID: "a2"})

	s.True(s.character.UpdateAnomaly("a1", agency.AnomalyPatch{Notes: ptr("只在夜里")}))
	s.Equal("回声", s.character.Anomalies[0].Name)
	s.Equal("只在夜里", s.character.Anomalies[0].Notes)

	s.False(s.character.UpdateAnomaly("missing", agency.AnomalyPatch{Name: ptr("x")}))

	s.True(s.character.RemoveAnomaly("a1"))
	s.Require().Len(s.character.Anomalies, 1)
	s.Equal("a2", s.character.Anomalies[0].ID)
	s.False(s.character.RemoveAnomaly("a1"))
}

func (s *ListsTestSuite) TestAnomalyAbilitiesAreCopied() {
	s.character.AddAnomaly(agency.Anomaly{ID: "a1"})
	abilities := []agency.AnomalyAbility{{Name: "低语", Trigger: "共情"}}

	s.character.UpdateAnomaly("a1", agency.AnomalyPatch{Abilities: &abilities})
	abilities[0].Name = "changed"

	s.Equal("低语", s.character.Anomalies[0].Abilities[0].Name)
}

func (s *ListsTestSuite) TestRealityLifecycle() {
	s.character.AddReality(agency.Reality{ID: "r1", Name: "照顾者"})
	s.True(s.character.UpdateReality("r1", agency.RealityPatch{Name: ptr("守夜人")}))
	s.Equal("守夜人", s.character.Realities[0].Name)
	s.True(s.character.RemoveReality("r1"))
	s.Empty(s.character.Realities)
}

func (s *ListsTestSuite) TestRelationshipDefaultsAndBonus() {
	s.character.AddRelationship(agency.NewRelationship("rel-1"))
	rel := s.character.Relationships[0]
	s.Equal(agency.DefaultRelationshipType, rel.Type)
	s.Nil(rel.BonusIndex)
	s.Equal(0, rel.BondValue)

	s.Run("custom bonus", func() {
		s.True(s.character.UpdateRelationship("rel-1", agency.RelationshipPatch{
			BonusIndex:        ptr(agency.CustomBonusIndex),
			CustomBonusName:   ptr("老朋友"),
			CustomBonusEffect: ptr("一次重掷"),
		}))
		rel := s.character.Relationships[0]
		s.True(rel.HasCustomBonus())
		s.Equal("老朋友", rel.CustomBonusName)
	})

	s.Run("clear bonus", func() {
		s.True(s.character.UpdateRelationship("rel-1", agency.RelationshipPatch{ClearBonus: true}))
		s.Nil(s.character.Relationships[0].BonusIndex)
	})

	s.Run("type and bond", func() {
		s.character.UpdateRelationship("rel-1", agency.RelationshipPatch{Type: ptr("朋友"), BondValue: ptr(2)})
		s.Equal("朋友", s.character.Relationships[0].Type)
		s.Equal(2, s.character.Relationships[0].BondValue)
	})
}

func (s *ListsTestSuite) TestItemLifecycle() {
	s.character.AddItem(agency.Item{ID: "i1", Name: "雨伞"})
	s.True(s.character.UpdateItem("i1", agency.ItemPatch{Effect: ptr("挡雨"), IsFromFunction: ptr(true)}))

	it := s.character.Items[0]
	s.Equal("挡雨", it.Effect)
	s.True(it.IsFromFunction)
	s.False(s.character.UpdateItem("nope", agency.ItemPatch{Name: ptr("x")}))
	s.True(s.character.RemoveItem("i1"))
}

func (s *ListsTestSuite) TestInsertionOrderPreserved() {
	for _, id := range []string{"c", "a", "b"} {
		s.character.AddItem(agency.Item{ID: id})
	}
	s.character.RemoveItem("a")

	s.Equal("c", s.character.Items[0].ID)
	s.Equal("b", s.character.Items[1].ID)
}

func (s *ListsTestSuite) TestNotes() {
	s.True(s.character.SetNote(4, "第五条"))
	s.False(s.character.SetNote(5, "越界"))
	s.Equal("第五条", s.character.Notes[4])

	s.True(s.character.AddNote())
	s.Len(s.character.Notes, 6)

	for len(s.character.Notes) > 1 {
		s.True(s.character.RemoveNote(0))
	}
	s.False(s.character.RemoveNote(0), "the last note is kept")
	s.Len(s.character.Notes, 1)
}

func (s *ListsTestSuite) TestSlotsFloorAtOne() {
	s.True(s.character.SetAnomalySlots(3))
	s.Equal(3, s.character.AnomalySlots)
	s.True(s.character.SetAnomalySlots(0))
	s.Equal(1, s.character.AnomalySlots)
	s.False(s.character.SetRealitySlots(-2))
	s.Equal(1, s.character.RealitySlots)
}

func (s *ListsTestSuite) TestCustomTracks() {
	s.character.AddCustomTrack(agency.CustomProgressTrack{ID: "t1", Name: "调查", Max: 5})

	s.True(s.character.ToggleCustomTrackCell("t1", 4))
	s.True(s.character.ToggleCustomTrackCell("t1", 1))
	s.False(s.character.ToggleCustomTrackCell("t1", 5))
	s.Equal([]int{4, 1}, s.character.CustomProgressTracks[0].Filled)

	s.True(s.character.UpdateCustomTrack("t1", agency.CustomTrackPatch{Max: ptr(3)}))
	s.Equal([]int{1}, s.character.CustomProgressTracks[0].Filled)

	s.True(s.character.ToggleCustomTrackCell("t1", 1))
	s.Empty(s.character.CustomProgressTracks[0].Filled)

	s.True(s.character.RemoveCustomTrack("t1"))
	s.False(s.character.ToggleCustomTrackCell("t1", 0))
}

func TestListsTestSuite(t *testing.T) {
	suite.Run(t, new(ListsTestSuite))
}
