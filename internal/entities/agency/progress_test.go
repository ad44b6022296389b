package agency_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/agency-api/internal/entities/agency"
)

type ProgressTestSuite struct {
	suite.Suite
	character *agency.Character
}

func (s *ProgressTestSuite) SetupTest() {
	s.character = agency.NewCharacter("char-1", time.Now())
}

func (s *ProgressTestSuite) track(t agency.TrackType) *agency.ProgressTrack {
	return s.character.ProgressTracks.Track(t)
}

func (s *ProgressTestSuite) TestFillCascadesToEmptyCells() {
	s.True(s.character.ToggleProgressFilled(agency.TrackFunctional, 5))

	s.Equal([]int{5}, s.track(agency.TrackFunctional).Filled)
	s.Empty(s.track(agency.TrackFunctional).Ignored)
	s.Equal([]int{5}, s.track(agency.TrackReality).Ignored)
	s.Equal([]int{5}, s.track(agency.TrackAnomaly).Ignored)
}

func (s *ProgressTestSuite) TestFillDoesNotCascadeOverFilledCells() {
	s.character.ToggleProgressFilled(agency.TrackReality, 7)
	s.character.ToggleProgressFilled(agency.TrackAnomaly, 7)

	s.Equal([]int{7}, s.track(agency.TrackReality).Filled)
	s.Empty(s.track(agency.TrackReality).Ignored)
	s.Equal([]int{7}, s.track(agency.TrackAnomaly).Filled)
	s.Equal([]int{7}, s.track(agency.TrackFunctional).Ignored)
}

func (s *ProgressTestSuite) TestFillingAnIgnoredCellClearsIgnore() {
	s.character.ToggleProgressIgnored(agency.TrackAnomaly, 3)
	s.character.ToggleProgressFilled(agency.TrackAnomaly, 3)

	s.Equal([]int{3}, s.track(agency.TrackAnomaly).Filled)
	s.Empty(s.track(agency.TrackAnomaly).Ignored)
}

func (s *ProgressTestSuite) TestUnfillDoesNotCascade() {
	s.character.ToggleProgressFilled(agency.TrackFunctional, 5)
	s.True(s.character.ToggleProgressFilled(agency.TrackFunctional, 5))

	s.Empty(s.track(agency.TrackFunctional).Filled)
	s.Equal([]int{5}, s.track(agency.TrackReality).Ignored)
	s.Equal([]int{5}, s.track(agency.TrackAnomaly).Ignored)
}

func (s *ProgressTestSuite) TestToggleFilledCellTwiceRestoresState() {
	testCases := []struct {
		name  string
		setup func(c *agency.Character)
		track agency.TrackType
		index int
	}{
		{
			name:  "filled after cascade",
			setup: func(c *agency.Character) { c.ToggleProgressFilled(agency.TrackFunctional, 4) },
			track: agency.TrackFunctional,
			index: 4,
		},
		{
			name: "filled on two tracks",
			setup: func(c *agency.Character) {
				c.ToggleProgressFilled(agency.TrackReality, 11)
				c.ToggleProgressFilled(agency.TrackAnomaly, 11)
			},
			track: agency.TrackAnomaly,
			index: 11,
		},
		{
			name: "other cells untouched",
			setup: func(c *agency.Character) {
				c.ToggleProgressFilled(agency.TrackAnomaly, 0)
				c.ToggleProgressIgnored(agency.TrackAnomaly, 29)
				c.ToggleProgressFilled(agency.TrackReality, 12)
			},
			track: agency.TrackAnomaly,
			index: 0,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			c := agency.NewCharacter("char-t", time.Now())
			tc.setup(c)
			s.Require().True(c.ProgressTracks.Track(tc.track).IsFilled(tc.index))
			before := c.Clone()

			s.True(c.ToggleProgressFilled(tc.track, tc.index))
			s.Equal("empty", c.ProgressTracks.Track(tc.track).State(tc.index))
			s.True(c.ToggleProgressFilled(tc.track, tc.index))

			for _, tt := range agency.TrackTypes {
				s.ElementsMatch(before.ProgressTracks.Track(tt).Filled, c.ProgressTracks.Track(tt).Filled, "track %s", tt)
				s.ElementsMatch(before.ProgressTracks.Track(tt).Ignored, c.ProgressTracks.Track(tt).Ignored, "track %s", tt)
			}
		})
	}

	s.Run("refill cascades again onto a cell cleared in between", func() {
		c := agency.NewCharacter("char-t", time.Now())
		c.ToggleProgressFilled(agency.TrackFunctional, 6)
		c.ToggleProgressIgnored(agency.TrackReality, 6)

		c.ToggleProgressFilled(agency.TrackFunctional, 6)
		c.ToggleProgressFilled(agency.TrackFunctional, 6)

		s.Equal("filled", c.ProgressTracks.Track(agency.TrackFunctional).State(6))
		s.Equal("ignored", c.ProgressTracks.Track(agency.TrackReality).State(6))
	})
}

func (s *ProgressTestSuite) TestIgnoredCellBlocksFillCascade() {
	testCases := []struct {
		name    string
		ignored agency.TrackType
		filled  agency.TrackType
	}{
		{name: "functional fill over ignored reality", ignored: agency.TrackReality, filled: agency.TrackFunctional},
		{name: "reality fill over ignored functional", ignored: agency.TrackFunctional, filled: agency.TrackReality},
		{name: "anomaly fill over ignored functional", ignored: agency.TrackFunctional, filled: agency.TrackAnomaly},
		{name: "functional fill over ignored anomaly", ignored: agency.TrackAnomaly, filled: agency.TrackFunctional},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			c := agency.NewCharacter("char-b", time.Now())
			c.ToggleProgressIgnored(tc.ignored, 9)
			c.ToggleProgressIgnored(tc.ignored, 2)

			s.True(c.ToggleProgressFilled(tc.filled, 9))

			ignored := c.ProgressTracks.Track(tc.ignored)
			s.Equal([]int{9, 2}, ignored.Ignored, "ignored list keeps its order without duplicates")
			s.Empty(ignored.Filled)
			s.Equal([]int{9}, c.ProgressTracks.Track(tc.filled).Filled)

			// Filling the ignored cell afterwards leaves the first track filled
			s.True(c.ToggleProgressFilled(tc.ignored, 9))
			s.Equal([]int{2}, ignored.Ignored)
			s.Equal([]int{9}, ignored.Filled)
			s.Equal("filled", c.ProgressTracks.Track(tc.filled).State(9))
		})
	}
}

func (s *ProgressTestSuite) TestIgnoreOnFilledCellIsNoOp() {
	s.character.ToggleProgressFilled(agency.TrackFunctional, 2)
	before := s.character.Clone()

	s.False(s.character.ToggleProgressIgnored(agency.TrackFunctional, 2))
	s.Equal(before, s.character)
}

func (s *ProgressTestSuite) TestIgnoreToggle() {
	s.True(s.character.ToggleProgressIgnored(agency.TrackReality, 29))
	s.Equal("ignored", s.track(agency.TrackReality).State(29))
	s.True(s.character.ToggleProgressIgnored(agency.TrackReality, 29))
	s.Equal("empty", s.track(agency.TrackReality).State(29))
}

func (s *ProgressTestSuite) TestOutOfRangeAndUnknownTrack() {
	before := s.character.Clone()

	s.False(s.character.ToggleProgressFilled(agency.TrackFunctional, 30))
	s.False(s.character.ToggleProgressFilled(agency.TrackFunctional, -1))
	s.False(s.character.ToggleProgressIgnored(agency.TrackAnomaly, 30))
	s.False(s.character.ToggleProgressFilled("special", 1))
	s.False(s.character.ClearProgressTrack("special"))

	s.Equal(before, s.character)
}

func (s *ProgressTestSuite) TestFilledAndIgnoredStayDisjoint() {
	ops := []struct {
		fill  bool
		track agency.TrackType
		index int
	}{
		{true, agency.TrackFunctional, 1},
		{false, agency.TrackReality, 2},
		{true, agency.TrackReality, 2},
		{false, agency.TrackFunctional, 1},
		{true, agency.TrackAnomaly, 1},
		{true, agency.TrackFunctional, 1},
		{false, agency.TrackAnomaly, 4},
		{true, agency.TrackAnomaly, 4},
	}

	for _, op := range ops {
		if op.fill {
			s.character.ToggleProgressFilled(op.track, op.index)
		} else {
			s.character.ToggleProgressIgnored(op.track, op.index)
		}
		for _, tt := range agency.TrackTypes {
			t := s.track(tt)
			for _, i := range t.Filled {
				s.False(t.IsIgnored(i), "track %s index %d both filled and ignored", tt, i)
			}
		}
	}
}

func (s *ProgressTestSuite) TestClearProgressTrack() {
	s.character.ToggleProgressFilled(agency.TrackAnomaly, 1)
	s.True(s.character.ClearProgressTrack(agency.TrackAnomaly))

	s.Empty(s.track(agency.TrackAnomaly).Filled)
	s.Equal([]int{1}, s.track(agency.TrackFunctional).Ignored)
	s.False(s.character.ClearProgressTrack(agency.TrackAnomaly))
}

func (s *ProgressTestSuite) TestToggleCollapseSlot() {
	s.True(s.character.ToggleCollapseSlot(0))
	s.True(s.character.ToggleCollapseSlot(3))
	s.False(s.character.ToggleCollapseSlot(4))
	s.False(s.character.ToggleCollapseSlot(-1))
	s.Equal([]bool{true, false, false, true}, s.character.CollapseProgress.Slots)

	s.True(s.character.ToggleCollapseSlot(0))
	s.Equal([]bool{false, false, false, true}, s.character.CollapseProgress.Slots)
}

func TestProgressTestSuite(t *testing.T) {
	suite.Run(t, new(ProgressTestSuite))
}
