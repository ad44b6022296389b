package agency

import "slices"

// ProgressTrack holds the filled and ignored cell indices of one track.
// Both lists keep insertion order and never share an index.
type ProgressTrack struct {
	Filled  []int `json:"filled"`
	Ignored []int `json:"ignored"`
}

// ProgressTracks groups the three tracks
type ProgressTracks struct {
	Functional ProgressTrack `json:"functional"`
	Reality    ProgressTrack `json:"reality"`
	Anomaly    ProgressTrack `json:"anomaly"`
}

// CollapseProgress is the fixed set of collapse slots
type CollapseProgress struct {
	Slots []bool `json:"slots"`
}

// NewProgressTracks returns three empty tracks
func NewProgressTracks() ProgressTracks {
	return ProgressTracks{
		Functional: ProgressTrack{Filled: []int{}, Ignored: []int{}},
		Reality:    ProgressTrack{Filled: []int{}, Ignored: []int{}},
		Anomaly:    ProgressTrack{Filled: []int{}, Ignored: []int{}},
	}
}

// NewCollapseProgress returns all slots cleared
func NewCollapseProgress() CollapseProgress {
	return CollapseProgress{Slots: make([]bool, CollapseSlotCount)}
}

// Track returns the named track, or nil for an unknown name
func (p *ProgressTracks) Track(t TrackType) *ProgressTrack {
	switch t {
	case TrackFunctional:
		return &p.Functional
	case TrackReality:
		return &p.Reality
	case TrackAnomaly:
		return &p.Anomaly
	default:
		return nil
	}
}

// IsFilled reports whether cell i is filled
func (t *ProgressTrack) IsFilled(i int) bool {
	return slices.Contains(t.Filled, i)
}

// IsIgnored reports whether cell i is ignored
func (t *ProgressTrack) IsIgnored(i int) bool {
	return slices.Contains(t.Ignored, i)
}

// State returns the cell's state name: "filled", "ignored" or "empty"
func (t *ProgressTrack) State(i int) string {
	switch {
	case t.IsFilled(i):
		return "filled"
	case t.IsIgnored(i):
		return "ignored"
	default:
		return "empty"
	}
}

// ToggleProgressFilled toggles cell i of the given track.
//
// Filling a cell also marks the same index ignored on each other track where that
// cell is still empty. Unfilling never cascades.
func (c *Character) ToggleProgressFilled(track TrackType, i int) bool {
	target := c.ProgressTracks.Track(track)
	if target == nil || !inTrack(i) {
		return false
	}

	if target.IsFilled(i) {
		target.Filled = removeIndex(target.Filled, i)
		return true
	}

	target.Ignored = removeIndex(target.Ignored, i)
	target.Filled = append(target.Filled, i)

	for _, other := range TrackTypes {
		if other == track {
			continue
		}
		t := c.ProgressTracks.Track(other)
		if !t.IsFilled(i) && !t.IsIgnored(i) {
			t.Ignored = append(t.Ignored, i)
		}
	}
	return true
}

// ToggleProgressIgnored toggles the ignored mark on cell i. Filled cells are left alone.
func (c *Character) ToggleProgressIgnored(track TrackType, i int) bool {
	target := c.ProgressTracks.Track(track)
	if target == nil || !inTrack(i) {
		return false
	}

	if target.IsIgnored(i) {
		target.Ignored = removeIndex(target.Ignored, i)
		return true
	}
	if target.IsFilled(i) {
		return false
	}
	target.Ignored = append(target.Ignored, i)
	return true
}

// ClearProgressTrack empties one track
func (c *Character) ClearProgressTrack(track TrackType) bool {
	target := c.ProgressTracks.Track(track)
	if target == nil {
		return false
	}
	if len(target.Filled) == 0 && len(target.Ignored) == 0 {
		return false
	}
	target.Filled = []int{}
	target.Ignored = []int{}
	return true
}

// ToggleCollapseSlot flips slot i in [0, 4)
func (c *Character) ToggleCollapseSlot(i int) bool {
	if i < 0 || i >= CollapseSlotCount || i >= len(c.CollapseProgress.Slots) {
		return false
	}
	c.CollapseProgress.Slots[i] = !c.CollapseProgress.Slots[i]
	return true
}

func inTrack(i int) bool {
	return i >= 0 && i < ProgressTrackSize
}

func removeIndex(list []int, i int) []int {
	return slices.DeleteFunc(list, func(v int) bool { return v == i })
}
