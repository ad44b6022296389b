package agency

// Normalize repairs structural invariants on a decoded record: all nine attributes
// present with max >= 1 and current within [0, max], three permissions, four collapse slots,
// slot counts of at least one, at least one note, and non-nil lists. A record built by
// NewCharacter and changed only through mutation methods is already normal.
func (c *Character) Normalize() {
	if c.Attributes == nil {
		c.Attributes = DefaultAttributes()
	}
	for _, name := range AttributeNames {
		attr, ok := c.Attributes[name]
		if !ok {
			c.Attributes[name] = AttributeValue{Max: DefaultAttributeMax}
			continue
		}
		attr.Max = max(attr.Max, 1)
		attr.Current = clamp(attr.Current, 0, attr.Max)
		c.Attributes[name] = attr
	}

	c.Permissions = resize(c.Permissions, PermissionCount, "")
	c.CollapseProgress.Slots = resize(c.CollapseProgress.Slots, CollapseSlotCount, false)

	c.PermissionCounts.Perm1 = max(c.PermissionCounts.Perm1, 0)
	c.PermissionCounts.Perm2 = max(c.PermissionCounts.Perm2, 0)
	c.PermissionCounts.Perm3 = max(c.PermissionCounts.Perm3, 0)
	c.Commendations = max(c.Commendations, 0)
	c.Reprimands = max(c.Reprimands, 0)
	c.AnomalySlots = max(c.AnomalySlots, 1)
	c.RealitySlots = max(c.RealitySlots, 1)

	for _, t := range TrackTypes {
		track := c.ProgressTracks.Track(t)
		track.Filled = nonNil(track.Filled)
		track.Ignored = nonNil(track.Ignored)
	}

	c.Anomalies = nonNil(c.Anomalies)
	c.Realities = nonNil(c.Realities)
	c.Relationships = nonNil(c.Relationships)
	c.Items = nonNil(c.Items)
	c.CustomProgressTracks = nonNil(c.CustomProgressTracks)
	for i := range c.CustomProgressTracks {
		c.CustomProgressTracks[i].Max = max(c.CustomProgressTracks[i].Max, 1)
		c.CustomProgressTracks[i].Filled = nonNil(c.CustomProgressTracks[i].Filled)
	}

	if len(c.Notes) == 0 {
		c.Notes = []string{""}
	}

	if c.Questions == nil {
		c.Questions = make(map[string]string, len(QuestionKeys))
	}
	for _, key := range QuestionKeys {
		if _, ok := c.Questions[key]; !ok {
			c.Questions[key] = ""
		}
	}
	if len(c.SelfAssessment) == 0 {
		c.SelfAssessment = nil
	}
}

func resize[T any](list []T, n int, zero T) []T {
	if len(list) > n {
		return list[:n]
	}
	for len(list) < n {
		list = append(list, zero)
	}
	return list
}

func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}
