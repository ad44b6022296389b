package agency

// AttributeValue is a single gauge on the sheet
type AttributeValue struct {
	Current int  `json:"current"`
	Max     int  `json:"max"`
	Marked  bool `json:"marked"`
}

// Attributes maps every attribute name to its gauge
type Attributes map[AttributeName]AttributeValue

// DefaultAttributes returns all nine attributes at {0, 3, false}
func DefaultAttributes() Attributes {
	attrs := make(Attributes, len(AttributeNames))
	for _, name := range AttributeNames {
		attrs[name] = AttributeValue{Max: DefaultAttributeMax}
	}
	return attrs
}

// SetAttributeCurrent sets current clamped to [0, max]
func (c *Character) SetAttributeCurrent(name AttributeName, v int) bool {
	attr, ok := c.Attributes[name]
	if !ok {
		return false
	}
	v = clamp(v, 0, attr.Max)
	if attr.Current == v {
		return false
	}
	attr.Current = v
	c.Attributes[name] = attr
	return true
}

// SetAttributeMax sets max floored at 1 and lowers current when it no longer fits
func (c *Character) SetAttributeMax(name AttributeName, v int) bool {
	attr, ok := c.Attributes[name]
	if !ok {
		return false
	}
	v = max(v, 1)
	if attr.Max == v {
		return false
	}
	attr.Max = v
	attr.Current = min(attr.Current, v)
	c.Attributes[name] = attr
	return true
}

// ToggleAttributeMarked flips the marked flag
func (c *Character) ToggleAttributeMarked(name AttributeName) bool {
	attr, ok := c.Attributes[name]
	if !ok {
		return false
	}
	attr.Marked = !attr.Marked
	c.Attributes[name] = attr
	return true
}

// adjustAttributeCurrent moves current by delta with a floor of zero and no upper bound.
// Self-assessment bonuses use this so that reversing a choice restores the prior value.
func (c *Character) adjustAttributeCurrent(name AttributeName, delta int) bool {
	attr, ok := c.Attributes[name]
	if !ok {
		return false
	}
	attr.Current = max(attr.Current+delta, 0)
	c.Attributes[name] = attr
	return true
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
