package agency

import "slices"

// AnomalyAbility is a catalog ability copied onto a character's anomaly
type AnomalyAbility struct {
	Name       string `json:"name"`
	Trigger    string `json:"trig"`
	Qualifier  string `json:"qual"`
	Success    string `json:"succ"`
	Failure    string `json:"fail"`
	Branch     string `json:"tdesc,omitempty"`
	Branch1    string `json:"t1,omitempty"`
	Branch2    string `json:"t2,omitempty"`
	Branch1Tag string `json:"t1v,omitempty"`
	Branch2Tag string `json:"t2v,omitempty"`
}

// Anomaly is an anomaly ability slot on the sheet
type Anomaly struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Notes     string           `json:"notes"`
	Abilities []AnomalyAbility `json:"abilities,omitempty"`
}

// AnomalyPatch updates an anomaly; nil fields are left unchanged
type AnomalyPatch struct {
	Name      *string           `json:"name,omitempty"`
	Notes     *string           `json:"notes,omitempty"`
	Abilities *[]AnomalyAbility `json:"abilities,omitempty"`
}

// Reality is a reality trigger slot on the sheet
type Reality struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Notes string `json:"notes"`
}

// RealityPatch updates a reality; nil fields are left unchanged
type RealityPatch struct {
	Name  *string `json:"name,omitempty"`
	Notes *string `json:"notes,omitempty"`
}

// Relationship is a bond with another person
type Relationship struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Type              string `json:"type"`
	Description       string `json:"description"`
	BondValue         int    `json:"bondValue"`
	BonusIndex        *int   `json:"bonusIndex,omitempty"`
	CustomBonusName   string `json:"customBonusName,omitempty"`
	CustomBonusEffect string `json:"customBonusEffect,omitempty"`
}

// HasCustomBonus reports whether the relationship uses a player-written bonus
func (r *Relationship) HasCustomBonus() bool {
	return r.BonusIndex != nil && *r.BonusIndex == CustomBonusIndex
}

// RelationshipPatch updates a relationship; nil fields are left unchanged.
// ClearBonus removes the bonus selection and wins over BonusIndex.
type RelationshipPatch struct {
	Name              *string `json:"name,omitempty"`
	Type              *string `json:"type,omitempty"`
	Description       *string `json:"description,omitempty"`
	BondValue         *int    `json:"bondValue,omitempty"`
	BonusIndex        *int    `json:"bonusIndex,omitempty"`
	ClearBonus        bool    `json:"clearBonus,omitempty"`
	CustomBonusName   *string `json:"customBonusName,omitempty"`
	CustomBonusEffect *string `json:"customBonusEffect,omitempty"`
}

// Item is an inventory entry
type Item struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Effect         string `json:"effect"`
	Source         string `json:"source,omitempty"`
	IsFromFunction bool   `json:"isFromFunction"`
}

// ItemPatch updates an item; nil fields are left unchanged
type ItemPatch struct {
	Name           *string `json:"name,omitempty"`
	Effect         *string `json:"effect,omitempty"`
	Source         *string `json:"source,omitempty"`
	IsFromFunction *bool   `json:"isFromFunction,omitempty"`
}

// CustomProgressTrack is a player-defined tick track
type CustomProgressTrack struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Color  string `json:"color"`
	Max    int    `json:"max"`
	Filled []int  `json:"filled"`
}

// CustomTrackPatch updates a custom track; nil fields are left unchanged
type CustomTrackPatch struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
	Max   *int    `json:"max,omitempty"`
}

// AddAnomaly appends an anomaly and returns its id
func (c *Character) AddAnomaly(a Anomaly) string {
	c.Anomalies = append(c.Anomalies, a)
	return a.ID
}

// UpdateAnomaly applies a patch to the anomaly with the given id
func (c *Character) UpdateAnomaly(id string, patch AnomalyPatch) bool {
	i := slices.IndexFunc(c.Anomalies, func(a Anomaly) bool { return a.ID == id })
	if i < 0 {
		return false
	}
	a := &c.Anomalies[i]
	if patch.Name != nil {
		a.Name = *patch.Name
	}
	if patch.Notes != nil {
		a.Notes = *patch.Notes
	}
	if patch.Abilities != nil {
		a.Abilities = slices.Clone(*patch.Abilities)
	}
	return true
}

// RemoveAnomaly deletes the anomaly with the given id
func (c *Character) RemoveAnomaly(id string) bool {
	n := len(c.Anomalies)
	c.Anomalies = slices.DeleteFunc(c.Anomalies, func(a Anomaly) bool { return a.ID == id })
	return len(c.Anomalies) != n
}

// AddReality appends a reality and returns its id
func (c *Character) AddReality(r Reality) string {
	c.Realities = append(c.Realities, r)
	return r.ID
}

// UpdateReality applies a patch to the reality with the given id
func (c *Character) UpdateReality(id string, patch RealityPatch) bool {
	i := slices.IndexFunc(c.Realities, func(r Reality) bool { return r.ID == id })
	if i < 0 {
		return false
	}
	r := &c.Realities[i]
	if patch.Name != nil {
		r.Name = *patch.Name
	}
	if patch.Notes != nil {
		r.Notes = *patch.Notes
	}
	return true
}

// RemoveReality deletes the reality with the given id
func (c *Character) RemoveReality(id string) bool {
	n := len(c.Realities)
	c.Realities = slices.DeleteFunc(c.Realities, func(r Reality) bool { return r.ID == id })
	return len(c.Realities) != n
}

// NewRelationship returns a relationship with the default type and no bonus
func NewRelationship(id string) Relationship {
	return Relationship{ID: id, Type: DefaultRelationshipType}
}

// AddRelationship appends a relationship and returns its id
func (c *Character) AddRelationship(r Relationship) string {
	if r.Type == "" {
		r.Type = DefaultRelationshipType
	}
	c.Relationships = append(c.Relationships, r)
	return r.ID
}

// UpdateRelationship applies a patch to the relationship with the given id
func (c *Character) UpdateRelationship(id string, patch RelationshipPatch) bool {
	i := slices.IndexFunc(c.Relationships, func(r Relationship) bool { return r.ID == id })
	if i < 0 {
		return false
	}
	r := &c.Relationships[i]
	if patch.Name != nil {
		r.Name = *patch.Name
	}
	if patch.Type != nil {
		r.Type = *patch.Type
	}
	if patch.Description != nil {
		r.Description = *patch.Description
	}
	if patch.BondValue != nil {
		r.BondValue = *patch.BondValue
	}
	if patch.BonusIndex != nil {
		idx := *patch.BonusIndex
		r.BonusIndex = &idx
	}
	if patch.ClearBonus {
		r.BonusIndex = nil
	}
	if patch.CustomBonusName != nil {
		r.CustomBonusName = *patch.CustomBonusName
	}
	if patch.CustomBonusEffect != nil {
		r.CustomBonusEffect = *patch.CustomBonusEffect
	}
	return true
}

// RemoveRelationship deletes the relationship with the given id
func (c *Character) RemoveRelationship(id string) bool {
	n := len(c.Relationships)
	c.Relationships = slices.DeleteFunc(c.Relationships, func(r Relationship) bool { return r.ID == id })
	return len(c.Relationships) != n
}

// AddItem appends an item and returns its id
func (c *Character) AddItem(item Item) string {
	c.Items = append(c.Items, item)
	return item.ID
}

// UpdateItem applies a patch to the item with the given id
func (c *Character) UpdateItem(id string, patch ItemPatch) bool {
	i := slices.IndexFunc(c.Items, func(it Item) bool { return it.ID == id })
	if i < 0 {
		return false
	}
	it := &c.Items[i]
	if patch.Name != nil {
		it.Name = *patch.Name
	}
	if patch.Effect != nil {
		it.Effect = *patch.Effect
	}
	if patch.Source != nil {
		it.Source = *patch.Source
	}
	if patch.IsFromFunction != nil {
		it.IsFromFunction = *patch.IsFromFunction
	}
	return true
}

// RemoveItem deletes the item with the given id
func (c *Character) RemoveItem(id string) bool {
	n := len(c.Items)
	c.Items = slices.DeleteFunc(c.Items, func(it Item) bool { return it.ID == id })
	return len(c.Items) != n
}

// SetNote sets note i; out-of-range indices are ignored
func (c *Character) SetNote(i int, v string) bool {
	if i < 0 || i >= len(c.Notes) {
		return false
	}
	return setString(&c.Notes[i], v)
}

// AddNote appends an empty note
func (c *Character) AddNote() bool {
	c.Notes = append(c.Notes, "")
	return true
}

// RemoveNote deletes note i, always leaving at least one note
func (c *Character) RemoveNote(i int) bool {
	if len(c.Notes) <= 1 || i < 0 || i >= len(c.Notes) {
		return false
	}
	c.Notes = slices.Delete(c.Notes, i, i+1)
	return true
}

// SetAnomalySlots sets the anomaly slot count, floored at 1
func (c *Character) SetAnomalySlots(n int) bool {
	return setInt(&c.AnomalySlots, max(n, 1))
}

// SetRealitySlots sets the reality slot count, floored at 1
func (c *Character) SetRealitySlots(n int) bool {
	return setInt(&c.RealitySlots, max(n, 1))
}

// AddCustomTrack appends a custom track and returns its id
func (c *Character) AddCustomTrack(t CustomProgressTrack) string {
	t.Max = max(t.Max, 1)
	if t.Filled == nil {
		t.Filled = []int{}
	}
	c.CustomProgressTracks = append(c.CustomProgressTracks, t)
	return t.ID
}

// UpdateCustomTrack applies a patch to the custom track with the given id.
// Shrinking max drops filled cells that no longer fit.
func (c *Character) UpdateCustomTrack(id string, patch CustomTrackPatch) bool {
	i := slices.IndexFunc(c.CustomProgressTracks, func(t CustomProgressTrack) bool { return t.ID == id })
	if i < 0 {
		return false
	}
	t := &c.CustomProgressTracks[i]
	if patch.Name != nil {
		t.Name = *patch.Name
	}
	if patch.Color != nil {
		t.Color = *patch.Color
	}
	if patch.Max != nil {
		t.Max = max(*patch.Max, 1)
		t.Filled = slices.DeleteFunc(t.Filled, func(v int) bool { return v >= t.Max })
	}
	return true
}

// RemoveCustomTrack deletes the custom track with the given id
func (c *Character) RemoveCustomTrack(id string) bool {
	n := len(c.CustomProgressTracks)
	c.CustomProgressTracks = slices.DeleteFunc(c.CustomProgressTracks, func(t CustomProgressTrack) bool {
		return t.ID == id
	})
	return len(c.CustomProgressTracks) != n
}

// ToggleCustomTrackCell flips cell i of a custom track
func (c *Character) ToggleCustomTrackCell(id string, i int) bool {
	idx := slices.IndexFunc(c.CustomProgressTracks, func(t CustomProgressTrack) bool { return t.ID == id })
	if idx < 0 {
		return false
	}
	t := &c.CustomProgressTracks[idx]
	if i < 0 || i >= t.Max {
		return false
	}
	if slices.Contains(t.Filled, i) {
		t.Filled = removeIndex(t.Filled, i)
	} else {
		t.Filled = append(t.Filled, i)
	}
	return true
}
