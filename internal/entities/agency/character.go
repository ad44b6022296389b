// Package agency implements the Triangle Agency character sheet and its mutation rules.
//
// Every mutation method returns true when it changed the record. Referential misses
// (unknown ids, out-of-range indices, unknown names) are silent no-ops that return false,
// and out-of-range numeric input is clamped rather than rejected.
package agency

import (
	"encoding/json"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/core"
)

// EntityType is the core.Entity type of a character record
const EntityType = "agency_character"

var _ core.Entity = (*Character)(nil)

// PermissionCounts tracks how often each permission has been used
type PermissionCounts struct {
	Perm1 int `json:"perm1"`
	Perm2 int `json:"perm2"`
	Perm3 int `json:"perm3"`
}

func (p *PermissionCounts) slot(i int) *int {
	switch i {
	case 0:
		return &p.Perm1
	case 1:
		return &p.Perm2
	case 2:
		return &p.Perm3
	default:
		return nil
	}
}

// Character is the aggregate root: the unit of persistence, migration and sharing
type Character struct {
	ID        string `json:"id"`
	Version   string `json:"version"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`

	Name          string `json:"name"`
	Pronouns      string `json:"pronouns"`
	GenderPronoun string `json:"genderPronoun"`
	Portrait      string `json:"portrait"`

	AnomalyType  string `json:"anomalyType"`
	RealityType  string `json:"realityType"`
	FunctionType string `json:"functionType"`

	Permissions      []string         `json:"permissions"`
	PermissionCounts PermissionCounts `json:"permissionCounts"`
	Commendations    int              `json:"commendations"`
	Reprimands       int              `json:"reprimands"`
	MvpCount         int              `json:"mvpCount"`
	WatchCount       int              `json:"watchCount"`

	Attributes       Attributes       `json:"attributes"`
	ProgressTracks   ProgressTracks   `json:"progressTracks"`
	CollapseProgress CollapseProgress `json:"collapseProgress"`

	AnomalySlots int `json:"anomalySlots"`
	RealitySlots int `json:"realitySlots"`

	Anomalies            []Anomaly             `json:"anomalies"`
	Realities            []Reality             `json:"realities"`
	Relationships        []Relationship        `json:"relationships"`
	Items                []Item                `json:"items"`
	Notes                []string              `json:"notes"`
	CustomProgressTracks []CustomProgressTrack `json:"customProgressTracks"`

	Questions      map[string]string `json:"questions"`
	SelfAssessment map[string]int    `json:"selfAssessment,omitempty"`
}

// NewCharacter returns a record with every field at its default value
func NewCharacter(id string, now time.Time) *Character {
	stamp := FormatTimestamp(now)

	questions := make(map[string]string, len(QuestionKeys))
	for _, key := range QuestionKeys {
		questions[key] = ""
	}

	return &Character{
		ID:                   id,
		Version:              CurrentVersion,
		CreatedAt:            stamp,
		UpdatedAt:            stamp,
		Permissions:          make([]string, PermissionCount),
		Attributes:           DefaultAttributes(),
		ProgressTracks:       NewProgressTracks(),
		CollapseProgress:     NewCollapseProgress(),
		AnomalySlots:         1,
		RealitySlots:         1,
		Anomalies:            []Anomaly{},
		Realities:            []Reality{},
		Relationships:        []Relationship{},
		Items:                []Item{},
		Notes:                make([]string, DefaultNoteCount),
		CustomProgressTracks: []CustomProgressTrack{},
		Questions:            questions,
	}
}

// GetID implements core.Entity
func (c *Character) GetID() string {
	return c.ID
}

// GetType implements core.Entity
func (c *Character) GetType() string {
	return EntityType
}

// Touch stamps UpdatedAt
func (c *Character) Touch(now time.Time) {
	c.UpdatedAt = FormatTimestamp(now)
}

// Clone returns a deep copy of the record
func (c *Character) Clone() *Character {
	if c == nil {
		return nil
	}
	data, err := json.Marshal(c)
	if err != nil {
		// Every field is a plain JSON value; marshal cannot fail
		panic(err)
	}
	out := &Character{}
	if err := json.Unmarshal(data, out); err != nil {
		panic(err)
	}
	return out
}

// FormatTimestamp renders t the way records store timestamps
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp parses a stored timestamp
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(TimestampLayout, s)
}

// SetName sets the character name
func (c *Character) SetName(v string) bool {
	return setString(&c.Name, v)
}

// SetPronouns sets the pronouns field
func (c *Character) SetPronouns(v string) bool {
	return setString(&c.Pronouns, v)
}

// SetGenderPronoun sets the gender pronoun field
func (c *Character) SetGenderPronoun(v string) bool {
	return setString(&c.GenderPronoun, v)
}

// SetPortrait sets the portrait reference (URL or data URI)
func (c *Character) SetPortrait(v string) bool {
	return setString(&c.Portrait, v)
}

// SetAnomalyType sets the anomaly type; catalog or freeform
func (c *Character) SetAnomalyType(v string) bool {
	return setString(&c.AnomalyType, v)
}

// SetRealityType sets the reality type; catalog or freeform
func (c *Character) SetRealityType(v string) bool {
	return setString(&c.RealityType, v)
}

// SetPermission sets permission i in [0, 3)
func (c *Character) SetPermission(i int, v string) bool {
	if i < 0 || i >= len(c.Permissions) {
		return false
	}
	return setString(&c.Permissions[i], v)
}

// IncrementPermissionCount bumps the usage count of permission i
func (c *Character) IncrementPermissionCount(i int) bool {
	slot := c.PermissionCounts.slot(i)
	if slot == nil {
		return false
	}
	*slot++
	return true
}

// DecrementPermissionCount lowers the usage count of permission i, never below zero
func (c *Character) DecrementPermissionCount(i int) bool {
	slot := c.PermissionCounts.slot(i)
	if slot == nil || *slot <= 0 {
		return false
	}
	*slot--
	return true
}

// SetCommendations sets the commendation count, floored at zero
func (c *Character) SetCommendations(v int) bool {
	return setInt(&c.Commendations, max(v, 0))
}

// SetReprimands sets the reprimand count, floored at zero
func (c *Character) SetReprimands(v int) bool {
	return setInt(&c.Reprimands, max(v, 0))
}

// IncrementMvpCount bumps the MVP count
func (c *Character) IncrementMvpCount() bool {
	c.MvpCount++
	return true
}

// IncrementWatchCount bumps the watch count
func (c *Character) IncrementWatchCount() bool {
	c.WatchCount++
	return true
}

// SetQuestion sets one of the q1..q9 answers; other keys are ignored
func (c *Character) SetQuestion(key, v string) bool {
	known := false
	for _, k := range QuestionKeys {
		if k == key {
			known = true
			break
		}
	}
	if !known {
		return false
	}
	if c.Questions == nil {
		c.Questions = make(map[string]string, len(QuestionKeys))
	}
	if existing, ok := c.Questions[key]; ok && existing == v {
		return false
	}
	c.Questions[key] = v
	return true
}

func setString(dst *string, v string) bool {
	if *dst == v {
		return false
	}
	*dst = v
	return true
}

func setInt(dst *int, v int) bool {
	if *dst == v {
		return false
	}
	*dst = v
	return true
}
