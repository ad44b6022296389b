package catalog

import (
	"fmt"
	"slices"
	"strings"
)

// Kind names a catalog list that character fields may reference
type Kind string

// Catalog kinds
const (
	KindAnomaly  Kind = "anomaly"
	KindReality  Kind = "reality"
	KindFunction Kind = "function"
)

// Selection is a stored type name resolved against the catalog.
// Values not in the catalog are freeform text entered by the player.
type Selection struct {
	Value    string `json:"value"`
	Custom   bool   `json:"custom"`
	Resolved bool   `json:"resolved"`
}

// Classify resolves a stored value. Empty values are neither custom nor resolved.
func (c *Catalog) Classify(kind Kind, value string) Selection {
	sel := Selection{Value: value}
	if value == "" {
		return sel
	}

	var known []string
	switch kind {
	case KindAnomaly:
		known = c.AnomalyNames()
	case KindReality:
		known = c.RealityNames()
	case KindFunction:
		known = c.FunctionNames()
	}

	if slices.Contains(known, value) {
		sel.Resolved = true
	} else {
		sel.Custom = true
	}
	return sel
}

// BonusOption is a relationship bonus offered in a picker
type BonusOption struct {
	Value       int    `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// BonusOptions labels each bonus with the text before its full-width colon
func (c *Catalog) BonusOptions() []BonusOption {
	out := make([]BonusOption, len(c.Bonuses))
	for i, bonus := range c.Bonuses {
		label := fmt.Sprintf("奖励 %d", i+1)
		if idx := strings.Index(bonus, "："); idx > 0 {
			label = bonus[:idx]
		}
		out[i] = BonusOption{Value: i, Label: label, Description: bonus}
	}
	return out
}

// BonusLabel returns the label of bonus i, or "" when out of range
func (c *Catalog) BonusLabel(i int) string {
	opts := c.BonusOptions()
	if i < 0 || i >= len(opts) {
		return ""
	}
	return opts[i].Label
}
