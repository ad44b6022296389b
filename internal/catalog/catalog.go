// Package catalog holds the static game data offered to characters: anomaly types,
// reality types, function types with their grants and hiring questionnaires, and the
// relationship bonus list.
package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/agency-api/internal/entities/agency"
	"github.com/KirkDiggler/agency-api/internal/errors"
)

//go:embed data/*.yaml
var embeddedFS embed.FS

// Ability is one anomaly ability as listed in the catalog
type Ability struct {
	Name       string `yaml:"name" json:"name"`
	Trigger    string `yaml:"trig" json:"trig"`
	Qualifier  string `yaml:"qual" json:"qual"`
	Success    string `yaml:"succ" json:"succ"`
	Failure    string `yaml:"fail" json:"fail"`
	Branch     string `yaml:"tdesc,omitempty" json:"tdesc,omitempty"`
	Branch1    string `yaml:"t1,omitempty" json:"t1,omitempty"`
	Branch2    string `yaml:"t2,omitempty" json:"t2,omitempty"`
	Branch1Tag string `yaml:"t1v,omitempty" json:"t1v,omitempty"`
	Branch2Tag string `yaml:"t2v,omitempty" json:"t2v,omitempty"`
}

// Anomaly is an anomaly type and its abilities
type Anomaly struct {
	Name      string    `yaml:"name" json:"name"`
	Abilities []Ability `yaml:"abilities" json:"abilities"`
}

// CharacterAbilities converts the abilities for storage on a character
func (a *Anomaly) CharacterAbilities() []agency.AnomalyAbility {
	out := make([]agency.AnomalyAbility, len(a.Abilities))
	for i, ab := range a.Abilities {
		out[i] = agency.AnomalyAbility(ab)
	}
	return out
}

// Reality is a reality type with its trigger and overload
type Reality struct {
	Name     string `yaml:"name" json:"name"`
	Trigger  string `yaml:"trigger" json:"trigger"`
	Overload string `yaml:"overload" json:"overload"`
}

// FunctionItem is an item granted by a function type
type FunctionItem struct {
	Item   string `yaml:"item" json:"item"`
	Effect string `yaml:"eff" json:"eff"`
}

// Option is one answer of a self-assessment question.
// Attribute is empty when the answer grants nothing.
type Option struct {
	Text      string `yaml:"text" json:"text"`
	Attribute string `yaml:"attr,omitempty" json:"attr,omitempty"`
}

// Question is a self-assessment question with a stable id
type Question struct {
	ID       string   `yaml:"id" json:"id"`
	Question string   `yaml:"question" json:"question"`
	Options  []Option `yaml:"options" json:"options"`
}

// AssessmentOptions converts the options for scoring
func (q *Question) AssessmentOptions() []agency.AssessmentOption {
	out := make([]agency.AssessmentOption, len(q.Options))
	for i, o := range q.Options {
		out[i] = agency.AssessmentOption{Text: o.Text, Attribute: agency.AttributeName(o.Attribute)}
	}
	return out
}

// Function is a function type (job) at the agency
type Function struct {
	Name           string         `yaml:"name" json:"name"`
	Directive      string         `yaml:"directive" json:"directive"`
	Perms          []string       `yaml:"perms" json:"perms"`
	Items          []FunctionItem `yaml:"items" json:"items"`
	SelfAssessment []Question     `yaml:"selfAssessment,omitempty" json:"selfAssessment,omitempty"`

	// SelfAssessmentText is the questionnaire in its authoring format, parsed at load
	SelfAssessmentText string `yaml:"selfAssessmentText,omitempty" json:"-"`
}

// Grant returns what choosing this function hands out
func (f *Function) Grant() *agency.FunctionGrant {
	grant := &agency.FunctionGrant{Permissions: slices.Clone(f.Perms)}
	for _, it := range f.Items {
		grant.Items = append(grant.Items, agency.GrantedItem{Name: it.Item, Effect: it.Effect})
	}
	return grant
}

// FindQuestion looks up a self-assessment question by id
func (f *Function) FindQuestion(id string) (*Question, bool) {
	for i := range f.SelfAssessment {
		if f.SelfAssessment[i].ID == id {
			return &f.SelfAssessment[i], true
		}
	}
	return nil, false
}

// Catalog is the full set of static game data
type Catalog struct {
	Anomalies         []Anomaly  `yaml:"anomalies" json:"anomalies"`
	Realities         []Reality  `yaml:"realities" json:"realities"`
	Functions         []Function `yaml:"functions" json:"functions"`
	Bonuses           []string   `yaml:"bonuses" json:"bonuses"`
	RelationshipTypes []string   `yaml:"relationshipTypes,omitempty" json:"relationshipTypes"`
}

// Load parses the catalog embedded in the binary
func Load() (*Catalog, error) {
	sub, err := fs.Sub(embeddedFS, "data")
	if err != nil {
		return nil, errors.Wrap(err, "failed to open embedded catalog")
	}
	return LoadFromFS(sub)
}

// LoadFromFS parses every *.yaml file at the root of fsys into one catalog
func LoadFromFS(fsys fs.FS) (*Catalog, error) {
	paths, err := fs.Glob(fsys, "*.yaml")
	if err != nil {
		return nil, errors.Wrap(err, "failed to list catalog files")
	}
	if len(paths) == 0 {
		return nil, errors.Internal("catalog has no data files")
	}
	slices.Sort(paths)

	cat := &Catalog{}
	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", path)
		}
		if err := yaml.Unmarshal(data, cat); err != nil {
			return nil, errors.Wrapf(err, "failed to parse %s", path)
		}
	}

	if err := cat.prepare(); err != nil {
		return nil, err
	}
	return cat, nil
}

// Parse builds a catalog from a single YAML document
func Parse(data []byte) (*Catalog, error) {
	cat := &Catalog{}
	if err := yaml.Unmarshal(data, cat); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse catalog")
	}
	if err := cat.prepare(); err != nil {
		return nil, err
	}
	return cat, nil
}

func (c *Catalog) prepare() error {
	if len(c.RelationshipTypes) == 0 {
		c.RelationshipTypes = slices.Clone(agency.RelationshipTypes)
	}

	vb := errors.NewValidationBuilder()
	checkUnique("anomalies", names(c.Anomalies, func(a Anomaly) string { return a.Name }), vb)
	checkUnique("realities", names(c.Realities, func(r Reality) string { return r.Name }), vb)
	checkUnique("functions", names(c.Functions, func(f Function) string { return f.Name }), vb)

	seenQuestions := make(map[string]bool)
	for i := range c.Functions {
		fn := &c.Functions[i]
		if len(fn.SelfAssessment) == 0 && fn.SelfAssessmentText != "" {
			fn.SelfAssessment = ParseSelfAssessment(fn.SelfAssessmentText)
		}
		for qi := range fn.SelfAssessment {
			q := &fn.SelfAssessment[qi]
			if q.ID == "" {
				q.ID = fmt.Sprintf("%s-%d", fn.Name, qi+1)
			}
			if seenQuestions[q.ID] {
				vb.Fieldf("functions", "duplicate question id %q", q.ID)
			}
			seenQuestions[q.ID] = true
			for _, o := range q.Options {
				if o.Attribute != "" && !agency.AttributeName(o.Attribute).IsValid() {
					vb.Fieldf("functions", "question %q uses unknown attribute %q", q.ID, o.Attribute)
				}
			}
		}
	}
	return vb.Build()
}

func names[T any](list []T, name func(T) string) []string {
	out := make([]string, len(list))
	for i, v := range list {
		out[i] = name(v)
	}
	return out
}

func checkUnique(field string, list []string, vb *errors.ValidationBuilder) {
	seen := make(map[string]bool, len(list))
	for _, n := range list {
		if strings.TrimSpace(n) == "" {
			vb.Field(field, "entry without a name")
			continue
		}
		if seen[n] {
			vb.Fieldf(field, "duplicate name %q", n)
		}
		seen[n] = true
	}
}

// FindAnomaly looks up an anomaly type by name
func (c *Catalog) FindAnomaly(name string) (*Anomaly, bool) {
	i := slices.IndexFunc(c.Anomalies, func(a Anomaly) bool { return a.Name == name })
	if i < 0 {
		return nil, false
	}
	return &c.Anomalies[i], true
}

// FindReality looks up a reality type by name
func (c *Catalog) FindReality(name string) (*Reality, bool) {
	i := slices.IndexFunc(c.Realities, func(r Reality) bool { return r.Name == name })
	if i < 0 {
		return nil, false
	}
	return &c.Realities[i], true
}

// FindFunction looks up a function type by name
func (c *Catalog) FindFunction(name string) (*Function, bool) {
	i := slices.IndexFunc(c.Functions, func(f Function) bool { return f.Name == name })
	if i < 0 {
		return nil, false
	}
	return &c.Functions[i], true
}

// AnomalyNames lists anomaly type names in catalog order
func (c *Catalog) AnomalyNames() []string {
	return names(c.Anomalies, func(a Anomaly) string { return a.Name })
}

// RealityNames lists reality type names in catalog order
func (c *Catalog) RealityNames() []string {
	return names(c.Realities, func(r Reality) string { return r.Name })
}

// FunctionNames lists function type names in catalog order
func (c *Catalog) FunctionNames() []string {
	return names(c.Functions, func(f Function) string { return f.Name })
}
