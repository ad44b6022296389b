// Package conversion provides centralized conversion logic between stored payloads
// (current or legacy JSON) and the agency.Character domain model.
package conversion

import (
	"encoding/json"
	stderrors "errors"
	"slices"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/KirkDiggler/agency-api/internal/entities/agency"
	"github.com/KirkDiggler/agency-api/internal/errors"
	"github.com/KirkDiggler/agency-api/internal/pkg/clock"
	"github.com/KirkDiggler/agency-api/internal/pkg/idgen"
)

// converter is the concrete implementation of Converter
type converter struct {
	clock       clock.Clock
	idGenerator idgen.Generator
}

// ConverterConfig holds the configuration for creating a converter
type ConverterConfig struct {
	Clock       clock.Clock
	IDGenerator idgen.Generator
}

// Validate ensures the configuration is valid
func (c *ConverterConfig) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}
	vb := errors.NewValidationBuilder()
	if c.Clock == nil {
		vb.RequiredField("clock")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("id_generator")
	}
	return vb.Build()
}

// NewConverter creates a new converter instance
func NewConverter(cfg *ConverterConfig) (Converter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid converter config")
	}

	return &converter{
		clock:       cfg.Clock,
		idGenerator: cfg.IDGenerator,
	}, nil
}

// IsValid implements Converter
func (c *converter) IsValid(raw map[string]any) bool {
	if raw == nil {
		return false
	}
	for _, key := range []string{"id", "version", "name"} {
		if _, ok := raw[key].(string); !ok {
			return false
		}
	}
	return true
}

// Migrate implements Converter
func (c *converter) Migrate(raw map[string]any) *agency.Character {
	version, _ := raw["version"].(string)
	if version == "" {
		version = agency.LegacyVersion
	}

	if strings.HasPrefix(version, "1.") {
		return c.migrateV1(raw)
	}

	out := agency.NewCharacter("", c.clock.Now())
	if data, err := json.Marshal(raw); err == nil {
		_ = decodeLenient(data, out)
	}
	out.Normalize()
	return out
}

// Decode implements Converter
func (c *converter) Decode(data []byte) (*agency.Character, error) {
	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "invalid JSON file")
	}

	raw, ok := parsed.(map[string]any)
	if !ok {
		return nil, errors.InvalidArgument("unrecognized character data")
	}

	if !c.IsValid(raw) {
		return c.Migrate(raw), nil
	}

	out := agency.NewCharacter("", c.clock.Now())
	if err := decodeLenient(data, out); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "invalid character data")
	}
	out.Normalize()
	return out, nil
}

// decodeLenient decodes over out. Fields of the wrong type are skipped by
// encoding/json and reported as an UnmarshalTypeError, which is not fatal here.
func decodeLenient(data []byte, out *agency.Character) error {
	err := json.Unmarshal(data, out)
	var typeErr *json.UnmarshalTypeError
	if stderrors.As(err, &typeErr) {
		return nil
	}
	return err
}

func (c *converter) migrateV1(raw map[string]any) *agency.Character {
	now := c.clock.Now()
	id, _ := raw["id"].(string)
	out := agency.NewCharacter(id, now)

	setIfString(raw, "pName", &out.Name)
	setIfString(raw, "pPronouns", &out.Pronouns)
	setIfString(raw, "pGenderPronoun", &out.GenderPronoun)
	setIfString(raw, "pPortrait", &out.Portrait)
	setIfString(raw, "pAnom", &out.AnomalyType)
	setIfString(raw, "pReal", &out.RealityType)
	setIfString(raw, "pFunc", &out.FunctionType)
	setIfString(raw, "perm1", &out.Permissions[0])
	setIfString(raw, "perm2", &out.Permissions[1])
	setIfString(raw, "perm3", &out.Permissions[2])

	if counts, ok := raw["permCounts"].([]any); ok {
		dst := []*int{&out.PermissionCounts.Perm1, &out.PermissionCounts.Perm2, &out.PermissionCounts.Perm3}
		for i, p := range dst {
			if i < len(counts) {
				if n, ok := toInt(counts[i]); ok {
					*p = max(n, 0)
				}
			}
		}
	}

	setIfNumber(raw, "pComm", &out.Commendations)
	setIfNumber(raw, "pRep", &out.Reprimands)
	setIfNumber(raw, "mvpCount", &out.MvpCount)
	setIfNumber(raw, "watchCount", &out.WatchCount)
	setIfNumber(raw, "anomSlots", &out.AnomalySlots)
	setIfNumber(raw, "realSlots", &out.RealitySlots)

	if attrs, ok := raw["attrs"].(map[string]any); ok {
		for _, name := range agency.AttributeNames {
			old, ok := attrs[string(name)].(map[string]any)
			if !ok {
				continue
			}
			v := agency.AttributeValue{Max: agency.DefaultAttributeMax}
			if n, ok := toInt(old["current"]); ok {
				v.Current = n
			}
			if n, ok := toInt(old["max"]); ok {
				v.Max = n
			}
			if b, ok := old["marked"].(bool); ok {
				v.Marked = b
			}
			v.Max = max(v.Max, 1)
			v.Current = max(0, min(v.Current, v.Max))
			out.Attributes[name] = v
		}
	}

	legacyTracks := []struct {
		track           agency.TrackType
		filled, ignored string
	}{
		{agency.TrackFunctional, "pf", "pf_ign"},
		{agency.TrackReality, "pr", "pr_ign"},
		{agency.TrackAnomaly, "pa", "pa_ign"},
	}
	for _, lt := range legacyTracks {
		filled, ignored := sanitizeTrack(raw[lt.filled], raw[lt.ignored])
		track := out.ProgressTracks.Track(lt.track)
		track.Filled = filled
		track.Ignored = ignored
	}

	if slots, ok := raw["collapseProgress"].([]any); ok {
		for i := 0; i < agency.CollapseSlotCount && i < len(slots); i++ {
			b, _ := slots[i].(bool)
			out.CollapseProgress.Slots[i] = b
		}
	}

	for _, entry := range objects(raw["anoms"]) {
		out.AddAnomaly(agency.Anomaly{
			ID:    c.idGenerator.Generate(),
			Name:  stringField(entry, "name"),
			Notes: stringField(entry, "notes"),
		})
	}
	for _, entry := range objects(raw["reals"]) {
		out.AddReality(agency.Reality{
			ID:    c.idGenerator.Generate(),
			Name:  stringField(entry, "name"),
			Notes: stringField(entry, "notes"),
		})
	}
	for _, entry := range objects(raw["items"]) {
		out.AddItem(agency.Item{
			ID:     c.idGenerator.Generate(),
			Name:   stringField(entry, "name"),
			Effect: stringField(entry, "effect"),
			Source: stringField(entry, "source"),
		})
	}

	if notes, ok := raw["notes"].([]any); ok {
		out.Notes = make([]string, len(notes))
		for i, n := range notes {
			out.Notes[i], _ = n.(string)
		}
	}

	if qs, ok := raw["qs"].(map[string]any); ok {
		for _, key := range agency.QuestionKeys {
			if v, ok := qs[key].(string); ok && v != "" {
				out.Questions[key] = v
			}
		}
	}

	out.Touch(now)
	out.Normalize()
	return out
}

// sanitizeTrack keeps in-range indices once each, in first-seen order. An index that
// is both filled and ignored stays filled.
func sanitizeTrack(filledRaw, ignoredRaw any) ([]int, []int) {
	filledSet := mapset.NewThreadUnsafeSet[int]()
	filled := []int{}
	for _, i := range indices(filledRaw) {
		if filledSet.Add(i) {
			filled = append(filled, i)
		}
	}

	ignoredSet := mapset.NewThreadUnsafeSet[int]()
	ignored := []int{}
	for _, i := range indices(ignoredRaw) {
		if filledSet.Contains(i) {
			continue
		}
		if ignoredSet.Add(i) {
			ignored = append(ignored, i)
		}
	}
	return filled, ignored
}

func indices(v any) []int {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]int, 0, len(list))
	for _, item := range list {
		n, ok := toInt(item)
		if ok && n >= 0 && n < agency.ProgressTrackSize {
			out = append(out, n)
		}
	}
	return slices.Clip(out)
}

func objects(v any) []map[string]any {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	default:
		return 0, false
	}
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func setIfString(raw map[string]any, key string, dst *string) {
	if s, ok := raw[key].(string); ok && s != "" {
		*dst = s
	}
}

func setIfNumber(raw map[string]any, key string, dst *int) {
	if n, ok := toInt(raw[key]); ok {
		*dst = n
	}
}
