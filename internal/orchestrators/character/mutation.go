package character

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/agency-api/internal/entities/agency"
	"github.com/KirkDiggler/agency-api/internal/errors"
)

// Op names a single edit to a character record
type Op string

// Identity
const (
	OpSetName          Op = "set_name"
	OpSetPronouns      Op = "set_pronouns"
	OpSetGenderPronoun Op = "set_gender_pronoun"
	OpSetPortrait      Op = "set_portrait"
	OpSetAnomalyType   Op = "set_anomaly_type"
	OpSetRealityType   Op = "set_reality_type"
	OpSetFunctionType  Op = "set_function_type"
)

// Permissions and counters
const (
	OpSetPermission            Op = "set_permission"
	OpIncrementPermissionCount Op = "increment_permission_count"
	OpDecrementPermissionCount Op = "decrement_permission_count"
	OpSetCommendations         Op = "set_commendations"
	OpSetReprimands            Op = "set_reprimands"
	OpIncrementMvpCount        Op = "increment_mvp_count"
	OpIncrementWatchCount      Op = "increment_watch_count"
)

// Attributes and tracks
const (
	OpSetAttributeCurrent   Op = "set_attribute_current"
	OpSetAttributeMax       Op = "set_attribute_max"
	OpToggleAttributeMarked Op = "toggle_attribute_marked"
	OpToggleProgressFilled  Op = "toggle_progress_filled"
	OpToggleProgressIgnored Op = "toggle_progress_ignored"
	OpClearProgressTrack    Op = "clear_progress_track"
	OpToggleCollapseSlot    Op = "toggle_collapse_slot"
)

// Lists
const (
	OpAddAnomaly            Op = "add_anomaly"
	OpUpdateAnomaly         Op = "update_anomaly"
	OpRemoveAnomaly         Op = "remove_anomaly"
	OpSetAnomalySlots       Op = "set_anomaly_slots"
	OpAddReality            Op = "add_reality"
	OpUpdateReality         Op = "update_reality"
	OpRemoveReality         Op = "remove_reality"
	OpSetRealitySlots       Op = "set_reality_slots"
	OpAddRelationship       Op = "add_relationship"
	OpUpdateRelationship    Op = "update_relationship"
	OpRemoveRelationship    Op = "remove_relationship"
	OpAddItem               Op = "add_item"
	OpUpdateItem            Op = "update_item"
	OpRemoveItem            Op = "remove_item"
	OpAddCustomTrack        Op = "add_custom_track"
	OpUpdateCustomTrack     Op = "update_custom_track"
	OpRemoveCustomTrack     Op = "remove_custom_track"
	OpToggleCustomTrackCell Op = "toggle_custom_track_cell"
	OpSetNote               Op = "set_note"
	OpAddNote               Op = "add_note"
	OpRemoveNote            Op = "remove_note"
)

// Questionnaire
const (
	OpSetQuestion          Op = "set_question"
	OpSelectSelfAssessment Op = "select_self_assessment"
)

// Mutation is one edit. Only the fields the op reads need to be set:
//
//	Value        set_name, set_pronouns, set_gender_pronoun, set_portrait,
//	             set_anomaly_type, set_reality_type, set_function_type,
//	             set_permission, set_note, set_question
//	Number       set_commendations, set_reprimands, set_attribute_current,
//	             set_attribute_max, set_anomaly_slots, set_reality_slots
//	Index        permission ops, progress ops, collapse slot, notes,
//	             toggle_custom_track_cell, select_self_assessment (option)
//	Attribute    attribute ops
//	Track        progress ops
//	Key          set_question (q1..q9), select_self_assessment (question id)
//	TargetID     update_* and remove_* ops, toggle_custom_track_cell
//	Anomaly, Reality, Relationship, Item, CustomTrack   add_* ops (optional)
//	*Patch       update_* ops
type Mutation struct {
	Op            Op                   `json:"op"`
	Value         string               `json:"value,omitempty"`
	Number        int                  `json:"number,omitempty"`
	Index         int                  `json:"index,omitempty"`
	Attribute     agency.AttributeName `json:"attribute,omitempty"`
	Track         agency.TrackType     `json:"track,omitempty"`
	Key           string               `json:"key,omitempty"`
	TargetID      string               `json:"targetId,omitempty"`
	ApplyDefaults *bool                `json:"applyDefaults,omitempty"`

	Anomaly      *agency.Anomaly             `json:"anomaly,omitempty"`
	Reality      *agency.Reality             `json:"reality,omitempty"`
	Relationship *agency.Relationship        `json:"relationship,omitempty"`
	Item         *agency.Item                `json:"item,omitempty"`
	CustomTrack  *agency.CustomProgressTrack `json:"customTrack,omitempty"`

	AnomalyPatch      *agency.AnomalyPatch      `json:"anomalyPatch,omitempty"`
	RealityPatch      *agency.RealityPatch      `json:"realityPatch,omitempty"`
	RelationshipPatch *agency.RelationshipPatch `json:"relationshipPatch,omitempty"`
	ItemPatch         *agency.ItemPatch         `json:"itemPatch,omitempty"`
	CustomTrackPatch  *agency.CustomTrackPatch  `json:"customTrackPatch,omitempty"`
}

// applyDefaults reports whether set_function_type should apply the function's grant
func (m *Mutation) applyDefaults() bool {
	return m.ApplyDefaults == nil || *m.ApplyDefaults
}

// applyResult is what a single mutation did
type applyResult struct {
	changed   bool
	createdID string
}

// apply runs one mutation against c. Referential misses and out-of-range input are
// no-ops; only malformed mutations and cap violations are errors.
func (o *Orchestrator) apply(ctx context.Context, c *agency.Character, m *Mutation) (applyResult, error) {
	changed := func(ok bool) (applyResult, error) { return applyResult{changed: ok}, nil }

	switch m.Op {
	case OpSetName:
		return changed(c.SetName(m.Value))
	case OpSetPronouns:
		return changed(c.SetPronouns(m.Value))
	case OpSetGenderPronoun:
		return changed(c.SetGenderPronoun(m.Value))
	case OpSetPortrait:
		return changed(c.SetPortrait(m.Value))
	case OpSetAnomalyType:
		return changed(c.SetAnomalyType(m.Value))
	case OpSetRealityType:
		return changed(c.SetRealityType(m.Value))
	case OpSetFunctionType:
		return changed(o.setFunctionType(ctx, c, m.Value, m.applyDefaults()))

	case OpSetPermission:
		return changed(c.SetPermission(m.Index, m.Value))
	case OpIncrementPermissionCount:
		return changed(c.IncrementPermissionCount(m.Index))
	case OpDecrementPermissionCount:
		return changed(c.DecrementPermissionCount(m.Index))
	case OpSetCommendations:
		return changed(c.SetCommendations(m.Number))
	case OpSetReprimands:
		return changed(c.SetReprimands(m.Number))
	case OpIncrementMvpCount:
		return changed(c.IncrementMvpCount())
	case OpIncrementWatchCount:
		return changed(c.IncrementWatchCount())

	case OpSetAttributeCurrent:
		return changed(c.SetAttributeCurrent(m.Attribute, m.Number))
	case OpSetAttributeMax:
		return changed(c.SetAttributeMax(m.Attribute, min(m.Number, agency.MaxAttributeCeiling)))
	case OpToggleAttributeMarked:
		return changed(c.ToggleAttributeMarked(m.Attribute))
	case OpToggleProgressFilled:
		return changed(c.ToggleProgressFilled(m.Track, m.Index))
	case OpToggleProgressIgnored:
		return changed(c.ToggleProgressIgnored(m.Track, m.Index))
	case OpClearProgressTrack:
		return changed(c.ClearProgressTrack(m.Track))
	case OpToggleCollapseSlot:
		return changed(c.ToggleCollapseSlot(m.Index))

	case OpAddAnomaly:
		return o.addAnomaly(c, m.Anomaly)
	case OpUpdateAnomaly:
		if m.AnomalyPatch == nil {
			return applyResult{}, errors.InvalidArgument("anomalyPatch is required")
		}
		return changed(c.UpdateAnomaly(m.TargetID, *m.AnomalyPatch))
	case OpRemoveAnomaly:
		return changed(c.RemoveAnomaly(m.TargetID))
	case OpSetAnomalySlots:
		return changed(c.SetAnomalySlots(m.Number))

	case OpAddReality:
		return o.addReality(c, m.Reality)
	case OpUpdateReality:
		if m.RealityPatch == nil {
			return applyResult{}, errors.InvalidArgument("realityPatch is required")
		}
		return changed(c.UpdateReality(m.TargetID, *m.RealityPatch))
	case OpRemoveReality:
		return changed(c.RemoveReality(m.TargetID))
	case OpSetRealitySlots:
		return changed(c.SetRealitySlots(m.Number))

	case OpAddRelationship:
		r := agency.NewRelationship("")
		if m.Relationship != nil {
			r = *m.Relationship
		}
		r.ID = o.idGenerator.Generate()
		return applyResult{changed: true, createdID: c.AddRelationship(r)}, nil
	case OpUpdateRelationship:
		if m.RelationshipPatch == nil {
			return applyResult{}, errors.InvalidArgument("relationshipPatch is required")
		}
		return changed(c.UpdateRelationship(m.TargetID, *m.RelationshipPatch))
	case OpRemoveRelationship:
		return changed(c.RemoveRelationship(m.TargetID))

	case OpAddItem:
		var item agency.Item
		if m.Item != nil {
			item = *m.Item
		}
		item.ID = o.idGenerator.Generate()
		return applyResult{changed: true, createdID: c.AddItem(item)}, nil
	case OpUpdateItem:
		if m.ItemPatch == nil {
			return applyResult{}, errors.InvalidArgument("itemPatch is required")
		}
		return changed(c.UpdateItem(m.TargetID, *m.ItemPatch))
	case OpRemoveItem:
		return changed(c.RemoveItem(m.TargetID))

	case OpAddCustomTrack:
		var t agency.CustomProgressTrack
		if m.CustomTrack != nil {
			t = *m.CustomTrack
		}
		t.ID = o.idGenerator.Generate()
		return applyResult{changed: true, createdID: c.AddCustomTrack(t)}, nil
	case OpUpdateCustomTrack:
		if m.CustomTrackPatch == nil {
			return applyResult{}, errors.InvalidArgument("customTrackPatch is required")
		}
		return changed(c.UpdateCustomTrack(m.TargetID, *m.CustomTrackPatch))
	case OpRemoveCustomTrack:
		return changed(c.RemoveCustomTrack(m.TargetID))
	case OpToggleCustomTrackCell:
		return changed(c.ToggleCustomTrackCell(m.TargetID, m.Index))

	case OpSetNote:
		return changed(c.SetNote(m.Index, m.Value))
	case OpAddNote:
		return changed(c.AddNote())
	case OpRemoveNote:
		return changed(c.RemoveNote(m.Index))

	case OpSetQuestion:
		return changed(c.SetQuestion(m.Key, m.Value))
	case OpSelectSelfAssessment:
		return changed(o.selectSelfAssessment(ctx, c, m.Key, m.Index))

	case "":
		return applyResult{}, errors.InvalidArgument("op is required")
	default:
		return applyResult{}, errors.InvalidArgumentf("unknown op %q", m.Op)
	}
}

func (o *Orchestrator) setFunctionType(ctx context.Context, c *agency.Character, name string, applyDefaults bool) bool {
	var grant *agency.FunctionGrant
	if applyDefaults && name != "" {
		if fn, ok := o.catalog.FindFunction(name); ok {
			grant = fn.Grant()
		} else {
			slog.DebugContext(ctx, "function type is not in the catalog, no defaults applied",
				"character_id", c.ID,
				"function_type", name)
		}
	}
	return c.SetFunctionType(name, grant, o.idGenerator.Generate)
}

func (o *Orchestrator) selectSelfAssessment(ctx context.Context, c *agency.Character, questionID string, option int) bool {
	fn, ok := o.catalog.FindFunction(c.FunctionType)
	if !ok {
		slog.DebugContext(ctx, "self-assessment ignored, function type has no questionnaire",
			"character_id", c.ID,
			"function_type", c.FunctionType)
		return false
	}
	question, ok := fn.FindQuestion(questionID)
	if !ok {
		slog.DebugContext(ctx, "self-assessment ignored, unknown question",
			"character_id", c.ID,
			"function_type", c.FunctionType,
			"question_id", questionID)
		return false
	}
	return c.SelectSelfAssessment(question.ID, question.AssessmentOptions(), option)
}

func (o *Orchestrator) addAnomaly(c *agency.Character, initial *agency.Anomaly) (applyResult, error) {
	if len(c.Anomalies) >= c.AnomalySlots {
		return applyResult{}, errors.FailedPreconditionf("all %d anomaly slots are in use", c.AnomalySlots).
			WithMeta("anomaly_slots", c.AnomalySlots)
	}

	var a agency.Anomaly
	if initial != nil {
		a = *initial
	}
	a.ID = o.idGenerator.Generate()
	if len(a.Abilities) == 0 {
		if entry, ok := o.catalog.FindAnomaly(a.Name); ok && len(entry.Abilities) > 0 {
			a.Abilities = entry.CharacterAbilities()
		}
	}
	return applyResult{changed: true, createdID: c.AddAnomaly(a)}, nil
}

func (o *Orchestrator) addReality(c *agency.Character, initial *agency.Reality) (applyResult, error) {
	if len(c.Realities) >= c.RealitySlots {
		return applyResult{}, errors.FailedPreconditionf("all %d reality slots are in use", c.RealitySlots).
			WithMeta("reality_slots", c.RealitySlots)
	}

	var r agency.Reality
	if initial != nil {
		r = *initial
	}
	r.ID = o.idGenerator.Generate()
	return applyResult{changed: true, createdID: c.AddReality(r)}, nil
}
