// Package builders provides test data builders for creating test fixtures
package builders

import (
	"time"

	"github.com/KirkDiggler/agency-api/internal/entities/agency"
)

// CharacterBuilder provides a fluent interface for building test characters
type CharacterBuilder struct {
	character *agency.Character
}

// NewCharacterBuilder starts from a default record stamped at a fixed time
func NewCharacterBuilder() *CharacterBuilder {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	return &CharacterBuilder{character: agency.NewCharacter("char-test-123", now)}
}

// WithID sets the character ID
func (b *CharacterBuilder) WithID(id string) *CharacterBuilder {
	b.character.ID = id
	return b
}

// WithName sets the character name
func (b *CharacterBuilder) WithName(name string) *CharacterBuilder {
	b.character.Name = name
	return b
}

// WithFunctionType sets the function type without applying its grant
func (b *CharacterBuilder) WithFunctionType(name string) *CharacterBuilder {
	b.character.FunctionType = name
	return b
}

// WithAttribute sets one attribute gauge directly
func (b *CharacterBuilder) WithAttribute(name agency.AttributeName, current, maxValue int) *CharacterBuilder {
	b.character.Attributes[name] = agency.AttributeValue{Current: current, Max: maxValue}
	return b
}

// WithAnomaly appends an anomaly
func (b *CharacterBuilder) WithAnomaly(id, name string) *CharacterBuilder {
	b.character.AddAnomaly(agency.Anomaly{ID: id, Name: name})
	return b
}

// WithReality appends a reality
func (b *CharacterBuilder) WithReality(id, name string) *CharacterBuilder {
	b.character.AddReality(agency.Reality{ID: id, Name: name})
	return b
}

// WithItem appends an item
func (b *CharacterBuilder) WithItem(id, name, effect string) *CharacterBuilder {
	b.character.AddItem(agency.Item{ID: id, Name: name, Effect: effect})
	return b
}

// WithFilledCells fills cells on a track using the cascade rules
func (b *CharacterBuilder) WithFilledCells(track agency.TrackType, cells ...int) *CharacterBuilder {
	for _, i := range cells {
		b.character.ToggleProgressFilled(track, i)
	}
	return b
}

// Build returns the character
func (b *CharacterBuilder) Build() *agency.Character {
	return b.character
}
