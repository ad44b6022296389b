package conversion

import (
	"github.com/KirkDiggler/agency-api/internal/entities/agency"
)

// Converter turns stored or imported character payloads into current records.
// It is the single place that understands legacy (v1) layouts.
//
//go:generate mockgen -destination=mock/mock_converter.go -package=conversionmock github.com/KirkDiggler/agency-api/internal/services/conversion Converter
type Converter interface {
	// IsValid reports whether raw looks like a current record (id, version and name are strings)
	IsValid(raw map[string]any) bool

	// Migrate upgrades raw to the current schema. It never fails: unreadable fields
	// keep their defaults. Legacy records get fresh sub-entity ids and a new updatedAt.
	Migrate(raw map[string]any) *agency.Character

	// Decode parses JSON and returns a normalized current record, migrating when the
	// payload is not a valid current record. Malformed JSON is InvalidArgument.
	Decode(data []byte) (*agency.Character, error)
}
