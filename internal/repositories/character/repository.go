// Package character provides the persistence gateway for character records
package character

//go:generate mockgen -destination=mock/mock_repository.go -package=charactermock github.com/KirkDiggler/agency-api/internal/repositories/character Repository

import (
	"context"

	"github.com/KirkDiggler/agency-api/internal/entities/agency"
)

const (
	errCharacterNil     = "character cannot be nil"
	errCharacterIDEmpty = "character ID cannot be empty"

	// errNoData is returned for missing and unreadable records alike
	errNoData = "no data found"
)

// Repository defines the interface for character persistence
type Repository interface {
	// Get retrieves a character by ID. Stored records in an older schema are migrated
	// on read; the stored payload is not rewritten.
	// Returns errors.InvalidArgument for empty IDs
	// Returns errors.NotFound if the record is missing or cannot be decoded
	// Returns errors.Internal for storage failures
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Put stores a snapshot and appends its ID to the index if it is new
	// Returns errors.InvalidArgument for nil records or empty IDs
	// Returns errors.Internal for storage failures
	Put(ctx context.Context, input PutInput) (*PutOutput, error)

	// Delete removes a record, its index entry and the current pointer if it matches.
	// Deleting a missing record succeeds.
	// Returns errors.InvalidArgument for empty IDs
	// Returns errors.Internal for storage failures
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)

	// ListIDs returns stored IDs in insertion order
	// Returns errors.Internal for storage failures
	ListIDs(ctx context.Context, input ListIDsInput) (*ListIDsOutput, error)

	// GetCurrentID returns the selected record ID, empty when nothing is selected
	// Returns errors.Internal for storage failures
	GetCurrentID(ctx context.Context, input GetCurrentIDInput) (*GetCurrentIDOutput, error)

	// SetCurrentID selects a record
	// Returns errors.InvalidArgument for empty IDs
	// Returns errors.Internal for storage failures
	SetCurrentID(ctx context.Context, input SetCurrentIDInput) (*SetCurrentIDOutput, error)

	// Clear removes every record, the index and the current pointer
	// Returns errors.Internal for storage failures
	Clear(ctx context.Context, input ClearInput) (*ClearOutput, error)
}

// GetInput defines the input for getting a character
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting a character
type GetOutput struct {
	Character *agency.Character
}

// PutInput defines the input for storing a character
type PutInput struct {
	Character *agency.Character
}

// PutOutput defines the output for storing a character
type PutOutput struct{}

// DeleteInput defines the input for deleting a character
type DeleteInput struct {
	ID string
}

// DeleteOutput defines the output for deleting a character
type DeleteOutput struct{}

// ListIDsInput defines the input for listing character IDs
type ListIDsInput struct{}

// ListIDsOutput defines the output for listing character IDs
type ListIDsOutput struct {
	IDs []string
}

// GetCurrentIDInput defines the input for reading the current selection
type GetCurrentIDInput struct{}

// GetCurrentIDOutput defines the output for reading the current selection
type GetCurrentIDOutput struct {
	ID string
}

// SetCurrentIDInput defines the input for changing the current selection
type SetCurrentIDInput struct {
	ID string
}

// SetCurrentIDOutput defines the output for changing the current selection
type SetCurrentIDOutput struct{}

// ClearInput defines the input for removing all characters
type ClearInput struct{}

// ClearOutput defines the output for removing all characters
type ClearOutput struct {
	Deleted int
}
