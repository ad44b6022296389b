package character

import (
	"context"

	"github.com/KirkDiggler/agency-api/internal/catalog"
	"github.com/KirkDiggler/agency-api/internal/entities/agency"
	"github.com/KirkDiggler/agency-api/internal/exporter"
)

//go:generate mockgen -destination=mock/mock_service.go -package=charactermock github.com/KirkDiggler/agency-api/internal/orchestrators/character Service

// Service defines the character orchestrator interface
type Service interface {
	// Record lifecycle
	CreateCharacter(ctx context.Context, input *CreateCharacterInput) (*CreateCharacterOutput, error)
	GetCharacter(ctx context.Context, input *GetCharacterInput) (*GetCharacterOutput, error)
	GetCurrentCharacter(ctx context.Context, input *GetCurrentCharacterInput) (*GetCurrentCharacterOutput, error)
	SetCurrentCharacter(ctx context.Context, input *SetCurrentCharacterInput) (*SetCurrentCharacterOutput, error)
	ListCharacters(ctx context.Context, input *ListCharactersInput) (*ListCharactersOutput, error)
	DeleteCharacter(ctx context.Context, input *DeleteCharacterInput) (*DeleteCharacterOutput, error)
	ClearCharacters(ctx context.Context, input *ClearCharactersInput) (*ClearCharactersOutput, error)

	// Editing
	UpdateCharacter(ctx context.Context, input *UpdateCharacterInput) (*UpdateCharacterOutput, error)
	SaveCharacter(ctx context.Context, input *SaveCharacterInput) (*SaveCharacterOutput, error)

	// Transfer
	ImportCharacter(ctx context.Context, input *ImportCharacterInput) (*ImportCharacterOutput, error)
	ExportCharacter(ctx context.Context, input *ExportCharacterInput) (*ExportCharacterOutput, error)
	EncodeShareLink(ctx context.Context, input *EncodeShareLinkInput) (*EncodeShareLinkOutput, error)
	DecodeShareLink(ctx context.Context, input *DecodeShareLinkInput) (*DecodeShareLinkOutput, error)

	// Reference data
	ListCatalog(ctx context.Context, input *ListCatalogInput) (*ListCatalogOutput, error)
}

// CreateCharacterInput defines the request for creating a character
type CreateCharacterInput struct {
	Name string
	// MakeCurrent selects the new record
	MakeCurrent bool
}

// CreateCharacterOutput defines the response for creating a character
type CreateCharacterOutput struct {
	Character *agency.Character
}

// GetCharacterInput defines the request for getting a character
type GetCharacterInput struct {
	ID string
}

// GetCharacterOutput defines the response for getting a character
type GetCharacterOutput struct {
	Character *agency.Character
}

// GetCurrentCharacterInput defines the request for the selected character
type GetCurrentCharacterInput struct{}

// GetCurrentCharacterOutput defines the response for the selected character
type GetCurrentCharacterOutput struct {
	Character *agency.Character
	// Created is true when no usable record existed and a new one was made
	Created bool
}

// SetCurrentCharacterInput defines the request for selecting a character
type SetCurrentCharacterInput struct {
	ID string
}

// SetCurrentCharacterOutput defines the response for selecting a character
type SetCurrentCharacterOutput struct {
	Character *agency.Character
}

// ListCharactersInput defines the request for listing characters
type ListCharactersInput struct{}

// ListCharactersOutput defines the response for listing characters
type ListCharactersOutput struct {
	Characters []*agency.Character
	CurrentID  string
}

// DeleteCharacterInput defines the request for deleting a character
type DeleteCharacterInput struct {
	ID string
}

// DeleteCharacterOutput defines the response for deleting a character
type DeleteCharacterOutput struct{}

// ClearCharactersInput defines the request for deleting every character
type ClearCharactersInput struct{}

// ClearCharactersOutput defines the response for deleting every character
type ClearCharactersOutput struct {
	Deleted int
}

// UpdateCharacterInput defines the request for applying mutations. Mutations apply in
// order to a working copy; if any fails none are kept.
type UpdateCharacterInput struct {
	ID        string
	Mutations []Mutation
}

// UpdateCharacterOutput defines the response for applying mutations
type UpdateCharacterOutput struct {
	Character *agency.Character
	// Changed is false when every mutation was a no-op
	Changed bool
	// CreatedIDs holds the ids assigned by add operations, in mutation order
	CreatedIDs []string
}

// SaveCharacterInput defines the request for writing pending changes now
type SaveCharacterInput struct {
	ID string
}

// SaveCharacterOutput defines the response for writing pending changes now
type SaveCharacterOutput struct {
	Character *agency.Character
}

// ImportCharacterInput defines the request for importing a character file
type ImportCharacterInput struct {
	// Data is a JSON record (current or legacy) or an HTML export
	Data        []byte
	MakeCurrent bool
}

// ImportCharacterOutput defines the response for importing a character file
type ImportCharacterOutput struct {
	Character *agency.Character
}

// ExportCharacterInput defines the request for exporting a character
type ExportCharacterInput struct {
	ID     string
	Format exporter.Format
}

// ExportCharacterOutput defines the response for exporting a character
type ExportCharacterOutput struct {
	Filename    string
	ContentType string
	Data        []byte
}

// EncodeShareLinkInput defines the request for building a share link
type EncodeShareLinkInput struct {
	ID string
}

// EncodeShareLinkOutput defines the response for building a share link
type EncodeShareLinkOutput struct {
	Payload string
	URL     string
}

// DecodeShareLinkInput defines the request for reading a share link
type DecodeShareLinkInput struct {
	// Payload is the raw share value; URL is used when Payload is empty
	Payload string
	URL     string
	// Import stores the decoded record under a new id
	Import      bool
	MakeCurrent bool
}

// DecodeShareLinkOutput defines the response for reading a share link
type DecodeShareLinkOutput struct {
	Character *agency.Character
	Imported  bool
}

// ListCatalogInput defines the request for reference data
type ListCatalogInput struct{}

// ListCatalogOutput defines the response for reference data
type ListCatalogOutput struct {
	Catalog      *catalog.Catalog
	BonusOptions []catalog.BonusOption
}
