package v1alpha1

import (
	"encoding/json"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/agency-api/internal/catalog"
	"github.com/KirkDiggler/agency-api/internal/entities/agency"
	"github.com/KirkDiggler/agency-api/internal/errors"
	"github.com/KirkDiggler/agency-api/internal/orchestrators/character"
)

// CreateCharacterRequest creates a record with default values
type CreateCharacterRequest struct {
	Name        string `json:"name,omitempty"`
	MakeCurrent bool   `json:"makeCurrent,omitempty"`
}

// CharacterIDRequest addresses one record
type CharacterIDRequest struct {
	ID string `json:"id"`
}

// CharacterResponse carries one record
type CharacterResponse struct {
	Character *agency.Character `json:"character,omitempty"`
	// Created is set by GetCurrentCharacter when a record had to be made
	Created bool `json:"created,omitempty"`
}

// ListCharactersResponse carries every readable record
type ListCharactersResponse struct {
	Characters []*agency.Character `json:"characters"`
	CurrentID  string              `json:"currentId,omitempty"`
}

// ClearCharactersResponse reports how many records were removed
type ClearCharactersResponse struct {
	Deleted int `json:"deleted"`
}

// UpdateCharacterRequest applies mutations in order
type UpdateCharacterRequest struct {
	ID        string               `json:"id"`
	Mutations []character.Mutation `json:"mutations"`
}

// UpdateCharacterResponse carries the edited record
type UpdateCharacterResponse struct {
	Character  *agency.Character `json:"character"`
	Changed    bool              `json:"changed"`
	CreatedIDs []string          `json:"createdIds,omitempty"`
}

// ImportCharacterRequest carries a character file as text
type ImportCharacterRequest struct {
	Data        string `json:"data"`
	MakeCurrent bool   `json:"makeCurrent,omitempty"`
}

// ExportCharacterRequest selects a record and a file format
type ExportCharacterRequest struct {
	ID     string `json:"id"`
	Format string `json:"format"`
}

// ExportCharacterResponse carries a rendered file
type ExportCharacterResponse struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Data        string `json:"data"`
}

// ShareLinkResponse carries an encoded share link
type ShareLinkResponse struct {
	Payload string `json:"payload"`
	URL     string `json:"url"`
}

// DecodeShareLinkRequest reads a share payload or URL
type DecodeShareLinkRequest struct {
	Payload     string `json:"payload,omitempty"`
	URL         string `json:"url,omitempty"`
	Import      bool   `json:"import,omitempty"`
	MakeCurrent bool   `json:"makeCurrent,omitempty"`
}

// DecodeShareLinkResponse carries the decoded record
type DecodeShareLinkResponse struct {
	Character *agency.Character `json:"character"`
	Imported  bool              `json:"imported"`
}

// CatalogResponse carries the static game data
type CatalogResponse struct {
	Catalog      *catalog.Catalog      `json:"catalog"`
	BonusOptions []catalog.BonusOption `json:"bonusOptions"`
}

// Empty is the request and response of calls without fields
type Empty struct{}

// ToStruct converts a message to its Struct form through JSON
func ToStruct(msg any) (*structpb.Struct, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal message")
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, errors.Wrap(err, "failed to convert message")
	}
	return out, nil
}

// FromStruct decodes a Struct into msg. A nil Struct leaves msg untouched.
func FromStruct(in *structpb.Struct, msg any) error {
	if in == nil {
		return nil
	}
	data, err := protojson.Marshal(in)
	if err != nil {
		return errors.WrapWithCode(err, errors.CodeInvalidArgument, "malformed request")
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return errors.WrapWithCode(err, errors.CodeInvalidArgument, "malformed request")
	}
	return nil
}
