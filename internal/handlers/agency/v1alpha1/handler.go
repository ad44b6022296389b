package v1alpha1

import (
	"context"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/agency-api/internal/errors"
	"github.com/KirkDiggler/agency-api/internal/exporter"
	"github.com/KirkDiggler/agency-api/internal/orchestrators/character"
)

// HandlerConfig holds dependencies for the character handler
type HandlerConfig struct {
	CharacterService character.Service
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}
	if c.CharacterService == nil {
		return errors.InvalidArgument("character service is required")
	}
	return nil
}

// Handler implements CharacterServiceServer
type Handler struct {
	characterService character.Service
}

var _ CharacterServiceServer = (*Handler)(nil)

// NewHandler creates a new character handler with the given configuration
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Handler{
		characterService: cfg.CharacterService,
	}, nil
}

// respond converts a service result to a response Struct, mapping errors to gRPC status
func respond(msg any, err error) (*structpb.Struct, error) {
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	out, err := ToStruct(msg)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return out, nil
}

func decode(in *structpb.Struct, msg any) error {
	if err := FromStruct(in, msg); err != nil {
		return errors.ToGRPCError(err)
	}
	return nil
}

func requireID(id string) error {
	if id == "" {
		return errors.ToGRPCError(errors.InvalidArgument("id is required"))
	}
	return nil
}

// CreateCharacter creates a record with default values
func (h *Handler) CreateCharacter(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req CreateCharacterRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	out, err := h.characterService.CreateCharacter(ctx, &character.CreateCharacterInput{
		Name:        req.Name,
		MakeCurrent: req.MakeCurrent,
	})
	if err != nil {
		return respond(nil, err)
	}
	return respond(&CharacterResponse{Character: out.Character}, nil)
}

// GetCharacter returns one record
func (h *Handler) GetCharacter(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req CharacterIDRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	if err := requireID(req.ID); err != nil {
		return nil, err
	}

	out, err := h.characterService.GetCharacter(ctx, &character.GetCharacterInput{ID: req.ID})
	if err != nil {
		return respond(nil, err)
	}
	return respond(&CharacterResponse{Character: out.Character}, nil)
}

// GetCurrentCharacter returns the selected record, creating one if needed
func (h *Handler) GetCurrentCharacter(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	out, err := h.characterService.GetCurrentCharacter(ctx, &character.GetCurrentCharacterInput{})
	if err != nil {
		return respond(nil, err)
	}
	return respond(&CharacterResponse{Character: out.Character, Created: out.Created}, nil)
}

// SetCurrentCharacter selects a record
func (h *Handler) SetCurrentCharacter(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req CharacterIDRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	if err := requireID(req.ID); err != nil {
		return nil, err
	}

	out, err := h.characterService.SetCurrentCharacter(ctx, &character.SetCurrentCharacterInput{ID: req.ID})
	if err != nil {
		return respond(nil, err)
	}
	return respond(&CharacterResponse{Character: out.Character}, nil)
}

// ListCharacters returns every readable record
func (h *Handler) ListCharacters(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	out, err := h.characterService.ListCharacters(ctx, &character.ListCharactersInput{})
	if err != nil {
		return respond(nil, err)
	}
	return respond(&ListCharactersResponse{Characters: out.Characters, CurrentID: out.CurrentID}, nil)
}

// DeleteCharacter removes a record
func (h *Handler) DeleteCharacter(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req CharacterIDRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	if err := requireID(req.ID); err != nil {
		return nil, err
	}

	_, err := h.characterService.DeleteCharacter(ctx, &character.DeleteCharacterInput{ID: req.ID})
	return respond(&Empty{}, err)
}

// ClearCharacters removes every record
func (h *Handler) ClearCharacters(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	out, err := h.characterService.ClearCharacters(ctx, &character.ClearCharactersInput{})
	if err != nil {
		return respond(nil, err)
	}
	return respond(&ClearCharactersResponse{Deleted: out.Deleted}, nil)
}

// UpdateCharacter applies a batch of mutations
func (h *Handler) UpdateCharacter(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req UpdateCharacterRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	if err := requireID(req.ID); err != nil {
		return nil, err
	}
	if len(req.Mutations) == 0 {
		return nil, errors.ToGRPCError(errors.InvalidArgument("mutations are required"))
	}

	out, err := h.characterService.UpdateCharacter(ctx, &character.UpdateCharacterInput{
		ID:        req.ID,
		Mutations: req.Mutations,
	})
	if err != nil {
		return respond(nil, err)
	}
	return respond(&UpdateCharacterResponse{
		Character:  out.Character,
		Changed:    out.Changed,
		CreatedIDs: out.CreatedIDs,
	}, nil)
}

// SaveCharacter writes pending changes now
func (h *Handler) SaveCharacter(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req CharacterIDRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	out, err := h.characterService.SaveCharacter(ctx, &character.SaveCharacterInput{ID: req.ID})
	if err != nil {
		return respond(nil, err)
	}
	return respond(&CharacterResponse{Character: out.Character}, nil)
}

// ImportCharacter stores a character file under a new id
func (h *Handler) ImportCharacter(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req ImportCharacterRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	if req.Data == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("data is required"))
	}

	out, err := h.characterService.ImportCharacter(ctx, &character.ImportCharacterInput{
		Data:        []byte(req.Data),
		MakeCurrent: req.MakeCurrent,
	})
	if err != nil {
		return respond(nil, err)
	}
	return respond(&CharacterResponse{Character: out.Character}, nil)
}

// ExportCharacter renders a record as a file
func (h *Handler) ExportCharacter(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req ExportCharacterRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	if err := requireID(req.ID); err != nil {
		return nil, err
	}
	format := exporter.Format(req.Format)
	if format == "" {
		format = exporter.FormatJSON
	}

	out, err := h.characterService.ExportCharacter(ctx, &character.ExportCharacterInput{
		ID:     req.ID,
		Format: format,
	})
	if err != nil {
		return respond(nil, err)
	}
	return respond(&ExportCharacterResponse{
		Filename:    out.Filename,
		ContentType: out.ContentType,
		Data:        string(out.Data),
	}, nil)
}

// EncodeShareLink builds a share link for a record
func (h *Handler) EncodeShareLink(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req CharacterIDRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	if err := requireID(req.ID); err != nil {
		return nil, err
	}

	out, err := h.characterService.EncodeShareLink(ctx, &character.EncodeShareLinkInput{ID: req.ID})
	if err != nil {
		return respond(nil, err)
	}
	return respond(&ShareLinkResponse{Payload: out.Payload, URL: out.URL}, nil)
}

// DecodeShareLink reads a share link
func (h *Handler) DecodeShareLink(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req DecodeShareLinkRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	if req.Payload == "" && req.URL == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("payload or url is required"))
	}

	out, err := h.characterService.DecodeShareLink(ctx, &character.DecodeShareLinkInput{
		Payload:     req.Payload,
		URL:         req.URL,
		Import:      req.Import,
		MakeCurrent: req.MakeCurrent,
	})
	if err != nil {
		return respond(nil, err)
	}
	return respond(&DecodeShareLinkResponse{Character: out.Character, Imported: out.Imported}, nil)
}

// ListCatalog returns the static game data
func (h *Handler) ListCatalog(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	out, err := h.characterService.ListCatalog(ctx, &character.ListCatalogInput{})
	if err != nil {
		return respond(nil, err)
	}
	return respond(&CatalogResponse{Catalog: out.Catalog, BonusOptions: out.BonusOptions}, nil)
}
