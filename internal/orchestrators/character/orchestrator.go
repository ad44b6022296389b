// Package character implements the character orchestrator: it loads records, applies
// mutation rules, stamps timestamps and hands snapshots to the save scheduler.
package character

import (
	"bytes"
	"context"
	"log/slog"
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/core"

	"github.com/KirkDiggler/agency-api/internal/catalog"
	"github.com/KirkDiggler/agency-api/internal/entities/agency"
	"github.com/KirkDiggler/agency-api/internal/errors"
	"github.com/KirkDiggler/agency-api/internal/exporter"
	"github.com/KirkDiggler/agency-api/internal/pkg/clock"
	"github.com/KirkDiggler/agency-api/internal/pkg/idgen"
	characterrepo "github.com/KirkDiggler/agency-api/internal/repositories/character"
	"github.com/KirkDiggler/agency-api/internal/services/conversion"
	"github.com/KirkDiggler/agency-api/internal/sharelink"
)

// Config holds the dependencies for the character orchestrator
type Config struct {
	CharacterRepo characterrepo.Repository
	SaveScheduler *characterrepo.SaveScheduler
	Converter     conversion.Converter
	Catalog       *catalog.Catalog
	ShareCodec    *sharelink.Codec
	Clock         clock.Clock
	IDGenerator   idgen.Generator
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}

	vb := errors.NewValidationBuilder()

	if c.CharacterRepo == nil {
		vb.RequiredField("CharacterRepo")
	}
	if c.SaveScheduler == nil {
		vb.RequiredField("SaveScheduler")
	}
	if c.Converter == nil {
		vb.RequiredField("Converter")
	}
	if c.Catalog == nil {
		vb.RequiredField("Catalog")
	}
	if c.ShareCodec == nil {
		vb.RequiredField("ShareCodec")
	}

	return vb.Build()
}

// Orchestrator implements the Service interface
type Orchestrator struct {
	// mu serialises every read-modify-write of a record
	mu sync.Mutex

	characterRepo characterrepo.Repository
	saveScheduler *characterrepo.SaveScheduler
	converter     conversion.Converter
	catalog       *catalog.Catalog
	shareCodec    *sharelink.Codec
	clock         clock.Clock
	idGenerator   idgen.Generator
}

// New creates a new character orchestrator
func New(cfg *Config) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}
	gen := cfg.IDGenerator
	if gen == nil {
		gen = idgen.NewUUID("")
	}

	return &Orchestrator{
		characterRepo: cfg.CharacterRepo,
		saveScheduler: cfg.SaveScheduler,
		converter:     cfg.Converter,
		catalog:       cfg.Catalog,
		shareCodec:    cfg.ShareCodec,
		clock:         c,
		idGenerator:   gen,
	}, nil
}

// Ensure Orchestrator implements the Service interface
var _ Service = (*Orchestrator)(nil)

// CreateCharacter creates and stores a record with default values
func (o *Orchestrator) CreateCharacter(ctx context.Context, input *CreateCharacterInput) (*CreateCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	character, err := o.create(ctx, input.Name, input.MakeCurrent)
	if err != nil {
		return nil, err
	}
	return &CreateCharacterOutput{Character: character}, nil
}

// GetCharacter returns the latest state of a record, including unsaved changes
func (o *Orchestrator) GetCharacter(ctx context.Context, input *GetCharacterInput) (*GetCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("id", input.ID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	character, err := o.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &GetCharacterOutput{Character: character}, nil
}

// GetCurrentCharacter returns the selected record. When nothing usable is selected it
// falls back to the first stored record, and when there is none it creates one.
func (o *Orchestrator) GetCurrentCharacter(ctx context.Context, _ *GetCurrentCharacterInput) (*GetCurrentCharacterOutput, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	current, err := o.characterRepo.GetCurrentID(ctx, characterrepo.GetCurrentIDInput{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get current character id")
	}
	if current.ID != "" {
		character, err := o.load(ctx, current.ID)
		if err == nil {
			return &GetCurrentCharacterOutput{Character: character}, nil
		}
		if !errors.IsNotFound(err) {
			return nil, err
		}
		slog.WarnContext(ctx, "current character cannot be loaded, falling back",
			"character_id", current.ID,
			"reason", loadFailure(err))
	}

	list, err := o.characterRepo.ListIDs(ctx, characterrepo.ListIDsInput{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list characters")
	}
	if len(list.IDs) > 0 {
		character, err := o.load(ctx, list.IDs[0])
		if err == nil {
			if _, err := o.characterRepo.SetCurrentID(ctx, characterrepo.SetCurrentIDInput{ID: character.ID}); err != nil {
				return nil, errors.Wrap(err, "failed to set current character")
			}
			return &GetCurrentCharacterOutput{Character: character}, nil
		}
		if !errors.IsNotFound(err) {
			return nil, err
		}
	}

	character, err := o.create(ctx, "", true)
	if err != nil {
		return nil, err
	}
	return &GetCurrentCharacterOutput{Character: character, Created: true}, nil
}

// SetCurrentCharacter selects an existing record
func (o *Orchestrator) SetCurrentCharacter(ctx context.Context, input *SetCurrentCharacterInput) (*SetCurrentCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("id", input.ID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	character, err := o.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if _, err := o.characterRepo.SetCurrentID(ctx, characterrepo.SetCurrentIDInput{ID: input.ID}); err != nil {
		return nil, errors.Wrap(err, "failed to set current character")
	}

	return &SetCurrentCharacterOutput{Character: character}, nil
}

// ListCharacters returns every readable record in insertion order. Unreadable records
// are skipped.
func (o *Orchestrator) ListCharacters(ctx context.Context, _ *ListCharactersInput) (*ListCharactersOutput, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	list, err := o.characterRepo.ListIDs(ctx, characterrepo.ListIDsInput{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list characters")
	}

	characters := make([]*agency.Character, 0, len(list.IDs))
	for _, id := range list.IDs {
		character, err := o.load(ctx, id)
		if err != nil {
			if errors.IsNotFound(err) {
				slog.WarnContext(ctx, "skipping character that cannot be loaded",
					"character_id", id,
					"reason", loadFailure(err))
				continue
			}
			return nil, err
		}
		characters = append(characters, character)
	}

	current, err := o.characterRepo.GetCurrentID(ctx, characterrepo.GetCurrentIDInput{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get current character id")
	}

	return &ListCharactersOutput{Characters: characters, CurrentID: current.ID}, nil
}

// DeleteCharacter removes a record and drops any unsaved changes to it
func (o *Orchestrator) DeleteCharacter(ctx context.Context, input *DeleteCharacterInput) (*DeleteCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("id", input.ID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	o.saveScheduler.Discard(input.ID)
	if _, err := o.characterRepo.Delete(ctx, characterrepo.DeleteInput{ID: input.ID}); err != nil {
		return nil, errors.Wrapf(err, "failed to delete character %s", input.ID)
	}

	slog.InfoContext(ctx, "deleted character", "character_id", input.ID)
	return &DeleteCharacterOutput{}, nil
}

// ClearCharacters removes every record
func (o *Orchestrator) ClearCharacters(ctx context.Context, _ *ClearCharactersInput) (*ClearCharactersOutput, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.saveScheduler.DiscardAll()
	out, err := o.characterRepo.Clear(ctx, characterrepo.ClearInput{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to clear characters")
	}
	return &ClearCharactersOutput{Deleted: out.Deleted}, nil
}

// UpdateCharacter applies mutations in order. If anything changed the record's
// updatedAt is stamped and a save is scheduled.
func (o *Orchestrator) UpdateCharacter(ctx context.Context, input *UpdateCharacterInput) (*UpdateCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("id", input.ID, vb)
	if len(input.Mutations) == 0 {
		vb.RequiredField("mutations")
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	character, err := o.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	changed := false
	var created []string
	for i := range input.Mutations {
		m := &input.Mutations[i]
		result, err := o.apply(ctx, character, m)
		if err != nil {
			slog.InfoContext(ctx, "mutation rejected",
				"character_id", input.ID,
				"op", string(m.Op),
				"index", i,
				"error", err.Error())
			var e *errors.Error
			if errors.As(err, &e) {
				e.WithMeta("op", string(m.Op)).WithMeta("mutation_index", i)
			}
			return nil, err
		}
		changed = changed || result.changed
		if result.createdID != "" {
			created = append(created, result.createdID)
		}
	}

	if changed {
		character.Touch(o.clock.Now())
		if err := o.saveScheduler.Schedule(ctx, character); err != nil {
			return nil, errors.Wrap(err, "failed to schedule save")
		}
	}

	slog.DebugContext(ctx, "applied mutations", entityAttrs(character,
		"count", len(input.Mutations),
		"changed", changed)...)

	return &UpdateCharacterOutput{
		Character:  character,
		Changed:    changed,
		CreatedIDs: created,
	}, nil
}

// SaveCharacter writes pending changes immediately
func (o *Orchestrator) SaveCharacter(ctx context.Context, input *SaveCharacterInput) (*SaveCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.saveScheduler.Flush(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to save character")
	}

	out := &SaveCharacterOutput{}
	if input.ID != "" {
		character, err := o.load(ctx, input.ID)
		if err != nil {
			return nil, err
		}
		out.Character = character
	}
	return out, nil
}

// ImportCharacter stores a character file under a new id
func (o *Orchestrator) ImportCharacter(ctx context.Context, input *ImportCharacterInput) (*ImportCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	data := bytes.TrimSpace(input.Data)
	if len(data) == 0 {
		return nil, errors.InvalidArgument("invalid JSON file")
	}
	if data[0] == '<' {
		embedded, err := exporter.ExtractEmbedded(data)
		if err != nil {
			return nil, err
		}
		data = embedded
	}

	character, err := o.converter.Decode(data)
	if err != nil {
		return nil, err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.storeImported(ctx, character, input.MakeCurrent); err != nil {
		return nil, err
	}
	return &ImportCharacterOutput{Character: character}, nil
}

// ExportCharacter renders a record as a downloadable file
func (o *Orchestrator) ExportCharacter(ctx context.Context, input *ExportCharacterInput) (*ExportCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("id", input.ID, vb)
	errors.ValidateEnum("format", string(input.Format),
		[]string{string(exporter.FormatJSON), string(exporter.FormatHTML), string(exporter.FormatPDF)}, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	o.mu.Lock()
	character, err := o.load(ctx, input.ID)
	o.mu.Unlock()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := exporter.Render(ctx, &buf, character, input.Format); err != nil {
		return nil, err
	}

	return &ExportCharacterOutput{
		Filename:    exporter.Filename(character.Name, o.clock.Now(), input.Format),
		ContentType: input.Format.ContentType(),
		Data:        buf.Bytes(),
	}, nil
}

// EncodeShareLink builds a share payload and URL for a record
func (o *Orchestrator) EncodeShareLink(ctx context.Context, input *EncodeShareLinkInput) (*EncodeShareLinkOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("id", input.ID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	o.mu.Lock()
	character, err := o.load(ctx, input.ID)
	o.mu.Unlock()
	if err != nil {
		return nil, err
	}

	payload, err := o.shareCodec.Encode(character)
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "encoded share link",
		"character_id", input.ID,
		"payload_size", len(payload))

	return &EncodeShareLinkOutput{Payload: payload, URL: o.shareCodec.URL(payload)}, nil
}

// DecodeShareLink reads a share payload, optionally storing it as a new record
func (o *Orchestrator) DecodeShareLink(ctx context.Context, input *DecodeShareLinkInput) (*DecodeShareLinkOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	payload := input.Payload
	if payload == "" && input.URL != "" {
		var err error
		if payload, err = sharelink.PayloadFromURL(input.URL); err != nil {
			return nil, err
		}
	}

	data, err := o.shareCodec.DecodeBytes(payload)
	if err != nil {
		return nil, err
	}
	character, err := o.converter.Decode(data)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "invalid share link")
	}

	if !input.Import {
		return &DecodeShareLinkOutput{Character: character}, nil
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.storeImported(ctx, character, input.MakeCurrent); err != nil {
		return nil, err
	}
	return &DecodeShareLinkOutput{Character: character, Imported: true}, nil
}

// ListCatalog returns the static game data
func (o *Orchestrator) ListCatalog(_ context.Context, _ *ListCatalogInput) (*ListCatalogOutput, error) {
	return &ListCatalogOutput{
		Catalog:      o.catalog,
		BonusOptions: o.catalog.BonusOptions(),
	}, nil
}

// load returns the pending snapshot for id if there is one, else the stored record.
// Callers hold o.mu.
func (o *Orchestrator) load(ctx context.Context, id string) (*agency.Character, error) {
	if pending, ok := o.saveScheduler.Pending(id); ok {
		return pending, nil
	}

	out, err := o.characterRepo.Get(ctx, characterrepo.GetInput{ID: id})
	if err != nil {
		return nil, err
	}
	return out.Character, nil
}

func (o *Orchestrator) create(ctx context.Context, name string, makeCurrent bool) (*agency.Character, error) {
	character := agency.NewCharacter(o.idGenerator.Generate(), o.clock.Now())
	character.Name = name

	if _, err := o.characterRepo.Put(ctx, characterrepo.PutInput{Character: character}); err != nil {
		return nil, errors.Wrap(err, "failed to store character")
	}
	if makeCurrent {
		if _, err := o.characterRepo.SetCurrentID(ctx, characterrepo.SetCurrentIDInput{ID: character.ID}); err != nil {
			return nil, errors.Wrap(err, "failed to set current character")
		}
	}

	slog.InfoContext(ctx, "created character", entityAttrs(character,
		"current", makeCurrent)...)
	return character, nil
}

// storeImported gives an imported record a fresh identity and stores it
func (o *Orchestrator) storeImported(ctx context.Context, character *agency.Character, makeCurrent bool) error {
	previousID := character.ID
	stamp := agency.FormatTimestamp(o.clock.Now())
	character.ID = o.idGenerator.Generate()
	character.CreatedAt = stamp
	character.UpdatedAt = stamp

	if _, err := o.characterRepo.Put(ctx, characterrepo.PutInput{Character: character}); err != nil {
		return errors.Wrap(err, "failed to store imported character")
	}
	if makeCurrent {
		if _, err := o.characterRepo.SetCurrentID(ctx, characterrepo.SetCurrentIDInput{ID: character.ID}); err != nil {
			return errors.Wrap(err, "failed to set current character")
		}
	}

	slog.InfoContext(ctx, "imported character", entityAttrs(character,
		"source_id", previousID,
		"version", character.Version)...)
	return nil
}

// entityAttrs returns log attributes naming e, followed by attrs
func entityAttrs(e core.Entity, attrs ...any) []any {
	return append([]any{"entity_type", e.GetType(), "character_id", e.GetID()}, attrs...)
}

// loadFailure tells a corrupt stored record from an absent one
func loadFailure(err error) string {
	if errors.Is(err, core.ErrInvalidEntity) {
		return "unreadable"
	}
	if errors.Is(err, core.ErrEntityNotFound) {
		return "missing"
	}
	return "unknown"
}
