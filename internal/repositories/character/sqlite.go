package character

import (
	"context"
	"database/sql"
	stderrors "errors"
	"log/slog"
	"path/filepath"
	"strings"

	// Registers the pure-Go "sqlite" driver
	_ "modernc.org/sqlite"

	"github.com/KirkDiggler/agency-api/internal/errors"
	"github.com/KirkDiggler/agency-api/internal/pkg/clock"
	"github.com/KirkDiggler/agency-api/internal/pkg/sqlitemigrate"
	"github.com/KirkDiggler/agency-api/internal/repositories/character/migrations"
	"github.com/KirkDiggler/agency-api/internal/services/conversion"
)

const (
	sqliteDSNParams   = "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	settingCurrentKey = "current_character_id"
)

// SQLiteRepository stores characters in a single SQLite file
type SQLiteRepository struct {
	db        *sql.DB
	clock     clock.Clock
	converter conversion.Converter
}

// SQLiteConfig contains configuration for the SQLite character repository
type SQLiteConfig struct {
	Path      string
	Clock     clock.Clock
	Converter conversion.Converter
}

// Validate validates the SQLiteConfig
func (cfg *SQLiteConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("path", strings.TrimSpace(cfg.Path), vb)
	if cfg.Converter == nil {
		vb.RequiredField("converter")
	}
	return vb.Build()
}

// NewSQLite opens the database, applies migrations and returns the repository
func NewSQLite(ctx context.Context, cfg *SQLiteConfig) (*SQLiteRepository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", filepath.Clean(cfg.Path)+sqliteDSNParams)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open sqlite db")
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to ping sqlite db")
	}
	if _, err := sqlitemigrate.Apply(ctx, db, migrations.FS, "."); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to run migrations")
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	return &SQLiteRepository{
		db:        db,
		clock:     c,
		converter: cfg.Converter,
	}, nil
}

// Close closes the database handle
func (r *SQLiteRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Get implements Repository
func (r *SQLiteRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	var data string
	err := r.db.QueryRowContext(ctx, `SELECT data FROM characters WHERE id = ?`, input.ID).Scan(&data)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, missing("get", input.ID)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get character %s", input.ID)
	}

	character, err := decodeCharacter(ctx, r.converter, input.ID, []byte(data))
	if err != nil {
		return nil, err
	}
	return &GetOutput{Character: character}, nil
}

// Put implements Repository
func (r *SQLiteRepository) Put(ctx context.Context, input PutInput) (*PutOutput, error) {
	data, err := encodeCharacter(input.Character)
	if err != nil {
		return nil, err
	}

	if err := r.PutRaw(ctx, input.Character.ID, data); err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "stored character",
		"character_id", input.Character.ID,
		"size", len(data))

	return &PutOutput{}, nil
}

// PutRaw stores an arbitrary payload under id. It exists for seeding legacy or
// corrupt records in tests and tools.
func (r *SQLiteRepository) PutRaw(ctx context.Context, id string, data []byte) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO characters (id, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		id, string(data), r.clock.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return errors.Wrapf(err, "failed to put raw character %s", id)
	}
	return nil
}

// Delete implements Repository
func (r *SQLiteRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin delete")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM characters WHERE id = ?`, input.ID); err != nil {
		return nil, errors.Wrapf(err, "failed to delete character %s", input.ID)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM settings WHERE key = ? AND value = ?`, settingCurrentKey, input.ID); err != nil {
		return nil, errors.Wrap(err, "failed to clear current character")
	}
	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "failed to commit delete")
	}

	return &DeleteOutput{}, nil
}

// ListIDs implements Repository
func (r *SQLiteRepository) ListIDs(ctx context.Context, _ ListIDsInput) (*ListIDsOutput, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM characters ORDER BY seq`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list characters")
	}
	defer func() { _ = rows.Close() }()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "failed to scan character id")
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to list characters")
	}

	return &ListIDsOutput{IDs: ids}, nil
}

// GetCurrentID implements Repository
func (r *SQLiteRepository) GetCurrentID(ctx context.Context, _ GetCurrentIDInput) (*GetCurrentIDOutput, error) {
	var id string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, settingCurrentKey).Scan(&id)
	if stderrors.Is(err, sql.ErrNoRows) {
		return &GetCurrentIDOutput{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get current character")
	}
	return &GetCurrentIDOutput{ID: id}, nil
}

// SetCurrentID implements Repository
func (r *SQLiteRepository) SetCurrentID(ctx context.Context, input SetCurrentIDInput) (*SetCurrentIDOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		settingCurrentKey, input.ID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to set current character")
	}
	return &SetCurrentIDOutput{}, nil
}

// Clear implements Repository
func (r *SQLiteRepository) Clear(ctx context.Context, _ ClearInput) (*ClearOutput, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin clear")
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM characters`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to clear characters")
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, settingCurrentKey); err != nil {
		return nil, errors.Wrap(err, "failed to clear current character")
	}
	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "failed to commit clear")
	}

	deleted, _ := res.RowsAffected()
	slog.InfoContext(ctx, "cleared characters", "count", deleted)
	return &ClearOutput{Deleted: int(deleted)}, nil
}

var _ Repository = (*SQLiteRepository)(nil)
