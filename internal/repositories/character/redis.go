package character

import (
	"context"
	"log/slog"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/agency-api/internal/errors"
	"github.com/KirkDiggler/agency-api/internal/pkg/clock"
	redisclient "github.com/KirkDiggler/agency-api/internal/redis"
	"github.com/KirkDiggler/agency-api/internal/services/conversion"
)

const (
	characterKeyPrefix = "character:"
	indexKey           = "character:ids"
	currentKey         = "character:current"
)

type redisRepository struct {
	client    redisclient.Client
	clock     clock.Clock
	converter conversion.Converter
}

// RedisConfig contains configuration for the Redis character repository.
type RedisConfig struct {
	Client    redisclient.Client
	Clock     clock.Clock
	Converter conversion.Converter
}

// Validate validates the RedisConfig.
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	vb := errors.NewValidationBuilder()
	if cfg.Client == nil {
		vb.RequiredField("client")
	}
	if cfg.Converter == nil {
		vb.RequiredField("converter")
	}
	return vb.Build()
}

// NewRedis creates a new Redis-backed character repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Use real clock if none provided
	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	return &redisRepository{
		client:    cfg.Client,
		clock:     c,
		converter: cfg.Converter,
	}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	result, err := r.client.Get(ctx, characterKeyPrefix+input.ID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, missing("get", input.ID)
		}
		return nil, errors.Wrapf(err, "failed to get character %s", input.ID)
	}

	character, err := decodeCharacter(ctx, r.converter, input.ID, result)
	if err != nil {
		return nil, err
	}

	return &GetOutput{Character: character}, nil
}

func (r *redisRepository) Put(ctx context.Context, input PutInput) (*PutOutput, error) {
	data, err := encodeCharacter(input.Character)
	if err != nil {
		return nil, err
	}
	id := input.Character.ID

	// Start transaction
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, characterKeyPrefix+id, data, 0)
	// NX keeps the first insertion time as the list position
	pipe.ZAddNX(ctx, indexKey, redis.Z{Score: float64(r.clock.Now().UnixNano()), Member: id})

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to put character %s", id)
	}

	slog.DebugContext(ctx, "stored character",
		"character_id", id,
		"size", len(data))

	return &PutOutput{}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	current, err := r.currentID(ctx)
	if err != nil {
		return nil, err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, characterKeyPrefix+input.ID)
	pipe.ZRem(ctx, indexKey, input.ID)
	if current == input.ID {
		pipe.Del(ctx, currentKey)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to delete character %s", input.ID)
	}

	return &DeleteOutput{}, nil
}

func (r *redisRepository) ListIDs(ctx context.Context, _ ListIDsInput) (*ListIDsOutput, error) {
	ids, err := r.client.ZRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		slog.ErrorContext(ctx, "failed to read character index",
			"index_key", indexKey,
			"error", err.Error())
		return nil, errors.Wrap(err, "failed to list characters")
	}

	return &ListIDsOutput{IDs: ids}, nil
}

func (r *redisRepository) GetCurrentID(ctx context.Context, _ GetCurrentIDInput) (*GetCurrentIDOutput, error) {
	id, err := r.currentID(ctx)
	if err != nil {
		return nil, err
	}
	return &GetCurrentIDOutput{ID: id}, nil
}

func (r *redisRepository) SetCurrentID(ctx context.Context, input SetCurrentIDInput) (*SetCurrentIDOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	if err := r.client.Set(ctx, currentKey, input.ID, 0).Err(); err != nil {
		return nil, errors.Wrap(err, "failed to set current character")
	}
	return &SetCurrentIDOutput{}, nil
}

func (r *redisRepository) Clear(ctx context.Context, _ ClearInput) (*ClearOutput, error) {
	ids, err := r.client.ZRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list characters")
	}

	keys := make([]string, 0, len(ids)+2)
	for _, id := range ids {
		keys = append(keys, characterKeyPrefix+id)
	}
	keys = append(keys, indexKey, currentKey)

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return nil, errors.Wrap(err, "failed to clear characters")
	}

	slog.InfoContext(ctx, "cleared characters", "count", len(ids))
	return &ClearOutput{Deleted: len(ids)}, nil
}

func (r *redisRepository) currentID(ctx context.Context) (string, error) {
	id, err := r.client.Get(ctx, currentKey).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "failed to get current character")
	}
	return id, nil
}
