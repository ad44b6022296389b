package character

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/core"

	"github.com/KirkDiggler/agency-api/internal/entities/agency"
	"github.com/KirkDiggler/agency-api/internal/errors"
	"github.com/KirkDiggler/agency-api/internal/services/conversion"
)

// entityError wraps a core entity failure for the character id in one of our codes.
// errors.Is(err, core.ErrEntityNotFound) and the other core sentinels hold for the result.
func entityError(code errors.Code, message, op, id string, cause error) *errors.Error {
	err := errors.WrapWithCode(core.NewEntityError(op, agency.EntityType, id, cause), code, message)
	if id != "" {
		err = err.WithMeta("character_id", id)
	}
	return err
}

// missing reports a record that is not stored
func missing(op, id string) error {
	return entityError(errors.CodeNotFound, errNoData, op, id, core.ErrEntityNotFound)
}

// checkEntity rejects records that cannot be stored
func checkEntity(op string, character *agency.Character) error {
	if character == nil {
		return entityError(errors.CodeInvalidArgument, errCharacterNil, op, "", core.ErrNilEntity)
	}
	if character.GetID() == "" {
		return entityError(errors.CodeInvalidArgument, errCharacterIDEmpty, op, "", core.ErrEmptyID)
	}
	return nil
}

func encodeCharacter(character *agency.Character) ([]byte, error) {
	if err := checkEntity("put", character); err != nil {
		return nil, err
	}

	data, err := json.Marshal(character)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal character data")
	}
	return data, nil
}

// decodeCharacter turns a stored payload into a record. Unreadable payloads are
// reported as NotFound wrapping core.ErrInvalidEntity.
func decodeCharacter(ctx context.Context, converter conversion.Converter, id string, data []byte) (*agency.Character, error) {
	character, err := converter.Decode(data)
	if err != nil {
		slog.WarnContext(ctx, "stored character payload is unreadable",
			"character_id", id,
			"size", len(data),
			"error", err.Error())
		return nil, entityError(errors.CodeNotFound, errNoData, "decode", id, core.ErrInvalidEntity)
	}

	// Legacy records without an id take the key they were stored under
	if character.ID == "" {
		character.ID = id
	}
	return character, nil
}
