package character

import (
	"context"
	"slices"
	"sync"

	"github.com/KirkDiggler/agency-api/internal/errors"
	"github.com/KirkDiggler/agency-api/internal/services/conversion"
)

// InMemoryRepository implements Repository using in-memory storage. Records are kept
// serialised so callers never share state with the store.
type InMemoryRepository struct {
	mu        sync.RWMutex
	converter conversion.Converter
	store     map[string][]byte
	ids       []string
	current   string
}

// NewInMemory creates a new in-memory repository
func NewInMemory(converter conversion.Converter) (*InMemoryRepository, error) {
	if converter == nil {
		return nil, errors.InvalidArgument("converter is required")
	}
	return &InMemoryRepository{
		converter: converter,
		store:     make(map[string][]byte),
	}, nil
}

// Get implements Repository
func (r *InMemoryRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	r.mu.RLock()
	data, exists := r.store[input.ID]
	r.mu.RUnlock()
	if !exists {
		return nil, missing("get", input.ID)
	}

	character, err := decodeCharacter(ctx, r.converter, input.ID, data)
	if err != nil {
		return nil, err
	}
	return &GetOutput{Character: character}, nil
}

// Put implements Repository
func (r *InMemoryRepository) Put(_ context.Context, input PutInput) (*PutOutput, error) {
	data, err := encodeCharacter(input.Character)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := input.Character.ID
	if _, exists := r.store[id]; !exists {
		r.ids = append(r.ids, id)
	}
	r.store[id] = data

	return &PutOutput{}, nil
}

// PutRaw stores an arbitrary payload under id. It exists for seeding legacy or
// corrupt records in tests and tools.
func (r *InMemoryRepository) PutRaw(id string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.store[id]; !exists {
		r.ids = append(r.ids, id)
	}
	r.store[id] = slices.Clone(data)
}

// Delete implements Repository
func (r *InMemoryRepository) Delete(_ context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.store, input.ID)
	r.ids = slices.DeleteFunc(r.ids, func(id string) bool { return id == input.ID })
	if r.current == input.ID {
		r.current = ""
	}

	return &DeleteOutput{}, nil
}

// ListIDs implements Repository
func (r *InMemoryRepository) ListIDs(_ context.Context, _ ListIDsInput) (*ListIDsOutput, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, len(r.ids))
	copy(ids, r.ids)
	return &ListIDsOutput{IDs: ids}, nil
}

// GetCurrentID implements Repository
func (r *InMemoryRepository) GetCurrentID(_ context.Context, _ GetCurrentIDInput) (*GetCurrentIDOutput, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return &GetCurrentIDOutput{ID: r.current}, nil
}

// SetCurrentID implements Repository
func (r *InMemoryRepository) SetCurrentID(_ context.Context, input SetCurrentIDInput) (*SetCurrentIDOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.current = input.ID
	return &SetCurrentIDOutput{}, nil
}

// Clear implements Repository
func (r *InMemoryRepository) Clear(_ context.Context, _ ClearInput) (*ClearOutput, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := len(r.ids)
	r.store = make(map[string][]byte)
	r.ids = nil
	r.current = ""
	return &ClearOutput{Deleted: deleted}, nil
}

var _ Repository = (*InMemoryRepository)(nil)
