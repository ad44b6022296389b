package testutils

import (
	"context"
	"sync"

	characterrepo "github.com/KirkDiggler/agency-api/internal/repositories/character"
)

// BlockingRepository holds every Put until Release is called, so tests can act while
// a save is in flight
type BlockingRepository struct {
	characterrepo.Repository

	started chan string
	release chan struct{}
	once    sync.Once
}

// NewBlockingRepository wraps repo
func NewBlockingRepository(repo characterrepo.Repository) *BlockingRepository {
	return &BlockingRepository{
		Repository: repo,
		started:    make(chan string, 16),
		release:    make(chan struct{}),
	}
}

// Put reports the id on Started, waits for Release, then writes through
func (r *BlockingRepository) Put(ctx context.Context, input characterrepo.PutInput) (*characterrepo.PutOutput, error) {
	if input.Character != nil {
		select {
		case r.started <- input.Character.ID:
		default:
		}
	}

	select {
	case <-r.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return r.Repository.Put(ctx, input)
}

// Started receives the id of each Put as it begins
func (r *BlockingRepository) Started() <-chan string {
	return r.started
}

// Release lets held and future Puts through
func (r *BlockingRepository) Release() {
	r.once.Do(func() { close(r.release) })
}
