package character

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/KirkDiggler/agency-api/internal/entities/agency"
	"github.com/KirkDiggler/agency-api/internal/errors"
)

// DefaultSaveInterval is the quiescence period before a scheduled snapshot is written
const DefaultSaveInterval = 500 * time.Millisecond

// SaveSchedulerConfig configures a SaveScheduler
type SaveSchedulerConfig struct {
	Repository Repository
	// Interval defaults to DefaultSaveInterval
	Interval time.Duration
}

// Validate ensures the configuration is valid
func (cfg *SaveSchedulerConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	vb := errors.NewValidationBuilder()
	if cfg.Repository == nil {
		vb.RequiredField("repository")
	}
	if cfg.Interval < 0 {
		vb.InvalidField("interval", "must not be negative")
	}
	return vb.Build()
}

// SaveScheduler debounces writes: it holds one pending snapshot and one timer, and
// each Schedule replaces the snapshot and restarts the timer. Scheduling a different
// record while another is pending writes the pending one first.
//
// A snapshot stays visible through Pending from the moment it is scheduled until its
// write has finished, so readers never fall back to an older stored record.
type SaveScheduler struct {
	repo     Repository
	interval time.Duration

	// writeMu orders writes so a later snapshot is never overwritten by an earlier one
	writeMu sync.Mutex

	mu      sync.Mutex
	pending *agency.Character
	// inFlight holds snapshots taken from pending whose write has not finished, by id
	inFlight map[string]*agency.Character
	timer    *time.Timer
	closed   bool
}

// NewSaveScheduler creates a SaveScheduler
func NewSaveScheduler(cfg *SaveSchedulerConfig) (*SaveScheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid save scheduler config")
	}

	interval := cfg.Interval
	if interval == 0 {
		interval = DefaultSaveInterval
	}

	return &SaveScheduler{
		repo:     cfg.Repository,
		interval: interval,
		inFlight: make(map[string]*agency.Character),
	}, nil
}

// Interval returns the debounce interval
func (s *SaveScheduler) Interval() time.Duration {
	return s.interval
}

// Schedule queues a snapshot of character to be written after the interval
func (s *SaveScheduler) Schedule(ctx context.Context, character *agency.Character) error {
	if err := checkEntity("schedule", character); err != nil {
		return err
	}
	snapshot := character.Clone()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return errors.FailedPrecondition("save scheduler is closed")
	}

	var displaced *agency.Character
	if s.pending != nil && s.pending.ID != snapshot.ID {
		displaced = s.pending
		s.inFlight[displaced.ID] = displaced
	}
	s.pending = snapshot
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.interval, s.fire)
	s.mu.Unlock()

	if displaced != nil {
		slog.DebugContext(ctx, "writing displaced pending save",
			"character_id", displaced.ID,
			"next_character_id", snapshot.ID)

		s.writeMu.Lock()
		defer s.writeMu.Unlock()
		return s.writeTaken(ctx, displaced)
	}
	return nil
}

// Pending returns a copy of the latest unwritten snapshot for id, queued or being written
func (s *SaveScheduler) Pending(id string) (*agency.Character, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending != nil && s.pending.ID == id {
		return s.pending.Clone(), true
	}
	if snapshot, ok := s.inFlight[id]; ok {
		return snapshot.Clone(), true
	}
	return nil, false
}

// Discard drops the unwritten snapshot for id. A write of id already under way has
// finished by the time Discard returns, so a following delete is not undone.
func (s *SaveScheduler) Discard(id string) bool {
	s.mu.Lock()
	dropped := false
	if s.pending != nil && s.pending.ID == id {
		s.pending = nil
		s.stopTimer()
		dropped = true
	}
	if _, ok := s.inFlight[id]; ok {
		delete(s.inFlight, id)
		dropped = true
	}
	s.mu.Unlock()

	s.waitForWrites()
	return dropped
}

// DiscardAll drops every unwritten snapshot and waits for a write already under way.
// It returns the number of snapshots dropped.
func (s *SaveScheduler) DiscardAll() int {
	s.mu.Lock()
	dropped := len(s.inFlight)
	if s.pending != nil {
		s.pending = nil
		s.stopTimer()
		dropped++
	}
	clear(s.inFlight)
	s.mu.Unlock()

	s.waitForWrites()
	return dropped
}

// Flush writes the queued snapshot now. It is a no-op when nothing is queued.
func (s *SaveScheduler) Flush(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	snapshot := s.take()
	if snapshot == nil {
		return nil
	}
	return s.writeTaken(ctx, snapshot)
}

// Close flushes and stops accepting snapshots
func (s *SaveScheduler) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	return s.Flush(ctx)
}

func (s *SaveScheduler) fire() {
	ctx := context.Background()
	if err := s.Flush(ctx); err != nil {
		slog.ErrorContext(ctx, "scheduled character save failed",
			"error", err.Error())
	}
}

// take moves the queued snapshot to inFlight
func (s *SaveScheduler) take() *agency.Character {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.pending
	s.pending = nil
	s.stopTimer()
	if snapshot != nil {
		s.inFlight[snapshot.ID] = snapshot
	}
	return snapshot
}

// stopTimer requires s.mu
func (s *SaveScheduler) stopTimer() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *SaveScheduler) waitForWrites() {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
}

// writeTaken writes a snapshot taken by take or Schedule unless it was discarded or
// superseded meanwhile. Callers hold s.writeMu.
func (s *SaveScheduler) writeTaken(ctx context.Context, snapshot *agency.Character) error {
	s.mu.Lock()
	current := s.inFlight[snapshot.ID] == snapshot
	s.mu.Unlock()
	if !current {
		slog.DebugContext(ctx, "skipping discarded character snapshot",
			"character_id", snapshot.ID)
		return nil
	}

	err := s.write(ctx, snapshot)

	s.mu.Lock()
	if s.inFlight[snapshot.ID] == snapshot {
		delete(s.inFlight, snapshot.ID)
	}
	s.mu.Unlock()
	return err
}

func (s *SaveScheduler) write(ctx context.Context, snapshot *agency.Character) error {
	if _, err := s.repo.Put(ctx, PutInput{Character: snapshot}); err != nil {
		return errors.Wrapf(err, "failed to save character %s", snapshot.ID)
	}

	slog.DebugContext(ctx, "saved character snapshot",
		"character_id", snapshot.ID,
		"updated_at", snapshot.UpdatedAt)
	return nil
}
