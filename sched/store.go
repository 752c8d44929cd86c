package sched

import (
	"sync"
	"time"

	"github.com/liumiaowilson/atom/id"
)

// RunState represents the lifecycle state of a scheduled run.
type RunState string

const (
	// StatePending means the run is waiting for a worker.
	StatePending RunState = "pending"
	// StateRunning means a cycle of the run is executing.
	StateRunning RunState = "running"
	// StateCompleted means the run's step tree finished.
	StateCompleted RunState = "completed"
	// StateFailed means a cycle returned a terminal error.
	StateFailed RunState = "failed"
)

// RunRecord tracks one logical run across its hand-off cycles.
type RunRecord struct {
	RunID       id.RunID   `json:"run_id"`
	State       RunState   `json:"state"`
	Handoffs    int        `json:"handoffs"`
	SubmittedAt time.Time  `json:"submitted_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// Store is an in-memory record of scheduled runs. Safe for concurrent
// access. The records are bookkeeping only; the runner itself carries the
// computation state across hand-offs.
type Store struct {
	mu      sync.RWMutex
	records map[string]*RunRecord
}

// NewStore returns a new empty Store.
func NewStore() *Store {
	return &Store{records: make(map[string]*RunRecord)}
}

// submit records a first submission or a hand-off resubmission of runID
// and returns the hand-off count (0 for a first submission).
func (s *Store) submit(runID id.RunID) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := runID.String()
	rec, ok := s.records[key]
	if !ok {
		s.records[key] = &RunRecord{
			RunID:       runID,
			State:       StatePending,
			SubmittedAt: time.Now().UTC(),
		}
		return 0
	}

	rec.Handoffs++
	rec.State = StatePending
	return rec.Handoffs
}

// markRunning transitions runID into the running state.
func (s *Store) markRunning(runID id.RunID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.records[runID.String()]; ok {
		now := time.Now().UTC()
		rec.State = StateRunning
		rec.StartedAt = &now
	}
}

// markCompleted transitions runID into the completed state.
func (s *Store) markCompleted(runID id.RunID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.records[runID.String()]; ok {
		now := time.Now().UTC()
		rec.State = StateCompleted
		rec.CompletedAt = &now
	}
}

// markFailed transitions runID into the failed state with the given error.
func (s *Store) markFailed(runID id.RunID, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.records[runID.String()]; ok {
		now := time.Now().UTC()
		rec.State = StateFailed
		rec.CompletedAt = &now
		rec.Error = err.Error()
	}
}

// handoffs returns the current hand-off count of runID.
func (s *Store) handoffs(runID id.RunID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if rec, ok := s.records[runID.String()]; ok {
		return rec.Handoffs
	}
	return 0
}

// Get returns a copy of the record for runID.
func (s *Store) Get(runID id.RunID) (RunRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[runID.String()]
	if !ok {
		return RunRecord{}, false
	}
	return *rec, true
}

// List returns copies of all records, in no particular order.
func (s *Store) List() []RunRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]RunRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, *rec)
	}
	return out
}
