package monitoring

import (
	"sync"

	"github.com/sarchlab/marbles/experiment"
)

// RunStats counts the runs that the monitor served.
type RunStats struct {
	lock       sync.Mutex
	started    uint64
	finished   uint64
	inProgress uint64
	lastRunID  string
	outcomes   map[experiment.Outcome]uint64
}

// RunStatsSnapshot is a copy of the counters taken at one point.
type RunStatsSnapshot struct {
	Started    uint64            `json:"started"`
	Finished   uint64            `json:"finished"`
	InProgress uint64            `json:"in_progress"`
	LastRunID  string            `json:"last_run_id"`
	Outcomes   map[string]uint64 `json:"outcomes"`
}

func (s *RunStats) start() {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.started++
	s.inProgress++
}

func (s *RunStats) abort() {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.inProgress--
}

func (s *RunStats) finish(r experiment.Result) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.outcomes == nil {
		s.outcomes = make(map[experiment.Outcome]uint64)
	}

	s.inProgress--
	s.finished++
	s.lastRunID = r.RunID
	s.outcomes[r.Outcome]++
}

// Snapshot copies the counters.
func (s *RunStats) Snapshot() RunStatsSnapshot {
	s.lock.Lock()
	defer s.lock.Unlock()

	snapshot := RunStatsSnapshot{
		Started:    s.started,
		Finished:   s.finished,
		InProgress: s.inProgress,
		LastRunID:  s.lastRunID,
		Outcomes:   make(map[string]uint64),
	}

	for outcome, n := range s.outcomes {
		snapshot.Outcomes[outcome.String()] = n
	}

	return snapshot
}
