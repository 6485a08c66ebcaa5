package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/bodyscale/internal/withings"
)

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	User                withings.User
	HasUser             bool
	Groups              []withings.MeasureGroup // newest first
	ServerUpdated       time.Time               // updatetime of the last getmeas
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsOffline returns true when the API has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Latest returns the newest measurement group of the measures category.
func (s Snapshot) Latest() (withings.MeasureGroup, bool) {
	for _, g := range s.Groups {
		if g.Category == withings.CategoryMeasures {
			return g, true
		}
	}
	return withings.MeasureGroup{}, false
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update merges a poll result. Groups in body replace stored groups with the
// same id. When err is non-nil the previous data is kept but the error is
// recorded for visibility.
func (s *Store) Update(user *withings.User, body *withings.MeasureBody, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return
	}

	if user != nil {
		s.snapshot.User = *user
		s.snapshot.HasUser = true
	}
	if body != nil {
		s.snapshot.Groups = mergeGroups(s.snapshot.Groups, body.MeasureGrps)
		if updated := body.Updated(); !updated.IsZero() {
			s.snapshot.ServerUpdated = updated
		}
	}
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// LastSync returns the cutoff for incremental polls: the server update time
// when known, otherwise the newest stored group date. Zero means no data yet.
func (s *Store) LastSync() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.snapshot.ServerUpdated.IsZero() {
		return s.snapshot.ServerUpdated
	}
	if len(s.snapshot.Groups) > 0 {
		return s.snapshot.Groups[0].Time()
	}
	return time.Time{}
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Groups = cloneGroups(s.snapshot.Groups)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func mergeGroups(existing, incoming []withings.MeasureGroup) []withings.MeasureGroup {
	if len(incoming) == 0 {
		return existing
	}
	index := make(map[int64]int, len(existing))
	merged := cloneGroups(existing)
	for i, g := range merged {
		index[g.GroupID] = i
	}
	for _, g := range incoming {
		g.Measures = append([]withings.Measure(nil), g.Measures...)
		if i, ok := index[g.GroupID]; ok {
			merged[i] = g
			continue
		}
		index[g.GroupID] = len(merged)
		merged = append(merged, g)
	}
	withings.SortGroups(merged)
	return merged
}

func cloneGroups(groups []withings.MeasureGroup) []withings.MeasureGroup {
	if len(groups) == 0 {
		return nil
	}
	dup := make([]withings.MeasureGroup, len(groups))
	for i, g := range groups {
		g.Measures = append([]withings.Measure(nil), g.Measures...)
		dup[i] = g
	}
	return dup
}
