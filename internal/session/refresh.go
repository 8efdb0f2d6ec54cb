package session

import "sync"

// RefreshState coordinates the single in-flight credential refresh. Share one
// instance between clients that share cookies.
type RefreshState struct {
	mu         sync.Mutex
	refreshing bool
}

// TryAcquire marks a refresh as started. It reports false when one is
// already running.
func (s *RefreshState) TryAcquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.refreshing {
		return false
	}
	s.refreshing = true
	return true
}

func (s *RefreshState) Release() {
	s.mu.Lock()
	s.refreshing = false
	s.mu.Unlock()
}

func (s *RefreshState) Refreshing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshing
}
