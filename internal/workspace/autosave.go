package workspace

import (
	"context"
	"sync"
	"time"

	"github.com/listenupapp/corkboard/internal/domain"
)

// autosaveState tracks the periodic save loop. Lock order is autosave.mu
// before s.mu; nothing holding s.mu may take autosave.mu.
type autosaveState struct {
	mu       sync.Mutex
	override time.Duration
	parent   context.Context
	cancel   context.CancelFunc
	done     chan struct{}
	closed   bool
}

// StartAutosave starts writing every document on the autosave period until
// ctx is done or Close is called. The period follows Settings.AutoSaveInterval
// and is picked up again whenever that setting changes.
func (s *Store) StartAutosave(ctx context.Context) {
	s.autosave.mu.Lock()
	defer s.autosave.mu.Unlock()

	if s.autosave.closed || s.autosave.parent != nil {
		return
	}
	s.autosave.parent = ctx
	s.startAutosaveLocked()
}

// restartAutosave reschedules a running loop with the current period.
func (s *Store) restartAutosave() {
	s.autosave.mu.Lock()
	defer s.autosave.mu.Unlock()

	if s.autosave.parent == nil || s.autosave.closed {
		return
	}
	s.autosave.cancel()
	s.startAutosaveLocked()
}

func (s *Store) startAutosaveLocked() {
	interval := s.autosaveInterval()
	ctx, cancel := context.WithCancel(s.autosave.parent)
	done := make(chan struct{})
	s.autosave.cancel = cancel
	s.autosave.done = done

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.SaveNow()
			case <-ctx.Done():
				return
			}
		}
	}()

	s.logger.Debug("autosave scheduled", "interval", interval)
}

// AutosaveInterval reports the period the autosave loop uses.
func (s *Store) AutosaveInterval() time.Duration {
	s.autosave.mu.Lock()
	defer s.autosave.mu.Unlock()
	return s.autosaveInterval()
}

func (s *Store) autosaveInterval() time.Duration {
	if s.autosave.override > 0 {
		return s.autosave.override
	}
	s.mu.Lock()
	secs := s.settings.AutoSaveInterval
	s.mu.Unlock()
	return time.Duration(max(secs, domain.MinAutoSaveInterval)) * time.Second
}

// SaveNow writes every document immediately.
func (s *Store) SaveNow() {
	var fx effects
	defer s.deliver(&fx)
	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs.SaveAll(s.state())
	s.logger.Debug("workspace saved", "boards", len(s.boards), "folders", len(s.folders))
}

// Close stops autosave and performs a final save. It is safe to call more
// than once.
func (s *Store) Close() error {
	s.autosave.mu.Lock()
	if s.autosave.closed {
		s.autosave.mu.Unlock()
		return nil
	}
	s.autosave.closed = true
	done := s.autosave.done
	if s.autosave.cancel != nil {
		s.autosave.cancel()
	}
	s.autosave.mu.Unlock()

	if done != nil {
		<-done
	}
	s.SaveNow()
	s.logger.Info("workspace closed")
	return nil
}
