package automation

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"dev/bravebird/browser-launcher/pkg/models"
)

// ErrViewLimitReached is returned when a session is already attached to the view
var ErrViewLimitReached = errors.New("automation view limit reached")

// AppInfo is reported to automation controllers
var AppInfo = models.ApplicationInfo{
	Name:  "wpe-simple-launcher",
	Major: 1,
	Minor: 0,
	Micro: 0,
}

// Limiter lets at most one automation session attach to the single browser view
type Limiter struct {
	mu      sync.Mutex
	current *models.SessionInfo
	done    chan struct{}
}

// NewLimiter creates a limiter with no session attached
func NewLimiter() *Limiter {
	return &Limiter{}
}

// Attach claims the view for a new session
func (l *Limiter) Attach() (models.SessionInfo, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current != nil {
		return models.SessionInfo{}, ErrViewLimitReached
	}

	l.current = &models.SessionInfo{
		SessionID:  uuid.New().String(),
		AttachedAt: time.Now(),
	}
	l.done = make(chan struct{})
	return *l.current, nil
}

// Release frees the view if id is the attached session and closes its Done
// channel. Unknown ids are ignored.
func (l *Limiter) Release(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current == nil || l.current.SessionID != id {
		return false
	}
	close(l.done)
	l.current = nil
	l.done = nil
	return true
}

// Done returns a channel closed when session id is released
func (l *Limiter) Done(id string) (<-chan struct{}, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current == nil || l.current.SessionID != id {
		return nil, false
	}
	return l.done, true
}

// IsAttached reports whether id is the attached session
func (l *Limiter) IsAttached(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current != nil && l.current.SessionID == id
}

// Current returns the attached session, if any
func (l *Limiter) Current() (models.SessionInfo, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.current == nil {
		return models.SessionInfo{}, false
	}
	return *l.current, true
}
