package preview

import (
	"fmt"
	"time"

	"github.com/periljames/amo-portal-sub002/internal/config"
	"github.com/periljames/amo-portal-sub002/internal/metrics"

	"github.com/patrickmn/go-cache"
)

// SessionStore holds live preview sessions in memory with a TTL. A session
// that outlives the TTL is simply gone; the next upload starts fresh.
type SessionStore struct {
	c       *cache.Cache
	ttl     time.Duration
	metrics *metrics.Registry
}

func NewSessionStore(cfg *config.Config, reg *metrics.Registry) *SessionStore {
	return &SessionStore{
		c:       cache.New(cfg.SessionTTL, 10*time.Minute),
		ttl:     cfg.SessionTTL,
		metrics: reg,
	}
}

func (s *SessionStore) Put(sess *Session) {
	s.c.Set(sess.ID, sess, s.ttl)
	s.updateGauge()
}

func (s *SessionStore) Get(id string) (*Session, error) {
	v, ok := s.c.Get(id)
	if !ok {
		return nil, fmt.Errorf("preview session %s not found or expired", id)
	}
	sess, ok := v.(*Session)
	if !ok {
		return nil, fmt.Errorf("preview session %s has unexpected type", id)
	}
	// Sliding expiry: touching a session keeps it alive
	s.c.Set(id, sess, s.ttl)
	return sess, nil
}

func (s *SessionStore) Delete(id string) {
	s.c.Delete(id)
	s.updateGauge()
}

// Sweep evicts expired sessions and reports how many remain resident
func (s *SessionStore) Sweep() int {
	s.c.DeleteExpired()
	s.updateGauge()
	return s.c.ItemCount()
}

func (s *SessionStore) updateGauge() {
	if s.metrics != nil {
		s.metrics.SessionsResident.Set(float64(s.c.ItemCount()))
	}
}
