package jobqueue

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/rl-Rahul/balu-property-sub003/internal/pkg/cache"
)

type sentMail struct {
	To, Subject, Body string
}

type fakeMailer struct {
	mu    sync.Mutex
	sent  []sentMail
	calls int
	err   error
}

func (m *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func (m *fakeMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type fakeSubscriptions struct {
	mu      sync.Mutex
	sweeps  int
	checked []uint
}

func (s *fakeSubscriptions) ExpireLapsed(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweeps++
	return 0, nil
}

func (s *fakeSubscriptions) CheckPersonLimit(_ context.Context, accountID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if accountID == 0 {
		return false, errors.New("account id is required")
	}
	s.checked = append(s.checked, accountID)
	return false, nil
}

func (s *fakeSubscriptions) sweepCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweeps
}

// setupTestRedis points the shared cache client at a fresh miniredis.
func setupTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache.SetClient(client)
	t.Cleanup(func() {
		_ = client.Close()
	})
	return mr
}
