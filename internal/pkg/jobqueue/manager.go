package jobqueue

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/rl-Rahul/balu-property-sub003/internal/pkg/env"
)

const defaultSweepInterval = time.Hour

// Manager manages the global job queue and background tasks
type Manager struct {
	queue         *Queue
	sweepInterval time.Duration
	sweepTicker   *time.Ticker
	stopCh        chan struct{}
	wg            sync.WaitGroup
	mu            sync.Mutex
	running       bool
}

var (
	globalManager *Manager
	managerOnce   sync.Once
)

// NewManager wraps queue with the periodic expiry sweep.
func NewManager(queue *Queue, sweepInterval time.Duration) *Manager {
	if sweepInterval <= 0 {
		sweepInterval = defaultSweepInterval
	}
	return &Manager{
		queue:         queue,
		sweepInterval: sweepInterval,
		stopCh:        make(chan struct{}),
	}
}

// SetupManager creates the global manager once, reading JOB_WORKERS and
// SWEEP_INTERVAL from the environment.
func SetupManager(deps Dependencies) *Manager {
	managerOnce.Do(func() {
		workers := env.GetEnvInt("JOB_WORKERS", 3)
		interval := env.GetEnvDuration("SWEEP_INTERVAL", defaultSweepInterval)
		globalManager = NewManager(NewQueue(workers, deps), interval)
	})
	return globalManager
}

// GetManager returns the global job queue manager, nil before SetupManager.
func GetManager() *Manager {
	return globalManager
}

// GetQueue returns the managed job queue
func (m *Manager) GetQueue() *Queue {
	return m.queue
}

// Start starts the job queue and background tasks
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return
	}

	// Recreate stop channel for each start cycle so manager can be restarted safely.
	m.stopCh = make(chan struct{})
	m.running = true
	log.Info("[JobQueue Manager] Starting job queue and background tasks")

	m.queue.Start()

	// catch up on anything that lapsed while the service was down
	m.enqueueSweep()

	m.sweepTicker = time.NewTicker(m.sweepInterval)
	m.wg.Add(1)
	go m.sweepWorker(m.sweepTicker, m.stopCh)

	log.Infof("[JobQueue Manager] Started successfully (sweep interval: %s)", m.sweepInterval)
}

// Stop stops the job queue and background tasks
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	log.Info("[JobQueue Manager] Stopping job queue and background tasks...")

	if m.sweepTicker != nil {
		m.sweepTicker.Stop()
	}

	close(m.stopCh)
	m.running = false
	m.wg.Wait()

	m.queue.Stop()

	log.Info("[JobQueue Manager] Stopped successfully")
}

// sweepWorker enqueues an expiry sweep on every tick
func (m *Manager) sweepWorker(ticker *time.Ticker, stopCh <-chan struct{}) {
	defer m.wg.Done()
	for {
		select {
		case <-stopCh:
			log.Info("[JobQueue Manager] Sweep worker stopping")
			return
		case <-ticker.C:
			m.enqueueSweep()
		}
	}
}

func (m *Manager) enqueueSweep() {
	if err := m.queue.EnqueueExpirySweep(); err != nil {
		log.Errorf("[JobQueue Manager] Failed to enqueue expiry sweep: %v", err)
	}
}

// IsRunning returns whether the manager is currently running
func (m *Manager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}
