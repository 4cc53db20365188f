package jobs

import (
	"log"
	"time"

	"github.com/talenthive/hrbot-backend/internal/kvstore"
)

// CleanupJob periodically sweeps expired entries (idle sessions, stale
// OTP records) out of in-memory keyed stores. Redis-backed stores
// expire keys natively and need no sweeping.
type CleanupJob struct {
	stores    []*kvstore.Memory
	interval  time.Duration
	stop      chan struct{}
	isRunning bool
}

// NewCleanupJob creates a cleanup job over the given memory stores
func NewCleanupJob(stores ...*kvstore.Memory) *CleanupJob {
	return &CleanupJob{
		stores:   stores,
		interval: 5 * time.Minute,
		stop:     make(chan struct{}),
	}
}

// Start begins the periodic sweep
func (j *CleanupJob) Start() {
	if j.isRunning || len(j.stores) == 0 {
		return
	}
	j.isRunning = true
	log.Println("Starting expiry cleanup job...")

	go func() {
		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				removed := 0
				for _, store := range j.stores {
					removed += store.Sweep()
				}
				if removed > 0 {
					log.Printf("Cleanup swept %d expired entries", removed)
				}
			case <-j.stop:
				return
			}
		}
	}()
}

// Stop halts the sweep
func (j *CleanupJob) Stop() {
	if !j.isRunning {
		return
	}
	j.isRunning = false
	close(j.stop)
	log.Println("Stopping expiry cleanup job...")
}
