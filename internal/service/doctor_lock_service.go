package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"clinic-slot-engine/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrRegenerationBusy is returned when another regeneration holds the doctor lock
// for longer than the configured wait.
var ErrRegenerationBusy = fmt.Errorf("%w: regeneration already in progress for this doctor", entity.ErrConflict)

// releaseLockScript deletes the lock key only if it still holds our token, so an
// expired lock taken over by another instance is never released by us.
var releaseLockScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

const (
	// RedisDoctorLockKeyPrefix namespaces regeneration locks
	RedisDoctorLockKeyPrefix = "slots:regen:lock:"

	lockRetryInterval = 25 * time.Millisecond

	// Interval for cleaning up stale mutexes
	mutexCleanupInterval = 10 * time.Minute

	// How long a mutex must be unused before cleanup
	mutexStaleThreshold = 10 * time.Minute
)

// DoctorLocker serializes regenerations of the same doctor.
type DoctorLocker interface {
	Lock(ctx context.Context, doctorID uuid.UUID) (unlock func(), err error)
}

// =============================================================================
// In-process locker
// =============================================================================

// LocalDoctorLocker keeps one mutex per doctor. Good for a single instance.
// Call Stop() during graceful shutdown.
type LocalDoctorLocker struct {
	log  *logrus.Logger
	wait time.Duration

	// Per-doctor mutex for concurrent safety
	doctorMu sync.Map // map[uuid.UUID]*mutexWithTimestamp

	// Graceful shutdown
	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

// mutexWithTimestamp tracks mutex usage for cleanup
type mutexWithTimestamp struct {
	mu       sync.Mutex
	lastUsed atomic.Int64 // Unix timestamp
}

// NewLocalDoctorLocker starts the background goroutine that drops stale mutexes.
func NewLocalDoctorLocker(log *logrus.Logger, wait time.Duration) *LocalDoctorLocker {
	l := &LocalDoctorLocker{
		log:      log,
		wait:     wait,
		stopChan: make(chan struct{}),
	}

	l.wg.Add(1)
	go l.cleanupMutexMapLoop()

	return l
}

// Stop gracefully shuts down the cleanup loop.
// Safe to call multiple times.
func (l *LocalDoctorLocker) Stop() {
	if l.stopped.CompareAndSwap(false, true) {
		close(l.stopChan)
		l.wg.Wait()
		l.log.Info("LocalDoctorLocker stopped")
	}
}

func (l *LocalDoctorLocker) Lock(ctx context.Context, doctorID uuid.UUID) (func(), error) {
	mt := l.getDoctorMutex(doctorID)
	deadline := time.Now().Add(l.wait)

	for !mt.mu.TryLock() {
		if time.Now().After(deadline) {
			return nil, ErrRegenerationBusy
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetryInterval):
		}
	}

	mt.lastUsed.Store(time.Now().Unix())
	return mt.mu.Unlock, nil
}

// getDoctorMutex returns mutex for a specific doctor ID
func (l *LocalDoctorLocker) getDoctorMutex(doctorID uuid.UUID) *mutexWithTimestamp {
	mt, _ := l.doctorMu.LoadOrStore(doctorID, &mutexWithTimestamp{})
	result := mt.(*mutexWithTimestamp)
	result.lastUsed.Store(time.Now().Unix())
	return result
}

// cleanupMutexMapLoop runs in background to clean stale mutexes
func (l *LocalDoctorLocker) cleanupMutexMapLoop() {
	defer l.wg.Done()

	ticker := time.NewTicker(mutexCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopChan:
			l.log.Debug("Mutex cleanup goroutine stopping")
			return
		case <-ticker.C:
			l.cleanupStaleMutexes(time.Now().Add(-mutexStaleThreshold))
		}
	}
}

// cleanupStaleMutexes removes unused mutexes. lastUsed is checked while holding the
// lock so a concurrent Lock cannot slip in between the check and the delete.
func (l *LocalDoctorLocker) cleanupStaleMutexes(cutoff time.Time) int {
	cutoffUnix := cutoff.Unix()
	var cleaned int

	l.doctorMu.Range(func(key, value any) bool {
		mt, ok := value.(*mutexWithTimestamp)
		if !ok {
			return true
		}

		if mt.mu.TryLock() {
			if mt.lastUsed.Load() < cutoffUnix {
				l.doctorMu.Delete(key)
				cleaned++
			}
			mt.mu.Unlock()
		}
		return true
	})

	if cleaned > 0 {
		l.log.Debugf("Cleaned up %d stale mutexes", cleaned)
	}
	return cleaned
}

// =============================================================================
// Redis locker
// =============================================================================

// RedisDoctorLocker uses SET NX PX so regenerations are serialized across instances.
type RedisDoctorLocker struct {
	redisClient *redis.Client
	log         *logrus.Logger
	ttl         time.Duration
	wait        time.Duration
}

func NewRedisDoctorLocker(redisClient *redis.Client, log *logrus.Logger, ttl, wait time.Duration) *RedisDoctorLocker {
	return &RedisDoctorLocker{
		redisClient: redisClient,
		log:         log,
		ttl:         ttl,
		wait:        wait,
	}
}

func (l *RedisDoctorLocker) Lock(ctx context.Context, doctorID uuid.UUID) (func(), error) {
	key := RedisDoctorLockKeyPrefix + doctorID.String()
	token, err := newLockToken()
	if err != nil {
		return nil, err
	}

	deadline := time.Now().Add(l.wait)
	for {
		acquired, err := l.redisClient.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			l.log.Warnf("Failed to acquire regeneration lock for doctor %s: %+v", doctorID, err)
			return nil, fmt.Errorf("acquire lock for doctor %s: %w", doctorID, err)
		}
		if acquired {
			break
		}
		if time.Now().After(deadline) {
			return nil, ErrRegenerationBusy
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetryInterval):
		}
	}

	unlock := func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := releaseLockScript.Run(releaseCtx, l.redisClient, []string{key}, token).Err(); err != nil {
			l.log.Warnf("Failed to release regeneration lock for doctor %s (expires in %v): %+v", doctorID, l.ttl, err)
		}
	}
	return unlock, nil
}

func newLockToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate lock token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
