// Package kv wraps an unreliable durable key-value medium with an in-memory
// fallback owned by the caller.
package kv

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jgoulah/kcaltrack/internal/errs"
)

const probeKey = "__storage_test__"

// healthyRatio is the share of the quota below which usage is considered healthy
const healthyRatio = 0.8

// Medium is a string key-value store
type Medium interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

// Sizer is implemented by media that can report their usage
type Sizer interface {
	UsedBytes() (int64, error)
}

// Quoted is implemented by media with a byte limit
type Quoted interface {
	Quota() int64
}

// Adapter routes reads and writes to the durable medium when it is usable
// and to the fallback otherwise.
type Adapter struct {
	durable  Medium
	fallback *Memory
	logger   *zap.Logger
}

// New creates an adapter. durable may be nil when no medium could be opened.
func New(durable Medium, fallback *Memory, logger *zap.Logger) *Adapter {
	if fallback == nil {
		fallback = NewMemory()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{durable: durable, fallback: fallback, logger: logger}
}

// Probe reports whether the durable medium accepts a write/delete round trip.
// Every call performs a throwaway write. A full medium still counts as
// available so that quota errors reach the caller of Set.
func (a *Adapter) Probe() bool {
	if a.durable == nil {
		return false
	}
	if err := a.durable.Set(probeKey, "1"); err != nil {
		if errors.Is(err, errs.ErrQuotaExceeded) {
			return true
		}
		a.logger.Warn("durable storage unavailable", zap.Error(err))
		return false
	}
	if err := a.durable.Remove(probeKey); err != nil {
		a.logger.Warn("durable storage unavailable", zap.Error(err))
		return false
	}
	return true
}

// Get returns the value stored under key. Read errors are logged and
// reported as absent.
func (a *Adapter) Get(key string) (string, bool) {
	if a.Probe() {
		v, ok, err := a.durable.Get(key)
		if err != nil {
			a.logger.Error("reading durable storage", zap.String("key", key), zap.Error(err))
			return "", false
		}
		return v, ok
	}
	v, ok, _ := a.fallback.Get(key)
	return v, ok
}

// Set writes value under key. Quota errors are returned; any other durable
// failure is logged and the value goes to the fallback instead.
func (a *Adapter) Set(key, value string) error {
	if !a.Probe() {
		return a.fallback.Set(key, value)
	}

	err := a.durable.Set(key, value)
	if err == nil {
		return nil
	}
	if errors.Is(err, errs.ErrQuotaExceeded) {
		return err
	}

	a.logger.Error("durable write failed, using memory fallback", zap.String("key", key), zap.Error(err))
	return a.fallback.Set(key, value)
}

// Durable reports whether writes currently reach the durable medium
func (a *Adapter) Durable() bool {
	return a.Probe()
}

// Usage describes how much of the active medium is in use
type Usage struct {
	Durable   bool
	UsedBytes int64
	Quota     int64 // 0 when unlimited or unknown
	Healthy   bool
}

// Usage reports usage of whichever medium is currently active
func (a *Adapter) Usage() (Usage, error) {
	u := Usage{Durable: a.Probe()}

	var medium Medium = a.fallback
	if u.Durable {
		medium = a.durable
	}

	if s, ok := medium.(Sizer); ok {
		used, err := s.UsedBytes()
		if err != nil {
			return Usage{}, fmt.Errorf("measuring storage: %w", err)
		}
		u.UsedBytes = used
	}
	if q, ok := medium.(Quoted); ok {
		u.Quota = q.Quota()
	}

	u.Healthy = u.Quota <= 0 || float64(u.UsedBytes) < healthyRatio*float64(u.Quota)
	return u, nil
}
