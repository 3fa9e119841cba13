// Package kvtest provides a fault-injecting medium for storage tests.
package kvtest

import (
	"strings"
	"sync"

	"github.com/jgoulah/kcaltrack/internal/errs"
)

// Faulty is an in-memory medium whose failures are controlled by the test
type Faulty struct {
	mu   sync.Mutex
	data map[string]string

	// SetHook, when set, runs before every write to a non-probe key. A non-nil
	// error aborts the write.
	SetHook func(key, value string) error
	// Unavailable fails every operation, including the probe.
	Unavailable bool
	// ReadErr fails reads of non-probe keys.
	ReadErr error

	// Writes counts attempted writes to non-probe keys.
	Writes int
}

// New returns an empty medium
func New() *Faulty {
	return &Faulty{data: make(map[string]string)}
}

func isProbe(key string) bool {
	return strings.HasPrefix(key, "__")
}

// Get returns the value stored under key
func (f *Faulty) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Unavailable {
		return "", false, errUnavailable
	}
	if f.ReadErr != nil && !isProbe(key) {
		return "", false, f.ReadErr
	}
	v, ok := f.data[key]
	return v, ok, nil
}

// Set stores value under key unless a hook rejects it
func (f *Faulty) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Unavailable {
		return errUnavailable
	}
	if !isProbe(key) {
		f.Writes++
		if f.SetHook != nil {
			if err := f.SetHook(key, value); err != nil {
				return err
			}
		}
	}
	f.data[key] = value
	return nil
}

// Remove deletes key
func (f *Faulty) Remove(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Unavailable {
		return errUnavailable
	}
	delete(f.data, key)
	return nil
}

// Raw returns the stored value without fault injection
func (f *Faulty) Raw(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok
}

// Put stores a value without fault injection
func (f *Faulty) Put(key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
}

// QuotaWhen returns a hook that rejects writes with errs.ErrQuotaExceeded
// while reject reports true for the value.
func QuotaWhen(reject func(value string) bool) func(key, value string) error {
	return func(_, value string) error {
		if reject(value) {
			return errs.ErrQuotaExceeded
		}
		return nil
	}
}

// QuotaOver rejects values longer than limit bytes
func QuotaOver(limit int) func(key, value string) error {
	return QuotaWhen(func(v string) bool { return len(v) > limit })
}

type unavailableError struct{}

func (unavailableError) Error() string { return "storage disabled" }

var errUnavailable error = unavailableError{}
