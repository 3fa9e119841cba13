// Package entry persists the food entry collection as a single JSON record.
package entry

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jgoulah/kcaltrack/internal/errs"
	"github.com/jgoulah/kcaltrack/pkg/models"
)

// Key is the storage key holding the JSON array of entries
const Key = "calorie_tracker_entries"

// imageRetentionDays is how long photos are kept before save strips them
const imageRetentionDays = 7

// KV is the persistence the store writes through
type KV interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// WriteOutcome describes how a save took effect
type WriteOutcome int

const (
	// WriteOK means the collection was stored as given
	WriteOK WriteOutcome = iota
	// WriteDegraded means the collection was stored with every photo removed
	WriteDegraded
	// WriteFailed means nothing was stored
	WriteFailed
)

func (o WriteOutcome) String() string {
	switch o {
	case WriteOK:
		return "ok"
	case WriteDegraded:
		return "degraded"
	default:
		return "failed"
	}
}

// Store provides CRUD over the entry collection
type Store struct {
	kv     KV
	now    func() time.Time
	logger *zap.Logger
}

// Option configures a Store
type Option func(*Store)

// WithClock overrides the clock used for ids and the photo retention policy
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// NewStore creates a store over kv
func NewStore(kv KV, opts ...Option) *Store {
	s := &Store{kv: kv, now: time.Now, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// load decodes the stored collection. A missing key is an empty collection;
// malformed JSON is reported as errs.ErrParse.
func (s *Store) load() ([]models.FoodEntry, error) {
	data, ok := s.kv.Get(Key)
	if !ok || data == "" {
		return []models.FoodEntry{}, nil
	}

	var entries []models.FoodEntry
	if err := json.Unmarshal([]byte(data), &entries); err != nil {
		return nil, fmt.Errorf("%w: decoding entries: %v", errs.ErrParse, err)
	}
	if entries == nil {
		entries = []models.FoodEntry{}
	}
	return entries, nil
}

// List returns every stored entry. Corrupt data reads as an empty collection.
func (s *Store) List() []models.FoodEntry {
	entries, err := s.load()
	if err != nil {
		s.logger.Error("reading food entries", zap.Error(err))
		return []models.FoodEntry{}
	}
	return entries
}

// Get returns the entry with the given id
func (s *Store) Get(id string) (models.FoodEntry, bool) {
	for _, e := range s.List() {
		if e.ID == id {
			return e, true
		}
	}
	return models.FoodEntry{}, false
}

// Add validates, clamps and appends an entry. An empty id is generated; an id
// that is already taken gets a time-derived suffix. After saving, the
// collection is read back and errs.ErrPersistence is returned if the entry is
// missing. Nothing is rolled back on failure.
func (s *Store) Add(e models.FoodEntry) (models.FoodEntry, WriteOutcome, error) {
	if err := e.Validate(); err != nil {
		return models.FoodEntry{}, WriteFailed, err
	}
	e = e.Clamp()

	entries := s.List()

	if e.ID == "" {
		e.ID = models.NewEntryID(s.now())
	}
	for containsID(entries, e.ID) {
		newID := e.ID + "_" + strconv.FormatInt(s.now().UnixNano(), 36)
		s.logger.Warn("entry id collision", zap.String("id", e.ID), zap.String("new_id", newID))
		e.ID = newID
	}

	entries = append(entries, e)
	outcome, err := s.save(entries)
	if err != nil {
		return e, outcome, err
	}

	stored, err := s.load()
	if err != nil {
		return e, WriteFailed, fmt.Errorf("%w: verifying entry %s: %w", errs.ErrPersistence, e.ID, err)
	}
	idx := slices.IndexFunc(stored, func(x models.FoodEntry) bool { return x.ID == e.ID })
	if idx < 0 {
		return e, WriteFailed, fmt.Errorf("%w: entry %s missing after save", errs.ErrPersistence, e.ID)
	}

	s.logger.Debug("food entry added", zap.String("id", e.ID), zap.Int("total", len(stored)))
	return stored[idx], outcome, nil
}

// Update merges patch into the entry with the given id. A missing id is a no-op.
func (s *Store) Update(id string, patch models.EntryPatch) (WriteOutcome, error) {
	entries := s.List()

	idx := slices.IndexFunc(entries, func(x models.FoodEntry) bool { return x.ID == id })
	if idx < 0 || patch.IsEmpty() {
		return WriteOK, nil
	}

	updated := patch.Apply(entries[idx])
	if err := updated.Validate(); err != nil {
		return WriteFailed, err
	}
	entries[idx] = updated.Clamp()

	return s.save(entries)
}

// Delete removes the entry with the given id. A missing id is a no-op.
func (s *Store) Delete(id string) (WriteOutcome, error) {
	entries := s.List()

	filtered := slices.DeleteFunc(slices.Clone(entries), func(x models.FoodEntry) bool { return x.ID == id })
	if len(filtered) == len(entries) {
		return WriteOK, nil
	}

	return s.save(filtered)
}

// save writes the collection after dropping inline photos older than the
// retention window. Remote links are kept. When the medium is full it retries
// once with every photo removed.
func (s *Store) save(entries []models.FoodEntry) (WriteOutcome, error) {
	cutoff := s.now().AddDate(0, 0, -imageRetentionDays).Format(models.DateLayout)
	trimmed := stripImages(entries, func(e models.FoodEntry) bool {
		return e.Date < cutoff && isInline(e.ImageURL)
	})

	err := s.write(trimmed)
	if err == nil {
		return WriteOK, nil
	}
	if !errors.Is(err, errs.ErrQuotaExceeded) {
		return WriteFailed, fmt.Errorf("%w: %w", errs.ErrPersistence, err)
	}

	s.logger.Warn("storage full, retrying without photos", zap.Int("entries", len(trimmed)))

	bare := stripImages(trimmed, func(models.FoodEntry) bool { return true })
	if err := s.write(bare); err != nil {
		return WriteFailed, fmt.Errorf("%w: saving entries without photos: %w", errs.ErrPersistence, err)
	}
	return WriteDegraded, nil
}

func (s *Store) write(entries []models.FoodEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encoding entries: %w", err)
	}
	if err := s.kv.Set(Key, string(data)); err != nil {
		return fmt.Errorf("writing entries: %w", err)
	}
	s.logger.Debug("food entries saved", zap.Int("count", len(entries)), zap.Int("bytes", len(data)))
	return nil
}

// stripImages returns a copy with ImageURL cleared where drop reports true
func stripImages(entries []models.FoodEntry, drop func(models.FoodEntry) bool) []models.FoodEntry {
	out := make([]models.FoodEntry, len(entries))
	for i, e := range entries {
		if e.ImageURL != "" && drop(e) {
			e.ImageURL = ""
		}
		out[i] = e
	}
	return out
}

// isInline reports whether url embeds the image itself
func isInline(url string) bool {
	return strings.HasPrefix(url, "data:")
}

func containsID(entries []models.FoodEntry, id string) bool {
	return slices.ContainsFunc(entries, func(x models.FoodEntry) bool { return x.ID == id })
}
