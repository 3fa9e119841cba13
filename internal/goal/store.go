// Package goal persists the single daily calorie goal record.
package goal

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/jgoulah/kcaltrack/internal/errs"
	"github.com/jgoulah/kcaltrack/pkg/models"
)

// Key is the storage key holding the goal record
const Key = "calorie_tracker_goal"

// KV is the persistence the store writes through
type KV interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// Store reads and writes the daily goal
type Store struct {
	kv     KV
	logger *zap.Logger
}

// NewStore creates a goal store over kv
func NewStore(kv KV, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{kv: kv, logger: logger}
}

// Default returns the goal used when none is stored
func Default() models.DailyGoal {
	return models.DailyGoal{TargetCalories: models.DefaultTargetCalories}
}

func (s *Store) load() (models.DailyGoal, bool, error) {
	data, ok := s.kv.Get(Key)
	if !ok || data == "" {
		return models.DailyGoal{}, false, nil
	}

	var g models.DailyGoal
	if err := json.Unmarshal([]byte(data), &g); err != nil {
		return models.DailyGoal{}, false, fmt.Errorf("%w: decoding goal: %v", errs.ErrParse, err)
	}
	if g.TargetCalories <= 0 {
		return models.DailyGoal{}, false, fmt.Errorf("%w: target calories %d is not positive", errs.ErrParse, g.TargetCalories)
	}
	return g, true, nil
}

// Get returns the stored goal, or the default when it is absent or malformed
func (s *Store) Get() models.DailyGoal {
	g, ok, err := s.load()
	if err != nil {
		s.logger.Error("reading daily goal", zap.Error(err))
		return Default()
	}
	if !ok {
		return Default()
	}
	return g
}

// IsSet reports whether a valid goal is stored
func (s *Store) IsSet() bool {
	_, ok, err := s.load()
	return ok && err == nil
}

// Save overwrites the goal. Invalid goals and write failures are logged and
// dropped; the default applies on the next read.
func (s *Store) Save(g models.DailyGoal) {
	if g.TargetCalories <= 0 {
		s.logger.Warn("ignoring invalid daily goal", zap.Int("target_calories", g.TargetCalories))
		return
	}

	data, err := json.Marshal(g)
	if err != nil {
		s.logger.Error("encoding daily goal", zap.Error(err))
		return
	}
	if err := s.kv.Set(Key, string(data)); err != nil {
		s.logger.Error("saving daily goal", zap.Error(err))
	}
}
