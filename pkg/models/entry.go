package models

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/jgoulah/kcaltrack/internal/errs"
)

// DateLayout is the layout of FoodEntry.Date
const DateLayout = "2006-01-02"

// TimeLayout is the layout of FoodEntry.Time
const TimeLayout = "15:04"

// DefaultTargetCalories is used when no goal has been saved
const DefaultTargetCalories = 2000

// FoodEntry represents one logged meal
type FoodEntry struct {
	ID       string  `json:"id"`
	Date     string  `json:"date"` // Logical day, YYYY-MM-DD
	Time     string  `json:"time"` // HH:MM, display ordering only
	ImageURL string  `json:"imageUrl,omitempty"`
	FoodName string  `json:"foodName"`
	Servings float64 `json:"servings"`
	Calories float64 `json:"calories"` // Already scaled by servings
	Carbs    float64 `json:"carbs"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
}

// DailyGoal is the user's target daily calorie intake
type DailyGoal struct {
	TargetCalories int `json:"targetCalories"`
}

// NutritionSummary holds totals for a set of entries. It is never persisted.
type NutritionSummary struct {
	TotalCalories float64 `json:"totalCalories"`
	TotalCarbs    float64 `json:"totalCarbs"`
	TotalProtein  float64 `json:"totalProtein"`
	TotalFat      float64 `json:"totalFat"`
	GoalProgress  float64 `json:"goalProgress"` // Percent of target, not clamped
}

// NewEntryID returns an id of the form <unix-millis>_<9 base36 chars>
func NewEntryID(now time.Time) string {
	const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	suffix := make([]byte, 9)
	for i := range suffix {
		suffix[i] = alphabet[rand.IntN(len(alphabet))]
	}
	return strconv.FormatInt(now.UnixMilli(), 10) + "_" + string(suffix)
}

// Clamp returns a copy with negative macro values raised to zero
func (e FoodEntry) Clamp() FoodEntry {
	e.Calories = max(0, e.Calories)
	e.Carbs = max(0, e.Carbs)
	e.Protein = max(0, e.Protein)
	e.Fat = max(0, e.Fat)
	return e
}

// Validate checks the fields the stores rely on
func (e FoodEntry) Validate() error {
	if strings.TrimSpace(e.FoodName) == "" {
		return fmt.Errorf("%w: food name is required", errs.ErrInvalidEntry)
	}
	if e.Servings <= 0 {
		return fmt.Errorf("%w: servings must be positive, got %v", errs.ErrInvalidEntry, e.Servings)
	}
	if _, err := time.Parse(DateLayout, e.Date); err != nil {
		return fmt.Errorf("%w: date %q is not YYYY-MM-DD", errs.ErrInvalidEntry, e.Date)
	}
	if e.Time != "" {
		if _, err := time.Parse(TimeLayout, e.Time); err != nil {
			return fmt.Errorf("%w: time %q is not HH:MM", errs.ErrInvalidEntry, e.Time)
		}
	}
	return nil
}

// EntryPatch carries the fields of a partial update. Nil fields are left alone.
// The id cannot be patched.
type EntryPatch struct {
	Date     *string
	Time     *string
	FoodName *string
	Servings *float64
	Calories *float64
	Carbs    *float64
	Protein  *float64
	Fat      *float64
	ImageURL *string
}

// Apply returns e with the non-nil patch fields merged in
func (p EntryPatch) Apply(e FoodEntry) FoodEntry {
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Time != nil {
		e.Time = *p.Time
	}
	if p.FoodName != nil {
		e.FoodName = *p.FoodName
	}
	if p.Servings != nil {
		e.Servings = *p.Servings
	}
	if p.Calories != nil {
		e.Calories = *p.Calories
	}
	if p.Carbs != nil {
		e.Carbs = *p.Carbs
	}
	if p.Protein != nil {
		e.Protein = *p.Protein
	}
	if p.Fat != nil {
		e.Fat = *p.Fat
	}
	if p.ImageURL != nil {
		e.ImageURL = *p.ImageURL
	}
	return e
}

// IsEmpty reports whether the patch changes nothing
func (p EntryPatch) IsEmpty() bool {
	return p == EntryPatch{}
}
