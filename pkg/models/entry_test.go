package models

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgoulah/kcaltrack/internal/errs"
)

func TestNewEntryID_Format(t *testing.T) {
	now := time.UnixMilli(1704844800123)
	id := NewEntryID(now)
	assert.Regexp(t, regexp.MustCompile(`^1704844800123_[0-9a-z]{9}$`), id)
	assert.NotEqual(t, id, NewEntryID(now), "suffix should vary between calls")
}

func TestFoodEntry_Clamp(t *testing.T) {
	e := FoodEntry{Calories: -5, Carbs: 3, Protein: -0.5, Fat: 0}.Clamp()
	assert.Equal(t, 0.0, e.Calories)
	assert.Equal(t, 3.0, e.Carbs)
	assert.Equal(t, 0.0, e.Protein)
	assert.Equal(t, 0.0, e.Fat)
}

func TestFoodEntry_Validate(t *testing.T) {
	valid := FoodEntry{FoodName: "비빔밥", Servings: 0.5, Date: "2024-01-10", Time: "12:30"}
	require.NoError(t, valid.Validate())

	cases := map[string]FoodEntry{
		"blank name":    {FoodName: "  ", Servings: 1, Date: "2024-01-10"},
		"zero servings": {FoodName: "김밥", Servings: 0, Date: "2024-01-10"},
		"bad date":      {FoodName: "김밥", Servings: 1, Date: "01/10/2024"},
		"bad time":      {FoodName: "김밥", Servings: 1, Date: "2024-01-10", Time: "noon"},
	}
	for name, e := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, e.Validate(), errs.ErrInvalidEntry)
		})
	}
}

func TestEntryPatch_Apply(t *testing.T) {
	orig := FoodEntry{ID: "a", Date: "2024-01-10", FoodName: "라면", Servings: 1, Calories: 500}
	name := "짜장면"
	cal := 550.0

	got := EntryPatch{FoodName: &name, Calories: &cal}.Apply(orig)

	assert.Equal(t, "a", got.ID)
	assert.Equal(t, "짜장면", got.FoodName)
	assert.Equal(t, 550.0, got.Calories)
	assert.Equal(t, "2024-01-10", got.Date)
	assert.Equal(t, "라면", orig.FoodName, "original must not change")
	assert.True(t, EntryPatch{}.IsEmpty())
	assert.False(t, EntryPatch{FoodName: &name}.IsEmpty())
}
