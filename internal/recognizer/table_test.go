package recognizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimate_SubstringScaledByServings(t *testing.T) {
	got := DefaultTable().Estimate("엄마표 비빔밥", 2)
	assert.Equal(t, Macros{Calories: 980, Carbs: 130, Protein: 30, Fat: 32}, got)
}

func TestLookup_LongestContainedWins(t *testing.T) {
	f, ok := DefaultTable().Lookup("할머니 김치볶음밥")
	require.True(t, ok)
	assert.Equal(t, "김치볶음밥", f.Name)
}

func TestLookup_ReverseMatchPrefersShortest(t *testing.T) {
	f, ok := DefaultTable().Lookup("치킨")
	require.True(t, ok)
	assert.Equal(t, "치킨", f.Name)

	f, ok = DefaultTable().Lookup("볶음")
	require.True(t, ok)
	assert.Equal(t, "볶음밥", f.Name)
}

func TestLookup_CaseInsensitive(t *testing.T) {
	table := NewTable([]Food{
		{Name: "Pizza", Macros: Macros{Calories: 280}},
		{Name: "Pad Thai", Macros: Macros{Calories: 400}},
	})

	f, ok := table.Lookup("pepperoni PIZZA slice")
	require.True(t, ok)
	assert.Equal(t, "Pizza", f.Name)

	f, ok = table.Lookup("pad")
	require.True(t, ok)
	assert.Equal(t, "Pad Thai", f.Name)
}

func TestEstimate_GenericFallback(t *testing.T) {
	got := DefaultTable().Estimate("quinoa bowl", 1.5)
	assert.Equal(t, Macros{Calories: 450, Carbs: 60, Protein: 23, Fat: 15}, got)

	assert.Equal(t, GenericMeal, DefaultTable().Estimate("   ", 1))
}

func TestEstimate_RoundsHalfServings(t *testing.T) {
	got := DefaultTable().Estimate("김치", 0.5)
	assert.Equal(t, Macros{Calories: 8, Carbs: 2, Protein: 1, Fat: 0}, got)
}

func TestRescale(t *testing.T) {
	m := Macros{Calories: 490, Carbs: 65, Protein: 15, Fat: 16}
	assert.Equal(t, Macros{Calories: 980, Carbs: 130, Protein: 30, Fat: 32}, Rescale(m, 1, 2))
	assert.Equal(t, Macros{Calories: 245, Carbs: 33, Protein: 8, Fat: 8}, Rescale(m, 2, 1))
	assert.Equal(t, m, Rescale(m, 0, 3))
}

func TestDefaultTable_Size(t *testing.T) {
	foods := DefaultTable().Foods()
	assert.Len(t, foods, 89)

	names := map[string]bool{}
	for _, f := range foods {
		assert.False(t, names[f.Name], "duplicate %s", f.Name)
		names[f.Name] = true
	}
}
