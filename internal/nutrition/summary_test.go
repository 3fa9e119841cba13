package nutrition

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgoulah/kcaltrack/pkg/models"
)

func entry(id, date, tm string, cal, carbs, protein, fat float64) models.FoodEntry {
	return models.FoodEntry{
		ID: id, Date: date, Time: tm, FoodName: id, Servings: 1,
		Calories: cal, Carbs: carbs, Protein: protein, Fat: fat,
	}
}

func day(s string) time.Time {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

var sample = []models.FoodEntry{
	entry("a", "2024-01-10", "08:00", 300, 40, 10, 8),
	entry("b", "2024-01-11", "12:00", 500, 60, 20, 15),
	entry("c", "2024-01-10", "19:30", 200, 20, 15, 5),
	entry("d", "2024-01-14", "09:00", 450, 50, 25, 12),
	entry("e", "2024-01-15T22:30:00Z", "22:30", 100, 10, 5, 2),
}

func TestSummarize_Totals(t *testing.T) {
	s := Summarize(sample, 2000)

	var cal, carbs, protein, fat float64
	for _, e := range sample {
		cal += e.Calories
		carbs += e.Carbs
		protein += e.Protein
		fat += e.Fat
	}
	assert.Equal(t, cal, s.TotalCalories)
	assert.Equal(t, carbs, s.TotalCarbs)
	assert.Equal(t, protein, s.TotalProtein)
	assert.Equal(t, fat, s.TotalFat)
	assert.InDelta(t, cal/2000*100, s.GoalProgress, 1e-9)
}

func TestSummarize_ZeroCases(t *testing.T) {
	assert.Equal(t, 0.0, Summarize(nil, 2000).GoalProgress)
	assert.Equal(t, 0.0, Summarize(sample, 0).GoalProgress)
	assert.Equal(t, 0.0, Summarize(sample, -10).GoalProgress)
}

func TestSummarize_NotClamped(t *testing.T) {
	s := Summarize([]models.FoodEntry{entry("x", "2024-01-10", "", 3000, 0, 0, 0)}, 2000)
	assert.Equal(t, 150.0, s.GoalProgress)
}

func TestSummarize_HalfGoalScenario(t *testing.T) {
	entries := []models.FoodEntry{entry("x", "2024-01-10", "12:00", 500, 0, 0, 0)}
	s := Summarize(FilterByDate(entries, day("2024-01-10")), 1000)
	assert.Equal(t, 50.0, s.GoalProgress)
}

func TestGroupByDate_Partition(t *testing.T) {
	groups := GroupByDate(sample)

	seen := map[string]int{}
	total := 0
	for key, group := range groups {
		for _, e := range group {
			norm, _ := NormalizeDate(e.Date)
			assert.Equal(t, key, norm)
			seen[e.ID]++
			total++
		}
	}
	assert.Equal(t, len(sample), total)
	for _, e := range sample {
		assert.Equal(t, 1, seen[e.ID], "entry %s", e.ID)
	}

	require.Len(t, groups["2024-01-10"], 2)
	assert.Equal(t, "a", groups["2024-01-10"][0].ID, "input order kept")
	assert.Equal(t, "c", groups["2024-01-10"][1].ID)
	assert.Len(t, groups["2024-01-15"], 1, "timestamp suffix grouped by date part")
}

func TestGroupByDate_Empty(t *testing.T) {
	assert.Empty(t, GroupByDate(nil))
}

func TestNormalizeDate(t *testing.T) {
	d, ok := NormalizeDate("2024-01-10")
	assert.True(t, ok)
	assert.Equal(t, "2024-01-10", d)

	d, ok = NormalizeDate("2024-01-10T23:59:00+09:00")
	assert.True(t, ok)
	assert.Equal(t, "2024-01-10", d)

	_, ok = NormalizeDate("Jan 10")
	assert.False(t, ok)
}

func TestFilterByDate_IgnoresTimezone(t *testing.T) {
	seoul := time.FixedZone("KST", 9*3600)
	// 00:30 in Seoul on the 11th is still the 10th in UTC; the caller's day wins.
	got := FilterByDate(sample, time.Date(2024, 1, 11, 0, 30, 0, 0, seoul))
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)
}

func TestFilterByRange_Inclusive(t *testing.T) {
	got := FilterByRange(sample, day("2024-01-11"), day("2024-01-14"))
	ids := []string{}
	for _, e := range got {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"b", "d"}, ids)

	assert.Empty(t, FilterByRange(sample, day("2024-02-01"), day("2024-02-28")))
}

func TestWeekBounds_MondayStart(t *testing.T) {
	start, end := WeekBounds(day("2024-01-14")) // Sunday
	assert.Equal(t, "2024-01-08", DayKey(start))
	assert.Equal(t, "2024-01-14", DayKey(end))

	start, end = WeekBounds(day("2024-01-15")) // Monday
	assert.Equal(t, "2024-01-15", DayKey(start))
	assert.Equal(t, "2024-01-21", DayKey(end))
}

func TestWeekAndMonthEntries(t *testing.T) {
	week := WeekEntries(sample, day("2024-01-10"))
	assert.Len(t, week, 4)

	month := MonthEntries(sample, day("2024-01-31"))
	assert.Len(t, month, len(sample))

	start, end := MonthBounds(day("2024-02-10"))
	assert.Equal(t, "2024-02-01", DayKey(start))
	assert.Equal(t, "2024-02-29", DayKey(end))
}

func TestSortForDisplay(t *testing.T) {
	got := SortForDisplay(sample)
	ids := []string{}
	for _, e := range got {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"e", "d", "b", "c", "a"}, ids)
	assert.Equal(t, "a", sample[0].ID, "input untouched")
}

func TestDays(t *testing.T) {
	assert.Equal(t,
		[]string{"2024-01-15", "2024-01-14", "2024-01-11", "2024-01-10"},
		Days(GroupByDate(sample)))
}
