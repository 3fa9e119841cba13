// Package nutrition aggregates food entries by day and against a calorie goal.
// Every function is pure: it reads the slice it is given and never touches storage.
//
// Days are compared as "YYYY-MM-DD" strings, so results do not depend on the
// local timezone of the process.
package nutrition

import (
	"math"
	"sort"
	"time"

	"github.com/jgoulah/kcaltrack/pkg/models"
)

// DayKey formats t as a calendar day in its own location
func DayKey(t time.Time) string {
	return t.Format(models.DateLayout)
}

// NormalizeDate returns the YYYY-MM-DD day of a stored date string. Values
// with a time suffix (for example RFC 3339) are cut to their date part.
func NormalizeDate(s string) (string, bool) {
	if len(s) < len(models.DateLayout) {
		return s, false
	}
	day := s[:len(models.DateLayout)]
	if _, err := time.Parse(models.DateLayout, day); err != nil {
		return s, false
	}
	return day, true
}

func entryDay(e models.FoodEntry) string {
	day, _ := NormalizeDate(e.Date)
	return day
}

// GroupByDate partitions entries by calendar day, keeping input order within a day
func GroupByDate(entries []models.FoodEntry) map[string][]models.FoodEntry {
	groups := make(map[string][]models.FoodEntry)
	for _, e := range entries {
		day := entryDay(e)
		groups[day] = append(groups[day], e)
	}
	return groups
}

// Summarize totals the macros of entries. Goal progress is a percentage of
// target and is 0 when target is not positive; it is not capped at 100.
func Summarize(entries []models.FoodEntry, targetCalories int) models.NutritionSummary {
	var s models.NutritionSummary
	for _, e := range entries {
		s.TotalCalories += e.Calories
		s.TotalCarbs += e.Carbs
		s.TotalProtein += e.Protein
		s.TotalFat += e.Fat
	}
	if targetCalories > 0 {
		s.GoalProgress = s.TotalCalories / float64(targetCalories) * 100
	}
	return s
}

// FilterByDate returns the entries logged on day's calendar date
func FilterByDate(entries []models.FoodEntry, day time.Time) []models.FoodEntry {
	key := DayKey(day)
	return filterDays(entries, key, key)
}

// FilterByRange returns entries whose day falls within [start, end], inclusive
func FilterByRange(entries []models.FoodEntry, start, end time.Time) []models.FoodEntry {
	return filterDays(entries, DayKey(start), DayKey(end))
}

func filterDays(entries []models.FoodEntry, from, to string) []models.FoodEntry {
	out := []models.FoodEntry{}
	for _, e := range entries {
		day := entryDay(e)
		if day >= from && day <= to {
			out = append(out, e)
		}
	}
	return out
}

// WeekBounds returns the Monday and Sunday of day's week
func WeekBounds(day time.Time) (time.Time, time.Time) {
	offset := (int(day.Weekday()) + 6) % 7 // days since Monday
	start := day.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 6)
}

// MonthBounds returns the first and last day of day's month
func MonthBounds(day time.Time) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
	return start, start.AddDate(0, 1, -1)
}

// WeekEntries returns the entries in day's Monday-start week
func WeekEntries(entries []models.FoodEntry, day time.Time) []models.FoodEntry {
	start, end := WeekBounds(day)
	return FilterByRange(entries, start, end)
}

// MonthEntries returns the entries in day's month
func MonthEntries(entries []models.FoodEntry, day time.Time) []models.FoodEntry {
	start, end := MonthBounds(day)
	return FilterByRange(entries, start, end)
}

// SortForDisplay returns a copy ordered newest day first, then latest time first
func SortForDisplay(entries []models.FoodEntry) []models.FoodEntry {
	out := make([]models.FoodEntry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := entryDay(out[i]), entryDay(out[j])
		if di != dj {
			return di > dj
		}
		return out[i].Time > out[j].Time
	})
	return out
}

// Days returns the sorted distinct days present in groups, newest first
func Days(groups map[string][]models.FoodEntry) []string {
	days := make([]string, 0, len(groups))
	for d := range groups {
		days = append(days, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(days)))
	return days
}

func round(v float64) float64 {
	return math.Round(v)
}
