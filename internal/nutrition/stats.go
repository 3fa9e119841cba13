package nutrition

import (
	"fmt"
	"strings"
	"time"

	"github.com/jgoulah/kcaltrack/pkg/models"
)

// Period selects how many days a trend series covers
type Period string

const (
	Daily   Period = "daily"
	Weekly  Period = "weekly"
	Monthly Period = "monthly"
)

// ParsePeriod accepts daily, weekly or monthly
func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case Daily, Weekly, Monthly:
		return p, nil
	default:
		return "", fmt.Errorf("unknown period %q (use daily, weekly or monthly)", s)
	}
}

// Days returns the number of days the period covers, ending today
func (p Period) Days() int {
	switch p {
	case Weekly:
		return 30
	case Monthly:
		return 90
	default:
		return 7
	}
}

// DayPoint is one day of a trend series
type DayPoint struct {
	Date     string  `json:"date"`
	Calories float64 `json:"calories"`
	Carbs    float64 `json:"carbs"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Goal     int     `json:"goal"`
}

// Series returns one point per day for the period ending on today, oldest
// first. Days without entries have zero totals.
func Series(entries []models.FoodEntry, targetCalories int, period Period, today time.Time) []DayPoint {
	groups := GroupByDate(entries)
	n := period.Days()

	points := make([]DayPoint, 0, n)
	for i := n - 1; i >= 0; i-- {
		day := DayKey(today.AddDate(0, 0, -i))
		s := Summarize(groups[day], targetCalories)
		points = append(points, DayPoint{
			Date:     day,
			Calories: s.TotalCalories,
			Carbs:    s.TotalCarbs,
			Protein:  s.TotalProtein,
			Fat:      s.TotalFat,
			Goal:     targetCalories,
		})
	}
	return points
}

// AverageCalories returns the rounded mean calories per point, counting empty days
func AverageCalories(points []DayPoint) float64 {
	if len(points) == 0 {
		return 0
	}
	var total float64
	for _, p := range points {
		total += p.Calories
	}
	return round(total / float64(len(points)))
}

// MacroShare is one slice of the macro distribution
type MacroShare struct {
	Name  string  `json:"name"`
	Grams float64 `json:"grams"`
	Share float64 `json:"share"` // 0..1 of total grams
}

// MacroDistribution splits total grams between carbs, protein and fat
func MacroDistribution(entries []models.FoodEntry) []MacroShare {
	s := Summarize(entries, 0)
	shares := []MacroShare{
		{Name: "carbs", Grams: s.TotalCarbs},
		{Name: "protein", Grams: s.TotalProtein},
		{Name: "fat", Grams: s.TotalFat},
	}

	total := s.TotalCarbs + s.TotalProtein + s.TotalFat
	if total > 0 {
		for i := range shares {
			shares[i].Share = shares[i].Grams / total
		}
	}
	return shares
}

// Status classifies goal progress
type Status string

const (
	StatusLow      Status = "low"
	StatusNear     Status = "near"
	StatusAchieved Status = "achieved"
)

// GoalStatus maps progress to low (< 80), near (80 to < 100) or achieved (>= 100)
func GoalStatus(progress float64) Status {
	switch {
	case progress >= 100:
		return StatusAchieved
	case progress >= 80:
		return StatusNear
	default:
		return StatusLow
	}
}

// CalendarDay is the per-day summary shown on a calendar tile
type CalendarDay struct {
	Date     string  `json:"date"`
	Calories float64 `json:"calories"`
	Progress float64 `json:"progress"`
	Status   Status  `json:"status"`
}

// Calendar summarizes every day that has entries, keyed by day
func Calendar(entries []models.FoodEntry, targetCalories int) map[string]CalendarDay {
	out := make(map[string]CalendarDay)
	for day, group := range GroupByDate(entries) {
		s := Summarize(group, targetCalories)
		out[day] = CalendarDay{
			Date:     day,
			Calories: s.TotalCalories,
			Progress: s.GoalProgress,
			Status:   GoalStatus(s.GoalProgress),
		}
	}
	return out
}
