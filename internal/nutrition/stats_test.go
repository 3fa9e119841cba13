package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod(" Weekly ")
	require.NoError(t, err)
	assert.Equal(t, Weekly, p)

	_, err = ParsePeriod("yearly")
	assert.Error(t, err)

	assert.Equal(t, 7, Daily.Days())
	assert.Equal(t, 30, Weekly.Days())
	assert.Equal(t, 90, Monthly.Days())
}

func TestSeries_Daily(t *testing.T) {
	points := Series(sample, 2000, Daily, day("2024-01-14"))
	require.Len(t, points, 7)

	assert.Equal(t, "2024-01-08", points[0].Date)
	assert.Equal(t, "2024-01-14", points[6].Date)

	byDate := map[string]DayPoint{}
	for _, p := range points {
		byDate[p.Date] = p
		assert.Equal(t, 2000, p.Goal)
	}
	assert.Equal(t, 500.0, byDate["2024-01-10"].Calories)
	assert.Equal(t, 60.0, byDate["2024-01-10"].Carbs)
	assert.Equal(t, 0.0, byDate["2024-01-09"].Calories)
	assert.Equal(t, 450.0, byDate["2024-01-14"].Calories)
}

func TestAverageCalories(t *testing.T) {
	points := Series(sample, 2000, Daily, day("2024-01-14"))
	// (500 + 500 + 450) / 7 = 207.14
	assert.Equal(t, 207.0, AverageCalories(points))
	assert.Equal(t, 0.0, AverageCalories(nil))
}

func TestMacroDistribution(t *testing.T) {
	shares := MacroDistribution(sample)
	require.Len(t, shares, 3)

	var total float64
	for _, s := range shares {
		total += s.Share
	}
	assert.InDelta(t, 1.0, total, 1e-9)
	assert.Equal(t, "carbs", shares[0].Name)
	assert.Equal(t, 180.0, shares[0].Grams)

	for _, s := range MacroDistribution(nil) {
		assert.Equal(t, 0.0, s.Share)
	}
}

func TestGoalStatus(t *testing.T) {
	assert.Equal(t, StatusLow, GoalStatus(0))
	assert.Equal(t, StatusLow, GoalStatus(79.9))
	assert.Equal(t, StatusNear, GoalStatus(80))
	assert.Equal(t, StatusNear, GoalStatus(99.99))
	assert.Equal(t, StatusAchieved, GoalStatus(100))
	assert.Equal(t, StatusAchieved, GoalStatus(180))
}

func TestCalendar(t *testing.T) {
	cal := Calendar(sample, 500)

	require.Len(t, cal, 4)
	assert.Equal(t, CalendarDay{Date: "2024-01-10", Calories: 500, Progress: 100, Status: StatusAchieved}, cal["2024-01-10"])
	assert.Equal(t, StatusNear, cal["2024-01-14"].Status)
	assert.Equal(t, StatusLow, cal["2024-01-15"].Status)
}
