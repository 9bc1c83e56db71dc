package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/fitness-records/internal/model"
)

func meal(cal, protein, carbs, fats float64) model.Meal {
	return model.Meal{Description: "lunch", Calories: cal, Protein: protein, Carbs: carbs, Fats: fats}
}

func workout(minutes, burnt int) model.Workout {
	return model.Workout{Description: "session", Duration: minutes, CaloriesBurnt: burnt}
}

func TestForMeal(t *testing.T) {
	tests := []struct {
		name string
		meal model.Meal
		want string
	}{
		{"high calories wins over macros", meal(900, 1, 400, 150), "is high in calories"},
		{"low calories wins over low protein", meal(250, 10, 0, 0), "is low in calories"},
		{"low protein", meal(500, 10, 5, 5), "is low in protein"},
		{"too many carbs", meal(500, 20, 41, 5), "contains too many carbs"},
		{"high fat", meal(500, 20, 40, 41), "contains high amounts of fat"},
		{"carbs above twice protein", meal(500, 20, 50, 10), "contains too many carbs"},
		{"balanced", meal(500, 20, 40, 10), ""},
		{"boundaries do not fire", meal(800, 15, 30, 30), ""},
		{"lower boundary does not fire", meal(300, 15, 30, 30), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ForMeal(tt.meal)
			if tt.want == "" {
				assert.Empty(t, got)
				return
			}
			assert.Contains(t, got, tt.want)
			assert.Contains(t, got, "'lunch'")
		})
	}
}

func TestForMealCarbBoundIsTwiceProtein(t *testing.T) {
	assert.Empty(t, ForMeal(meal(500, 20, 40, 0)))
	assert.Contains(t, ForMeal(meal(500, 20, 50, 0)), "contains too many carbs")
}

func TestForWorkout(t *testing.T) {
	tests := []struct {
		name string
		w    model.Workout
		want string
	}{
		{"short but intense ends on hydrate", workout(20, 600), "Remember to hydrate"},
		{"burn rate overrides calorie advisory", workout(45, 100), "You need to increase your workout intensity"},
		{"burn rate fires alone", workout(45, 300), "burned 300 calories over 45 minutes"},
		{"short and low burn rate", workout(20, 150), "You need to increase your workout intensity"},
		{"long session", workout(90, 1000), "Remember to hydrate"},
		{"long session low burn rate", workout(61, 450), "burned 450 calories over 61 minutes"},
		{"short session moderate burn", workout(25, 300), "at least 30 minutes"},
		{"nothing fires", workout(40, 450), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ForWorkout(tt.w)
			if tt.want == "" {
				assert.Empty(t, got)
				return
			}
			assert.Contains(t, got, tt.want)
		})
	}
}

func TestDurationCheckFlagsLongSessions(t *testing.T) {
	msg, ok := durationCheck(workout(61, 450))
	assert.True(t, ok)
	assert.Contains(t, msg, "lasted for 61 minutes")
	assert.Contains(t, msg, "shorter, more intense workouts")

	assert.Contains(t, FirstMatchWins(workout(61, 450), WorkoutChecks), "shorter, more intense workouts")

	_, ok = durationCheck(workout(60, 450))
	assert.False(t, ok)
}

// Past 60 minutes a burn rate of at least 10 kcal/min means more than 600
// kcal, so the calorie or burn-rate check always has the last word.
func TestLongSessionAdvisoryNeverWinsUnderLastMatch(t *testing.T) {
	for minutes := MaxWorkoutMinutes + 1; minutes <= 300; minutes++ {
		for burnt := 1; burnt <= 5000; burnt += 7 {
			got := LastMatchWins(workout(minutes, burnt), WorkoutChecks)
			if !assert.NotContains(t, got, "shorter, more intense workouts", "%d minutes, %d kcal", minutes, burnt) {
				return
			}
		}
	}
}

func TestWorkoutPolicies(t *testing.T) {
	w := workout(45, 100)

	assert.Contains(t, LastMatchWins(w, WorkoutChecks), "increase your workout intensity to see results")
	assert.Contains(t, FirstMatchWins(w, WorkoutChecks), "only burned 100 calories")

	assert.Empty(t, FirstMatchWins(w, nil))
	assert.Empty(t, LastMatchWins(w, nil))
}

func TestWorkoutPolicyIsSwappable(t *testing.T) {
	prev := WorkoutPolicy
	t.Cleanup(func() { WorkoutPolicy = prev })

	WorkoutPolicy = FirstMatchWins
	assert.Contains(t, ForWorkout(workout(20, 600)), "at least 30 minutes")
}

func TestForWorkoutIsDeterministic(t *testing.T) {
	w := workout(20, 600)
	assert.Equal(t, ForWorkout(w), ForWorkout(w))
}
