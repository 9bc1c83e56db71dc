// Package recommend derives advisory messages from newly logged meals and
// workouts.  Evaluation is pure: the same record always yields the same
// advisory, and the empty string means no rule fired.
package recommend

import (
	"fmt"

	"github.com/iliyamo/fitness-records/internal/model"
)

// Meal thresholds (kcal and grams).
const (
	HighMealCalories = 800
	LowMealCalories  = 300
	MinMealProtein   = 15
)

// Workout thresholds (minutes, kcal and kcal per minute).
const (
	MinWorkoutMinutes = 30
	MaxWorkoutMinutes = 60
	HighCaloriesBurnt = 500
	LowCaloriesBurnt  = 200
	MinBurnRatePerMin = 10
)

// ForMeal evaluates the meal rules top to bottom and returns the first match.
// A calorie outlier short-circuits the macro checks entirely.
func ForMeal(m model.Meal) string {
	d := m.Description
	switch {
	case m.Calories > HighMealCalories:
		return fmt.Sprintf("The meal you described as '%s' is high in calories. You may want to go for a walk or exercise to balance out the calorie intake.", d)
	case m.Calories < LowMealCalories:
		return fmt.Sprintf("The meal you described as '%s' is low in calories. Consider adding more protein to increase your calorie intake.", d)
	case m.Protein < MinMealProtein:
		return fmt.Sprintf("The meal you described as '%s' is low in protein. Try adding more meat or fish to the meal.", d)
	case m.Carbs > m.Protein*2:
		return fmt.Sprintf("The meal you described as '%s' contains too many carbs. Try reducing the carbs and adding more protein-rich foods.", d)
	case m.Fats > m.Protein*2:
		return fmt.Sprintf("The meal you described as '%s' contains high amounts of fat. Try reducing the fats and adding more protein-rich foods.", d)
	}
	return ""
}

// WorkoutCheck is one independent workout rule.  It returns the advisory and
// whether the rule applies to w.
type WorkoutCheck func(w model.Workout) (string, bool)

// Policy combines the outcomes of the ordered workout checks.
type Policy func(w model.Workout, checks []WorkoutCheck) string

// LastMatchWins runs every check and keeps the advisory of the last one that
// applies.  This is the behaviour clients have always seen: the burn-rate
// check has the final say over the duration and calorie checks.
func LastMatchWins(w model.Workout, checks []WorkoutCheck) string {
	out := ""
	for _, check := range checks {
		if msg, ok := check(w); ok {
			out = msg
		}
	}
	return out
}

// FirstMatchWins stops at the first check that applies.
func FirstMatchWins(w model.Workout, checks []WorkoutCheck) string {
	for _, check := range checks {
		if msg, ok := check(w); ok {
			return msg
		}
	}
	return ""
}

// WorkoutPolicy is the policy used by ForWorkout.
//
// TODO: switch to FirstMatchWins once clients accept that a long or
// high-calorie session no longer gets overridden by the burn-rate advisory.
var WorkoutPolicy Policy = LastMatchWins

// WorkoutChecks lists the workout rules in evaluation order.
var WorkoutChecks = []WorkoutCheck{
	durationCheck,
	caloriesBurntCheck,
	burnRateCheck,
}

// ForWorkout evaluates WorkoutChecks under WorkoutPolicy.
func ForWorkout(w model.Workout) string {
	return WorkoutPolicy(w, WorkoutChecks)
}

func durationCheck(w model.Workout) (string, bool) {
	switch {
	case w.Duration < MinWorkoutMinutes:
		return fmt.Sprintf("The workout you described as '%s' lasted for %d minutes. Consider extending your workout to at least 30 minutes for the best results", w.Description, w.Duration), true
	case w.Duration > MaxWorkoutMinutes:
		return fmt.Sprintf("The workout you described as '%s' lasted for %d minutes. You might want to consider shorter, more intense workouts for better results", w.Description, w.Duration), true
	}
	return "", false
}

func caloriesBurntCheck(w model.Workout) (string, bool) {
	switch {
	case w.CaloriesBurnt > HighCaloriesBurnt:
		return fmt.Sprintf("The workout you described as '%s' burned %d calories. Remember to hydrate after intense workout sessions", w.Description, w.CaloriesBurnt), true
	case w.CaloriesBurnt < LowCaloriesBurnt:
		return fmt.Sprintf("The workout you described as '%s' only burned %d calories. Consider increasing the intensity to get better results", w.Description, w.CaloriesBurnt), true
	}
	return "", false
}

func burnRateCheck(w model.Workout) (string, bool) {
	if w.Duration <= 0 {
		return "", false
	}
	if float64(w.CaloriesBurnt)/float64(w.Duration) < MinBurnRatePerMin {
		return fmt.Sprintf("The workout you described as '%s' burned %d calories over %d minutes. You need to increase your workout intensity to see results", w.Description, w.CaloriesBurnt, w.Duration), true
	}
	return "", false
}
