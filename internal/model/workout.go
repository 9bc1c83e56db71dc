package model

import "time"

// Workout mirrors the Workouts table.
type Workout struct {
	ID            uint64    // Workouts.WorkoutID
	UserID        uint64    // Workouts.UserID (owner)
	Date          time.Time // Workouts.Date (calendar day, UTC)
	Time          string    // Workouts.Time as HH:mm
	Description   string    // Workouts.WorkoutDescription
	Duration      int       // Workouts.Duration in minutes
	CaloriesBurnt int       // Workouts.CaloriesBurnt
}

// WorkoutInput is the POST/PATCH body for a workout.
type WorkoutInput struct {
	Date               *string `json:"Date"`
	Time               *string `json:"Time"`
	WorkoutDescription *string `json:"WorkoutDescription"`
	Duration           *int    `json:"Duration"`
	CaloriesBurnt      *int    `json:"CaloriesBurnt"`
}

// WorkoutView is the public representation of a workout; the owner id is
// implied by the caller and left out.
type WorkoutView struct {
	WorkoutID          uint64 `json:"WorkoutID" xml:"WorkoutID"`
	Date               string `json:"Date" xml:"Date"`
	Time               string `json:"Time" xml:"Time"`
	WorkoutDescription string `json:"WorkoutDescription" xml:"WorkoutDescription"`
	Duration           int    `json:"Duration" xml:"Duration"`
	CaloriesBurnt      int    `json:"CaloriesBurnt" xml:"CaloriesBurnt"`
}

// NewWorkout validates the input and builds a workout owned by userID.
func NewWorkout(id, userID uint64, in WorkoutInput) (Workout, error) {
	var w Workout
	if userID == 0 {
		return w, invalid("UserID", "UserID must be a positive number")
	}
	date, err := pastDate("Date", str(in.Date))
	if err != nil {
		return w, err
	}
	tm, err := clock(str(in.Time))
	if err != nil {
		return w, err
	}
	desc, err := description("WorkoutDescription", str(in.WorkoutDescription))
	if err != nil {
		return w, err
	}
	if in.Duration == nil || *in.Duration <= 0 || *in.Duration > 300 {
		return w, invalid("Duration", "Duration must be a number between 1 and 300")
	}
	if in.CaloriesBurnt == nil || *in.CaloriesBurnt <= 0 || *in.CaloriesBurnt > 5000 {
		return w, invalid("CaloriesBurnt", "CaloriesBurnt must be a number between 1 and 5000")
	}
	return Workout{
		ID:            id,
		UserID:        userID,
		Date:          date,
		Time:          tm,
		Description:   desc,
		Duration:      *in.Duration,
		CaloriesBurnt: *in.CaloriesBurnt,
	}, nil
}

// Merge overlays the fields present in the input on top of current.
func (in WorkoutInput) Merge(current Workout) WorkoutInput {
	date := current.Date.Format(dateLayout)
	out := WorkoutInput{
		Date:               &date,
		Time:               &current.Time,
		WorkoutDescription: &current.Description,
		Duration:           &current.Duration,
		CaloriesBurnt:      &current.CaloriesBurnt,
	}
	if in.Date != nil {
		out.Date = in.Date
	}
	if in.Time != nil {
		out.Time = in.Time
	}
	if in.WorkoutDescription != nil {
		out.WorkoutDescription = in.WorkoutDescription
	}
	if in.Duration != nil {
		out.Duration = in.Duration
	}
	if in.CaloriesBurnt != nil {
		out.CaloriesBurnt = in.CaloriesBurnt
	}
	return out
}

// View returns the public representation of the workout.
func (w Workout) View() WorkoutView {
	return WorkoutView{
		WorkoutID:          w.ID,
		Date:               w.Date.Format(dateLayout),
		Time:               w.Time,
		WorkoutDescription: w.Description,
		Duration:           w.Duration,
		CaloriesBurnt:      w.CaloriesBurnt,
	}
}
