package model

import (
	"strings"
	"time"
)

// Goal statuses accepted on input (case-insensitive, stored lower-case).
const (
	GoalPending    = "pending"
	GoalInProgress = "in progress"
	GoalCompleted  = "completed"
	GoalCancelled  = "cancelled"
)

var goalStatuses = map[string]bool{
	GoalPending:    true,
	GoalInProgress: true,
	GoalCompleted:  true,
	GoalCancelled:  true,
}

// Goal mirrors the FitnessGoals table.
type Goal struct {
	ID          uint64    // FitnessGoals.GoalID
	UserID      uint64    // FitnessGoals.UserID (owner)
	Description string    // FitnessGoals.GoalDescription
	StartDate   time.Time // FitnessGoals.StartDate
	EndDate     time.Time // FitnessGoals.EndDate
	Status      string    // FitnessGoals.Status
}

// GoalInput is the POST/PATCH body for a goal.
type GoalInput struct {
	GoalDescription *string `json:"GoalDescription"`
	StartDate       *string `json:"StartDate"`
	EndDate         *string `json:"EndDate"`
	Status          *string `json:"Status"`
}

// GoalView is the public representation of a goal.
type GoalView struct {
	GoalID          uint64 `json:"GoalID" xml:"GoalID"`
	GoalDescription string `json:"GoalDescription" xml:"GoalDescription"`
	StartDate       string `json:"StartDate" xml:"StartDate"`
	EndDate         string `json:"EndDate" xml:"EndDate"`
	Status          string `json:"Status" xml:"Status"`
}

// NewGoal validates the input and builds a goal owned by userID.  Unlike
// workouts and meals, goal dates may lie in the future.
func NewGoal(id, userID uint64, in GoalInput) (Goal, error) {
	var g Goal
	if userID == 0 {
		return g, invalid("UserID", "UserID must be a positive number")
	}
	desc, err := description("GoalDescription", str(in.GoalDescription))
	if err != nil {
		return g, err
	}
	start, err := parseDate("StartDate", str(in.StartDate))
	if err != nil {
		return g, err
	}
	end, err := parseDate("EndDate", str(in.EndDate))
	if err != nil {
		return g, err
	}
	if end.Before(start) {
		return g, invalid("EndDate", "EndDate cannot be before StartDate")
	}
	status := strings.ToLower(strings.TrimSpace(str(in.Status)))
	if !goalStatuses[status] {
		return g, invalid("Status", "Status must be one of the following: pending, in progress, completed, cancelled")
	}
	return Goal{ID: id, UserID: userID, Description: desc, StartDate: start, EndDate: end, Status: status}, nil
}

// Merge overlays the fields present in the input on top of current.
func (in GoalInput) Merge(current Goal) GoalInput {
	start := current.StartDate.Format(dateLayout)
	end := current.EndDate.Format(dateLayout)
	out := GoalInput{
		GoalDescription: &current.Description,
		StartDate:       &start,
		EndDate:         &end,
		Status:          &current.Status,
	}
	if in.GoalDescription != nil {
		out.GoalDescription = in.GoalDescription
	}
	if in.StartDate != nil {
		out.StartDate = in.StartDate
	}
	if in.EndDate != nil {
		out.EndDate = in.EndDate
	}
	if in.Status != nil {
		out.Status = in.Status
	}
	return out
}

// View returns the public representation of the goal.
func (g Goal) View() GoalView {
	return GoalView{
		GoalID:          g.ID,
		GoalDescription: g.Description,
		StartDate:       g.StartDate.Format(dateLayout),
		EndDate:         g.EndDate.Format(dateLayout),
		Status:          g.Status,
	}
}
