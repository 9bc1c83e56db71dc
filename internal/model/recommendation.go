package model

import "strings"

// Recommendation sources, recorded on the event published when an advisory
// is stored.
const (
	SourceMeal    = "meal"
	SourceWorkout = "workout"
)

// Recommendation mirrors the Recommendations table.
type Recommendation struct {
	ID          uint64 // Recommendations.RecommendationID
	UserID      uint64 // Recommendations.UserID (owner)
	Description string // Recommendations.RecommendationDescription
}

// RecommendationView is the public representation of a recommendation.
type RecommendationView struct {
	RecommendationID          uint64 `json:"RecommendationID" xml:"RecommendationID"`
	RecommendationDescription string `json:"RecommendationDescription" xml:"RecommendationDescription"`
}

// NewRecommendation builds a recommendation owned by userID.  Advisories quote
// the user's own description, so no upper length bound applies here.
func NewRecommendation(id, userID uint64, text string) (Recommendation, error) {
	if userID == 0 {
		return Recommendation{}, invalid("UserID", "UserID must be a positive number")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Recommendation{}, invalid("RecommendationDescription", "RecommendationDescription must be provided")
	}
	return Recommendation{ID: id, UserID: userID, Description: text}, nil
}

// View returns the public representation of the recommendation.
func (r Recommendation) View() RecommendationView {
	return RecommendationView{RecommendationID: r.ID, RecommendationDescription: r.Description}
}
