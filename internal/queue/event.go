// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records them.
package queue

import (
	"fmt"
	"strings"
)

// RecommendationQueue is the durable queue recommendation events go to.
const RecommendationQueue = "recommendation.created"

// RecommendationCreatedEvent is published after an advisory has been stored
// for a newly logged meal or workout.
type RecommendationCreatedEvent struct {
	ID               string `json:"id"`
	RecommendationID uint64 `json:"recommendation_id"`
	UserID           uint64 `json:"user_id"`
	Source           string `json:"source"` // meal | workout
	SourceID         uint64 `json:"source_id"`
	Message          string `json:"message"`
	CreatedAt        string `json:"created_at"`
}

// LogLine renders the event as one line of the recommendations log.
func (ev RecommendationCreatedEvent) LogLine() string {
	msg := strings.ReplaceAll(ev.Message, "\n", " ")
	return fmt.Sprintf("[%s] Recommendation created | id=%s | recommendation_id=%d | user_id=%d | source=%s | source_id=%d | message=%q\n",
		ev.CreatedAt, ev.ID, ev.RecommendationID, ev.UserID, ev.Source, ev.SourceID, msg)
}
