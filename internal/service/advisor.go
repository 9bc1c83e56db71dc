package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/fitness-records/internal/metrics"
	"github.com/iliyamo/fitness-records/internal/model"
	"github.com/iliyamo/fitness-records/internal/queue"
)

// RecommendationStore persists advisories.
type RecommendationStore interface {
	Create(ctx context.Context, rec *model.Recommendation) error
}

// Advisor stores the advisory produced for a newly logged meal or workout
// and announces it on the broker.
type Advisor struct {
	Recs    RecommendationStore
	Events  Publisher
	Log     logrus.FieldLogger
	Timeout time.Duration // budget for a single publish; 5s when zero

	now func() time.Time
}

func NewAdvisor(recs RecommendationStore, events Publisher, log logrus.FieldLogger) *Advisor {
	if events == nil {
		events = NopPublisher{}
	}
	return &Advisor{Recs: recs, Events: events, Log: log, Timeout: 5 * time.Second, now: time.Now}
}

// Record persists text as a recommendation for userID.  An empty advisory
// is not stored and yields ok == false.  The event is published in the
// background so a slow broker never holds up the response.
func (a *Advisor) Record(ctx context.Context, userID uint64, source string, sourceID uint64, text string) (rec model.Recommendation, ok bool, err error) {
	if text == "" {
		return rec, false, nil
	}
	rec, err = model.NewRecommendation(0, userID, text)
	if err != nil {
		return rec, false, err
	}
	if err := a.Recs.Create(ctx, &rec); err != nil {
		return rec, false, err
	}
	metrics.RecordAdvisory(source)

	now := time.Now
	if a.now != nil {
		now = a.now
	}
	ev := queue.RecommendationCreatedEvent{
		ID:               uuid.NewString(),
		RecommendationID: rec.ID,
		UserID:           userID,
		Source:           source,
		SourceID:         sourceID,
		Message:          rec.Description,
		CreatedAt:        now().UTC().Format(time.RFC3339),
	}
	go a.publish(ev)
	return rec, true, nil
}

func (a *Advisor) publish(ev queue.RecommendationCreatedEvent) {
	timeout := a.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := a.Events.PublishRecommendationCreated(ctx, ev); err != nil {
		a.Log.WithError(err).WithFields(logrus.Fields{
			"recommendation_id": ev.RecommendationID,
			"user_id":           ev.UserID,
		}).Warn("publish recommendation event")
	}
}
