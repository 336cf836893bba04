package services

import (
	"context"
	"log/slog"
	"time"

	"fleetadmin/internal/activity"
	"fleetadmin/internal/middleware"
	"fleetadmin/pkg/contracts/domain"
	"fleetadmin/pkg/contracts/events"
)

// ActivityBroadcaster pushes activity events to connected websocket
// clients. The websocket hub satisfies it.
type ActivityBroadcaster interface {
	BroadcastActivity(payload events.ActivityPayload)
}

// ActivityItem is one rendered feed entry: the raw event plus the display
// strings the UI shows.
type ActivityItem struct {
	Event    domain.ActivityEvent `json:"event"`
	Text     string               `json:"text"`
	Relative string               `json:"relative"`
}

// ActivityService serves the dashboard activity feed and publishes new
// events to websocket subscribers.
type ActivityService struct {
	platform    PlatformAPI
	broadcaster ActivityBroadcaster
	logger      *slog.Logger
	now         func() time.Time
}

// NewActivityService creates the activity service. broadcaster may be nil
// when no websocket hub is attached (the export CLI).
func NewActivityService(platform PlatformAPI, broadcaster ActivityBroadcaster, logger *slog.Logger) *ActivityService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ActivityService{
		platform:    platform,
		broadcaster: broadcaster,
		logger:      logger.With(slog.String("component", "activity_service")),
		now:         time.Now,
	}
}

// Feed returns a rendered window of the activity timeline, newest first.
// kinds filters the feed; empty means all kinds.
func (s *ActivityService) Feed(ctx context.Context, req domain.ListRequest, kinds ...domain.ActivityKind) (domain.ListResult[ActivityItem], error) {
	req.Normalize()

	// The platform returns events newest first, but the timeline re-sorts
	// so a lagging upstream cannot scramble the feed.
	rawReq := domain.ListRequest{Limit: domain.MaxPageSize}
	raw, _, err := s.platform.ListActivity(ctx, rawReq)
	if err != nil {
		return domain.ListResult[ActivityItem]{}, err
	}

	window := activity.NewTimeline(raw).Window(req, kinds...)

	now := s.now()
	items := make([]ActivityItem, 0, len(window.Items))
	for _, e := range window.Items {
		items = append(items, ActivityItem{
			Event:    e,
			Text:     activity.Message(e),
			Relative: activity.RelativeTime(e.OccurredAt, now),
		})
	}

	return domain.ListResult[ActivityItem]{
		Items:      items,
		Total:      window.Total,
		Limit:      window.Limit,
		Offset:     window.Offset,
		HasMore:    window.HasMore,
		NextOffset: window.NextOffset,
	}, nil
}

// Publish renders an event and pushes it to websocket subscribers. Unknown
// kinds are logged and dropped rather than broadcast.
func (s *ActivityService) Publish(ctx context.Context, event domain.ActivityEvent) {
	if !event.Kind.Valid() {
		s.logger.WarnContext(ctx, "dropping activity event with unknown kind",
			slog.String("event_id", event.ID),
			slog.String("kind", string(event.Kind)))
		return
	}

	middleware.RecordActivityEvent(ctx, string(event.Kind))

	if s.broadcaster == nil {
		return
	}

	s.broadcaster.BroadcastActivity(events.ActivityPayload{
		EventID:    event.ID,
		Kind:       string(event.Kind),
		Text:       activity.Message(event),
		Relative:   activity.RelativeTime(event.OccurredAt, s.now()),
		OccurredAt: event.OccurredAt,
	})

	s.logger.DebugContext(ctx, "activity event published",
		slog.String("event_id", event.ID),
		slog.String("kind", string(event.Kind)))
}
