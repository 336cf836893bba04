// Package activity renders platform events into the recent-activity feed:
// human-readable messages, coarse relative timestamps, and load-more
// windows over a time-descending timeline.
package activity

import (
	"fmt"
	"sort"
	"time"

	"fleetadmin/pkg/contracts/domain"
)

// Message maps an event to its feed line. The mapping is total: every
// declared kind has a template, and undeclared kinds fall back to a
// generic line instead of panicking so a newer platform version cannot
// break the feed.
func Message(e domain.ActivityEvent) string {
	switch e.Kind {
	case domain.ActivityUserRegistered:
		return fmt.Sprintf("%s registered an account", orUnknown(e.Actor))
	case domain.ActivityRiderApproved:
		return fmt.Sprintf("Rider %s was approved", orUnknown(e.Actor))
	case domain.ActivityRiderSuspended:
		return fmt.Sprintf("Rider %s was suspended", orUnknown(e.Actor))
	case domain.ActivityVehicleAdded:
		return fmt.Sprintf("Vehicle %s was added to the fleet", orUnknown(e.Actor))
	case domain.ActivityVehicleMaintenance:
		return fmt.Sprintf("Vehicle %s entered maintenance", orUnknown(e.Actor))
	case domain.ActivityReservationCreated:
		return fmt.Sprintf("%s created a reservation", orUnknown(e.Actor))
	case domain.ActivityReservationCompleted:
		return fmt.Sprintf("%s completed a rental", orUnknown(e.Actor))
	case domain.ActivityReservationCancelled:
		return fmt.Sprintf("%s cancelled a reservation", orUnknown(e.Actor))
	case domain.ActivityPaymentFailed:
		return fmt.Sprintf("Payment failed for %s", orUnknown(e.Actor))
	case domain.ActivitySystemError:
		if e.Detail != "" {
			return fmt.Sprintf("System error: %s", e.Detail)
		}
		return "System error reported"
	default:
		return fmt.Sprintf("Activity recorded (%s)", e.Kind)
	}
}

func orUnknown(actor string) string {
	if actor == "" {
		return "Someone"
	}
	return actor
}

// RelativeTime renders the coarse age label shown next to a feed entry.
// Anything older than a week shows the absolute date instead; future
// timestamps, which happen with skewed platform clocks, read as "just now".
func RelativeTime(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < 2*time.Minute:
		return "1 minute ago"
	case d < time.Hour:
		return fmt.Sprintf("%d minutes ago", int(d.Minutes()))
	case d < 2*time.Hour:
		return "1 hour ago"
	case d < 24*time.Hour:
		return fmt.Sprintf("%d hours ago", int(d.Hours()))
	case d < 48*time.Hour:
		return "1 day ago"
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%d days ago", int(d.Hours()/24))
	default:
		return "on " + t.Format("Jan 2, 2006")
	}
}

// Timeline holds a materialized event list and answers load-more windows
// over it. Events are kept newest first regardless of input order.
type Timeline struct {
	events []domain.ActivityEvent
}

// NewTimeline copies and sorts events time-descending, newest first. Ties
// keep their input order.
func NewTimeline(events []domain.ActivityEvent) *Timeline {
	sorted := make([]domain.ActivityEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OccurredAt.After(sorted[j].OccurredAt)
	})
	return &Timeline{events: sorted}
}

// Len returns the total number of events, before any kind filter.
func (t *Timeline) Len() int {
	return len(t.events)
}

// Window returns one load-more page filtered to the given kinds (all kinds
// when the filter is empty). The returned result's NextOffset is relative
// to the filtered sequence.
func (t *Timeline) Window(req domain.ListRequest, kinds ...domain.ActivityKind) domain.ListResult[domain.ActivityEvent] {
	req.Normalize()

	filtered := t.events
	if len(kinds) > 0 {
		want := make(map[domain.ActivityKind]bool, len(kinds))
		for _, k := range kinds {
			want[k] = true
		}
		filtered = make([]domain.ActivityEvent, 0, len(t.events))
		for _, e := range t.events {
			if want[e.Kind] {
				filtered = append(filtered, e)
			}
		}
	}

	start := req.Offset
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + req.Limit
	if end > len(filtered) {
		end = len(filtered)
	}

	page := make([]domain.ActivityEvent, end-start)
	copy(page, filtered[start:end])
	return domain.NewListResult(page, len(filtered), req)
}
