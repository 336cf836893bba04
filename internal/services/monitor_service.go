package services

import (
	"context"
	"log/slog"

	"fleetadmin/pkg/contracts/domain"
)

// ErrorPanel is the monitoring page payload: the requested page of system
// errors plus the aggregate counters shown above the table.
type ErrorPanel struct {
	Errors     domain.ListResult[domain.SystemError] `json:"errors"`
	OpenTotal  int                                   `json:"open_total"`
	BySeverity map[domain.ErrorSeverity]int          `json:"by_severity"`
}

// MonitorService backs the system error monitoring page.
type MonitorService struct {
	platform PlatformAPI
	activity *ActivityService
	logger   *slog.Logger
}

// NewMonitorService creates the monitor service. activity may be nil.
func NewMonitorService(platform PlatformAPI, activity *ActivityService, logger *slog.Logger) *MonitorService {
	if logger == nil {
		logger = slog.Default()
	}
	return &MonitorService{
		platform: platform,
		activity: activity,
		logger:   logger.With(slog.String("component", "monitor_service")),
	}
}

// Panel returns one page of system errors together with the open count and
// a severity breakdown of the page.
func (s *MonitorService) Panel(ctx context.Context, req domain.ListRequest) (*ErrorPanel, error) {
	req.Normalize()

	items, total, err := s.platform.ListSystemErrors(ctx, req)
	if err != nil {
		return nil, err
	}

	panel := &ErrorPanel{
		Errors:     domain.NewListResult(items, total, req),
		BySeverity: make(map[domain.ErrorSeverity]int),
	}
	for _, e := range items {
		panel.BySeverity[e.Severity]++
	}

	// The open count spans all pages; a filtered page cannot supply it.
	if req.Status == "open" {
		panel.OpenTotal = total
	} else {
		_, openTotal, err := s.platform.ListSystemErrors(ctx, domain.ListRequest{Limit: 1, Status: "open"})
		if err != nil {
			return nil, err
		}
		panel.OpenTotal = openTotal
	}

	return panel, nil
}

// Resolve marks a system error as resolved.
func (s *MonitorService) Resolve(ctx context.Context, id string) (*domain.SystemError, error) {
	resolved, err := s.platform.ResolveSystemError(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "system error resolved",
		slog.String("error_id", id),
		slog.String("code", resolved.Code))

	return resolved, nil
}
