package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"fleetadmin/pkg/contracts/domain"
)

// RatioPercent returns part/whole as a percentage, 0 when whole is zero.
func RatioPercent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

// PercentChange returns the relative change from previous to current as a
// percentage, 0 when previous is zero.
func PercentChange(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

// trendOf classifies a percent change into a card trend direction.
func trendOf(change float64) domain.Trend {
	switch {
	case change > 0:
		return domain.TrendUp
	case change < 0:
		return domain.TrendDown
	default:
		return domain.TrendFlat
	}
}

// snapshot holds the raw figures one dashboard refresh produced. The
// previous snapshot supplies the baseline for card trend arrows.
type snapshot struct {
	fleetSize     int
	rentedCount   int
	activeRentals int
	pendingRiders int
	openErrors    int
	revenue       float64
}

// DashboardService assembles the overview page from parallel platform
// queries.
type DashboardService struct {
	platform PlatformAPI
	logger   *slog.Logger

	mu   sync.Mutex
	prev *snapshot
}

// NewDashboardService creates the dashboard service.
func NewDashboardService(platform PlatformAPI, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		platform: platform,
		logger:   logger.With(slog.String("component", "dashboard_service")),
	}
}

// Summary queries the platform concurrently and assembles the metric cards.
// A failed query fails the whole summary; the dashboard never shows a mix
// of fresh and missing figures.
func (s *DashboardService) Summary(ctx context.Context) (*domain.DashboardSummary, error) {
	start := time.Now()
	var snap snapshot

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		_, total, err := s.platform.ListVehicles(gctx, domain.ListRequest{Limit: 1})
		if err != nil {
			return fmt.Errorf("fleet size: %w", err)
		}
		snap.fleetSize = total
		return nil
	})

	g.Go(func() error {
		_, total, err := s.platform.ListVehicles(gctx, domain.ListRequest{Limit: 1, Status: string(domain.VehicleStatusRented)})
		if err != nil {
			return fmt.Errorf("rented vehicles: %w", err)
		}
		snap.rentedCount = total
		return nil
	})

	g.Go(func() error {
		_, total, err := s.platform.ListReservations(gctx, domain.ListRequest{Limit: 1, Status: string(domain.ReservationStatusActive)})
		if err != nil {
			return fmt.Errorf("active rentals: %w", err)
		}
		snap.activeRentals = total
		return nil
	})

	g.Go(func() error {
		_, total, err := s.platform.ListRiders(gctx, domain.ListRequest{Limit: 1, Status: string(domain.RiderStatusPending)})
		if err != nil {
			return fmt.Errorf("pending riders: %w", err)
		}
		snap.pendingRiders = total
		return nil
	})

	g.Go(func() error {
		_, total, err := s.platform.ListSystemErrors(gctx, domain.ListRequest{Limit: 1, Status: "open"})
		if err != nil {
			return fmt.Errorf("open errors: %w", err)
		}
		snap.openErrors = total
		return nil
	})

	g.Go(func() error {
		revenue, err := s.completedRevenue(gctx)
		if err != nil {
			return fmt.Errorf("revenue: %w", err)
		}
		snap.revenue = revenue
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	prev := s.prev
	s.prev = &snap
	s.mu.Unlock()

	summary := s.assemble(snap, prev)

	s.logger.DebugContext(ctx, "dashboard summary assembled",
		slog.Int("fleet_size", snap.fleetSize),
		slog.Int("active_rentals", snap.activeRentals),
		slog.Duration("duration", time.Since(start)))

	return summary, nil
}

// completedRevenue sums the amounts of all completed reservations.
func (s *DashboardService) completedRevenue(ctx context.Context) (float64, error) {
	var revenue float64
	req := domain.ListRequest{
		Limit:  domain.MaxPageSize,
		Status: string(domain.ReservationStatusCompleted),
	}

	for {
		items, total, err := s.platform.ListReservations(ctx, req)
		if err != nil {
			return 0, err
		}
		for _, r := range items {
			revenue += r.Amount
		}
		req.Offset += len(items)
		if len(items) == 0 || req.Offset >= total {
			break
		}
	}

	return revenue, nil
}

func (s *DashboardService) assemble(snap snapshot, prev *snapshot) *domain.DashboardSummary {
	utilization := RatioPercent(snap.rentedCount, snap.fleetSize)

	var base snapshot
	if prev != nil {
		base = *prev
	}
	prevUtilization := RatioPercent(base.rentedCount, base.fleetSize)

	cards := []domain.MetricCard{
		card("Active Rentals", float64(snap.activeRentals), "%.0f", "", PercentChange(float64(snap.activeRentals), float64(base.activeRentals))),
		card("Fleet Utilization", utilization, "%.1f", "%", PercentChange(utilization, prevUtilization)),
		card("Pending Approvals", float64(snap.pendingRiders), "%.0f", "", PercentChange(float64(snap.pendingRiders), float64(base.pendingRiders))),
		card("Open Errors", float64(snap.openErrors), "%.0f", "", PercentChange(float64(snap.openErrors), float64(base.openErrors))),
		card("Revenue", snap.revenue, "%.2f", "USD", PercentChange(snap.revenue, base.revenue)),
	}

	return &domain.DashboardSummary{
		Cards:          cards,
		FleetSize:      snap.fleetSize,
		ActiveRentals:  snap.activeRentals,
		PendingRiders:  snap.pendingRiders,
		OpenErrors:     snap.openErrors,
		UtilizationPct: utilization,
		GeneratedAt:    time.Now().UTC().Format(time.RFC3339),
	}
}

func card(title string, raw float64, format, unit string, change float64) domain.MetricCard {
	return domain.MetricCard{
		Title:    title,
		Value:    fmt.Sprintf(format, raw),
		RawValue: raw,
		Unit:     unit,
		Change:   change,
		Trend:    trendOf(change),
	}
}
