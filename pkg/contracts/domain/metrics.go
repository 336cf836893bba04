package domain

// MetricCard is a single dashboard stat tile. Value is the display string
// ("1,248" or "34.2%") while RawValue keeps the numeric form for clients
// that chart the figure.
type MetricCard struct {
	Title    string  `json:"title"`
	Value    string  `json:"value"`
	RawValue float64 `json:"raw_value"`
	Unit     string  `json:"unit,omitempty"`
	Change   float64 `json:"change"`
	Trend    Trend   `json:"trend"`
}

// Trend indicates the direction of a metric relative to the prior period
type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
	TrendFlat Trend = "flat"
)

// DashboardSummary is the aggregate payload behind the overview page,
// assembled from several platform queries in one response.
type DashboardSummary struct {
	Cards          []MetricCard `json:"cards"`
	FleetSize      int          `json:"fleet_size"`
	ActiveRentals  int          `json:"active_rentals"`
	PendingRiders  int          `json:"pending_riders"`
	OpenErrors     int          `json:"open_errors"`
	UtilizationPct float64      `json:"utilization_pct"`
	GeneratedAt    string       `json:"generated_at"`
}
