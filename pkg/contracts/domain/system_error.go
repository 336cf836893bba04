package domain

// SystemError is an aggregated platform fault surfaced on the monitoring
// page. FirstSeenAt and LastSeenAt arrive as ISO 8601 strings straight from
// the platform's error pipeline; parsing is deferred to presentation and
// export so a malformed timestamp never drops the row.
type SystemError struct {
	ID          string        `json:"id" validate:"required"`
	Code        string        `json:"code" validate:"required"`
	Message     string        `json:"message"`
	Severity    ErrorSeverity `json:"severity"`
	Source      string        `json:"source,omitempty"`
	Count       int           `json:"count" validate:"min=1"`
	FirstSeenAt string        `json:"first_seen_at"`
	LastSeenAt  string        `json:"last_seen_at"`
	Resolved    bool          `json:"resolved"`
}

// ErrorSeverity classifies a system error for triage
type ErrorSeverity string

const (
	SeverityInfo     ErrorSeverity = "info"
	SeverityWarning  ErrorSeverity = "warning"
	SeverityCritical ErrorSeverity = "critical"
)
