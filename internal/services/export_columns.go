package services

import (
	"fleetadmin/internal/exporter"
	"fleetadmin/pkg/contracts/domain"
)

// Each entity declares its export columns once so the download endpoint,
// the bulk CLI, and the XLSX writer all agree on headers and cell order.
// The mappings live here rather than on the contract types so
// pkg/contracts stays importable without pulling internal packages.

// UserHeaders returns the user export column set.
func UserHeaders() []exporter.Header {
	return []exporter.Header{
		{Key: "id", Label: "ID"},
		{Key: "name", Label: "Name"},
		{Key: "email", Label: "Email"},
		{Key: "role", Label: "Role"},
		{Key: "status", Label: "Status"},
		{Key: "created_at", Label: "Created At"},
		{Key: "last_login_at", Label: "Last Login"},
	}
}

// UserRecord maps the user to its export row.
func UserRecord(u domain.User) exporter.Record {
	var lastLogin any
	if u.LastLoginAt != nil {
		lastLogin = *u.LastLoginAt
	}
	return exporter.Record{
		{Key: "id", Value: u.ID},
		{Key: "name", Value: u.Name},
		{Key: "email", Value: u.Email},
		{Key: "role", Value: string(u.Role)},
		{Key: "status", Value: string(u.Status)},
		{Key: "created_at", Value: u.CreatedAt},
		{Key: "last_login_at", Value: lastLogin},
	}
}

func RiderHeaders() []exporter.Header {
	return []exporter.Header{
		{Key: "id", Label: "ID"},
		{Key: "name", Label: "Name"},
		{Key: "email", Label: "Email"},
		{Key: "license_number", Label: "License Number"},
		{Key: "license_expiry", Label: "License Expiry"},
		{Key: "status", Label: "Status"},
		{Key: "rating", Label: "Rating"},
		{Key: "total_trips", Label: "Total Trips"},
		{Key: "joined_at", Label: "Joined At"},
	}
}

// RiderRecord normalizes the provider-supplied expiry string to an ISO date;
// an unparseable expiry exports as an empty cell rather than raw input.
func RiderRecord(r domain.Rider) exporter.Record {
	return exporter.Record{
		{Key: "id", Value: r.ID},
		{Key: "name", Value: r.Name},
		{Key: "email", Value: r.Email},
		{Key: "license_number", Value: r.LicenseNumber},
		{Key: "license_expiry", Value: exporter.FormatDateForCSV(r.LicenseExpiry)},
		{Key: "status", Value: string(r.Status)},
		{Key: "rating", Value: r.Rating},
		{Key: "total_trips", Value: r.TotalTrips},
		{Key: "joined_at", Value: r.JoinedAt},
	}
}

func VehicleHeaders() []exporter.Header {
	return []exporter.Header{
		{Key: "id", Label: "ID"},
		{Key: "plate", Label: "Plate"},
		{Key: "make", Label: "Make"},
		{Key: "model", Label: "Model"},
		{Key: "year", Label: "Year"},
		{Key: "status", Label: "Status"},
		{Key: "odometer", Label: "Odometer"},
		{Key: "daily_rate", Label: "Daily Rate"},
		{Key: "location", Label: "Location"},
		{Key: "added_at", Label: "Added At"},
	}
}

func VehicleRecord(v domain.Vehicle) exporter.Record {
	return exporter.Record{
		{Key: "id", Value: v.ID},
		{Key: "plate", Value: v.Plate},
		{Key: "make", Value: v.Make},
		{Key: "model", Value: v.Model},
		{Key: "year", Value: v.Year},
		{Key: "status", Value: string(v.Status)},
		{Key: "odometer", Value: v.Odometer},
		{Key: "daily_rate", Value: v.DailyRate},
		{Key: "location", Value: v.Location},
		{Key: "added_at", Value: v.AddedAt},
	}
}

func ReservationHeaders() []exporter.Header {
	return []exporter.Header{
		{Key: "id", Label: "ID"},
		{Key: "rider_name", Label: "Rider"},
		{Key: "vehicle_plate", Label: "Vehicle"},
		{Key: "status", Label: "Status"},
		{Key: "start_at", Label: "Start"},
		{Key: "end_at", Label: "End"},
		{Key: "amount", Label: "Amount"},
		{Key: "created_at", Label: "Created At"},
	}
}

func ReservationRecord(r domain.Reservation) exporter.Record {
	return exporter.Record{
		{Key: "id", Value: r.ID},
		{Key: "rider_name", Value: r.RiderName},
		{Key: "vehicle_plate", Value: r.VehiclePlate},
		{Key: "status", Value: string(r.Status)},
		{Key: "start_at", Value: r.StartAt},
		{Key: "end_at", Value: r.EndAt},
		{Key: "amount", Value: r.Amount},
		{Key: "created_at", Value: r.CreatedAt},
	}
}

func SystemErrorHeaders() []exporter.Header {
	return []exporter.Header{
		{Key: "id", Label: "ID"},
		{Key: "code", Label: "Code"},
		{Key: "message", Label: "Message"},
		{Key: "severity", Label: "Severity"},
		{Key: "source", Label: "Source"},
		{Key: "count", Label: "Count"},
		{Key: "first_seen_at", Label: "First Seen"},
		{Key: "last_seen_at", Label: "Last Seen"},
		{Key: "resolved", Label: "Resolved"},
	}
}

// SystemErrorRecord runs the pipeline timestamps through the datetime
// formatter so exports carry normalized UTC values regardless of the source
// offset.
func SystemErrorRecord(e domain.SystemError) exporter.Record {
	return exporter.Record{
		{Key: "id", Value: e.ID},
		{Key: "code", Value: e.Code},
		{Key: "message", Value: e.Message},
		{Key: "severity", Value: string(e.Severity)},
		{Key: "source", Value: e.Source},
		{Key: "count", Value: e.Count},
		{Key: "first_seen_at", Value: exporter.FormatDateTimeForCSV(e.FirstSeenAt)},
		{Key: "last_seen_at", Value: exporter.FormatDateTimeForCSV(e.LastSeenAt)},
		{Key: "resolved", Value: e.Resolved},
	}
}
