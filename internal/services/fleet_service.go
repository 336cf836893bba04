package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	apierrors "fleetadmin/internal/errors"
	"fleetadmin/internal/exporter"
	"fleetadmin/internal/infrastructure"
	"fleetadmin/internal/middleware"
	"fleetadmin/pkg/contracts/domain"
)

// Export formats accepted by ExportEntity and the export endpoints.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// ExportEntities lists the entities the export paths know how to serialize.
var ExportEntities = []string{"users", "riders", "vehicles", "reservations", "errors"}

// Export is a fully rendered export payload. Data holds the converter
// output without a BOM; persistence boundaries add it for CSV targets.
type Export struct {
	Entity   string
	Format   string
	BaseName string
	Rows     int
	Data     []byte
}

// FleetService handles the fleet CRUD surface and entity exports.
type FleetService struct {
	platform PlatformAPI
	validate *validator.Validate
	xlsx     *exporter.XLSXWriter
	logger   *slog.Logger
	metrics  *infrastructure.BusinessMetrics
}

// NewFleetService creates the fleet service. metrics may be nil.
func NewFleetService(platform PlatformAPI, logger *slog.Logger, metrics *infrastructure.BusinessMetrics) *FleetService {
	if logger == nil {
		logger = slog.Default()
	}
	return &FleetService{
		platform: platform,
		validate: middleware.NewValidator(),
		xlsx:     exporter.NewXLSXWriter("Export"),
		logger:   logger.With(slog.String("component", "fleet_service")),
		metrics:  metrics,
	}
}

// ListUsers returns a page of admin users.
func (s *FleetService) ListUsers(ctx context.Context, req domain.ListRequest) (domain.ListResult[domain.User], error) {
	req.Normalize()
	items, total, err := s.platform.ListUsers(ctx, req)
	if err != nil {
		return domain.ListResult[domain.User]{}, err
	}
	return domain.NewListResult(items, total, req), nil
}

// ListRiders returns a page of riders.
func (s *FleetService) ListRiders(ctx context.Context, req domain.ListRequest) (domain.ListResult[domain.Rider], error) {
	req.Normalize()
	items, total, err := s.platform.ListRiders(ctx, req)
	if err != nil {
		return domain.ListResult[domain.Rider]{}, err
	}
	return domain.NewListResult(items, total, req), nil
}

// ListVehicles returns a page of fleet vehicles.
func (s *FleetService) ListVehicles(ctx context.Context, req domain.ListRequest) (domain.ListResult[domain.Vehicle], error) {
	req.Normalize()
	items, total, err := s.platform.ListVehicles(ctx, req)
	if err != nil {
		return domain.ListResult[domain.Vehicle]{}, err
	}
	return domain.NewListResult(items, total, req), nil
}

// ListReservations returns a page of reservations.
func (s *FleetService) ListReservations(ctx context.Context, req domain.ListRequest) (domain.ListResult[domain.Reservation], error) {
	req.Normalize()
	items, total, err := s.platform.ListReservations(ctx, req)
	if err != nil {
		return domain.ListResult[domain.Reservation]{}, err
	}
	return domain.NewListResult(items, total, req), nil
}

// GetRider fetches one rider.
func (s *FleetService) GetRider(ctx context.Context, id string) (*domain.Rider, error) {
	return s.platform.GetRider(ctx, id)
}

// UpdateRider validates and applies a rider profile update.
func (s *FleetService) UpdateRider(ctx context.Context, id string, payload domain.RiderUpdate) (*domain.Rider, error) {
	if err := s.validatePayload(payload); err != nil {
		return nil, err
	}
	return s.platform.UpdateRider(ctx, id, payload)
}

// ApproveRider approves a pending rider.
func (s *FleetService) ApproveRider(ctx context.Context, id string) (*domain.Rider, error) {
	rider, err := s.platform.ApproveRider(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "rider approved", slog.String("rider_id", id))
	return rider, nil
}

// SuspendRider suspends a rider account.
func (s *FleetService) SuspendRider(ctx context.Context, id string) (*domain.Rider, error) {
	rider, err := s.platform.SuspendRider(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "rider suspended", slog.String("rider_id", id))
	return rider, nil
}

// GetVehicle fetches one vehicle.
func (s *FleetService) GetVehicle(ctx context.Context, id string) (*domain.Vehicle, error) {
	return s.platform.GetVehicle(ctx, id)
}

// CreateVehicle validates and registers a new vehicle.
func (s *FleetService) CreateVehicle(ctx context.Context, payload domain.VehicleCreate) (*domain.Vehicle, error) {
	if err := s.validatePayload(payload); err != nil {
		return nil, err
	}
	vehicle, err := s.platform.CreateVehicle(ctx, payload)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "vehicle added",
		slog.String("vehicle_id", vehicle.ID),
		slog.String("plate", vehicle.Plate))
	return vehicle, nil
}

// UpdateVehicle validates and applies a vehicle update.
func (s *FleetService) UpdateVehicle(ctx context.Context, id string, payload domain.VehicleUpdate) (*domain.Vehicle, error) {
	if err := s.validatePayload(payload); err != nil {
		return nil, err
	}
	return s.platform.UpdateVehicle(ctx, id, payload)
}

// DeleteVehicle retires a vehicle from the fleet.
func (s *FleetService) DeleteVehicle(ctx context.Context, id string) error {
	if err := s.platform.DeleteVehicle(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "vehicle deleted", slog.String("vehicle_id", id))
	return nil
}

// GetReservation fetches one reservation.
func (s *FleetService) GetReservation(ctx context.Context, id string) (*domain.Reservation, error) {
	return s.platform.GetReservation(ctx, id)
}

// CreateReservation validates and books a reservation.
func (s *FleetService) CreateReservation(ctx context.Context, payload domain.ReservationCreate) (*domain.Reservation, error) {
	if err := s.validatePayload(payload); err != nil {
		return nil, err
	}
	return s.platform.CreateReservation(ctx, payload)
}

// UpdateReservation validates and applies a reservation update.
func (s *FleetService) UpdateReservation(ctx context.Context, id string, payload domain.ReservationUpdate) (*domain.Reservation, error) {
	if err := s.validatePayload(payload); err != nil {
		return nil, err
	}
	return s.platform.UpdateReservation(ctx, id, payload)
}

// CancelReservation cancels a reservation.
func (s *FleetService) CancelReservation(ctx context.Context, id string) (*domain.Reservation, error) {
	res, err := s.platform.CancelReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "reservation cancelled", slog.String("reservation_id", id))
	return res, nil
}

// ExportEntity renders a full export of one entity and, when sink is
// non-nil and the format is CSV, persists it through the sink. XLSX
// payloads are returned for the caller to persist since the sink boundary
// is CSV-specific.
func (s *FleetService) ExportEntity(ctx context.Context, entity, format string, sink exporter.Sink) (*Export, error) {
	start := time.Now()

	export, err := s.BuildExport(ctx, entity, format)
	if err != nil {
		infrastructure.RecordExportMetrics(ctx, s.metrics, entity, format, 0, 0, time.Since(start), err)
		return nil, err
	}

	if sink != nil && format == FormatCSV {
		if err := sink.Save(ctx, export.BaseName, export.Data); err != nil {
			infrastructure.RecordExportMetrics(ctx, s.metrics, entity, format, int64(export.Rows), 0, time.Since(start), err)
			return nil, apierrors.ExportError(entity, err)
		}
	}

	duration := time.Since(start)
	infrastructure.RecordExportMetrics(ctx, s.metrics, entity, format, int64(export.Rows), int64(len(export.Data)), duration, nil)

	s.logger.InfoContext(ctx, "export completed",
		slog.String("entity", entity),
		slog.String("format", format),
		slog.Int("rows", export.Rows),
		slog.Int("bytes", len(export.Data)),
		slog.Duration("duration", duration))

	return export, nil
}

// BuildExport fetches every page of an entity and renders it in the
// requested format. The returned data carries no BOM.
func (s *FleetService) BuildExport(ctx context.Context, entity, format string) (*Export, error) {
	if format != FormatCSV && format != FormatXLSX {
		return nil, apierrors.ErrValidation("format", fmt.Sprintf("unsupported export format: %s", format))
	}

	headers, records, err := s.exportRows(ctx, entity)
	if err != nil {
		return nil, err
	}

	export := &Export{
		Entity:   entity,
		Format:   format,
		BaseName: exportBaseName(entity),
		Rows:     len(records),
	}

	switch format {
	case FormatCSV:
		export.Data = []byte(exporter.ConvertToCSV(records, headers))
	case FormatXLSX:
		data, err := s.xlsx.WriteBuffer(records, headers)
		if err != nil {
			return nil, apierrors.ExportError(entity, err)
		}
		export.Data = data
	}

	return export, nil
}

// StreamEntityCSV pages an entity through the platform and appends each row
// to <BaseName>.csv via the writer's streaming mode, so large fleets never
// sit fully in memory. The writer prefixes the file with a BOM and writes
// through encoding/csv rather than the converter.
func (s *FleetService) StreamEntityCSV(ctx context.Context, entity string, w *exporter.CSVWriter) (*Export, error) {
	start := time.Now()
	baseName := exportBaseName(entity)
	filename := baseName + ".csv"

	var (
		rows int
		err  error
	)
	switch entity {
	case "users":
		rows, err = streamAll(ctx, w, filename, s.platform.ListUsers, UserHeaders(), UserRecord)
	case "riders":
		rows, err = streamAll(ctx, w, filename, s.platform.ListRiders, RiderHeaders(), RiderRecord)
	case "vehicles":
		rows, err = streamAll(ctx, w, filename, s.platform.ListVehicles, VehicleHeaders(), VehicleRecord)
	case "reservations":
		rows, err = streamAll(ctx, w, filename, s.platform.ListReservations, ReservationHeaders(), ReservationRecord)
	case "errors":
		rows, err = streamAll(ctx, w, filename, s.platform.ListSystemErrors, SystemErrorHeaders(), SystemErrorRecord)
	default:
		return nil, apierrors.ErrValidation("entity", fmt.Sprintf("unknown export entity: %s", entity))
	}
	if err != nil {
		infrastructure.RecordExportMetrics(ctx, s.metrics, entity, FormatCSV, int64(rows), 0, time.Since(start), err)
		return nil, apierrors.ExportError(entity, err)
	}

	duration := time.Since(start)
	infrastructure.RecordExportMetrics(ctx, s.metrics, entity, FormatCSV, int64(rows), 0, duration, nil)

	s.logger.InfoContext(ctx, "streaming export completed",
		slog.String("entity", entity),
		slog.String("file", filename),
		slog.Int("rows", rows),
		slog.Duration("duration", duration))

	return &Export{Entity: entity, Format: FormatCSV, BaseName: baseName, Rows: rows}, nil
}

// exportRows pages through the platform until every row of the entity has
// been fetched, converting each item through its export mapping.
func (s *FleetService) exportRows(ctx context.Context, entity string) ([]exporter.Header, []exporter.Record, error) {
	switch entity {
	case "users":
		return fetchAll(ctx, s.platform.ListUsers, UserHeaders(), UserRecord)
	case "riders":
		return fetchAll(ctx, s.platform.ListRiders, RiderHeaders(), RiderRecord)
	case "vehicles":
		return fetchAll(ctx, s.platform.ListVehicles, VehicleHeaders(), VehicleRecord)
	case "reservations":
		return fetchAll(ctx, s.platform.ListReservations, ReservationHeaders(), ReservationRecord)
	case "errors":
		return fetchAll(ctx, s.platform.ListSystemErrors, SystemErrorHeaders(), SystemErrorRecord)
	default:
		return nil, nil, apierrors.ErrValidation("entity", fmt.Sprintf("unknown export entity: %s", entity))
	}
}

// exportBaseName stamps the entity with the export time so repeated runs
// never clobber each other.
func exportBaseName(entity string) string {
	return fmt.Sprintf("%s_%s", entity, time.Now().UTC().Format("20060102_150405"))
}

// fetchAll drains a list endpoint page by page. The loop also stops when a
// page comes back short, so a shrinking total cannot spin it.
func fetchAll[T any](
	ctx context.Context,
	list func(context.Context, domain.ListRequest) ([]T, int, error),
	headers []exporter.Header,
	record func(T) exporter.Record,
) ([]exporter.Header, []exporter.Record, error) {
	var records []exporter.Record
	req := domain.ListRequest{Limit: domain.MaxPageSize}

	for {
		items, total, err := list(ctx, req)
		if err != nil {
			return nil, nil, err
		}
		for _, item := range items {
			records = append(records, record(item))
		}
		req.Offset += len(items)
		if len(items) == 0 || req.Offset >= total {
			break
		}
	}

	return headers, records, nil
}

// streamAll drains a list endpoint page by page, writing rows as they
// arrive. The stream writer is closed on every path so a failed export
// never leaks the file handle.
func streamAll[T any](
	ctx context.Context,
	w *exporter.CSVWriter,
	filename string,
	list func(context.Context, domain.ListRequest) ([]T, int, error),
	headers []exporter.Header,
	record func(T) exporter.Record,
) (int, error) {
	sw, err := w.CreateStreamWriter(filename, exporter.HeaderLabels(headers))
	if err != nil {
		return 0, err
	}

	rows := 0
	req := domain.ListRequest{Limit: domain.MaxPageSize}
	for {
		items, total, err := list(ctx, req)
		if err != nil {
			sw.Close()
			return rows, err
		}
		for _, item := range items {
			if err := sw.WriteRecord(record(item).Strings(headers)); err != nil {
				sw.Close()
				return rows, err
			}
			rows++
		}
		req.Offset += len(items)
		if len(items) == 0 || req.Offset >= total {
			break
		}
	}

	return rows, sw.Close()
}

// validatePayload runs struct validation and converts failures into the
// API's field-level validation error.
func (s *FleetService) validatePayload(payload any) error {
	err := s.validate.Struct(payload)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return apierrors.ErrValidation("payload", err.Error())
	}

	fields := make([]apierrors.ValidationError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		fields = append(fields, apierrors.ValidationError{
			Field:   fe.Field(),
			Message: fmt.Sprintf("failed %s validation", fe.Tag()),
		})
	}
	return apierrors.NewValidationErrors(fields)
}
