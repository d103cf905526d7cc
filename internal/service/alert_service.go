package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jonboulle/clockwork"
	"github.com/xxiimcha/lifeec-mobile/internal/apperror"
	"github.com/xxiimcha/lifeec-mobile/internal/model"
	"github.com/xxiimcha/lifeec-mobile/prometheus"
)

// RecentWindow is how far back the per-resident alert query looks
const RecentWindow = 24 * time.Hour

// column widths of the alerts table
const (
	maxResidentIDLen   = 36
	maxResidentNameLen = 100
)

// AlertStore is the persistence the alert engine depends on
type AlertStore interface {
	Create(ctx context.Context, alert *model.Alert) error
	Delete(ctx context.Context, id string) error
	FindByResidentSince(ctx context.Context, residentID string, since time.Time) ([]model.Alert, error)
	TimestampsBetween(ctx context.Context, from, to time.Time) ([]time.Time, error)
	Count(ctx context.Context) (int64, error)
	CountActiveResidents(ctx context.Context, since time.Time) (int64, error)
}

// ResidentCounter reports the size of the resident population
type ResidentCounter interface {
	Count(ctx context.Context) (int64, error)
}

// CreateAlertInput carries the fields of a new alert. Timestamp is optional.
type CreateAlertInput struct {
	ResidentID   string
	ResidentName string
	Message      string
	Timestamp    *time.Time
}

// AlertService creates, deletes and aggregates emergency alerts
type AlertService struct {
	alerts    AlertStore
	residents ResidentCounter
	clock     clockwork.Clock
}

// NewAlertService creates an alert service
func NewAlertService(alerts AlertStore, residents ResidentCounter, clock clockwork.Clock) *AlertService {
	return &AlertService{alerts: alerts, residents: residents, clock: clock}
}

// Create validates and persists a new alert. Every missing or oversized
// field is reported in one error.
func (s *AlertService) Create(ctx context.Context, in CreateAlertInput) (*model.Alert, error) {
	fields := map[string]string{}
	missing := false
	if strings.TrimSpace(in.ResidentID) == "" {
		fields["residentId"] = "residentId is required"
		missing = true
	} else if utf8.RuneCountInString(in.ResidentID) > maxResidentIDLen {
		fields["residentId"] = "residentId must be at most 36 characters"
	}
	if strings.TrimSpace(in.ResidentName) == "" {
		fields["residentName"] = "residentName is required"
		missing = true
	} else if utf8.RuneCountInString(in.ResidentName) > maxResidentNameLen {
		fields["residentName"] = "residentName must be at most 100 characters"
	}
	if strings.TrimSpace(in.Message) == "" {
		fields["message"] = "message is required"
		missing = true
	}
	if missing {
		return nil, apperror.Validation("All fields are required", fields)
	}
	if len(fields) > 0 {
		return nil, apperror.Validation("Validation failed", fields)
	}

	ts := s.clock.Now()
	if in.Timestamp != nil && !in.Timestamp.IsZero() {
		ts = *in.Timestamp
	}

	alert := &model.Alert{
		ResidentID:   in.ResidentID,
		ResidentName: in.ResidentName,
		Message:      in.Message,
		Timestamp:    ts.UTC(),
	}
	if err := s.alerts.Create(ctx, alert); err != nil {
		return nil, apperror.Store("Failed to create emergency alert", err)
	}

	prometheus.RecordAlertOperation("create")
	return alert, nil
}

// Delete removes an alert. Deleting an unknown id succeeds.
func (s *AlertService) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return apperror.Validation("Alert id is required", map[string]string{"id": "id is required"})
	}
	if err := s.alerts.Delete(ctx, id); err != nil {
		return apperror.Store("Failed to delete emergency alert", err)
	}
	prometheus.RecordAlertOperation("delete")
	return nil
}

// Recent returns the resident's alerts raised within the last 24 hours
func (s *AlertService) Recent(ctx context.Context, residentID string) ([]model.Alert, error) {
	if strings.TrimSpace(residentID) == "" {
		return nil, apperror.Validation("residentId is required", map[string]string{"residentId": "residentId is required"})
	}

	since := s.clock.Now().UTC().Add(-RecentWindow)
	alerts, err := s.alerts.FindByResidentSince(ctx, residentID, since)
	if err != nil {
		return nil, apperror.Store("Failed to fetch emergency alerts", err)
	}

	prometheus.RecordAlertOperation("recent")
	return alerts, nil
}

// CurrentYear returns the clock's current UTC year
func (s *AlertService) CurrentYear() int {
	return s.clock.Now().UTC().Year()
}

// CountByMonth returns the number of alerts raised in each calendar month of
// year, January first. Months without alerts are zero.
func (s *AlertService) CountByMonth(ctx context.Context, year int) ([12]int64, error) {
	var counts [12]int64
	if year < 1 || year > 9999 {
		return counts, apperror.Validation("Invalid year", map[string]string{"year": "year must be between 1 and 9999"})
	}

	// Jan 1 up to but excluding the next Jan 1, so all of Dec 31 23:59:59 counts
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)
	timestamps, err := s.alerts.TimestampsBetween(ctx, from, to)
	if err != nil {
		return counts, apperror.Store("Failed to count emergency alerts", err)
	}

	for _, ts := range timestamps {
		ts = ts.UTC()
		if ts.Year() != year {
			continue
		}
		counts[ts.Month()-1]++
	}

	prometheus.RecordAlertOperation("monthly")
	return counts, nil
}

// DashboardSummary returns resident and alert totals plus the number of
// residents with an alert in the last calendar month
func (s *AlertService) DashboardSummary(ctx context.Context) (*model.DashboardSummary, error) {
	totalResidents, err := s.residents.Count(ctx)
	if err != nil {
		return nil, apperror.Store("Failed to fetch dashboard summary", err)
	}

	totalAlerts, err := s.alerts.Count(ctx)
	if err != nil {
		return nil, apperror.Store("Failed to fetch dashboard summary", err)
	}

	since := s.clock.Now().UTC().AddDate(0, -1, 0)
	active, err := s.alerts.CountActiveResidents(ctx, since)
	if err != nil {
		return nil, apperror.Store("Failed to fetch dashboard summary", err)
	}
	if active > totalResidents {
		active = totalResidents
	}

	prometheus.RecordAlertOperation("dashboard")
	return &model.DashboardSummary{
		TotalResidents:  totalResidents,
		TotalAlerts:     totalAlerts,
		ActiveResidents: active,
	}, nil
}
