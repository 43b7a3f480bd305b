// Package audit keeps a local trail of booking decisions. The HIS owns the
// appointments themselves; this table records what the console decided and
// why, including updates that were skipped as no-ops and submits that lost
// a slot race. The backend of record never sees these.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/careops/hospital-console/pkg/logging"
)

// Actions recorded per submit outcome.
const (
	ActionCreated  = "created"
	ActionUpdated  = "updated"
	ActionSkipped  = "skipped"
	ActionConflict = "conflict"
	ActionFailed   = "failed"
)

// Event is one booking decision.
type Event struct {
	PatientID       string
	ProviderID      string
	AppointmentID   string
	DraftID         string
	Action          string
	SlotID          int
	AppointmentDate string
	Detail          string
}

// Row is a stored event as read back for the console.
type Row struct {
	ID              int64     `json:"id"`
	PatientID       string    `json:"patientId"`
	ProviderID      string    `json:"providerId"`
	AppointmentID   string    `json:"appointmentId,omitempty"`
	DraftID         string    `json:"draftId"`
	Action          string    `json:"action"`
	SlotID          int       `json:"slotId,omitempty"`
	AppointmentDate string    `json:"appointmentDate,omitempty"`
	Detail          string    `json:"detail,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Recorder writes booking events to Postgres.
type Recorder struct {
	db     db
	logger *logging.Logger
}

func NewRecorder(database db, logger *logging.Logger) *Recorder {
	if logger == nil {
		logger = logging.Default()
	}
	return &Recorder{db: database, logger: logger}
}

// Record inserts one event. Auditing must never block a booking, so the
// caller treats a returned error as log-and-continue.
func (r *Recorder) Record(ctx context.Context, e Event) error {
	if r == nil || r.db == nil {
		return nil
	}
	const query = `
		INSERT INTO booking_events
			(patient_id, provider_id, appointment_id, draft_id, action, slot_id, appointment_date, detail)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	if _, err := r.db.Exec(ctx, query,
		e.PatientID,
		e.ProviderID,
		e.AppointmentID,
		e.DraftID,
		e.Action,
		e.SlotID,
		e.AppointmentDate,
		e.Detail,
	); err != nil {
		return fmt.Errorf("audit: insert booking event: %w", err)
	}
	return nil
}

// ListRecent returns the newest events first, capped at limit.
func (r *Recorder) ListRecent(ctx context.Context, providerID string, limit int) ([]Row, error) {
	if r == nil || r.db == nil {
		return nil, nil
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	const query = `
		SELECT id, patient_id, provider_id, appointment_id, draft_id, action, slot_id, appointment_date, detail, created_at
		FROM booking_events
		WHERE provider_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, providerID, limit)
	if err != nil {
		return nil, fmt.Errorf("audit: list booking events: %w", err)
	}
	defer rows.Close()

	out := make([]Row, 0, limit)
	for rows.Next() {
		var row Row
		if err := rows.Scan(
			&row.ID,
			&row.PatientID,
			&row.ProviderID,
			&row.AppointmentID,
			&row.DraftID,
			&row.Action,
			&row.SlotID,
			&row.AppointmentDate,
			&row.Detail,
			&row.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("audit: scan booking event: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("audit: iterate booking events: %w", err)
	}
	return out, nil
}
