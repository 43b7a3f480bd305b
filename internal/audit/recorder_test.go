package audit

import (
	"context"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func TestRecord_InsertsEvent(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec("INSERT INTO booking_events").
		WithArgs("pt-1", "doc-7", "appt-9", "draft-1", ActionUpdated, 2, "2025-03-10", "").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	rec := NewRecorder(mock, nil)
	err = rec.Record(context.Background(), Event{
		PatientID:       "pt-1",
		ProviderID:      "doc-7",
		AppointmentID:   "appt-9",
		DraftID:         "draft-1",
		Action:          ActionUpdated,
		SlotID:          2,
		AppointmentDate: "2025-03-10",
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestRecord_NilRecorderIsNoop(t *testing.T) {
	var rec *Recorder
	if err := rec.Record(context.Background(), Event{Action: ActionSkipped}); err != nil {
		t.Fatalf("nil recorder should be a no-op, got %v", err)
	}
}

func TestListRecent(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	now := time.Now().UTC()
	rows := pgxmock.NewRows([]string{
		"id", "patient_id", "provider_id", "appointment_id", "draft_id", "action", "slot_id", "appointment_date", "detail", "created_at",
	}).
		AddRow(int64(2), "pt-1", "doc-7", "appt-9", "draft-2", ActionSkipped, 2, "2025-03-10", "unchanged date and slot", now).
		AddRow(int64(1), "pt-1", "doc-7", "appt-9", "draft-1", ActionCreated, 2, "2025-03-10", "", now.Add(-time.Hour))

	mock.ExpectQuery("SELECT id, patient_id, provider_id").
		WithArgs("doc-7", 50).
		WillReturnRows(rows)

	rec := NewRecorder(mock, nil)
	got, err := rec.ListRecent(context.Background(), "doc-7", 0)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if got[0].Action != ActionSkipped || got[1].Action != ActionCreated {
		t.Fatalf("unexpected rows: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
