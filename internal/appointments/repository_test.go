package appointments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/careops/hospital-console/internal/his"
	"github.com/careops/hospital-console/internal/scheduling"
)

type fakeClient struct {
	created     *his.AppointmentPayload
	updated     *his.AppointmentPayload
	updatedID   string
	listResult  []his.Appointment
	listErr     error
	createCalls int
}

func (c *fakeClient) CreateAppointment(_ context.Context, payload his.AppointmentPayload) (*his.Appointment, error) {
	c.createCalls++
	c.created = &payload
	return &his.Appointment{ID: "appt-new", SlotID: payload.SlotID, AppointmentDate: payload.AppointmentDate}, nil
}

func (c *fakeClient) UpdateAppointment(_ context.Context, appointmentID string, payload his.AppointmentPayload) (*his.Appointment, error) {
	c.updatedID = appointmentID
	c.updated = &payload
	return &his.Appointment{ID: appointmentID, SlotID: payload.SlotID, AppointmentDate: payload.AppointmentDate}, nil
}

func (c *fakeClient) ListAppointmentsByProvider(_ context.Context, _ string) ([]his.Appointment, error) {
	return c.listResult, c.listErr
}

func slotSelectionDraft() *scheduling.Draft {
	return &scheduling.Draft{
		ID:             "draft-1",
		Step:           scheduling.StepSlotSelection,
		Modality:       his.ModalityOPD,
		PatientID:      "pt-1",
		ProviderID:     "doc-7",
		Date:           "10-03-2025",
		ReasonID:       3,
		SymptomIDs:     []int{4, 9, 4, 9, 11},
		ChosenSlotID:   2,
		ChosenSlotTime: "9:30",
	}
}

func TestCreate_PayloadMapping(t *testing.T) {
	client := &fakeClient{}
	repo := NewRepository(client, nil)

	appt, err := repo.Create(context.Background(), slotSelectionDraft())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if appt.ID != "appt-new" {
		t.Fatalf("unexpected appointment: %+v", appt)
	}

	p := client.created
	if p.AppointmentDate != "2025-03-10" {
		t.Fatalf("date not canonicalized: %q", p.AppointmentDate)
	}
	if p.AppointmentTime != "09:30" {
		t.Fatalf("time not padded: %q", p.AppointmentTime)
	}
	if got, want := len(p.SymptomIDs), 3; got != want {
		t.Fatalf("symptoms not de-duplicated: %v", p.SymptomIDs)
	}
	for i, want := range []int{4, 9, 11} {
		if p.SymptomIDs[i] != want {
			t.Fatalf("symptom order not preserved: %v", p.SymptomIDs)
		}
	}
	if p.VisitReasonID == nil || *p.VisitReasonID != 3 {
		t.Fatalf("reason missing from payload: %+v", p.VisitReasonID)
	}
	if p.SlotID != 2 {
		t.Fatalf("slot missing from payload: %d", p.SlotID)
	}
}

func TestCreate_VirtualCarriesDurationAndNotes(t *testing.T) {
	client := &fakeClient{}
	repo := NewRepository(client, nil)

	d := slotSelectionDraft()
	d.Modality = his.ModalityVirtual
	d.DurationMinutes = 20
	d.Notes = "follow-up on labs"

	if _, err := repo.Create(context.Background(), d); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if client.created.DurationMinutes != 20 || client.created.ConsultationNotes != "follow-up on labs" {
		t.Fatalf("virtual fields missing: %+v", client.created)
	}

	// OPD payloads never carry the virtual-only fields.
	d = slotSelectionDraft()
	d.DurationMinutes = 20
	d.Notes = "should not be sent"
	if _, err := repo.Create(context.Background(), d); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if client.created.DurationMinutes != 0 || client.created.ConsultationNotes != "" {
		t.Fatalf("opd payload leaked virtual fields: %+v", client.created)
	}
}

func TestCreate_MissingFieldsRejectedLocally(t *testing.T) {
	client := &fakeClient{}
	repo := NewRepository(client, nil)

	cases := map[string]func(*scheduling.Draft){
		"provider": func(d *scheduling.Draft) { d.ProviderID = "" },
		"patient":  func(d *scheduling.Draft) { d.PatientID = "" },
		"slot":     func(d *scheduling.Draft) { d.ChosenSlotID = 0 },
		"reason":   func(d *scheduling.Draft) { d.ReasonID = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			d := slotSelectionDraft()
			mutate(d)
			_, err := repo.Create(context.Background(), d)
			if !scheduling.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
	if client.createCalls != 0 {
		t.Fatalf("validation failures must not reach the client, got %d calls", client.createCalls)
	}
}

func TestCreate_VirtualReasonOptional(t *testing.T) {
	client := &fakeClient{}
	repo := NewRepository(client, nil)

	d := slotSelectionDraft()
	d.Modality = his.ModalityVirtual
	d.ReasonID = 0
	if _, err := repo.Create(context.Background(), d); err != nil {
		t.Fatalf("virtual booking without reason should pass: %v", err)
	}
	if client.created.VisitReasonID != nil {
		t.Fatalf("expected nil reason, got %v", *client.created.VisitReasonID)
	}
}

func TestUpdate_SamePayloadShape(t *testing.T) {
	client := &fakeClient{}
	repo := NewRepository(client, nil)

	d := slotSelectionDraft()
	d.ChosenSlotID = 1
	d.ChosenSlotTime = "9:00"

	appt, err := repo.Update(context.Background(), "appt-9", d)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if appt.ID != "appt-9" || client.updatedID != "appt-9" {
		t.Fatalf("wrong appointment updated: %+v", appt)
	}
	if client.updated.SlotID != 1 || client.updated.AppointmentTime != "09:00" {
		t.Fatalf("unexpected update payload: %+v", client.updated)
	}
}

func TestList_NewestFirst(t *testing.T) {
	now := time.Now().UTC()
	client := &fakeClient{listResult: []his.Appointment{
		{ID: "a1", AppointmentDate: "2025-03-08", CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "a3", AppointmentDate: "2025-03-12", CreatedAt: now},
		{ID: "a2", AppointmentDate: "2025-03-10", CreatedAt: now.Add(-time.Hour)},
	}}
	repo := NewRepository(client, nil)

	appts, err := repo.List(context.Background(), "doc-7")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if appts[0].ID != "a3" || appts[1].ID != "a2" || appts[2].ID != "a1" {
		t.Fatalf("not newest-first: %+v", appts)
	}
}

func TestList_BackendErrorPropagates(t *testing.T) {
	wantErr := errors.New("his down")
	repo := NewRepository(&fakeClient{listErr: wantErr}, nil)
	if _, err := repo.List(context.Background(), "doc-7"); !errors.Is(err, wantErr) {
		t.Fatalf("expected backend error, got %v", err)
	}
}
