// Package appointments maps booking drafts onto the HIS appointment
// endpoints: payload construction and local validation on the way out,
// newest-first ordering on the way back.
package appointments

import (
	"context"
	"sort"

	"github.com/careops/hospital-console/internal/his"
	"github.com/careops/hospital-console/internal/scheduling"
	"github.com/careops/hospital-console/internal/timeutil"
	"github.com/careops/hospital-console/pkg/logging"
)

// Client is the subset of the HIS client the repository uses.
type Client interface {
	CreateAppointment(ctx context.Context, payload his.AppointmentPayload) (*his.Appointment, error)
	UpdateAppointment(ctx context.Context, appointmentID string, payload his.AppointmentPayload) (*his.Appointment, error)
	ListAppointmentsByProvider(ctx context.Context, providerID string) ([]his.Appointment, error)
}

// Repository performs appointment operations against the HIS.
type Repository struct {
	client Client
	logger *logging.Logger
}

func NewRepository(client Client, logger *logging.Logger) *Repository {
	if logger == nil {
		logger = logging.Default()
	}
	return &Repository{client: client, logger: logger}
}

// Create books a new appointment from the draft. Validation failures are
// caught locally; no request is made.
func (r *Repository) Create(ctx context.Context, d *scheduling.Draft) (*his.Appointment, error) {
	payload, err := buildPayload(d)
	if err != nil {
		return nil, err
	}
	appt, err := r.client.CreateAppointment(ctx, payload)
	if err != nil {
		return nil, err
	}
	r.logger.Info("appointment created",
		"appointment_id", appt.ID,
		"provider_id", d.ProviderID,
		"date", payload.AppointmentDate,
		"slot_id", payload.SlotID,
	)
	return appt, nil
}

// Update reschedules an existing appointment with the same payload shape
// as create. The no-op skip decision belongs to the scheduling service,
// not here.
func (r *Repository) Update(ctx context.Context, appointmentID string, d *scheduling.Draft) (*his.Appointment, error) {
	if appointmentID == "" {
		return nil, &scheduling.ValidationError{Field: "appointmentId", Message: "appointment id is required"}
	}
	payload, err := buildPayload(d)
	if err != nil {
		return nil, err
	}
	appt, err := r.client.UpdateAppointment(ctx, appointmentID, payload)
	if err != nil {
		return nil, err
	}
	r.logger.Info("appointment updated",
		"appointment_id", appointmentID,
		"date", payload.AppointmentDate,
		"slot_id", payload.SlotID,
	)
	return appt, nil
}

// List returns the provider's appointments newest-first, which is the
// order the console renders after every create or update.
func (r *Repository) List(ctx context.Context, providerID string) ([]his.Appointment, error) {
	if providerID == "" {
		return nil, &scheduling.ValidationError{Field: "providerId", Message: "provider id is required"}
	}
	appts, err := r.client.ListAppointmentsByProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(appts, func(i, j int) bool {
		if !appts[i].CreatedAt.Equal(appts[j].CreatedAt) {
			return appts[i].CreatedAt.After(appts[j].CreatedAt)
		}
		return timeutil.CanonicalDate(appts[i].AppointmentDate) > timeutil.CanonicalDate(appts[j].AppointmentDate)
	})
	return appts, nil
}

// buildPayload maps a draft to the HIS create/update body: canonical date,
// zero-padded time, de-duplicated symptom list, reason nullable only for
// virtual consultations.
func buildPayload(d *scheduling.Draft) (his.AppointmentPayload, error) {
	var payload his.AppointmentPayload
	if d == nil {
		return payload, &scheduling.ValidationError{Field: "draft", Message: "draft is required"}
	}
	if d.ProviderID == "" {
		return payload, &scheduling.ValidationError{Field: "providerId", Message: "provider id is required"}
	}
	if d.PatientID == "" {
		return payload, &scheduling.ValidationError{Field: "patientId", Message: "patient id is required"}
	}
	if d.ChosenSlotID == 0 {
		return payload, &scheduling.ValidationError{Field: "slotId", Message: "slot is required"}
	}
	if d.ReasonID == 0 && d.Modality != his.ModalityVirtual {
		return payload, &scheduling.ValidationError{Field: "reasonId", Message: "visit reason is required"}
	}

	payload = his.AppointmentPayload{
		PatientID:       d.PatientID,
		DoctorID:        d.ProviderID,
		AppointmentDate: timeutil.CanonicalDate(d.Date),
		AppointmentTime: timeutil.PadClock(d.ChosenSlotTime),
		SlotID:          d.ChosenSlotID,
		SymptomIDs:      dedupe(d.SymptomIDs),
		Modality:        d.Modality,
	}
	if d.ReasonID != 0 {
		reason := d.ReasonID
		payload.VisitReasonID = &reason
	}
	if d.Modality == his.ModalityVirtual {
		payload.DurationMinutes = d.DurationMinutes
		payload.ConsultationNotes = d.Notes
	}
	return payload, nil
}

// dedupe drops repeated symptom ids, first occurrence wins.
func dedupe(ids []int) []int {
	out := make([]int, 0, len(ids))
	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
