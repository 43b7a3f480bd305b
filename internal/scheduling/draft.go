// Package scheduling owns the booking workflow: the transient draft a user
// builds up across the two-step flow, the Redis store that holds it, the
// reschedule no-op policy, and the service that drives submits against the
// backend of record. Nothing here is persisted past a completed or
// abandoned workflow.
package scheduling

import (
	"time"

	"github.com/careops/hospital-console/internal/his"
	"github.com/careops/hospital-console/internal/timeutil"
)

// Step is the draft's position in the two-step flow.
type Step string

const (
	StepDetails       Step = "details"
	StepSlotSelection Step = "slot_selection"
)

// Draft is an in-progress booking or reschedule. It lives only in the
// draft store and is destroyed on submit or abandon; no partial state ever
// reaches the HIS.
type Draft struct {
	ID       string       `json:"id"`
	Step     Step         `json:"step"`
	Modality his.Modality `json:"modality"`

	PatientID  string `json:"patientId"`
	ProviderID string `json:"providerId"`

	Date            string `json:"date"`
	ReasonID        int    `json:"reasonId,omitempty"`
	SymptomIDs      []int  `json:"symptomIds,omitempty"`
	ChosenSlotID    int    `json:"chosenSlotId,omitempty"`
	ChosenSlotTime  string `json:"chosenSlotTime,omitempty"`
	DurationMinutes int    `json:"durationMinutes,omitempty"`
	Notes           string `json:"notes,omitempty"`

	// Reschedule only: the appointment being edited, and its stored date
	// and slot for the no-op check and the self-reschedule exemption.
	AppointmentID  string `json:"appointmentId,omitempty"`
	ExistingDate   string `json:"existingDate,omitempty"`
	ExistingSlotID int    `json:"existingSlotId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsReschedule reports whether the draft edits an existing appointment.
func (d *Draft) IsReschedule() bool {
	return d.AppointmentID != ""
}

// Advance moves the draft from details to slot selection. The transition is
// gated on required fields: a visit reason always, and for in-person
// bookings at least one symptom.
func (d *Draft) Advance() error {
	if d.Step != StepDetails {
		return &ValidationError{Field: "step", Message: "draft is not at the details step"}
	}
	if d.Date == "" {
		return &ValidationError{Field: "date", Message: "appointment date is required"}
	}
	if d.ReasonID == 0 {
		return &ValidationError{Field: "reasonId", Message: "visit reason is required"}
	}
	if d.Modality == his.ModalityOPD && len(d.SymptomIDs) == 0 {
		return &ValidationError{Field: "symptomIds", Message: "at least one symptom is required"}
	}
	d.Step = StepSlotSelection
	return nil
}

// SetDate changes the draft's date. A slot id is only meaningful for the
// date it was resolved under, so any chosen slot is cleared.
func (d *Draft) SetDate(date string) {
	d.Date = timeutil.CanonicalDate(date)
	d.ChosenSlotID = 0
	d.ChosenSlotTime = ""
}

// ChooseSlot records the user's slot pick. forDate is the date the slot
// list was resolved for; a pick against any other date is rejected so a
// stale slot grid can never select into a draft whose date moved on.
func (d *Draft) ChooseSlot(slotID int, slotTime, forDate string) error {
	if d.Step != StepSlotSelection {
		return &ValidationError{Field: "step", Message: "draft is not at the slot selection step"}
	}
	if slotID == 0 {
		return &ValidationError{Field: "slotId", Message: "slot is required"}
	}
	if timeutil.CanonicalDate(forDate) != timeutil.CanonicalDate(d.Date) {
		return ErrStaleSlotList
	}
	d.ChosenSlotID = slotID
	d.ChosenSlotTime = slotTime
	return nil
}

// ReadyToSubmit is the gate on the final transition.
func (d *Draft) ReadyToSubmit() error {
	if d.Step != StepSlotSelection {
		return &ValidationError{Field: "step", Message: "draft has not reached slot selection"}
	}
	if d.ChosenSlotID == 0 {
		return &ValidationError{Field: "slotId", Message: "a slot must be chosen before submitting"}
	}
	return nil
}

// OwnSlotID returns the slot the draft's appointment already holds, but
// only while the draft still points at that appointment's date. On any
// other date the stored slot id refers to a different grid entirely.
func (d *Draft) OwnSlotID() int {
	if !d.IsReschedule() {
		return 0
	}
	if timeutil.CanonicalDate(d.Date) != timeutil.CanonicalDate(d.ExistingDate) {
		return 0
	}
	return d.ExistingSlotID
}
