package scheduling

import (
	"context"
	"errors"

	"github.com/careops/hospital-console/internal/audit"
	"github.com/careops/hospital-console/internal/availability"
	"github.com/careops/hospital-console/internal/his"
	"github.com/careops/hospital-console/internal/observability/metrics"
	"github.com/careops/hospital-console/internal/timeutil"
	"github.com/careops/hospital-console/pkg/logging"
)

// AppointmentGateway performs the durable create/update against the HIS.
// Implemented by the appointments repository.
type AppointmentGateway interface {
	Create(ctx context.Context, d *Draft) (*his.Appointment, error)
	Update(ctx context.Context, appointmentID string, d *Draft) (*his.Appointment, error)
}

// SlotResolver resolves the bookable slot list for one provider and date.
type SlotResolver interface {
	Resolve(ctx context.Context, providerID, date string, opts availability.ResolveOptions) []availability.Slot
}

// AuditSink records booking decisions. May be nil.
type AuditSink interface {
	Record(ctx context.Context, e audit.Event) error
}

// Service drives the two-step booking and reschedule workflow.
type Service struct {
	store    *DraftStore
	resolver SlotResolver
	gateway  AppointmentGateway
	audit    AuditSink
	metrics  *metrics.BookingMetrics
	logger   *logging.Logger
}

func NewService(store *DraftStore, resolver SlotResolver, gateway AppointmentGateway, sink AuditSink, m *metrics.BookingMetrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		store:    store,
		resolver: resolver,
		gateway:  gateway,
		audit:    sink,
		metrics:  m,
		logger:   logger,
	}
}

// StartBookingInput seeds a fresh booking draft. Patient and provider ids
// come from the caller's session, never from ambient state.
type StartBookingInput struct {
	Modality        his.Modality
	PatientID       string
	ProviderID      string
	Date            string
	ReasonID        int
	SymptomIDs      []int
	DurationMinutes int
	Notes           string
}

// StartBooking opens a new draft at the details step.
func (s *Service) StartBooking(ctx context.Context, in StartBookingInput) (*Draft, error) {
	if in.PatientID == "" {
		return nil, &ValidationError{Field: "patientId", Message: "patient id is required"}
	}
	if in.ProviderID == "" {
		return nil, &ValidationError{Field: "providerId", Message: "provider id is required"}
	}
	modality := in.Modality
	if modality == "" {
		modality = his.ModalityOPD
	}
	d := &Draft{
		Step:            StepDetails,
		Modality:        modality,
		PatientID:       in.PatientID,
		ProviderID:      in.ProviderID,
		Date:            timeutil.CanonicalDate(in.Date),
		ReasonID:        in.ReasonID,
		SymptomIDs:      in.SymptomIDs,
		DurationMinutes: in.DurationMinutes,
		Notes:           in.Notes,
	}
	if err := s.store.Save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// StartRescheduleInput seeds a reschedule draft from the appointment the
// console already holds a read replica of.
type StartRescheduleInput struct {
	StartBookingInput
	AppointmentID string
	ExistingDate  string
	ExistingSlot  int
}

// StartReschedule opens a draft editing an existing appointment. The draft
// remembers the appointment's stored date and slot for the no-op check and
// the self-reschedule exemption.
func (s *Service) StartReschedule(ctx context.Context, in StartRescheduleInput) (*Draft, error) {
	if in.AppointmentID == "" {
		return nil, &ValidationError{Field: "appointmentId", Message: "appointment id is required"}
	}
	d, err := s.StartBooking(ctx, in.StartBookingInput)
	if err != nil {
		return nil, err
	}
	d.AppointmentID = in.AppointmentID
	d.ExistingDate = timeutil.CanonicalDate(in.ExistingDate)
	d.ExistingSlotID = in.ExistingSlot
	if d.Date == "" {
		d.Date = d.ExistingDate
	}
	if err := s.store.Save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Advance moves a draft from details to slot selection and resolves the
// slot grid for its date.
func (s *Service) Advance(ctx context.Context, draftID string) (*Draft, []availability.Slot, error) {
	d, err := s.store.Get(ctx, draftID)
	if err != nil {
		return nil, nil, err
	}
	if err := d.Advance(); err != nil {
		return nil, nil, err
	}
	if err := s.store.Save(ctx, d); err != nil {
		return nil, nil, err
	}
	slots := s.resolve(ctx, d)
	return d, slots, nil
}

// SetDate moves the draft to a new date while in slot selection. The
// previously chosen slot is cleared and availability re-resolved. If the
// draft's date moved again while this resolution was in flight, the newer
// date wins and the grid is resolved once more for it.
func (s *Service) SetDate(ctx context.Context, draftID, date string) (*Draft, []availability.Slot, error) {
	d, err := s.store.Get(ctx, draftID)
	if err != nil {
		return nil, nil, err
	}
	if d.Step != StepSlotSelection {
		return nil, nil, &ValidationError{Field: "step", Message: "draft is not at the slot selection step"}
	}
	d.SetDate(date)
	if err := s.store.Save(ctx, d); err != nil {
		return nil, nil, err
	}

	slots := s.resolve(ctx, d)

	// Last write wins on the date key, not on completion order.
	current, err := s.store.Get(ctx, draftID)
	if err != nil {
		return nil, nil, err
	}
	if timeutil.CanonicalDate(current.Date) != timeutil.CanonicalDate(d.Date) {
		s.logger.Info("draft date superseded during resolution, re-resolving",
			"draft_id", draftID, "stale", d.Date, "current", current.Date)
		slots = s.resolve(ctx, current)
		return current, slots, nil
	}
	return d, slots, nil
}

// ChooseSlot records the slot pick made against the grid resolved for
// forDate.
func (s *Service) ChooseSlot(ctx context.Context, draftID string, slotID int, slotTime, forDate string) (*Draft, error) {
	d, err := s.store.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if err := d.ChooseSlot(slotID, slotTime, forDate); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// SubmitResult is the outcome of a successful submit.
type SubmitResult struct {
	// Action is one of created, updated, skipped.
	Action        string           `json:"action"`
	AppointmentID string           `json:"appointmentId,omitempty"`
	Appointment   *his.Appointment `json:"appointment,omitempty"`
	// Highlight marks a freshly created appointment for one-time emphasis
	// in the refreshed list.
	Highlight bool `json:"highlight,omitempty"`
}

// Submit finalizes the draft. A reschedule that changes neither date nor
// slot is elided entirely and reported as skipped. On a slot conflict the
// draft stays open with its slot cleared and the returned ConflictError
// carries a freshly resolved grid; a stale slot list is never offered for
// resubmission.
func (s *Service) Submit(ctx context.Context, draftID string) (*SubmitResult, error) {
	d, err := s.store.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if err := d.ReadyToSubmit(); err != nil {
		return nil, err
	}

	if ShouldSkipReschedule(d.ExistingDate, d.ExistingSlotID, d) {
		s.record(ctx, d, audit.ActionSkipped, "unchanged date and slot, update elided")
		s.metrics.ObserveSubmit(audit.ActionSkipped)
		_ = s.store.Delete(ctx, draftID)
		return &SubmitResult{Action: audit.ActionSkipped, AppointmentID: d.AppointmentID}, nil
	}

	var appt *his.Appointment
	action := audit.ActionCreated
	if d.IsReschedule() {
		action = audit.ActionUpdated
		appt, err = s.gateway.Update(ctx, d.AppointmentID, d)
	} else {
		appt, err = s.gateway.Create(ctx, d)
	}

	if err != nil {
		return nil, s.submitError(ctx, d, err)
	}

	s.record(ctx, d, action, "")
	s.metrics.ObserveSubmit(action)
	_ = s.store.Delete(ctx, draftID)
	return &SubmitResult{
		Action:        action,
		AppointmentID: appt.ID,
		Appointment:   appt,
		Highlight:     action == audit.ActionCreated,
	}, nil
}

// Abandon discards the draft with no backend effect, from any step.
func (s *Service) Abandon(ctx context.Context, draftID string) error {
	return s.store.Delete(ctx, draftID)
}

func (s *Service) submitError(ctx context.Context, d *Draft, err error) error {
	if IsValidation(err) {
		return err
	}
	if his.IsConflict(err) {
		// Another patient took the slot between resolution and submit.
		// Clear the pick and hand back a fresh grid before any retry.
		s.record(ctx, d, audit.ActionConflict, err.Error())
		s.metrics.ObserveSubmit(audit.ActionConflict)
		d.ChosenSlotID = 0
		d.ChosenSlotTime = ""
		if saveErr := s.store.Save(ctx, d); saveErr != nil {
			s.logger.Error("failed to save draft after conflict", "draft_id", d.ID, "error", saveErr)
		}

		msg := ""
		var apiErr *his.APIError
		if errors.As(err, &apiErr) {
			msg = apiErr.Message
		}
		return &ConflictError{
			Message: msg,
			Slots:   s.resolve(ctx, d),
		}
	}

	s.record(ctx, d, audit.ActionFailed, err.Error())
	s.metrics.ObserveSubmit(audit.ActionFailed)
	return err
}

func (s *Service) resolve(ctx context.Context, d *Draft) []availability.Slot {
	return s.resolver.Resolve(ctx, d.ProviderID, d.Date, availability.ResolveOptions{
		Modality:  d.Modality,
		OwnSlotID: d.OwnSlotID(),
	})
}

func (s *Service) record(ctx context.Context, d *Draft, action, detail string) {
	if s.audit == nil {
		return
	}
	e := audit.Event{
		PatientID:       d.PatientID,
		ProviderID:      d.ProviderID,
		AppointmentID:   d.AppointmentID,
		DraftID:         d.ID,
		Action:          action,
		SlotID:          d.ChosenSlotID,
		AppointmentDate: timeutil.CanonicalDate(d.Date),
		Detail:          detail,
	}
	if err := s.audit.Record(ctx, e); err != nil {
		s.logger.Warn("failed to record booking event", "action", action, "draft_id", d.ID, "error", err)
	}
}
