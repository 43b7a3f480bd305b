package scheduling

import (
	"errors"
	"testing"

	"github.com/careops/hospital-console/internal/his"
)

func detailsDraft(modality his.Modality) *Draft {
	return &Draft{
		ID:         "draft-1",
		Step:       StepDetails,
		Modality:   modality,
		PatientID:  "pt-1",
		ProviderID: "doc-7",
		Date:       "2025-03-10",
		ReasonID:   3,
		SymptomIDs: []int{4},
	}
}

func TestAdvance_RequiresReason(t *testing.T) {
	d := detailsDraft(his.ModalityOPD)
	d.ReasonID = 0
	err := d.Advance()
	if !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if d.Step != StepDetails {
		t.Fatalf("failed gate must not advance, step=%s", d.Step)
	}
}

func TestAdvance_OPDRequiresSymptom(t *testing.T) {
	d := detailsDraft(his.ModalityOPD)
	d.SymptomIDs = nil
	if err := d.Advance(); !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	// Virtual consultations carry no symptom requirement.
	v := detailsDraft(his.ModalityVirtual)
	v.SymptomIDs = nil
	if err := v.Advance(); err != nil {
		t.Fatalf("virtual draft should advance without symptoms: %v", err)
	}
	if v.Step != StepSlotSelection {
		t.Fatalf("expected slot selection, got %s", v.Step)
	}
}

func TestSetDate_ClearsChosenSlot(t *testing.T) {
	d := detailsDraft(his.ModalityOPD)
	if err := d.Advance(); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if err := d.ChooseSlot(2, "09:30", "2025-03-10"); err != nil {
		t.Fatalf("choose slot: %v", err)
	}

	d.SetDate("11-03-2025")

	if d.ChosenSlotID != 0 || d.ChosenSlotTime != "" {
		t.Fatalf("date change must clear the chosen slot, got %d %q", d.ChosenSlotID, d.ChosenSlotTime)
	}
	if d.Date != "2025-03-11" {
		t.Fatalf("date not canonicalized: %q", d.Date)
	}
}

func TestChooseSlot_RejectsStaleDate(t *testing.T) {
	d := detailsDraft(his.ModalityOPD)
	if err := d.Advance(); err != nil {
		t.Fatalf("advance: %v", err)
	}
	d.SetDate("2025-03-12")

	// Pick made against the grid that was resolved for the old date.
	err := d.ChooseSlot(2, "09:30", "2025-03-10")
	if !errors.Is(err, ErrStaleSlotList) {
		t.Fatalf("expected ErrStaleSlotList, got %v", err)
	}
	if d.ChosenSlotID != 0 {
		t.Fatalf("stale pick must not stick, got %d", d.ChosenSlotID)
	}

	// Same pick against the current date, in a different wire format.
	if err := d.ChooseSlot(2, "09:30", "12-03-2025"); err != nil {
		t.Fatalf("equivalent date should be accepted: %v", err)
	}
}

func TestReadyToSubmit(t *testing.T) {
	d := detailsDraft(his.ModalityOPD)
	if err := d.ReadyToSubmit(); !IsValidation(err) {
		t.Fatalf("details step must not be submittable, got %v", err)
	}
	if err := d.Advance(); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if err := d.ReadyToSubmit(); !IsValidation(err) {
		t.Fatalf("no slot chosen, expected validation error, got %v", err)
	}
	if err := d.ChooseSlot(1, "09:00", "2025-03-10"); err != nil {
		t.Fatalf("choose slot: %v", err)
	}
	if err := d.ReadyToSubmit(); err != nil {
		t.Fatalf("expected submittable draft, got %v", err)
	}
}

func TestOwnSlotID_OnlyOnMatchingDate(t *testing.T) {
	d := detailsDraft(his.ModalityOPD)
	d.AppointmentID = "appt-9"
	d.ExistingDate = "2025-03-10"
	d.ExistingSlotID = 2

	if got := d.OwnSlotID(); got != 2 {
		t.Fatalf("same date should expose own slot, got %d", got)
	}

	d.SetDate("2025-03-11")
	if got := d.OwnSlotID(); got != 0 {
		t.Fatalf("different date must not expose own slot, got %d", got)
	}
}

func TestShouldSkipReschedule(t *testing.T) {
	base := func() *Draft {
		d := detailsDraft(his.ModalityOPD)
		d.AppointmentID = "appt-9"
		d.ExistingDate = "2025-03-10"
		d.ExistingSlotID = 2
		d.Step = StepSlotSelection
		return d
	}

	// Unchanged slot and date: the update is a no-op.
	d := base()
	d.ChosenSlotID = 2
	if !ShouldSkipReschedule("2025-03-10", 2, d) {
		t.Fatal("expected skip for unchanged date and slot")
	}

	// Same semantics with the existing date in another wire format.
	if !ShouldSkipReschedule("10-03-2025", 2, d) {
		t.Fatal("expected skip across equivalent date formats")
	}

	// Different slot, same date.
	d = base()
	d.ChosenSlotID = 1
	if ShouldSkipReschedule("2025-03-10", 2, d) {
		t.Fatal("slot change must not be skipped")
	}

	// Same slot, different date.
	d = base()
	d.ChosenSlotID = 2
	d.Date = "2025-03-11"
	if ShouldSkipReschedule("2025-03-10", 2, d) {
		t.Fatal("date change must not be skipped")
	}

	// Fresh bookings never skip.
	d = base()
	d.AppointmentID = ""
	d.ChosenSlotID = 2
	if ShouldSkipReschedule("2025-03-10", 2, d) {
		t.Fatal("a create is never a no-op")
	}
}
