package his

import (
	"encoding/json"
	"time"
)

// Modality identifies the consultation channel an appointment belongs to.
type Modality string

const (
	ModalityOPD     Modality = "opd"
	ModalityIPD     Modality = "ipd"
	ModalityVirtual Modality = "virtual"
)

// Appointment is the backend-of-record appointment record. Identifier fields
// mirror the HIS wire format: people and appointments are string ids, slots
// and catalog entries are numeric.
type Appointment struct {
	ID                string    `json:"id"`
	PatientID         string    `json:"patientId"`
	DoctorID          string    `json:"doctorId"`
	VisitReasonID     *int      `json:"visitReasonId,omitempty"`
	SymptomIDs        []int     `json:"symptomIds,omitempty"`
	AppointmentDate   string    `json:"appointmentDate"`
	SlotID            int       `json:"slotId"`
	TimeLabel         string    `json:"appointmentTime"`
	DurationMinutes   int       `json:"durationMinutes,omitempty"`
	ConsultationNotes string    `json:"consultationNotes,omitempty"`
	Modality          Modality  `json:"modality,omitempty"`
	Status            string    `json:"status,omitempty"`
	CreatedAt         time.Time `json:"createdAt,omitempty"`
}

// AppointmentPayload is the create/update request body. The same shape is
// used for both operations; update additionally carries the appointment id
// in the URL.
type AppointmentPayload struct {
	PatientID         string   `json:"patientId"`
	DoctorID          string   `json:"doctorId"`
	AppointmentDate   string   `json:"appointmentDate"`
	AppointmentTime   string   `json:"appointmentTime"`
	SlotID            int      `json:"slotId"`
	VisitReasonID     *int     `json:"visitReasonId,omitempty"`
	SymptomIDs        []int    `json:"symptomIds"`
	DurationMinutes   int      `json:"durationMinutes,omitempty"`
	ConsultationNotes string   `json:"consultationNotes,omitempty"`
	Modality          Modality `json:"modality,omitempty"`
}

// CatalogItem is a generic id/label pair from the HIS master-data catalogs
// (symptoms, visit reasons).
type CatalogItem struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

// AvailabilityDocument is the unparsed availability response for one
// provider and date. The HIS returns slot data in one of several shapes;
// shape selection is the availability resolver's job, so the client hands
// back the raw body.
type AvailabilityDocument struct {
	ProviderID string
	Date       string
	Modality   Modality
	Body       json.RawMessage
}
