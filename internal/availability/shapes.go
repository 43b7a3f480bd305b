package availability

import (
	"encoding/json"

	"github.com/careops/hospital-console/internal/timeutil"
)

// The HIS has shipped three incompatible availability payloads over the
// years and all three are still live behind different deployments:
//
//	(a) "generatedSlots": per-day entries whose slots are bare time strings
//	    or small objects
//	(b) "availability": per-day entries with nested time objects and a
//	    separate bookedSlots list
//	(c) a flat slot array, either top-level or under "slots", with no day
//	    envelope at all
//
// Shape selection tries (a), then (b), then (c), taking the first that
// decodes to a non-empty array.

const (
	shapeGenerated    = "generated"
	shapeAvailability = "availability"
	shapeFlat         = "flat"
	shapeNone         = "none"
)

type wireSlot struct {
	Time   string `json:"time"`
	Slot   string `json:"slot"`
	Label  string `json:"label"`
	SlotID int    `json:"slotId"`
	Booked bool   `json:"booked"`
}

// clock returns whichever time field the record populated.
func (s wireSlot) clock() string {
	for _, v := range []string{s.Time, s.Slot, s.Label} {
		if v != "" {
			return v
		}
	}
	return ""
}

type wireDay struct {
	Date        json.RawMessage   `json:"date"`
	Slots       []json.RawMessage `json:"slots"`
	Times       []wireSlot        `json:"times"`
	BookedSlots []int             `json:"bookedSlots"`
}

// canonicalDate normalizes the day entry's own date field, which can be a
// string in any supported format or a numeric [y, m, d] tuple.
func (d wireDay) canonicalDate() string {
	var v any
	if err := json.Unmarshal(d.Date, &v); err != nil {
		return ""
	}
	return timeutil.CanonicalDate(v)
}

// slots flattens whichever slot representation the day entry carries into
// wireSlot records. Shape (a) mixes bare strings and objects in one array.
func (d wireDay) slots() []wireSlot {
	if len(d.Times) > 0 {
		return d.Times
	}
	out := make([]wireSlot, 0, len(d.Slots))
	for _, raw := range d.Slots {
		var asString string
		if err := json.Unmarshal(raw, &asString); err == nil {
			out = append(out, wireSlot{Time: asString})
			continue
		}
		var asObject wireSlot
		if err := json.Unmarshal(raw, &asObject); err == nil {
			out = append(out, asObject)
		}
	}
	return out
}

// selectShape decodes body against the three known shapes in priority
// order. Shape (c) is synthesized into a single day entry with no date so
// the caller's requested date governs.
func selectShape(body json.RawMessage) (days []wireDay, shape string) {
	var generated struct {
		GeneratedSlots []wireDay `json:"generatedSlots"`
	}
	if err := json.Unmarshal(body, &generated); err == nil && len(generated.GeneratedSlots) > 0 {
		return generated.GeneratedSlots, shapeGenerated
	}

	var nested struct {
		Availability []wireDay `json:"availability"`
	}
	if err := json.Unmarshal(body, &nested); err == nil && len(nested.Availability) > 0 {
		return nested.Availability, shapeAvailability
	}

	var flat []wireSlot
	if err := json.Unmarshal(body, &flat); err == nil && len(flat) > 0 {
		return []wireDay{{Times: flat}}, shapeFlat
	}
	var wrapped struct {
		Slots []wireSlot `json:"slots"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && len(wrapped.Slots) > 0 {
		return []wireDay{{Times: wrapped.Slots}}, shapeFlat
	}

	return nil, shapeNone
}
