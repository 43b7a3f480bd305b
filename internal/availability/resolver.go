// Package availability turns the HIS's inconsistent availability payloads
// into a single ordered slot list. One resolver serves both the in-person
// and virtual booking flows; the flows differ only in the modality passed
// through to the HIS, never in normalization behavior.
package availability

import (
	"context"
	"time"

	"github.com/careops/hospital-console/internal/his"
	"github.com/careops/hospital-console/internal/observability/metrics"
	"github.com/careops/hospital-console/internal/timeutil"
	"github.com/careops/hospital-console/pkg/logging"
)

// Slot is one bookable time unit for a provider on a given date. SlotID is
// only meaningful for the (provider, date) pair it was resolved under.
type Slot struct {
	Label  string `json:"label"` // display form, "09:30 AM"
	Value  string `json:"value"` // canonical 24-hour form, "09:30"
	SlotID int    `json:"slotId"`
	Booked bool   `json:"booked"`
}

// Fetcher is the subset of the HIS client the resolver needs.
type Fetcher interface {
	GetAvailability(ctx context.Context, providerID, date string, modality his.Modality) (*his.AvailabilityDocument, error)
}

// ResolveOptions tune one resolution.
type ResolveOptions struct {
	Modality his.Modality

	// OwnSlotID marks the slot currently held by the appointment being
	// rescheduled. That slot shows as booked in the HIS response but must
	// stay selectable for its own appointment.
	OwnSlotID int
}

// Resolver normalizes provider availability for one calendar date.
type Resolver struct {
	fetcher Fetcher
	logger  *logging.Logger
	metrics *metrics.BookingMetrics
}

func NewResolver(fetcher Fetcher, logger *logging.Logger, m *metrics.BookingMetrics) *Resolver {
	if logger == nil {
		logger = logging.Default()
	}
	return &Resolver{fetcher: fetcher, logger: logger, metrics: m}
}

// Resolve returns the ordered slot list for providerID on date. There is no
// error channel at this layer: transport failures and unrecognized payloads
// both come back as an empty list, exactly as the console UI treats them.
// Each silent branch is still observable through logs and metrics.
func (r *Resolver) Resolve(ctx context.Context, providerID, date string, opts ResolveOptions) []Slot {
	started := time.Now()
	modality := string(opts.Modality)

	want := timeutil.CanonicalDate(date)
	if !timeutil.IsCanonicalDate(want) {
		// Known lossy branch: the input matched no date format and is used
		// as-is. The HIS will almost certainly return nothing for it.
		r.metrics.ObserveDateParseFallback()
		r.logger.Warn("availability date not canonical, using as-is", "date", date, "provider_id", providerID)
	}

	doc, err := r.fetcher.GetAvailability(ctx, providerID, want, opts.Modality)
	if err != nil {
		r.logger.Warn("availability fetch failed, returning no slots",
			"provider_id", providerID, "date", want, "error", err)
		r.metrics.ObserveResolve(modality, shapeNone, time.Since(started).Seconds())
		return []Slot{}
	}

	days, shape := selectShape(doc.Body)
	r.metrics.ObserveResolve(modality, shape, time.Since(started).Seconds())
	if shape == shapeNone {
		r.logger.Warn("availability payload matched no known shape",
			"provider_id", providerID, "date", want)
		return []Slot{}
	}

	day, exact := pickDay(days, want)
	if !exact && shape != shapeFlat {
		// Documented fallback: when the requested date has no entry, the
		// first day in the payload is used. This can present another day's
		// slots; the counter exists so that shows up somewhere.
		r.metrics.ObserveDayFallback(modality)
		r.logger.Warn("no day entry matched requested date, using first entry",
			"provider_id", providerID, "requested", want, "served", day.canonicalDate())
	}

	return r.mapSlots(day, opts)
}

// pickDay selects the entry whose canonicalized date equals want, falling
// back to the first entry present.
func pickDay(days []wireDay, want string) (wireDay, bool) {
	for _, d := range days {
		if d.canonicalDate() == want {
			return d, true
		}
	}
	return days[0], false
}

func (r *Resolver) mapSlots(day wireDay, opts ResolveOptions) []Slot {
	booked := make(map[int]bool, len(day.BookedSlots))
	for _, id := range day.BookedSlots {
		booked[id] = true
	}

	raw := day.slots()
	out := make([]Slot, 0, len(raw))
	seen := make(map[int]bool, len(raw))
	for i, ws := range raw {
		value := timeutil.To24Hour(ws.clock())
		if value == "" {
			continue
		}
		value = timeutil.PadClock(value)

		id := ws.SlotID
		if id == 0 {
			id = i + 1 // positional default when the HIS omits slot ids
		}
		if seen[id] {
			r.logger.Warn("duplicate slot id in availability payload, dropping", "slot_id", id)
			continue
		}
		seen[id] = true

		isBooked := ws.Booked || booked[id]
		if opts.OwnSlotID != 0 && id == opts.OwnSlotID {
			isBooked = false
		}

		out = append(out, Slot{
			Label:  timeutil.To12Hour(value),
			Value:  value,
			SlotID: id,
			Booked: isBooked,
		})
	}
	return out
}
