package availability

import (
	"fmt"
	"time"
)

// CheckResult is the structured answer to "can N guests book this date".
// Business rejections are data, not errors.
type CheckResult struct {
	Available      bool   `json:"available"`
	RemainingSlots *int   `json:"remainingSlots"` // nil when capacity is unlimited or unknown
	Status         string `json:"status"`
	Reason         string `json:"reason,omitempty"`
}

// GetDateAvailability returns the availability record for a single date,
// synthesizing one from tour defaults when no override exists. Returns nil
// only when the tour itself is unknown.
func (s *Service) GetDateAvailability(tourID, date string) *AvailabilityDate {
	s.mu.Lock()
	defer s.mu.Unlock()

	tour, ok := s.tours[tourID]
	if !ok {
		return nil
	}
	d, _ := s.resolveDate(tour, date)
	cp := *d
	return &cp
}

// GetMonthlyAvailability returns a record for every calendar day of the
// month. An entirely unconfigured tour is treated permissively and synthesized
// from the system default capacity; this is a pre-booking information surface,
// not a gate.
func (s *Service) GetMonthlyAvailability(tourID string, year int, month time.Month) []AvailabilityDate {
	s.mu.Lock()
	defer s.mu.Unlock()

	tour := s.tours[tourID]

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	days := first.AddDate(0, 1, -1).Day()

	out := make([]AvailabilityDate, 0, days)
	for day := 1; day <= days; day++ {
		date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Format(dateLayout)
		if tour != nil {
			d, _ := s.resolveDate(tour, date)
			out = append(out, *d)
			continue
		}
		out = append(out, AvailabilityDate{
			Date:     date,
			Capacity: DefaultDateCapacity,
			Status:   DeriveStatus(0, DefaultDateCapacity),
		})
	}
	return out
}

// GetDateStatus returns the derived status for a date, defaulting to
// available when the tour cannot be resolved.
func (s *Service) GetDateStatus(tourID, date string) string {
	if d := s.GetDateAvailability(tourID, date); d != nil {
		return d.Status
	}
	return StatusAvailable
}

// CheckAvailability answers whether guestCount guests can book tourID on
// date. Unknown tours are fail-open: an unconfigured tour must not block
// bookings. Returns an error only for programmer misuse (bad date, guests<=0).
func (s *Service) CheckAvailability(tourID, date string, guestCount int) (CheckResult, error) {
	if guestCount <= 0 {
		return CheckResult{}, fmt.Errorf("guest count must be positive, got %d", guestCount)
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return CheckResult{}, fmt.Errorf("invalid date %q: %w", date, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkLocked(tourID, date, guestCount), nil
}

func (s *Service) checkLocked(tourID, date string, guestCount int) CheckResult {
	tour, ok := s.tours[tourID]
	if !ok {
		return CheckResult{Available: true, Status: StatusAvailable}
	}

	if !withinWindow(date, tour.MinAdvanceDays, tour.MaxAdvanceDays) {
		return CheckResult{
			Available: false,
			Status:    StatusBlocked,
			Reason:    "outside booking window",
		}
	}

	d, _ := s.resolveDate(tour, date)

	if d.Status == StatusBlocked || d.Capacity == CapacityBlocked {
		zero := 0
		reason := d.Notes
		if reason == "" {
			reason = "date is not available for booking"
		}
		return CheckResult{
			Available:      false,
			RemainingSlots: &zero,
			Status:         StatusBlocked,
			Reason:         reason,
		}
	}

	if d.Capacity == CapacityUnlimited {
		return CheckResult{Available: true, Status: d.Status}
	}

	remaining := d.Capacity - d.Booked
	if remaining < guestCount {
		r := remaining
		return CheckResult{
			Available:      false,
			RemainingSlots: &r,
			Status:         d.Status,
			Reason:         fmt.Sprintf("only %d slots remaining", remaining),
		}
	}

	r := remaining
	return CheckResult{Available: true, RemainingSlots: &r, Status: d.Status}
}

// withinWindow reports whether date falls inside [today+min, today+max] at
// calendar-day granularity; time of day is ignored.
func withinWindow(date string, minAdvance, maxAdvance int) bool {
	target, err := time.Parse(dateLayout, date)
	if err != nil {
		return false
	}
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	days := int(target.Sub(today).Hours() / 24)
	return days >= minAdvance && days <= maxAdvance
}
