package availability

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ReserveSlot places a pending hold for guestCount guests. The availability
// check and the booked increment happen in one critical section, so a
// rejected request leaves no state behind and an accepted one can never
// oversell the date. A nil slot with a populated CheckResult is a business
// rejection; the error channel is reserved for misuse.
func (s *Service) ReserveSlot(tourID, date string, guestCount int, bookingID, customerEmail string) (*BookingSlot, CheckResult, error) {
	if guestCount <= 0 {
		return nil, CheckResult{}, fmt.Errorf("guest count must be positive, got %d", guestCount)
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, CheckResult{}, fmt.Errorf("invalid date %q: %w", date, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	check := s.checkLocked(tourID, date, guestCount)
	if !check.Available {
		return nil, check, nil
	}

	now := time.Now().UTC()
	slot := &BookingSlot{
		ID:            uuid.NewString(),
		TourID:        tourID,
		Date:          date,
		GuestCount:    guestCount,
		BookingID:     bookingID,
		CustomerEmail: customerEmail,
		Status:        SlotPending,
		CreatedAt:     now,
		ExpiresAt:     now.Add(HoldTTL),
	}
	s.slots[slot.ID] = slot

	// Unknown tours still get a hold, but there is no record to count it
	// against; the hold simply expires if never confirmed upstream.
	if tour, ok := s.tours[tourID]; ok {
		d := s.ensureDate(tour, date)
		d.Booked += guestCount
		d.Status = DeriveStatus(d.Booked, d.Capacity)
		s.touch(tour)
	}

	cp := *slot
	return &cp, check, nil
}

// ConfirmSlot flips a pending hold to confirmed and removes its expiry. The
// guest count was committed at reservation time, so booked is untouched.
// Returns false for unknown or already-confirmed slots.
func (s *Service) ConfirmSlot(slotID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.slots[slotID]
	if !ok || slot.Status != SlotPending {
		return false
	}
	slot.Status = SlotConfirmed
	slot.ExpiresAt = time.Time{}
	return true
}

// CancelSlot removes a hold in any state and returns its guest count to the
// date, floored at zero against bookkeeping drift. Returns false only when
// the slot id is unknown.
func (s *Service) CancelSlot(slotID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelLocked(slotID)
}

func (s *Service) cancelLocked(slotID string) bool {
	slot, ok := s.slots[slotID]
	if !ok {
		return false
	}
	delete(s.slots, slotID)

	if tour, ok := s.tours[slot.TourID]; ok {
		if d, stored := tour.Dates[slot.Date]; stored {
			d.Booked -= slot.GuestCount
			if d.Booked < 0 {
				d.Booked = 0
			}
			d.Status = DeriveStatus(d.Booked, d.Capacity)
			s.touch(tour)
		}
	}
	return true
}

// ReleaseExpiredSlots reaps every pending hold whose expiry has passed and
// returns the number reaped. Idempotent; there is no internal timer, so a
// host scheduler must call this periodically.
func (s *Service) ReleaseExpiredSlots() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	count := 0
	for id, slot := range s.slots {
		if slot.Status == SlotPending && slot.ExpiresAt.Before(now) {
			s.cancelLocked(id)
			count++
		}
	}
	return count
}

// GetSlot returns a copy of a hold, or nil if unknown.
func (s *Service) GetSlot(slotID string) *BookingSlot {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.slots[slotID]
	if !ok {
		return nil
	}
	cp := *slot
	return &cp
}
