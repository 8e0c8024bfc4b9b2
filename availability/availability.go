package availability

import (
	"sync"
	"time"
)

// Capacity sentinels: -1 means unlimited, 0 means blocked.
const (
	CapacityUnlimited = -1
	CapacityBlocked   = 0
)

// Date status values, always derived from (booked, capacity).
const (
	StatusAvailable = "available"
	StatusLimited   = "limited"
	StatusFull      = "full"
	StatusBlocked   = "blocked"
)

// Slot lifecycle states. Cancelled slots are removed, not transitioned.
const (
	SlotPending   = "pending"
	SlotConfirmed = "confirmed"
)

// HoldTTL is how long a pending slot reserves capacity before the expiry
// sweep reclaims it.
const HoldTTL = 15 * time.Minute

// DefaultDateCapacity is the system-wide fallback used when a tour has no
// record at all. Absence of configuration must not read as absence of
// inventory, so the fallback is generous.
const DefaultDateCapacity = 20

// Booking window defaults, in days relative to today (inclusive).
const (
	DefaultMinAdvanceDays = 1
	DefaultMaxAdvanceDays = 365
)

// DefaultCapacities maps a tour type to its default per-date capacity.
var DefaultCapacities = map[string]int{
	"day-tour":         16,
	"vacation-package": 12,
	"car-rental":       8,
	"hotel":            30,
	"event":            100,
}

const dateLayout = "2006-01-02"

// AvailabilityDate is the per-tour, per-date override record. Created lazily
// on first write; dates without a record inherit the tour defaults.
type AvailabilityDate struct {
	Date     string `json:"date" bson:"date"`
	Capacity int    `json:"capacity" bson:"capacity"`
	Booked   int    `json:"booked" bson:"booked"`
	Status   string `json:"status" bson:"status"`
	Notes    string `json:"notes,omitempty" bson:"notes,omitempty"`
}

// TourAvailability holds capacity configuration and booking counts for one
// tour. Dates is sparse; only overridden or booked dates are present.
type TourAvailability struct {
	TourID          string                       `json:"tourId" bson:"tourId"`
	TourType        string                       `json:"tourType" bson:"tourType"`
	DefaultCapacity int                          `json:"defaultCapacity" bson:"defaultCapacity"`
	MinAdvanceDays  int                          `json:"minAdvanceDays" bson:"minAdvanceDays"`
	MaxAdvanceDays  int                          `json:"maxAdvanceDays" bson:"maxAdvanceDays"`
	Dates           map[string]*AvailabilityDate `json:"dates" bson:"dates"`
	LastUpdated     time.Time                    `json:"lastUpdated" bson:"lastUpdated"`
}

// BookingSlot is a transient reservation hold. Slots are never persisted;
// the external booking record is the source of truth past the hold window.
type BookingSlot struct {
	ID            string    `json:"id"`
	TourID        string    `json:"tourId"`
	Date          string    `json:"date"`
	GuestCount    int       `json:"guestCount"`
	BookingID     string    `json:"bookingId"`
	CustomerEmail string    `json:"customerEmail"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	ExpiresAt     time.Time `json:"expiresAt,omitempty"`
}

// DeriveStatus maps booked/capacity to a date status. Total over all
// booked >= 0 and capacity >= -1.
func DeriveStatus(booked, capacity int) string {
	switch {
	case capacity == CapacityBlocked:
		return StatusBlocked
	case capacity == CapacityUnlimited:
		return StatusAvailable
	case booked >= capacity:
		return StatusFull
	case booked*5 >= capacity*4: // 80% threshold, inclusive
		return StatusLimited
	default:
		return StatusAvailable
	}
}

// Service owns all availability state for one deployment. Every operation
// takes the internal lock, so reads and read-modify-write mutations are
// serialized; callers hold a *Service rather than reaching into globals.
type Service struct {
	mu    sync.Mutex
	tours map[string]*TourAvailability
	slots map[string]*BookingSlot
}

func NewService() *Service {
	return &Service{
		tours: make(map[string]*TourAvailability),
		slots: make(map[string]*BookingSlot),
	}
}

// resolveDate returns the effective availability record for a date: the
// stored override when present, otherwise one synthesized from tour defaults.
// The second return reports whether the record is stored. Lock must be held.
func (s *Service) resolveDate(tour *TourAvailability, date string) (*AvailabilityDate, bool) {
	if d, ok := tour.Dates[date]; ok {
		d.Status = DeriveStatus(d.Booked, d.Capacity)
		return d, true
	}
	return &AvailabilityDate{
		Date:     date,
		Capacity: tour.DefaultCapacity,
		Booked:   0,
		Status:   DeriveStatus(0, tour.DefaultCapacity),
	}, false
}

// ensureDate materializes the override record for a date so it can be
// mutated. Lock must be held.
func (s *Service) ensureDate(tour *TourAvailability, date string) *AvailabilityDate {
	if d, ok := tour.Dates[date]; ok {
		return d
	}
	d := &AvailabilityDate{
		Date:     date,
		Capacity: tour.DefaultCapacity,
		Booked:   0,
		Status:   DeriveStatus(0, tour.DefaultCapacity),
	}
	tour.Dates[date] = d
	return d
}

func (s *Service) touch(tour *TourAvailability) {
	tour.LastUpdated = time.Now().UTC()
}
