package availability

// TourConfig carries optional overrides for InitializeTour. Zero-valued
// fields fall back to the lookup tables.
type TourConfig struct {
	DefaultCapacity *int `json:"defaultCapacity,omitempty"`
	MinAdvanceDays  *int `json:"minAdvanceDays,omitempty"`
	MaxAdvanceDays  *int `json:"maxAdvanceDays,omitempty"`
}

// InitializeTour seeds the availability record for a tour. Re-initializing
// an existing tour overwrites it; last write wins, no merge.
func (s *Service) InitializeTour(tourID, tourType string, cfg *TourConfig) {
	capacity, ok := DefaultCapacities[tourType]
	if !ok {
		capacity = DefaultDateCapacity
	}
	minAdvance := DefaultMinAdvanceDays
	maxAdvance := DefaultMaxAdvanceDays

	if cfg != nil {
		if cfg.DefaultCapacity != nil {
			capacity = *cfg.DefaultCapacity
		}
		if cfg.MinAdvanceDays != nil {
			minAdvance = *cfg.MinAdvanceDays
		}
		if cfg.MaxAdvanceDays != nil {
			maxAdvance = *cfg.MaxAdvanceDays
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tour := &TourAvailability{
		TourID:          tourID,
		TourType:        tourType,
		DefaultCapacity: capacity,
		MinAdvanceDays:  minAdvance,
		MaxAdvanceDays:  maxAdvance,
		Dates:           make(map[string]*AvailabilityDate),
	}
	s.touch(tour)
	s.tours[tourID] = tour
}

// SetDateCapacity upserts a date's capacity. Status is recomputed against the
// existing booked count; capacity changes never reset bookings.
func (s *Service) SetDateCapacity(tourID, date string, capacity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tour, ok := s.tours[tourID]
	if !ok {
		return
	}
	d := s.ensureDate(tour, date)
	d.Capacity = capacity
	d.Status = DeriveStatus(d.Booked, d.Capacity)
	s.touch(tour)
}

// BlockDate zeroes a date's capacity and records the reason. The booked
// count is kept so unblocking restores accurate accounting.
func (s *Service) BlockDate(tourID, date, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tour, ok := s.tours[tourID]
	if !ok {
		return
	}
	d := s.ensureDate(tour, date)
	d.Capacity = CapacityBlocked
	d.Status = StatusBlocked
	d.Notes = reason
	s.touch(tour)
}

// UnblockDate restores a blocked date to the tour's current default
// capacity. A custom pre-block capacity is not remembered.
func (s *Service) UnblockDate(tourID, date string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tour, ok := s.tours[tourID]
	if !ok {
		return
	}
	d := s.ensureDate(tour, date)
	d.Capacity = tour.DefaultCapacity
	d.Status = DeriveStatus(d.Booked, d.Capacity)
	d.Notes = ""
	s.touch(tour)
}

// SetDateNotes annotates a date without touching capacity or bookings.
func (s *Service) SetDateNotes(tourID, date, notes string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tour, ok := s.tours[tourID]
	if !ok {
		return
	}
	d := s.ensureDate(tour, date)
	d.Notes = notes
	s.touch(tour)
}

// SetDefaultCapacity changes the capacity inherited by dates without an
// explicit override. Existing overrides keep their stored capacity.
func (s *Service) SetDefaultCapacity(tourID string, capacity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tour, ok := s.tours[tourID]
	if !ok {
		return
	}
	tour.DefaultCapacity = capacity
	s.touch(tour)
}

// GetTour returns a deep copy of a tour's availability record, or nil.
func (s *Service) GetTour(tourID string) *TourAvailability {
	s.mu.Lock()
	defer s.mu.Unlock()

	tour, ok := s.tours[tourID]
	if !ok {
		return nil
	}
	return copyTour(tour)
}

func copyTour(tour *TourAvailability) *TourAvailability {
	cp := *tour
	cp.Dates = make(map[string]*AvailabilityDate, len(tour.Dates))
	for k, v := range tour.Dates {
		d := *v
		cp.Dates[k] = &d
	}
	return &cp
}
