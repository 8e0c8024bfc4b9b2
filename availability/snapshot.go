package availability

// Snapshot is the durable view of the engine: tour state only. Pending slots
// are deliberately excluded; a lost hold expires upstream and the external
// booking record is authoritative past the hold window.
type Snapshot struct {
	Tours []*TourAvailability `json:"tours" bson:"tours"`
}

// Snapshot deep-copies all tour state for persistence by the host.
func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{Tours: make([]*TourAvailability, 0, len(s.tours))}
	for _, tour := range s.tours {
		snap.Tours = append(snap.Tours, copyTour(tour))
	}
	return snap
}

// Restore replaces all tour state from a snapshot. In-flight holds are kept;
// their guest counts are already baked into the snapshot's booked totals if
// the snapshot was taken after they were placed.
func (s *Service) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tours = make(map[string]*TourAvailability, len(snap.Tours))
	for _, tour := range snap.Tours {
		cp := copyTour(tour)
		if cp.Dates == nil {
			cp.Dates = make(map[string]*AvailabilityDate)
		}
		s.tours[cp.TourID] = cp
	}
}
