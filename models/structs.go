package models

// AvailabilityEvent describes a change to a tour's availability state,
// published over the message channel so listeners (websocket fan-out,
// cache invalidation) can react.
type AvailabilityEvent struct {
	TourID string `json:"tour_id"`
	Date   string `json:"date,omitempty"`
	Action string `json:"action"` // reserved, confirmed, cancelled, expired, admin
	SlotID string `json:"slot_id,omitempty"`
	Guests int    `json:"guests,omitempty"`
}
