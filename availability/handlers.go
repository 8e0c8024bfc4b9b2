package availability

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"voyago/models"
	"voyago/mq"
	"voyago/utils"

	"github.com/julienschmidt/httprouter"
)

// API exposes the engine over HTTP. Handlers hold the service instance
// instead of reaching into package globals, so tests and multi-tenant hosts
// can run isolated engines.
type API struct {
	Svc *Service
}

func NewAPI(svc *Service) *API {
	return &API{Svc: svc}
}

func (a *API) emit(r *http.Request, event models.AvailabilityEvent) {
	mq.Emit(r.Context(), event)
	BroadcastUpdate(event.TourID, event.Date)
}

// GET /api/availability/:tourId/date/:date
func (a *API) GetDate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	d := a.Svc.GetDateAvailability(ps.ByName("tourId"), ps.ByName("date"))
	if d == nil {
		utils.RespondWithError(w, http.StatusNotFound, "tour not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"date": d})
}

// GET /api/availability/:tourId/month/:year/:month
func (a *API) GetMonthly(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	year, err := strconv.Atoi(ps.ByName("year"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid year")
		return
	}
	month, err := strconv.Atoi(ps.ByName("month"))
	if err != nil || month < 1 || month > 12 {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid month")
		return
	}

	days := a.Svc.GetMonthlyAvailability(ps.ByName("tourId"), year, time.Month(month))
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"days": days})
}

// GET /api/availability/:tourId/check?date=YYYY-MM-DD&guests=N
func (a *API) Check(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	guests, err := strconv.Atoi(r.URL.Query().Get("guests"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid guests")
		return
	}

	result, err := a.Svc.CheckAvailability(ps.ByName("tourId"), r.URL.Query().Get("date"), guests)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, result)
}

// GET /api/availability/:tourId/status/:date
func (a *API) GetStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	status := a.Svc.GetDateStatus(ps.ByName("tourId"), ps.ByName("date"))
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": status})
}

// POST /api/availability/reserve
func (a *API) Reserve(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		TourID        string `json:"tourId"`
		Date          string `json:"date"`
		GuestCount    int    `json:"guestCount"`
		BookingID     string `json:"bookingId"`
		CustomerEmail string `json:"customerEmail"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if body.TourID == "" || body.Date == "" || body.BookingID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "missing fields")
		return
	}

	slot, check, err := a.Svc.ReserveSlot(body.TourID, body.Date, body.GuestCount, body.BookingID, body.CustomerEmail)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if slot == nil {
		utils.RespondWithJSON(w, http.StatusConflict, utils.M{"ok": false, "check": check})
		return
	}

	a.emit(r, models.AvailabilityEvent{
		TourID: slot.TourID, Date: slot.Date, Action: "reserved",
		SlotID: slot.ID, Guests: slot.GuestCount,
	})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "slot": slot, "check": check})
}

// POST /api/availability/slots/:slotId/confirm
func (a *API) Confirm(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	slotID := ps.ByName("slotId")
	if !a.Svc.ConfirmSlot(slotID) {
		utils.RespondWithJSON(w, http.StatusConflict, utils.M{"ok": false, "reason": "unknown or already confirmed"})
		return
	}

	slot := a.Svc.GetSlot(slotID)
	if slot != nil {
		a.emit(r, models.AvailabilityEvent{
			TourID: slot.TourID, Date: slot.Date, Action: "confirmed", SlotID: slot.ID,
		})
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "slot": slot})
}

// DELETE /api/availability/slots/:slotId
func (a *API) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	slotID := ps.ByName("slotId")
	slot := a.Svc.GetSlot(slotID)
	if !a.Svc.CancelSlot(slotID) {
		utils.RespondWithError(w, http.StatusNotFound, "slot not found")
		return
	}

	if slot != nil {
		a.emit(r, models.AvailabilityEvent{
			TourID: slot.TourID, Date: slot.Date, Action: "cancelled", SlotID: slotID,
		})
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}

// POST /api/availability/sweep
func (a *API) Sweep(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	count := a.Svc.ReleaseExpiredSlots()
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "released": count})
}

// ---------- Admin ----------

// POST /api/admin/tours
func (a *API) InitTour(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		TourID   string      `json:"tourId"`
		TourType string      `json:"tourType"`
		Config   *TourConfig `json:"config,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if body.TourID == "" || body.TourType == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "missing fields")
		return
	}

	a.Svc.InitializeTour(body.TourID, body.TourType, body.Config)
	a.emit(r, models.AvailabilityEvent{TourID: body.TourID, Action: "admin"})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "tour": a.Svc.GetTour(body.TourID)})
}

// PUT /api/admin/tours/:tourId/capacity
func (a *API) SetDefaultCapacity(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body struct {
		Capacity int `json:"capacity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	tourID := ps.ByName("tourId")
	a.Svc.SetDefaultCapacity(tourID, body.Capacity)
	a.emit(r, models.AvailabilityEvent{TourID: tourID, Action: "admin"})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}

// PUT /api/admin/tours/:tourId/dates/:date/capacity
func (a *API) SetDateCapacity(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body struct {
		Capacity int `json:"capacity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	tourID, date := ps.ByName("tourId"), ps.ByName("date")
	a.Svc.SetDateCapacity(tourID, date, body.Capacity)
	a.emit(r, models.AvailabilityEvent{TourID: tourID, Date: date, Action: "admin"})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}

// POST /api/admin/tours/:tourId/dates/:date/block
func (a *API) Block(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body struct {
		Reason string `json:"reason,omitempty"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
			return
		}
	}

	tourID, date := ps.ByName("tourId"), ps.ByName("date")
	a.Svc.BlockDate(tourID, date, body.Reason)
	a.emit(r, models.AvailabilityEvent{TourID: tourID, Date: date, Action: "admin"})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}

// POST /api/admin/tours/:tourId/dates/:date/unblock
func (a *API) Unblock(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	tourID, date := ps.ByName("tourId"), ps.ByName("date")
	a.Svc.UnblockDate(tourID, date)
	a.emit(r, models.AvailabilityEvent{TourID: tourID, Date: date, Action: "admin"})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}

// PUT /api/admin/tours/:tourId/dates/:date/notes
func (a *API) SetNotes(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body struct {
		Notes string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	a.Svc.SetDateNotes(ps.ByName("tourId"), ps.ByName("date"), body.Notes)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}

// GET /api/admin/tours/:tourId
func (a *API) GetTour(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	tour := a.Svc.GetTour(ps.ByName("tourId"))
	if tour == nil {
		utils.RespondWithError(w, http.StatusNotFound, "tour not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"tour": tour})
}
