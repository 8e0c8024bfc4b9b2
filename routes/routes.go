package routes

import (
	"voyago/availability"
	"voyago/middleware"
	"voyago/ratelim"
	"voyago/voucher"

	"github.com/julienschmidt/httprouter"
)

func AddAvailabilityRoutes(router *httprouter.Router, api *availability.API, rl *ratelim.RateLimiter) {
	router.GET("/api/availability/:tourId/date/:date", api.GetDate)
	router.GET("/api/availability/:tourId/month/:year/:month", api.GetMonthly)
	router.GET("/api/availability/:tourId/check", api.Check)
	router.GET("/api/availability/:tourId/status/:date", api.GetStatus)

	router.POST("/api/reserve", rl.Limit(middleware.Authenticate(api.Reserve)))
	router.POST("/api/slots/:slotId/confirm", rl.Limit(middleware.Authenticate(api.Confirm)))
	router.DELETE("/api/slots/:slotId", rl.Limit(middleware.Authenticate(api.Cancel)))
	router.POST("/api/sweep", middleware.Authenticate(api.Sweep))

	router.GET("/ws/availability/:tourId", availability.HandleWS)
}

func AddAdminRoutes(router *httprouter.Router, api *availability.API, rl *ratelim.RateLimiter) {
	router.GET("/api/admin/tours/:tourId", middleware.Authenticate(api.GetTour))
	router.POST("/api/admin/tours", rl.Limit(middleware.Authenticate(api.InitTour)))
	router.PUT("/api/admin/tours/:tourId/capacity", rl.Limit(middleware.Authenticate(api.SetDefaultCapacity)))
	router.PUT("/api/admin/tours/:tourId/dates/:date/capacity", rl.Limit(middleware.Authenticate(api.SetDateCapacity)))
	router.POST("/api/admin/tours/:tourId/dates/:date/block", rl.Limit(middleware.Authenticate(api.Block)))
	router.POST("/api/admin/tours/:tourId/dates/:date/unblock", rl.Limit(middleware.Authenticate(api.Unblock)))
	router.PUT("/api/admin/tours/:tourId/dates/:date/notes", rl.Limit(middleware.Authenticate(api.SetNotes)))
}

func AddVoucherRoutes(router *httprouter.Router, api *availability.API) {
	router.GET("/api/vouchers/:slotId", voucher.PrintVoucher(api.Svc))
}
