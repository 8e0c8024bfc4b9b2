package voucher

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"voyago/availability"
	"voyago/middleware"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

var hmacSecret = func() string {
	if s := os.Getenv("VOUCHER_SECRET"); s != "" {
		return s
	}
	return "voucher-dev-secret"
}()

// signPayload returns tourId|slotId|bookingId|timestamp|signature for QR
// verification at the tour desk.
func signPayload(tourID, slotID, bookingID string) string {
	data := fmt.Sprintf("%s|%s|%s|%d", tourID, slotID, bookingID, time.Now().Unix())
	h := hmac.New(sha256.New, []byte(hmacSecret))
	h.Write([]byte(data))
	return fmt.Sprintf("%s|%s", data, base64.StdEncoding.EncodeToString(h.Sum(nil)))
}

// PrintVoucher renders a PDF confirmation voucher for a confirmed hold.
// GET /api/vouchers/:slotId
func PrintVoucher(svc *availability.Service) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		claims, err := middleware.ValidateJWT(r.Header.Get("Authorization"))
		if err != nil {
			log.Printf("JWT validation error: %v", err)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		slot := svc.GetSlot(ps.ByName("slotId"))
		if slot == nil {
			http.Error(w, "Slot not found", http.StatusNotFound)
			return
		}
		if slot.Status != availability.SlotConfirmed {
			http.Error(w, "Slot is not confirmed", http.StatusConflict)
			return
		}

		qrPNG, err := qrcode.Encode(signPayload(slot.TourID, slot.ID, slot.BookingID), qrcode.Medium, 256)
		if err != nil {
			http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
			return
		}

		pdf := gofpdf.New("P", "mm", "A4", "")
		pdf.AddPage()
		pdf.SetFont("Arial", "B", 16)
		pdf.Cell(40, 10, "Booking Voucher")
		pdf.Ln(12)

		pdf.SetFont("Arial", "", 12)
		pdf.Cell(0, 10, fmt.Sprintf("Tour: %s", slot.TourID))
		pdf.Ln(8)
		pdf.Cell(0, 10, fmt.Sprintf("Date: %s", slot.Date))
		pdf.Ln(8)
		pdf.Cell(0, 10, fmt.Sprintf("Guests: %d", slot.GuestCount))
		pdf.Ln(8)
		pdf.Cell(0, 10, fmt.Sprintf("Booking Ref: %s", slot.BookingID))
		pdf.Ln(8)
		pdf.Cell(0, 10, fmt.Sprintf("Issued to: %s", claims.Username))
		pdf.Ln(12)

		imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
		pdf.ImageOptions("qr", 150, 40, 40, 40, false, imageOpts, 0, "")

		var buf bytes.Buffer
		if err := pdf.Output(&buf); err != nil {
			http.Error(w, "Failed to generate PDF", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", "attachment; filename=voucher-"+slot.BookingID+".pdf")
		w.WriteHeader(http.StatusOK)
		w.Write(buf.Bytes())
	}
}
