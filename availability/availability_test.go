package availability

import (
	"strings"
	"testing"
	"time"
)

func intp(v int) *int { return &v }

func futureDate(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format(dateLayout)
}

func TestDeriveStatusThresholds(t *testing.T) {
	cases := []struct {
		booked, capacity int
		want             string
	}{
		{0, 0, StatusBlocked},
		{5, 0, StatusBlocked},
		{0, -1, StatusAvailable},
		{1000, -1, StatusAvailable},
		{10, 10, StatusFull},
		{12, 10, StatusFull},
		{8, 10, StatusLimited}, // 80% inclusive
		{7, 10, StatusAvailable},
		{4, 5, StatusLimited},
		{3, 5, StatusAvailable},
		{0, 1, StatusAvailable},
		{1, 1, StatusFull},
	}
	for _, c := range cases {
		if got := DeriveStatus(c.booked, c.capacity); got != c.want {
			t.Errorf("DeriveStatus(%d, %d) = %q, want %q", c.booked, c.capacity, got, c.want)
		}
	}
}

func TestDeriveStatusTotality(t *testing.T) {
	valid := map[string]bool{
		StatusAvailable: true, StatusLimited: true, StatusFull: true, StatusBlocked: true,
	}
	for capacity := -1; capacity <= 1000; capacity++ {
		for booked := 0; booked <= capacity+5; booked++ {
			if got := DeriveStatus(booked, capacity); !valid[got] {
				t.Fatalf("DeriveStatus(%d, %d) = %q, not a valid status", booked, capacity, got)
			}
		}
	}
}

func TestGetDateAvailabilitySynthesizesDefaults(t *testing.T) {
	svc := NewService()
	svc.InitializeTour("t1", "day-tour", &TourConfig{DefaultCapacity: intp(10)})

	d := svc.GetDateAvailability("t1", futureDate(5))
	if d == nil {
		t.Fatal("expected synthesized date, got nil")
	}
	if d.Capacity != 10 || d.Booked != 0 || d.Status != StatusAvailable {
		t.Fatalf("unexpected synthesized date: %+v", d)
	}

	// no override must have been materialized by the read
	if tour := svc.GetTour("t1"); len(tour.Dates) != 0 {
		t.Fatalf("read materialized %d date overrides", len(tour.Dates))
	}

	if svc.GetDateAvailability("nope", futureDate(5)) != nil {
		t.Fatal("unknown tour should resolve to nil")
	}
}

func TestGetMonthlyAvailability(t *testing.T) {
	svc := NewService()
	svc.InitializeTour("t1", "day-tour", &TourConfig{DefaultCapacity: intp(10)})
	svc.SetDateCapacity("t1", "2026-02-14", 3)

	days := svc.GetMonthlyAvailability("t1", 2026, time.February)
	if len(days) != 28 {
		t.Fatalf("expected 28 days, got %d", len(days))
	}
	if days[13].Capacity != 3 {
		t.Fatalf("override not reflected: %+v", days[13])
	}
	if days[0].Capacity != 10 {
		t.Fatalf("default not inherited: %+v", days[0])
	}

	// unconfigured tour falls back to the system default, permissively
	fallback := svc.GetMonthlyAvailability("unknown", 2028, time.February)
	if len(fallback) != 29 {
		t.Fatalf("expected 29 days in leap February, got %d", len(fallback))
	}
	if fallback[0].Capacity != DefaultDateCapacity || fallback[0].Status != StatusAvailable {
		t.Fatalf("unexpected fallback day: %+v", fallback[0])
	}
}

func TestCheckAvailabilityUnknownTourFailsOpen(t *testing.T) {
	svc := NewService()
	res, err := svc.CheckAvailability("ghost", futureDate(3), 4)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Available || res.RemainingSlots != nil {
		t.Fatalf("unknown tour must fail open: %+v", res)
	}
}

func TestCheckAvailabilityWindowBoundary(t *testing.T) {
	svc := NewService()
	svc.InitializeTour("t1", "day-tour", &TourConfig{
		DefaultCapacity: intp(10),
		MinAdvanceDays:  intp(2),
		MaxAdvanceDays:  intp(30),
	})

	accepted := []int{2, 30}
	for _, days := range accepted {
		res, err := svc.CheckAvailability("t1", futureDate(days), 1)
		if err != nil {
			t.Fatal(err)
		}
		if !res.Available {
			t.Fatalf("today+%d should be inside the window: %+v", days, res)
		}
	}

	rejected := []int{1, 31}
	for _, days := range rejected {
		res, err := svc.CheckAvailability("t1", futureDate(days), 1)
		if err != nil {
			t.Fatal(err)
		}
		if res.Available || res.Reason != "outside booking window" || res.Status != StatusBlocked {
			t.Fatalf("today+%d should be outside the window: %+v", days, res)
		}
	}
}

func TestCheckAvailabilityCapacity(t *testing.T) {
	svc := NewService()
	svc.InitializeTour("t1", "day-tour", &TourConfig{DefaultCapacity: intp(10)})
	date := futureDate(7)

	res, err := svc.CheckAvailability("t1", date, 8)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Available || res.RemainingSlots == nil || *res.RemainingSlots != 10 {
		t.Fatalf("expected acceptance with 10 remaining: %+v", res)
	}

	slot, _, err := svc.ReserveSlot("t1", date, 8, "b1", "a@x.com")
	if err != nil || slot == nil {
		t.Fatalf("reserve failed: %v %v", slot, err)
	}

	res, err = svc.CheckAvailability("t1", date, 3)
	if err != nil {
		t.Fatal(err)
	}
	if res.Available {
		t.Fatalf("expected rejection: %+v", res)
	}
	if !strings.Contains(res.Reason, "2") {
		t.Fatalf("rejection reason should state remaining count, got %q", res.Reason)
	}

	if !svc.CancelSlot(slot.ID) {
		t.Fatal("cancel failed")
	}
	res, err = svc.CheckAvailability("t1", date, 8)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Available {
		t.Fatalf("expected acceptance after cancel: %+v", res)
	}
}

func TestCheckAvailabilityUnlimited(t *testing.T) {
	svc := NewService()
	svc.InitializeTour("t1", "day-tour", &TourConfig{DefaultCapacity: intp(CapacityUnlimited)})

	res, err := svc.CheckAvailability("t1", futureDate(5), 500)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Available || res.RemainingSlots != nil {
		t.Fatalf("unlimited capacity must accept with nil remaining: %+v", res)
	}
}

func TestCheckAvailabilityMisuse(t *testing.T) {
	svc := NewService()
	if _, err := svc.CheckAvailability("t1", futureDate(5), 0); err == nil {
		t.Fatal("zero guests should be rejected as misuse")
	}
	if _, err := svc.CheckAvailability("t1", "not-a-date", 1); err == nil {
		t.Fatal("malformed date should be rejected as misuse")
	}
}

func TestBlockUnblockDate(t *testing.T) {
	svc := NewService()
	svc.InitializeTour("t1", "day-tour", &TourConfig{DefaultCapacity: intp(10)})
	date := futureDate(7)

	if slot, _, _ := svc.ReserveSlot("t1", date, 4, "b1", "a@x.com"); slot == nil {
		t.Fatal("reserve failed")
	}

	svc.BlockDate("t1", date, "maintenance")

	res, err := svc.CheckAvailability("t1", date, 1)
	if err != nil {
		t.Fatal(err)
	}
	if res.Available || res.Status != StatusBlocked || res.Reason != "maintenance" {
		t.Fatalf("blocked date must reject with the block reason: %+v", res)
	}
	if res.RemainingSlots == nil || *res.RemainingSlots != 0 {
		t.Fatalf("blocked date should report zero remaining: %+v", res)
	}

	// booked survives the block and the unblock restores the current default
	svc.UnblockDate("t1", date)
	d := svc.GetDateAvailability("t1", date)
	if d.Capacity != 10 || d.Booked != 4 {
		t.Fatalf("unblock should restore default capacity and keep booked: %+v", d)
	}
}

func TestUnblockUsesCurrentDefault(t *testing.T) {
	svc := NewService()
	svc.InitializeTour("t1", "day-tour", &TourConfig{DefaultCapacity: intp(10)})
	date := futureDate(7)

	svc.SetDateCapacity("t1", date, 25)
	svc.BlockDate("t1", date, "")
	svc.SetDefaultCapacity("t1", 12)
	svc.UnblockDate("t1", date)

	// the pre-block override of 25 is not remembered
	d := svc.GetDateAvailability("t1", date)
	if d.Capacity != 12 {
		t.Fatalf("unblock should restore the current default, got %+v", d)
	}
}

func TestAdminOpsIgnoreUnknownTour(t *testing.T) {
	svc := NewService()
	svc.SetDateCapacity("ghost", futureDate(3), 5)
	svc.BlockDate("ghost", futureDate(3), "x")
	svc.UnblockDate("ghost", futureDate(3))
	svc.SetDateNotes("ghost", futureDate(3), "note")
	svc.SetDefaultCapacity("ghost", 99)

	if svc.GetTour("ghost") != nil {
		t.Fatal("admin ops must not create tours")
	}
}

func TestInitializeTourLastWriteWins(t *testing.T) {
	svc := NewService()
	svc.InitializeTour("t1", "day-tour", &TourConfig{DefaultCapacity: intp(10)})
	svc.SetDateCapacity("t1", futureDate(3), 5)

	svc.InitializeTour("t1", "vacation-package", nil)

	tour := svc.GetTour("t1")
	if tour.DefaultCapacity != DefaultCapacities["vacation-package"] {
		t.Fatalf("re-init should take type defaults: %+v", tour)
	}
	if len(tour.Dates) != 0 {
		t.Fatal("re-init must overwrite, not merge")
	}
}

func TestSetDateCapacityKeepsBookings(t *testing.T) {
	svc := NewService()
	svc.InitializeTour("t1", "day-tour", &TourConfig{DefaultCapacity: intp(10)})
	date := futureDate(7)

	if slot, _, _ := svc.ReserveSlot("t1", date, 6, "b1", "a@x.com"); slot == nil {
		t.Fatal("reserve failed")
	}

	svc.SetDateCapacity("t1", date, 6)
	d := svc.GetDateAvailability("t1", date)
	if d.Booked != 6 || d.Status != StatusFull {
		t.Fatalf("capacity change must keep booked and rederive status: %+v", d)
	}
}
