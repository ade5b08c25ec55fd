package domain

import "testing"

func TestAdvanceAmountRoundsHalfUp(t *testing.T) {
	cases := []struct {
		total int64
		want  int64
	}{
		{10000, 500},
		{250000, 12500},
		{999, 50}, // 49.95 rounds up
		{990, 50}, // 49.5 rounds up
		{989, 49}, // 49.45 rounds down
		{10, 1},   // 0.5 rounds up
		{9, 0},    // 0.45 rounds down
		{0, 0},
	}

	for _, tc := range cases {
		if got := AdvanceAmount(tc.total); got != tc.want {
			t.Errorf("AdvanceAmount(%d) = %d, want %d", tc.total, got, tc.want)
		}
	}
}

func TestBookingTerminal(t *testing.T) {
	live := []BookingStatus{BookingPending, BookingApproved, BookingPendingVerification, BookingPaymentFailed}
	for _, st := range live {
		b := Booking{Status: st}
		if b.Terminal() {
			t.Errorf("status %s should not be terminal", st)
		}
	}

	done := []BookingStatus{BookingRejected, BookingAdvancePaid, BookingCancelled, BookingCompleted}
	for _, st := range done {
		b := Booking{Status: st}
		if !b.Terminal() {
			t.Errorf("status %s should be terminal", st)
		}
	}
}
