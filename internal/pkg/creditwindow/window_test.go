package creditwindow

import (
	"testing"
	"time"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func TestDaysRemaining(t *testing.T) {
	tests := []struct {
		name      string
		expiresAt time.Time
		want      int
	}{
		{name: "one hour left rounds up", expiresAt: now.Add(1 * time.Hour), want: 1},
		{name: "23 hours left rounds up", expiresAt: now.Add(23 * time.Hour), want: 1},
		{name: "exactly one day", expiresAt: now.Add(24 * time.Hour), want: 1},
		{name: "just over one day", expiresAt: now.Add(24*time.Hour + time.Second), want: 2},
		{name: "full window", expiresAt: now.Add(14 * 24 * time.Hour), want: 14},
		{name: "expired clamps to zero", expiresAt: now.Add(-48 * time.Hour), want: 0},
		{name: "exact expiry is zero", expiresAt: now, want: 0},
	}

	for _, tt := range tests {
		if got := DaysRemaining(tt.expiresAt, now); got != tt.want {
			t.Fatalf("%s: DaysRemaining = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestComputeStatus(t *testing.T) {
	tests := []struct {
		name      string
		expiresAt time.Time
		credited  bool
		wantState State
		wantDays  int
	}{
		{name: "active mid window", expiresAt: now.Add(10 * 24 * time.Hour), wantState: StateActive, wantDays: 10},
		{name: "active at three days", expiresAt: now.Add(3 * 24 * time.Hour), wantState: StateActive, wantDays: 3},
		{name: "expiring at two days", expiresAt: now.Add(2 * 24 * time.Hour), wantState: StateExpiring, wantDays: 2},
		{name: "expiring at one hour", expiresAt: now.Add(time.Hour), wantState: StateExpiring, wantDays: 1},
		{name: "expired at boundary", expiresAt: now, wantState: StateExpired, wantDays: 0},
		{name: "expired past boundary", expiresAt: now.Add(-time.Minute), wantState: StateExpired, wantDays: 0},
		{name: "credited is terminal", expiresAt: now.Add(10 * 24 * time.Hour), credited: true, wantState: StateCredited, wantDays: 10},
		{name: "credited after expiry stays credited", expiresAt: now.Add(-time.Hour), credited: true, wantState: StateCredited, wantDays: 0},
	}

	for _, tt := range tests {
		got := ComputeStatus(tt.expiresAt, tt.credited, now)
		if got.State != tt.wantState || got.DaysRemaining != tt.wantDays {
			t.Fatalf("%s: ComputeStatus = %+v, want {%s %d}", tt.name, got, tt.wantState, tt.wantDays)
		}
	}
}

// A share created exactly fourteen days ago must already be expired.
func TestFourteenDayBoundaryInclusive(t *testing.T) {
	sharedAt := now.Add(-14 * 24 * time.Hour)
	expiresAt := sharedAt.Add(14 * 24 * time.Hour)

	got := ComputeStatus(expiresAt, false, now)
	if got.State != StateExpired {
		t.Fatalf("expected expired at exact 14-day boundary, got %s", got.State)
	}
}

func TestCanCredit(t *testing.T) {
	if !CanCredit(StateActive) || !CanCredit(StateExpiring) {
		t.Fatal("active and expiring windows must accept credits")
	}
	if CanCredit(StateExpired) || CanCredit(StateCredited) {
		t.Fatal("expired and credited windows must refuse credits")
	}
}
