package time

import (
	"testing"
	"time"
)

func TestUnixRoundTrip(t *testing.T) {
	if !FromUnix(0).IsZero() || !FromUnix(-5).IsZero() {
		t.Fatal("non-positive seconds should be the zero time")
	}
	got := FromUnix(1700000000)
	if got.Location() != time.UTC || Unix(got) != 1700000000 {
		t.Fatalf("got %v", got)
	}
	if Unix(time.Time{}) != 0 {
		t.Fatal("zero time should be 0")
	}
}

func TestPtr(t *testing.T) {
	if Ptr(time.Time{}) != nil {
		t.Fatal("zero time should be nil")
	}
	now := time.Now()
	if p := Ptr(now); p == nil || !p.Equal(now) {
		t.Fatal("Ptr lost the value")
	}
}
