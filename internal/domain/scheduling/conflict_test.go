package scheduling

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name           string
		aS, aE, bS, bE TimeOfDay
		want           bool
	}{
		{"identical", 480, 510, 480, 510, true},
		{"partial", 480, 540, 510, 570, true},
		{"contained", 480, 600, 510, 540, true},
		{"touching end to start", 480, 510, 510, 540, false},
		{"touching start to end", 510, 540, 480, 510, false},
		{"disjoint", 480, 510, 600, 630, false},
	}
	for _, tt := range tests {
		if got := Overlaps(tt.aS, tt.aE, tt.bS, tt.bE); got != tt.want {
			t.Errorf("%s: Overlaps = %v, want %v", tt.name, got, tt.want)
		}
		// Overlap is symmetric.
		if got := Overlaps(tt.bS, tt.bE, tt.aS, tt.aE); got != tt.want {
			t.Errorf("%s (swapped): Overlaps = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestAnnotate_MarksOverlappedSlots(t *testing.T) {
	slots := []CandidateSlot{
		{Start: 480, End: 510},
		{Start: 510, End: 540},
		{Start: 540, End: 570},
	}
	b := &Booking{ID: uuid.New(), Start: 500, End: 530, Status: StatusScheduled}

	got := Annotate(slots, []*Booking{b})
	if !got[0].Occupied || !got[1].Occupied {
		t.Error("expected the two overlapped slots occupied")
	}
	if got[2].Occupied {
		t.Error("expected the 09:00 slot free")
	}
	if got[0].BookingID == nil || *got[0].BookingID != b.ID {
		t.Error("expected the booking ID on the first overlapped slot")
	}
	if got[1].BookingID != nil {
		t.Error("expected no booking ID on subsequent overlapped slots")
	}
}

func TestAnnotate_ReleasedStatusesIgnored(t *testing.T) {
	slots := []CandidateSlot{{Start: 480, End: 510}}
	bookings := []*Booking{
		{ID: uuid.New(), Start: 480, End: 510, Status: StatusCancelled},
		{ID: uuid.New(), Start: 480, End: 510, Status: StatusNoShow},
	}
	got := Annotate(slots, bookings)
	if got[0].Occupied {
		t.Error("expected slot free when only released bookings overlap it")
	}
}

func TestAnnotate_FirstBookingKeepsThePointer(t *testing.T) {
	slots := []CandidateSlot{{Start: 480, End: 540}}
	first := &Booking{ID: uuid.New(), Start: 480, End: 500, Status: StatusConfirmed}
	second := &Booking{ID: uuid.New(), Start: 500, End: 540, Status: StatusConfirmed}

	got := Annotate(slots, []*Booking{first, second})
	if got[0].BookingID == nil || *got[0].BookingID != first.ID {
		t.Error("expected the slot to keep the first booking's ID")
	}
}

func TestAnnotate_TouchingBookingLeavesSlotFree(t *testing.T) {
	slots := []CandidateSlot{{Start: 480, End: 510}}
	b := &Booking{ID: uuid.New(), Start: 510, End: 540, Status: StatusScheduled}
	if got := Annotate(slots, []*Booking{b}); got[0].Occupied {
		t.Error("a booking starting exactly at slot end must not occupy it")
	}
}

func TestValidateBooking(t *testing.T) {
	ranges := []TimeRange{
		{Start: 480, End: 720, SlotMinutes: 30},
		{Start: 840, End: 1080, SlotMinutes: 30},
	}
	existing := []*Booking{
		{ID: uuid.New(), Start: 540, End: 570, Status: StatusScheduled},
		{ID: uuid.New(), Start: 600, End: 630, Status: StatusCancelled},
	}

	tests := []struct {
		name       string
		start, end TimeOfDay
		wantErr    error
	}{
		{"fits free slot", 480, 510, nil},
		{"misaligned but inside", 495, 525, nil},
		{"fills lunch-adjacent range", 840, 900, nil},
		{"over cancelled booking", 600, 630, nil},
		{"inverted interval", 510, 480, ErrInvalidBooking},
		{"empty interval", 480, 480, ErrInvalidBooking},
		{"before opening", 420, 480, ErrOutsideSchedule},
		{"spans the lunch gap", 700, 860, ErrOutsideSchedule},
		{"collides", 540, 570, ErrSlotConflict},
		{"partial collision", 550, 580, ErrSlotConflict},
	}
	for _, tt := range tests {
		err := ValidateBooking(tt.start, tt.end, ranges, existing)
		if tt.wantErr == nil {
			if err != nil {
				t.Errorf("%s: unexpected error: %v", tt.name, err)
			}
			continue
		}
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.wantErr, err)
		}
	}
}

func TestValidateBooking_ContainmentBeforeConflict(t *testing.T) {
	// An interval that is both outside the schedule and over a booking
	// reports the schedule problem, not the conflict.
	ranges := []TimeRange{{Start: 480, End: 540, SlotMinutes: 30}}
	existing := []*Booking{{ID: uuid.New(), Start: 510, End: 600, Status: StatusScheduled}}
	err := ValidateBooking(510, 600, ranges, existing)
	if !errors.Is(err, ErrOutsideSchedule) {
		t.Errorf("expected ErrOutsideSchedule, got %v", err)
	}
}
