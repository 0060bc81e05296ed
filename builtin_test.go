package pykachu

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/GrayHat12/pykachu/ir"
)

func TestBytesStrategy(t *testing.T) {
	got, err := ParseAs[[]byte](ir.String("deadbeef"), true)
	if err != nil {
		t.Fatalf("ParseAs[[]byte]: %v", err)
	}
	if diff := cmp.Diff(got, []byte{0xde, 0xad, 0xbe, 0xef}); diff != "" {
		t.Errorf("wrong parsed value (-got+want):\n%s", diff)
	}

	// Instances pass through.
	got, err = ParseAs[[]byte]([]byte{1, 2}, true)
	if err != nil {
		t.Fatalf("ParseAs[[]byte]: %v", err)
	}
	if diff := cmp.Diff(got, []byte{1, 2}); diff != "" {
		t.Errorf("wrong parsed value (-got+want):\n%s", diff)
	}

	if _, err := ParseAs[[]byte](ir.String("not hex"), true); err == nil {
		t.Error("strict parse accepted non-hex text as []byte")
	}
}

func TestTimeStrategy(t *testing.T) {
	in := ir.String("2024-05-17T08:30:00.5Z")
	got, err := ParseAs[time.Time](in, true)
	if err != nil {
		t.Fatalf("ParseAs[time.Time](%v): %v", in, err)
	}
	want := time.Date(2024, 5, 17, 8, 30, 0, 500000000, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ParseAs[time.Time](%v) = %v, want %v", in, got, want)
	}

	// Zone offsets are part of the text form.
	offset, err := ParseAs[time.Time](ir.String("2024-05-17T10:30:00.5+02:00"), true)
	if err != nil {
		t.Fatalf("ParseAs[time.Time]: %v", err)
	}
	if !offset.Equal(want) {
		t.Errorf("offset instant = %v, want same instant as %v", offset, want)
	}

	if _, err := ParseAs[time.Time](ir.String("yesterday"), true); err == nil {
		t.Error("strict parse accepted malformed text as time.Time")
	}
	if _, err := ParseAs[time.Time](ir.Int(1715934600), true); err == nil {
		t.Error("strict parse accepted an int as time.Time")
	}
}

func TestDurationStrategy(t *testing.T) {
	got, err := ParseAs[time.Duration](ir.String("1h30m"), true)
	if err != nil {
		t.Fatalf("ParseAs[time.Duration]: %v", err)
	}
	if want := 90 * time.Minute; got != want {
		t.Errorf("ParseAs[time.Duration] = %v, want %v", got, want)
	}

	// Integer nanoseconds are accepted too.
	got, err = ParseAs[time.Duration](ir.Int(1500000000), true)
	if err != nil {
		t.Fatalf("ParseAs[time.Duration]: %v", err)
	}
	if want := 1500 * time.Millisecond; got != want {
		t.Errorf("ParseAs[time.Duration] = %v, want %v", got, want)
	}

	if _, err := ParseAs[time.Duration](ir.String("ages"), true); err == nil {
		t.Error("strict parse accepted malformed text as time.Duration")
	}
}

func TestUUIDStrategy(t *testing.T) {
	want := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

	got, err := ParseAs[uuid.UUID](ir.String(want.String()), true)
	if err != nil {
		t.Fatalf("ParseAs[uuid.UUID]: %v", err)
	}
	if got != want {
		t.Errorf("ParseAs[uuid.UUID] = %v, want %v", got, want)
	}

	// 16 raw bytes are accepted too.
	got, err = ParseAs[uuid.UUID](want[:], true)
	if err != nil {
		t.Fatalf("ParseAs[uuid.UUID]: %v", err)
	}
	if got != want {
		t.Errorf("ParseAs[uuid.UUID] = %v, want %v", got, want)
	}

	if _, err := ParseAs[uuid.UUID](ir.String("not-a-uuid"), true); err == nil {
		t.Error("strict parse accepted malformed text as uuid.UUID")
	}
}
