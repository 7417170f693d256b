package telemetry

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestRetryScheduleDoublesAndCaps(t *testing.T) {
	var s retrySchedule
	want := []time.Duration{
		time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
		30 * time.Second,
		30 * time.Second,
	}
	for i, w := range want {
		if got := s.delay(false); got != w {
			t.Fatalf("attempt %d: delay = %v, want %v", i, got, w)
		}
	}
}

func TestRetryScheduleResetsAfterConnection(t *testing.T) {
	var s retrySchedule
	for i := 0; i < 6; i++ {
		s.delay(false)
	}
	if got := s.delay(false); got != maxBackoff {
		t.Fatalf("delay before reconnect = %v, want %v", got, maxBackoff)
	}

	// A feed that connected and then dropped retries promptly, not at the
	// accumulated ceiling.
	if got := s.delay(true); got != time.Second {
		t.Errorf("delay after successful connection = %v, want %v", got, time.Second)
	}
	if got := s.delay(false); got != 2*time.Second {
		t.Errorf("delay after next failure = %v, want %v", got, 2*time.Second)
	}
}

func TestPublishWithoutConnection(t *testing.T) {
	c := NewClient("ws://localhost:0", 4, zerolog.Nop())
	if err := c.Publish(Command{Action: "set_doors", Value: true}); err != ErrNotConnected {
		t.Errorf("err = %v, want %v", err, ErrNotConnected)
	}
}
