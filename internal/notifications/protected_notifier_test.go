package notifications

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubNotifier struct {
	err   error
	calls int
}

func (s *stubNotifier) SendAppointmentConfirmation(context.Context, SendAppointmentNoticeInput) error {
	s.calls++
	return s.err
}

func (s *stubNotifier) SendAppointmentReminder(context.Context, SendAppointmentNoticeInput) error {
	s.calls++
	return s.err
}

func TestCircuitOpensAfterConsecutiveFailures(t *testing.T) {
	inner := &stubNotifier{err: errors.New("provider down")}

	n := NewProtectedNotifier(inner, ProtectedNotifierConfig{
		FailureThreshold: 3,
		Cooldown:         time.Minute,
	})

	in := SendAppointmentNoticeInput{AppointmentID: "a-1", Email: "ada@example.com"}

	for i := 0; i < 3; i++ {
		if err := n.SendAppointmentConfirmation(context.Background(), in); err == nil {
			t.Fatalf("call %d: expected provider error", i)
		}
	}

	// circuit is open now, the inner notifier must not be touched
	before := inner.calls

	if err := n.SendAppointmentConfirmation(context.Background(), in); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("err = %v, want ErrCircuitOpen", err)
	}

	if inner.calls != before {
		t.Fatal("open circuit still reached the inner notifier")
	}
}

func TestCircuitRecoversAfterCooldown(t *testing.T) {
	inner := &stubNotifier{err: errors.New("provider down")}

	n := NewProtectedNotifier(inner, ProtectedNotifierConfig{
		FailureThreshold: 2,
		Cooldown:         10 * time.Millisecond,
	})

	in := SendAppointmentNoticeInput{AppointmentID: "a-1", Email: "ada@example.com"}

	for i := 0; i < 2; i++ {
		_ = n.SendAppointmentReminder(context.Background(), in)
	}

	if err := n.SendAppointmentReminder(context.Background(), in); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("err = %v, want ErrCircuitOpen", err)
	}

	// provider comes back while the circuit cools down
	inner.err = nil
	time.Sleep(20 * time.Millisecond)

	if err := n.SendAppointmentReminder(context.Background(), in); err != nil {
		t.Fatalf("half-open trial call failed: %v", err)
	}

	// trial succeeded, circuit is closed again
	if err := n.SendAppointmentReminder(context.Background(), in); err != nil {
		t.Fatalf("closed circuit call failed: %v", err)
	}
}

func TestHalfOpenFailureReopens(t *testing.T) {
	inner := &stubNotifier{err: errors.New("provider down")}

	n := NewProtectedNotifier(inner, ProtectedNotifierConfig{
		FailureThreshold: 1,
		Cooldown:         10 * time.Millisecond,
	})

	in := SendAppointmentNoticeInput{AppointmentID: "a-1", Email: "ada@example.com"}

	_ = n.SendAppointmentConfirmation(context.Background(), in)

	time.Sleep(20 * time.Millisecond)

	// half-open trial fails, circuit snaps shut again
	if err := n.SendAppointmentConfirmation(context.Background(), in); err == nil {
		t.Fatal("expected the trial call to fail")
	}

	if err := n.SendAppointmentConfirmation(context.Background(), in); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("err = %v, want ErrCircuitOpen after failed trial", err)
	}
}

func TestSuccessResetsFailureCount(t *testing.T) {
	inner := &stubNotifier{err: errors.New("provider down")}

	n := NewProtectedNotifier(inner, ProtectedNotifierConfig{
		FailureThreshold: 3,
		Cooldown:         time.Minute,
	})

	in := SendAppointmentNoticeInput{AppointmentID: "a-1", Email: "ada@example.com"}

	_ = n.SendAppointmentConfirmation(context.Background(), in)
	_ = n.SendAppointmentConfirmation(context.Background(), in)

	inner.err = nil
	if err := n.SendAppointmentConfirmation(context.Background(), in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// two more failures stay under the threshold because of the reset
	inner.err = errors.New("provider down")
	_ = n.SendAppointmentConfirmation(context.Background(), in)
	_ = n.SendAppointmentConfirmation(context.Background(), in)

	inner.err = nil
	if err := n.SendAppointmentConfirmation(context.Background(), in); errors.Is(err, ErrCircuitOpen) {
		t.Fatal("circuit opened despite an intervening success")
	}
}
