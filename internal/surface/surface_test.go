package surface

import (
	"math"
	"testing"
	"time"
)

func TestEasingEndpoints(t *testing.T) {
	curves := map[string]Easing{
		"linear":    Linear,
		"outBack":   OutBack,
		"inOutQuad": InOutQuad,
	}
	for name, ease := range curves {
		if got := ease(0); math.Abs(got) > 1e-12 {
			t.Fatalf("%s(0) = %v, want 0", name, got)
		}
		if got := ease(1); math.Abs(got-1) > 1e-12 {
			t.Fatalf("%s(1) = %v, want 1", name, got)
		}
		if got := ease(2); math.Abs(got-1) > 1e-12 {
			t.Fatalf("%s(2) = %v, want clamped 1", name, got)
		}
	}
}

func TestOutBackOvershoots(t *testing.T) {
	peak := 0.0
	for i := 0; i <= 100; i++ {
		peak = math.Max(peak, OutBack(float64(i)/100))
	}
	if peak <= 1 {
		t.Fatalf("OutBack peak = %v, want > 1", peak)
	}
}

func TestInOutQuadMidpoint(t *testing.T) {
	if got := InOutQuad(0.5); math.Abs(got-0.5) > 1e-12 {
		t.Fatalf("InOutQuad(0.5) = %v, want 0.5", got)
	}
}

func TestJoinWaitsForAll(t *testing.T) {
	a := make(chan struct{})
	b := make(chan struct{})
	joined := Join(a, nil, b)

	close(a)
	select {
	case <-joined:
		t.Fatalf("Join closed before all inputs completed")
	case <-time.After(20 * time.Millisecond):
	}

	close(b)
	select {
	case <-joined:
	case <-time.After(time.Second):
		t.Fatalf("Join did not close after all inputs completed")
	}
}

func TestCompletedIsClosed(t *testing.T) {
	select {
	case <-Completed():
	default:
		t.Fatalf("Completed() is not closed")
	}
}
