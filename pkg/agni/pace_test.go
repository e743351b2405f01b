package agni

import (
	"context"
	"testing"
	"time"
)

func TestPacer_FirstCallNeverWaits(t *testing.T) {
	p := newPacer(time.Second)

	start := time.Now()
	if err := p.Wait(context.Background()); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("first Wait blocked for %v", elapsed)
	}
}

func TestPacer_EnforcesFlatDelay(t *testing.T) {
	const delay = 50 * time.Millisecond
	p := newPacer(delay)
	ctx := context.Background()

	if err := p.Wait(ctx); err != nil {
		t.Fatal(err)
	}
	start := time.Now()
	if err := p.Wait(ctx); err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed < delay-5*time.Millisecond {
		t.Errorf("second Wait returned after %v, want >= %v", elapsed, delay)
	}
}

func TestPacer_ZeroDelayDisabled(t *testing.T) {
	p := newPacer(0)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 10; i++ {
		if err := p.Wait(ctx); err != nil {
			t.Fatal(err)
		}
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("disabled pacer blocked for %v", elapsed)
	}
}

func TestPacer_ContextCancelled(t *testing.T) {
	p := newPacer(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())

	if err := p.Wait(ctx); err != nil {
		t.Fatal(err)
	}
	cancel()
	if err := p.Wait(ctx); err == nil {
		t.Error("expected context error from cancelled Wait")
	}
}
