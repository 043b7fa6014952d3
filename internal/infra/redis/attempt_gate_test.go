package redis

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestAttemptGateClaimsAtomically(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	gate := NewAttemptGate(newClient(mr))

	done, err := gate.Completed(ctx, "u1")
	if err != nil {
		t.Fatalf("completed: %v", err)
	}
	if done {
		t.Fatalf("fresh user should not be completed")
	}

	won, err := gate.Claim(ctx, "u1", "tok-1")
	if err != nil || !won {
		t.Fatalf("first claim should win: %v %v", won, err)
	}
	won, err = gate.Claim(ctx, "u1", "tok-2")
	if err != nil || won {
		t.Fatalf("second claim should lose: %v %v", won, err)
	}

	if got, _ := mr.Get("attempt:u1"); got != "tok-1" {
		t.Fatalf("stored token = %q, want tok-1", got)
	}

	done, _ = gate.Completed(ctx, "u1")
	if !done {
		t.Fatalf("claimed user should be completed")
	}
}

func TestAttemptGateReleaseClearsKey(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	gate := NewAttemptGate(newClient(mr))

	if won, _ := gate.Claim(ctx, "u1", "tok"); !won {
		t.Fatalf("claim should win")
	}
	if err := gate.Release(ctx, "u1"); err != nil {
		t.Fatalf("release: %v", err)
	}
	if mr.Exists("attempt:u1") {
		t.Fatalf("expected attempt key removed")
	}
	if won, _ := gate.Claim(ctx, "u1", "tok"); !won {
		t.Fatalf("claim after release should win again")
	}
}
