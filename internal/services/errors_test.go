package services_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"bookvoice/internal/runlog"
	"bookvoice/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "synthesize", "speech", "request failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"synthesize", "speech", "request failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarkerAndDetail(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected fallback detail, got %q", err)
	}
}

func TestFailureStatusMapping(t *testing.T) {
	cancelled := fmt.Errorf("synthesize: %w", context.Canceled)
	if status := services.FailureStatus(cancelled); status != runlog.StatusCancelled {
		t.Fatalf("expected cancelled, got %s", status)
	}
	ioErr := services.Wrap(services.ErrValidation, "parse", "read", "unreadable", errors.New("io"))
	if status := services.FailureStatus(ioErr); status != runlog.StatusFailed {
		t.Fatalf("expected failed, got %s", status)
	}
	if status := services.FailureStatus(nil); status != runlog.StatusFailed {
		t.Fatalf("expected failed for nil error, got %s", status)
	}
}
