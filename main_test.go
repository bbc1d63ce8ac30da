package main

import (
	"errors"
	"fmt"
	"net/http"
	"syscall"
	"testing"
)

func TestExitError(t *testing.T) {
	stop := fmt.Errorf("%w: %s", errInterrupted, syscall.SIGTERM)
	if err := exitError(stop); err != nil {
		t.Fatalf("signal: got %v", err)
	}
	if err := exitError(http.ErrServerClosed); err != nil {
		t.Fatalf("server closed: got %v", err)
	}

	bind := errors.New("listen tcp :8080: bind: address already in use")
	err := exitError(bind)
	if !errors.Is(err, bind) {
		t.Fatalf("listen failure: got %v", err)
	}
}
