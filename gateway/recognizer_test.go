package gateway

import (
	"context"
	"errors"
	"testing"

	"linguakit/capture"
)

func TestRecognizerRequiresCapability(t *testing.T) {
	r := newBrowserRecognizer()
	if _, err := r.Start(context.Background(), "es"); !errors.Is(err, capture.ErrUnavailable) {
		t.Errorf("expected ErrUnavailable before hello, got %v", err)
	}
}

func TestRecognizerDoubleStartIsNotUnavailable(t *testing.T) {
	r := newBrowserRecognizer()
	r.setSupported(true)

	if _, err := r.Start(context.Background(), "es"); err != nil {
		t.Fatalf("first start failed: %v", err)
	}
	_, err := r.Start(context.Background(), "es")
	if err == nil {
		t.Fatal("expected second start to be refused")
	}
	if errors.Is(err, capture.ErrUnavailable) {
		t.Error("a double start must not report the capability as missing")
	}

	// After stopping, the recognizer may start again.
	r.Stop()
	if _, err := r.Start(context.Background(), "es"); err != nil {
		t.Errorf("restart after stop failed: %v", err)
	}
}

func TestRecognizerDropsFragmentsWhileInactive(t *testing.T) {
	r := newBrowserRecognizer()
	r.setSupported(true)

	r.deliver(capture.Fragment{Text: "dropped"}) // before start: no panic, no buffer

	frags, err := r.Start(context.Background(), "es")
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	r.deliver(capture.Fragment{Text: "kept", Final: true})
	r.Stop()

	var got []capture.Fragment
	for f := range frags {
		got = append(got, f)
	}
	if len(got) != 1 || got[0].Text != "kept" {
		t.Errorf("expected only the in-session fragment, got %+v", got)
	}
}
