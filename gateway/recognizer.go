package gateway

import (
	"context"
	"errors"
	"sync"

	"linguakit/capture"
)

// errCaptureActive distinguishes a double start from a missing capability so
// the session does not surface the "not supported" notice for it.
var errCaptureActive = errors.New("gateway: capture already active")

// fragmentBuffer is sized so a burst of interim results from the browser
// never blocks the connection's read loop.
const fragmentBuffer = 32

// browserRecognizer adapts the browser's speech recognition to
// capture.Recognizer. The connected client declares the capability in its
// hello message and relays recognized fragments over the same WebSocket;
// the engine itself never touches a microphone.
type browserRecognizer struct {
	mu        sync.Mutex
	supported bool
	active    bool
	frags     chan capture.Fragment
}

func newBrowserRecognizer() *browserRecognizer {
	return &browserRecognizer{}
}

// setSupported records the capability announced by the client.
func (r *browserRecognizer) setSupported(ok bool) {
	r.mu.Lock()
	r.supported = ok
	r.mu.Unlock()
}

func (r *browserRecognizer) Start(ctx context.Context, lang string) (<-chan capture.Fragment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.supported {
		return nil, capture.ErrUnavailable
	}
	if r.active {
		return nil, errCaptureActive
	}
	r.active = true
	r.frags = make(chan capture.Fragment, fragmentBuffer)
	return r.frags, nil
}

func (r *browserRecognizer) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.active {
		return
	}
	r.active = false
	close(r.frags)
	r.frags = nil
}

// deliver forwards one fragment from the connection's read loop. Fragments
// arriving while capture is inactive, or faster than the session drains
// them, are dropped.
func (r *browserRecognizer) deliver(f capture.Fragment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.active {
		return
	}
	select {
	case r.frags <- f:
	default:
	}
}
