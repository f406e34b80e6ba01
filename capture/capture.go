package capture

import (
	"context"
	"errors"
	"strings"
)

// ErrUnavailable is returned by a Recognizer when the environment offers no
// speech-capture capability. The session surfaces it to the user as a
// notice instead of probing capabilities at runtime.
var ErrUnavailable = errors.New("speech capture is not available")

// Fragment is one recognized piece of speech. Interim fragments are a
// disposable live preview; Final fragments are permanent commits.
type Fragment struct {
	Text  string
	Final bool
}

// Recognizer is the inbound speech-capture collaborator. Start begins a
// capture sub-session emitting fragments until Stop is called or the
// context is cancelled; the returned channel is closed when capture ends.
type Recognizer interface {
	Start(ctx context.Context, lang string) (<-chan Fragment, error)
	Stop()
}

// Transcript folds a fragment stream into staged input text. Committed text
// accumulates finalized segments; the preview holds the latest interim
// fragment and is replaced, not appended, on every interim event.
type Transcript struct {
	committed string
	preview   string
}

// Apply folds one fragment into the transcript.
func (t *Transcript) Apply(f Fragment) {
	if f.Final {
		t.committed = join(t.committed, f.Text)
		t.preview = ""
		return
	}
	t.preview = f.Text
}

// Text returns the staged input: committed text followed by the live
// preview.
func (t *Transcript) Text() string {
	return join(t.committed, t.preview)
}

// Committed returns only the permanently committed text.
func (t *Transcript) Committed() string {
	return t.committed
}

// Reset clears both the committed text and the preview.
func (t *Transcript) Reset() {
	t.committed = ""
	t.preview = ""
}

func join(base, extra string) string {
	if extra == "" {
		return base
	}
	if base == "" {
		return extra
	}
	if strings.HasSuffix(base, " ") {
		return base + extra
	}
	return base + " " + extra
}
