package core

import (
	"context"
	"errors"
)

// ErrSpeechUnavailable is the explicit "no audio produced" signal from a
// speech-synthesis collaborator. Callers treat it like any other failure:
// the addressed turn simply stays silent.
var ErrSpeechUnavailable = errors.New("speech synthesis unavailable")

// SpeechSynthesizer is the speech-synthesis collaborator. Synthesize returns
// the provider's raw linear-PCM payload base64-encoded for transport; the
// audio package turns it into a playable container.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string, voice string) (string, error)
}
