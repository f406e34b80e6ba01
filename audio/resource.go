package audio

import (
	"encoding/base64"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Resource is a revocable handle to a playable WAV byte buffer. The session
// owns the mapping from turn to Resource; presentation sinks hold only a
// transient reference to whichever Resource is currently playing.
type Resource struct {
	ID   uuid.UUID
	Data []byte
}

// Ref is the URL-like reference handed to presentation surfaces.
func (r *Resource) Ref() string {
	return "audio://" + r.ID.String()
}

// Store issues Resource handles and tracks the live set so a session can
// release everything it produced when it is discarded.
type Store struct {
	mu   sync.Mutex
	live map[uuid.UUID]*Resource
}

func NewStore() *Store {
	return &Store{live: make(map[uuid.UUID]*Resource)}
}

// NewResource wraps an already-encoded WAV buffer in a live handle.
func (s *Store) NewResource(wav []byte) *Resource {
	r := &Resource{ID: uuid.New(), Data: wav}
	s.mu.Lock()
	s.live[r.ID] = r
	s.mu.Unlock()
	return r
}

// FromBase64PCM decodes a base64 transport payload into raw PCM, wraps it in
// a WAV container, and issues a handle. Malformed base64 is reported as an
// error, never a panic.
func (s *Store) FromBase64PCM(payload string, sampleRate, channels int) (*Resource, error) {
	pcm, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode pcm payload: %w", err)
	}
	return s.NewResource(EncodeWAV(pcm, sampleRate, channels)), nil
}

// Get returns the live Resource for an id, if any.
func (s *Store) Get(id uuid.UUID) (*Resource, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.live[id]
	return r, ok
}

// Release revokes one handle.
func (s *Store) Release(id uuid.UUID) {
	s.mu.Lock()
	delete(s.live, id)
	s.mu.Unlock()
}

// ReleaseAll revokes every live handle. Called when a session is discarded
// so resources do not accumulate across configure/exit cycles.
func (s *Store) ReleaseAll() {
	s.mu.Lock()
	s.live = make(map[uuid.UUID]*Resource)
	s.mu.Unlock()
}

// Len reports the number of live handles.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.live)
}

// Sink is the playback surface. Play starts the given resource from the
// top; Stop halts whatever is playing. Both may be invoked while the owning
// session holds its lock, so implementations must return promptly and never
// call back into the session.
type Sink interface {
	Play(r *Resource) error
	Stop()
}

// Slot is the single exclusive active-playback slot. Assigning a new
// Resource always tears the previous occupant down first; assigning the
// Resource already held restarts it from the top without a teardown.
type Slot struct {
	mu      sync.Mutex
	sink    Sink
	current *Resource
}

func NewSlot(sink Sink) *Slot {
	return &Slot{sink: sink}
}

// Set makes r the active playback resource and starts it.
func (s *Slot) Set(r *Resource) error {
	s.mu.Lock()
	if s.current != nil && s.current != r {
		s.sink.Stop()
		s.current = nil
	}
	s.current = r
	s.mu.Unlock()
	return s.sink.Play(r)
}

// Stop halts playback and drops the active reference.
func (s *Slot) Stop() {
	s.mu.Lock()
	if s.current != nil {
		s.sink.Stop()
		s.current = nil
	}
	s.mu.Unlock()
}

// Current returns the active resource, or nil.
func (s *Slot) Current() *Resource {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}
