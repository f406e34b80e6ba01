package audio

import (
	"encoding/base64"
	"testing"
)

func TestStoreFromBase64PCM(t *testing.T) {
	store := NewStore()
	payload := base64.StdEncoding.EncodeToString([]byte{1, 2, 3, 4})

	r, err := store.FromBase64PCM(payload, 24000, 1)
	if err != nil {
		t.Fatalf("FromBase64PCM failed: %v", err)
	}
	if len(r.Data) != 48 {
		t.Errorf("expected 48-byte container (44 header + 4 data), got %d", len(r.Data))
	}
	f, err := DecodeWAVHeader(r.Data)
	if err != nil {
		t.Fatalf("container does not decode: %v", err)
	}
	if f.DataSize != 4 {
		t.Errorf("declared data length: expected 4, got %d", f.DataSize)
	}
	if r.Ref() == "" {
		t.Error("expected a non-empty resource ref")
	}
}

func TestStoreFromBase64PCMMalformed(t *testing.T) {
	store := NewStore()
	if _, err := store.FromBase64PCM("not!!base64@@", 24000, 1); err == nil {
		t.Error("expected error for malformed base64")
	}
	if store.Len() != 0 {
		t.Errorf("no resource should be issued on failure, have %d", store.Len())
	}
}

func TestStoreReleaseAll(t *testing.T) {
	store := NewStore()
	a := store.NewResource(EncodeWAV([]byte{1, 2}, 24000, 1))
	store.NewResource(EncodeWAV([]byte{3, 4}, 24000, 1))
	if store.Len() != 2 {
		t.Fatalf("expected 2 live resources, got %d", store.Len())
	}

	store.Release(a.ID)
	if _, ok := store.Get(a.ID); ok {
		t.Error("released resource still live")
	}

	store.ReleaseAll()
	if store.Len() != 0 {
		t.Errorf("expected no live resources after ReleaseAll, got %d", store.Len())
	}
}

type recordingSink struct {
	played  []*Resource
	stopped int
}

func (s *recordingSink) Play(r *Resource) error {
	s.played = append(s.played, r)
	return nil
}

func (s *recordingSink) Stop() { s.stopped++ }

func TestSlotExclusivity(t *testing.T) {
	sink := &recordingSink{}
	slot := NewSlot(sink)
	store := NewStore()

	a := store.NewResource(EncodeWAV([]byte{1, 2}, 24000, 1))
	b := store.NewResource(EncodeWAV([]byte{3, 4}, 24000, 1))

	if err := slot.Set(a); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if sink.stopped != 0 {
		t.Errorf("first assignment should not stop anything")
	}

	if err := slot.Set(b); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if sink.stopped != 1 {
		t.Errorf("assigning a new resource must stop the previous one, stops=%d", sink.stopped)
	}
	if slot.Current() != b {
		t.Errorf("slot should hold the new resource")
	}

	// Replaying the current resource restarts it without a teardown.
	if err := slot.Set(b); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if sink.stopped != 1 {
		t.Errorf("replay must not tear the slot down, stops=%d", sink.stopped)
	}
	if len(sink.played) != 3 {
		t.Errorf("expected 3 play calls, got %d", len(sink.played))
	}

	slot.Stop()
	if slot.Current() != nil {
		t.Error("Stop should drop the active reference")
	}
	if sink.stopped != 2 {
		t.Errorf("Stop should halt the sink, stops=%d", sink.stopped)
	}
}
