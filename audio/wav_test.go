package audio

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestEncodeWAVHeaderFields(t *testing.T) {
	pcm := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}
	wav := EncodeWAV(pcm, 24000, 1)

	if len(wav) != 44+len(pcm) {
		t.Fatalf("expected %d bytes, got %d", 44+len(pcm), len(wav))
	}
	if string(wav[0:4]) != "RIFF" {
		t.Errorf("bytes 0-3: expected RIFF, got %q", wav[0:4])
	}
	if string(wav[8:12]) != "WAVE" {
		t.Errorf("bytes 8-11: expected WAVE, got %q", wav[8:12])
	}
	if string(wav[36:40]) != "data" {
		t.Errorf("bytes 36-39: expected data, got %q", wav[36:40])
	}
	if got := binary.LittleEndian.Uint32(wav[40:44]); got != uint32(len(pcm)) {
		t.Errorf("declared data length: expected %d, got %d", len(pcm), got)
	}
	if !bytes.Equal(wav[44:], pcm) {
		t.Errorf("payload was transformed")
	}
}

func TestEncodeWAVRoundTrip(t *testing.T) {
	pcm := make([]byte, 256)
	for i := range pcm {
		pcm[i] = byte(i)
	}
	wav := EncodeWAV(pcm, 16000, 2)

	f, err := DecodeWAVHeader(wav)
	if err != nil {
		t.Fatalf("DecodeWAVHeader failed: %v", err)
	}
	if f.SampleRate != 16000 {
		t.Errorf("sample rate: expected 16000, got %d", f.SampleRate)
	}
	if f.Channels != 2 {
		t.Errorf("channels: expected 2, got %d", f.Channels)
	}
	if f.BitsPerSample != 16 {
		t.Errorf("bit depth: expected 16, got %d", f.BitsPerSample)
	}
	if f.DataSize != len(pcm) {
		t.Errorf("data size: expected %d, got %d", len(pcm), f.DataSize)
	}
}

func TestEncodeWAVEmptyPayload(t *testing.T) {
	wav := EncodeWAV(nil, 24000, 1)
	if len(wav) != 44 {
		t.Fatalf("expected 44-byte container, got %d bytes", len(wav))
	}
	f, err := DecodeWAVHeader(wav)
	if err != nil {
		t.Fatalf("empty container should still decode: %v", err)
	}
	if f.DataSize != 0 {
		t.Errorf("declared data length: expected 0, got %d", f.DataSize)
	}
}

func TestEncodeWAVDefaults(t *testing.T) {
	wav := EncodeWAV([]byte{1, 2}, 0, 0)
	f, err := DecodeWAVHeader(wav)
	if err != nil {
		t.Fatalf("DecodeWAVHeader failed: %v", err)
	}
	if f.SampleRate != DefaultSampleRate {
		t.Errorf("expected default sample rate %d, got %d", DefaultSampleRate, f.SampleRate)
	}
	if f.Channels != DefaultChannels {
		t.Errorf("expected default channel count %d, got %d", DefaultChannels, f.Channels)
	}
}

func TestEncodeWAVDeterministicAndPure(t *testing.T) {
	pcm := []byte{9, 8, 7, 6}
	snapshot := append([]byte(nil), pcm...)

	a := EncodeWAV(pcm, 24000, 1)
	b := EncodeWAV(pcm, 24000, 1)
	if !bytes.Equal(a, b) {
		t.Errorf("encoding is not deterministic")
	}
	if !bytes.Equal(pcm, snapshot) {
		t.Errorf("input payload was mutated")
	}
}

func TestEncodeWAVByteRateAndBlockAlign(t *testing.T) {
	wav := EncodeWAV([]byte{0, 0, 0, 0}, 24000, 1)
	if got := binary.LittleEndian.Uint32(wav[28:32]); got != 24000*1*2 {
		t.Errorf("byte rate: expected %d, got %d", 24000*1*2, got)
	}
	if got := binary.LittleEndian.Uint16(wav[32:34]); got != 2 {
		t.Errorf("block align: expected 2, got %d", got)
	}
	if got := binary.LittleEndian.Uint16(wav[20:22]); got != 1 {
		t.Errorf("format tag: expected 1 (PCM), got %d", got)
	}
}

func TestDecodeWAVHeaderRejectsGarbage(t *testing.T) {
	if _, err := DecodeWAVHeader([]byte{1, 2, 3}); err == nil {
		t.Error("expected error for truncated data")
	}

	bad := EncodeWAV([]byte{1, 2}, 24000, 1)
	copy(bad[0:4], "FAKE")
	if _, err := DecodeWAVHeader(bad); err == nil {
		t.Error("expected error for missing RIFF marker")
	}
}

func TestDuration(t *testing.T) {
	// One second of mono 16-bit audio at 24 kHz.
	pcm := make([]byte, 24000*2)
	wav := EncodeWAV(pcm, 24000, 1)

	d, err := Duration(wav)
	if err != nil {
		t.Fatalf("Duration failed: %v", err)
	}
	if d < 0.999 || d > 1.001 {
		t.Errorf("expected ~1s, got %f", d)
	}
}
