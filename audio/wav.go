package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Format parameters of the raw PCM payloads returned by the speech
// provider: 24 kHz, mono, signed 16-bit little-endian.
const (
	DefaultSampleRate = 24000
	DefaultChannels   = 1
	bitsPerSample     = 16
	headerSize        = 44
)

// WAVHeader is the fixed 44-byte descriptive header of a minimal WAV
// container.
type WAVHeader struct {
	ChunkID       [4]byte // "RIFF"
	ChunkSize     uint32  // file size - 8 bytes
	Format        [4]byte // "WAVE"
	Subchunk1ID   [4]byte // "fmt "
	Subchunk1Size uint32  // 16 for PCM
	AudioFormat   uint16  // 1 for linear PCM
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32 // SampleRate * NumChannels * BitsPerSample / 8
	BlockAlign    uint16 // NumChannels * BitsPerSample / 8
	BitsPerSample uint16
	Subchunk2ID   [4]byte // "data"
	Subchunk2Size uint32  // number of bytes in the data
}

// EncodeWAV wraps a raw little-endian 16-bit PCM payload in a minimal WAV
// container. It is pure: the input slice is never mutated and the same
// inputs always produce the same bytes. An empty payload yields a valid
// 44-byte container declaring zero data length. Non-positive sampleRate or
// channels fall back to the provider defaults.
func EncodeWAV(pcm []byte, sampleRate, channels int) []byte {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	if channels <= 0 {
		channels = DefaultChannels
	}

	numChannels := uint16(channels)
	dataSize := uint32(len(pcm))

	header := WAVHeader{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     36 + dataSize,
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   1,
		NumChannels:   numChannels,
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate) * uint32(numChannels) * bitsPerSample / 8,
		BlockAlign:    numChannels * bitsPerSample / 8,
		BitsPerSample: bitsPerSample,
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: dataSize,
	}

	buf := bytes.NewBuffer(make([]byte, 0, headerSize+len(pcm)))
	// Writing a fixed-size struct of integer fields cannot fail.
	binary.Write(buf, binary.LittleEndian, header)
	buf.Write(pcm)
	return buf.Bytes()
}

// Format is the decoded description of a WAV container's payload.
type Format struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
	DataSize      int
}

// DecodeWAVHeader validates the fixed container markers and recovers the
// declared format parameters.
func DecodeWAVHeader(data []byte) (Format, error) {
	if len(data) < headerSize {
		return Format{}, fmt.Errorf("wav data too short: need at least %d bytes, got %d", headerSize, len(data))
	}

	var header WAVHeader
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &header); err != nil {
		return Format{}, fmt.Errorf("read wav header: %w", err)
	}

	if string(header.ChunkID[:]) != "RIFF" {
		return Format{}, fmt.Errorf("invalid wav: missing RIFF marker")
	}
	if string(header.Format[:]) != "WAVE" {
		return Format{}, fmt.Errorf("invalid wav: missing WAVE marker")
	}
	if string(header.Subchunk1ID[:]) != "fmt " {
		return Format{}, fmt.Errorf("invalid wav: missing fmt chunk")
	}
	if string(header.Subchunk2ID[:]) != "data" {
		return Format{}, fmt.Errorf("invalid wav: missing data chunk")
	}
	if header.AudioFormat != 1 {
		return Format{}, fmt.Errorf("unsupported audio format %d: only linear PCM", header.AudioFormat)
	}

	return Format{
		SampleRate:    int(header.SampleRate),
		Channels:      int(header.NumChannels),
		BitsPerSample: int(header.BitsPerSample),
		DataSize:      int(header.Subchunk2Size),
	}, nil
}

// Duration returns the playback length in seconds described by a container.
func Duration(data []byte) (float64, error) {
	f, err := DecodeWAVHeader(data)
	if err != nil {
		return 0, err
	}
	if f.SampleRate == 0 {
		return 0, fmt.Errorf("invalid sample rate: 0")
	}
	bytesPerSample := f.BitsPerSample / 8 * f.Channels
	if bytesPerSample == 0 {
		return 0, fmt.Errorf("invalid block alignment")
	}
	return float64(f.DataSize) / float64(bytesPerSample) / float64(f.SampleRate), nil
}
