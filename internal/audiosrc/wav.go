// Package audiosrc provides minimal parsing of RIFF/WAVE audio files into
// the float64 samples the transform engine operates on. It supports
// integer PCM at 8, 16, 24 and 32 bits and IEEE float at 32 and 64 bits,
// mono or interleaved multi-channel (up to 8 channels).
package audiosrc

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// Errors.
var (
	ErrNotWAV            = errors.New("audiosrc: not a RIFF/WAVE file")
	ErrUnsupportedFormat = errors.New("audiosrc: unsupported format")
	ErrInvalidFile       = errors.New("audiosrc: invalid file structure")
	ErrMissingChunk      = errors.New("audiosrc: missing required chunk")
)

const (
	formatPCM       = 1
	formatIEEEFloat = 3
)

// File represents a parsed WAV file.
type File struct {
	NumChannels   int
	SampleRate    int
	BitsPerSample int
	NumSamples    int

	// Data holds decoded audio as float64 in [-1.0, 1.0], organized as
	// [channel][sample].
	Data [][]float64
}

// Parse reads and parses a RIFF/WAVE file from r.
func Parse(r io.Reader) (*File, error) {
	var riffHeader [12]byte
	if _, err := io.ReadFull(r, riffHeader[:]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}

	if string(riffHeader[0:4]) != "RIFF" {
		return nil, ErrNotWAV
	}

	if string(riffHeader[8:12]) != "WAVE" {
		return nil, ErrNotWAV
	}

	file := &File{}
	var fmtFound, dataFound bool
	var audioFormat uint16
	var pcmData []byte

chunkLoop:
	for {
		var chunkHeader [8]byte
		if _, err := io.ReadFull(r, chunkHeader[:]); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
		}

		chunkID := string(chunkHeader[0:4])
		chunkSize := binary.LittleEndian.Uint32(chunkHeader[4:8])

		paddedSize := chunkSize
		if paddedSize%2 != 0 {
			paddedSize++
		}

		switch chunkID {
		case "fmt ":
			var err error
			audioFormat, err = file.parseFmt(r, chunkSize)
			if err != nil {
				return nil, err
			}

			fmtFound = true
			if chunkSize%2 != 0 {
				_, _ = io.ReadFull(r, make([]byte, 1))
			}

		case "data":
			pcmData = make([]byte, chunkSize)
			if _, err := io.ReadFull(r, pcmData); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
			}

			dataFound = true
			if chunkSize%2 != 0 {
				_, _ = io.ReadFull(r, make([]byte, 1))
			}

		default:
			if _, err := io.CopyN(io.Discard, r, int64(paddedSize)); err != nil {
				if errors.Is(err, io.EOF) {
					break chunkLoop
				}
				return nil, fmt.Errorf("%w: failed to skip chunk %s: %w", ErrInvalidFile, chunkID, err)
			}
		}
	}

	if !fmtFound {
		return nil, fmt.Errorf("%w: fmt chunk", ErrMissingChunk)
	}

	if !dataFound {
		return nil, fmt.Errorf("%w: data chunk", ErrMissingChunk)
	}

	if audioFormat != formatPCM && audioFormat != formatIEEEFloat {
		return nil, fmt.Errorf("%w: audio format %d", ErrUnsupportedFormat, audioFormat)
	}

	if err := file.decodeAudio(pcmData, audioFormat); err != nil {
		return nil, err
	}

	return file, nil
}

// parseFmt parses the "fmt " chunk and returns the audio format tag.
func (f *File) parseFmt(r io.Reader, size uint32) (uint16, error) {
	if size < 16 {
		return 0, fmt.Errorf("%w: fmt chunk too small", ErrInvalidFile)
	}

	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}

	audioFormat := binary.LittleEndian.Uint16(buf[0:2])
	f.NumChannels = int(binary.LittleEndian.Uint16(buf[2:4]))
	f.SampleRate = int(binary.LittleEndian.Uint32(buf[4:8]))
	f.BitsPerSample = int(binary.LittleEndian.Uint16(buf[14:16]))

	if f.NumChannels < 1 || f.NumChannels > 8 {
		return 0, fmt.Errorf("%w: unsupported channel count %d", ErrUnsupportedFormat, f.NumChannels)
	}

	if f.SampleRate <= 0 || f.SampleRate > 384000 {
		return 0, fmt.Errorf("%w: invalid sample rate %d", ErrUnsupportedFormat, f.SampleRate)
	}

	if audioFormat == formatPCM && f.BitsPerSample != 8 && f.BitsPerSample != 16 && f.BitsPerSample != 24 && f.BitsPerSample != 32 {
		return 0, fmt.Errorf("%w: unsupported PCM bit depth %d", ErrUnsupportedFormat, f.BitsPerSample)
	}

	if audioFormat == formatIEEEFloat && f.BitsPerSample != 32 && f.BitsPerSample != 64 {
		return 0, fmt.Errorf("%w: unsupported float bit depth %d", ErrUnsupportedFormat, f.BitsPerSample)
	}

	return audioFormat, nil
}

func (f *File) decodeAudio(data []byte, audioFormat uint16) error {
	bytesPerSample := f.BitsPerSample / 8
	frameSize := bytesPerSample * f.NumChannels
	if frameSize == 0 {
		return fmt.Errorf("%w: zero frame size", ErrInvalidFile)
	}

	f.NumSamples = len(data) / frameSize

	f.Data = make([][]float64, f.NumChannels)
	for ch := range f.Data {
		f.Data[ch] = make([]float64, f.NumSamples)
	}

	offset := 0
	for frame := 0; frame < f.NumSamples; frame++ {
		for ch := 0; ch < f.NumChannels; ch++ {
			sample, err := decodeSample(data[offset:], f.BitsPerSample, audioFormat)
			if err != nil {
				return err
			}

			f.Data[ch][frame] = sample
			offset += bytesPerSample
		}
	}

	return nil
}

func decodeSample(data []byte, bitsPerSample int, audioFormat uint16) (float64, error) {
	if audioFormat == formatIEEEFloat {
		switch bitsPerSample {
		case 32:
			bits := binary.LittleEndian.Uint32(data[0:4])
			return float64(math.Float32frombits(bits)), nil
		case 64:
			bits := binary.LittleEndian.Uint64(data[0:8])
			return math.Float64frombits(bits), nil
		}
	}

	switch bitsPerSample {
	case 8:
		// 8-bit PCM WAV is unsigned.
		return (float64(data[0]) - 128) / 128.0, nil

	case 16:
		s := int16(binary.LittleEndian.Uint16(data[0:2]))
		return float64(s) / 32768.0, nil

	case 24:
		b0, b1, b2 := data[0], data[1], data[2]
		var s int32
		if b2&0x80 != 0 {
			s = -1<<24 | int32(b2)<<16 | int32(b1)<<8 | int32(b0)
		} else {
			s = int32(b2)<<16 | int32(b1)<<8 | int32(b0)
		}
		return float64(s) / 8388608.0, nil

	case 32:
		s := int32(binary.LittleEndian.Uint32(data[0:4]))
		return float64(s) / 2147483648.0, nil
	}

	return 0, fmt.Errorf("%w: bit depth %d", ErrUnsupportedFormat, bitsPerSample)
}

// Duration returns the duration of the file in seconds.
func (f *File) Duration() float64 {
	if f.SampleRate <= 0 {
		return 0
	}
	return float64(f.NumSamples) / float64(f.SampleRate)
}

// Mono downmixes all channels into a single float64 slice by averaging.
func (f *File) Mono() []float64 {
	out := make([]float64, f.NumSamples)

	for frame := 0; frame < f.NumSamples; frame++ {
		var sum float64
		for ch := 0; ch < f.NumChannels; ch++ {
			sum += f.Data[ch][frame]
		}
		out[frame] = sum / float64(f.NumChannels)
	}

	return out
}
