package audio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/mewkiz/flac"
)

// ErrUnsupportedFormat is returned for containers that cannot be decoded to PCM.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

const wavFormatPCM = 1

// DecodeFile reads a WAV or FLAC file and downmixes it to a mono clip.
func DecodeFile(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".wave":
		return DecodeWAV(f)
	case ".flac":
		return DecodeFLAC(f)
	default:
		return nil, fmt.Errorf("%w: %s (only WAV and FLAC recordings can be transcribed)", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

func DecodeWAV(r io.ReadSeeker) (*Clip, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, fmt.Errorf("%w: not a valid WAV file", ErrUnsupportedFormat)
	}
	if d.WavAudioFormat != wavFormatPCM {
		return nil, fmt.Errorf("%w: WAV encoding %d is not linear PCM", ErrUnsupportedFormat, d.WavAudioFormat)
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read WAV samples: %w", err)
	}

	channels := int(d.NumChans)
	if buf.Format != nil && buf.Format.NumChannels > 0 {
		channels = buf.Format.NumChannels
	}
	if channels <= 0 {
		return nil, fmt.Errorf("%w: WAV file declares no channels", ErrUnsupportedFormat)
	}

	bitDepth := int(d.BitDepth)
	frames := len(buf.Data) / channels
	samples := make([]int16, frames)
	for i := 0; i < frames; i++ {
		sum := 0
		for ch := 0; ch < channels; ch++ {
			sum += int(to16(buf.Data[i*channels+ch], bitDepth))
		}
		samples[i] = int16(sum / channels)
	}

	return &Clip{SampleRate: int(d.SampleRate), Samples: samples}, nil
}

func DecodeFLAC(r io.Reader) (*Clip, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	defer stream.Close()

	bitDepth := int(stream.Info.BitsPerSample)
	samples := make([]int16, 0, stream.Info.NSamples)
	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read FLAC frame: %w", err)
		}

		channels := len(frame.Subframes)
		if channels == 0 {
			continue
		}
		n := len(frame.Subframes[0].Samples)
		for i := 0; i < n; i++ {
			sum := 0
			for _, sub := range frame.Subframes {
				sum += int(to16(int(sub.Samples[i]), bitDepth))
			}
			samples = append(samples, int16(sum/channels))
		}
	}

	return &Clip{SampleRate: int(stream.Info.SampleRate), Samples: samples}, nil
}
