package audio

import (
	"fmt"
	"io"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"
	"github.com/orcaman/writerseeker"
)

const flacBlockSize = 4096

// EncodeFLAC encodes the clip as a mono 16-bit FLAC stream in memory.
func EncodeFLAC(c *Clip) ([]byte, error) {
	if len(c.Samples) == 0 {
		return nil, fmt.Errorf("cannot encode empty clip")
	}

	// the encoder seeks back to patch STREAMINFO on Close
	out := &writerseeker.WriterSeeker{}

	info := &meta.StreamInfo{
		BlockSizeMin:  flacBlockSize,
		BlockSizeMax:  flacBlockSize,
		SampleRate:    uint32(c.SampleRate),
		NChannels:     1,
		BitsPerSample: 16,
		NSamples:      uint64(len(c.Samples)),
	}

	enc, err := flac.NewEncoder(out, info)
	if err != nil {
		return nil, fmt.Errorf("creating FLAC encoder: %w", err)
	}

	var num uint64
	for start := 0; start < len(c.Samples); start += flacBlockSize {
		end := min(start+flacBlockSize, len(c.Samples))
		block := make([]int32, end-start)
		for i, s := range c.Samples[start:end] {
			block[i] = int32(s)
		}

		f := &frame.Frame{
			Header: frame.Header{
				HasFixedBlockSize: true,
				BlockSize:         uint16(len(block)),
				SampleRate:        uint32(c.SampleRate),
				Channels:          frame.ChannelsMono,
				BitsPerSample:     16,
				Num:               num,
			},
			Subframes: []*frame.Subframe{
				{
					SubHeader: frame.SubHeader{Pred: frame.PredVerbatim},
					Samples:   block,
					NSamples:  len(block),
				},
			},
		}
		if err := enc.WriteFrame(f); err != nil {
			enc.Close()
			return nil, fmt.Errorf("writing FLAC frame: %w", err)
		}
		num++
	}

	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("closing FLAC encoder: %w", err)
	}

	data, err := io.ReadAll(out.Reader())
	if err != nil {
		return nil, fmt.Errorf("reading FLAC stream: %w", err)
	}
	return data, nil
}
