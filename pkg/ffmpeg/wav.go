package ffmpeg

import (
	"bytes"
	"fmt"

	"github.com/go-audio/wav"
)

// wavFormatPCM is the WAVE_FORMAT_PCM format tag
const wavFormatPCM = 1

// InspectWAV parses the RIFF header of an encoded WAV file and reports its
// PCM layout. Non-PCM or malformed files are rejected.
func InspectWAV(data []byte) (*WAVFormat, error) {
	decoder := wav.NewDecoder(bytes.NewReader(data))
	if !decoder.IsValidFile() {
		if err := decoder.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
		}
		return nil, fmt.Errorf("%w: not a valid wav file", ErrInvalidOutput)
	}

	if decoder.WavAudioFormat != wavFormatPCM {
		return nil, fmt.Errorf("%w: audio format tag %d is not PCM", ErrInvalidOutput, decoder.WavAudioFormat)
	}

	return &WAVFormat{
		SampleRate: int(decoder.SampleRate),
		Channels:   int(decoder.NumChans),
		BitDepth:   int(decoder.BitDepth),
	}, nil
}
