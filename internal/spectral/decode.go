package spectral

import (
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"stylus/internal/services"
)

// decodeWAV reads a WAV file into mono float64 samples. capSeconds bounds
// how much audio is read; zero means the whole file.
func decodeWAV(path string, capSeconds int) (samples []float64, sampleRate int, durationSeconds float64, err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, services.Wrap(services.ErrUnreadableFile, "spectral", "decode", "open wav", err)
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		return nil, 0, 0, services.Wrap(services.ErrUnreadableFile, "spectral", "decode", "not a valid wav file", nil)
	}

	duration, err := decoder.Duration()
	if err != nil {
		return nil, 0, 0, services.Wrap(services.ErrUnreadableFile, "spectral", "decode", "read duration", err)
	}
	durationSeconds = duration.Seconds()
	sampleRate = int(decoder.SampleRate)
	channels := int(decoder.NumChans)
	if sampleRate <= 0 || channels <= 0 {
		return nil, 0, 0, services.Wrap(services.ErrUnreadableFile, "spectral", "decode", "missing format chunk", nil)
	}

	readSeconds := durationSeconds
	if capSeconds > 0 && float64(capSeconds) < readSeconds {
		readSeconds = float64(capSeconds)
	}
	frames := int(readSeconds * float64(sampleRate))
	if frames <= 0 {
		return nil, sampleRate, durationSeconds, nil
	}

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: channels,
			SampleRate:  sampleRate,
		},
		Data:           make([]int, frames*channels),
		SourceBitDepth: int(decoder.BitDepth),
	}
	read, err := decoder.PCMBuffer(buf)
	if err != nil {
		return nil, 0, 0, services.Wrap(services.ErrUnreadableFile, "spectral", "decode", "read samples", err)
	}

	// Downmix interleaved channels by averaging.
	frameCount := read / channels
	samples = make([]float64, frameCount)
	for i := 0; i < frameCount; i++ {
		var sum float64
		for ch := 0; ch < channels; ch++ {
			sum += float64(buf.Data[i*channels+ch])
		}
		samples[i] = sum / float64(channels)
	}
	return samples, sampleRate, durationSeconds, nil
}
