package spectral

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// Source records which decode path produced a feature vector.
type Source string

const (
	// SourceWAV means the file was decoded natively.
	SourceWAV Source = "wav"
	// SourceFFmpeg means the file was transcoded first.
	SourceFFmpeg Source = "ffmpeg"
	// SourceMetadata means no decode succeeded and the vector holds
	// placeholder values.
	SourceMetadata Source = "metadata"
)

// FeatureVector summarizes the spectral content of one file.
type FeatureVector struct {
	Energy        float64 `json:"energy"`
	ZeroCrossings int     `json:"zero_crossings"`
	Centroid      float64 `json:"spectral_centroid"`
	Rolloff       float64 `json:"spectral_rolloff"`
	Bandwidth     float64 `json:"spectral_bandwidth"`
	RMSEnergy     float64 `json:"rms_energy"`
	Flux          float64 `json:"spectral_flux"`
	LowEnergy     float64 `json:"low_energy"`
	MidEnergy     float64 `json:"mid_energy"`
	HighEnergy    float64 `json:"high_energy"`
	PeakFrequency float64 `json:"peak_frequency"`

	SampleRate      int     `json:"sample_rate"`
	DurationSeconds float64 `json:"duration"`
	AnalysisSeconds float64 `json:"analysis_length"`

	Source   Source `json:"source"`
	Degraded bool   `json:"degraded"`
}

// analysisCapSeconds bounds how much decoded audio feeds the FFT.
const analysisCapSeconds = 15

// computeFeatures derives a feature vector from mono samples. Samples are
// peak-normalized first so bit depth does not skew energy values.
func computeFeatures(samples []float64, sampleRate int, durationSeconds float64, source Source) FeatureVector {
	fv := FeatureVector{
		SampleRate:      sampleRate,
		DurationSeconds: durationSeconds,
		Source:          source,
	}
	if len(samples) == 0 || sampleRate <= 0 {
		fv.Degraded = true
		return fv
	}

	peak := 0.0
	for _, s := range samples {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	if peak > 0 {
		normalized := make([]float64, len(samples))
		for i, s := range samples {
			normalized[i] = s / peak
		}
		samples = normalized
	}

	analysisLen := len(samples)
	if limit := sampleRate * analysisCapSeconds; analysisLen > limit {
		analysisLen = limit
	}
	window := samples[:analysisLen]
	fv.AnalysisSeconds = float64(analysisLen) / float64(sampleRate)

	var sumSquares float64
	for _, s := range window {
		sumSquares += s * s
	}
	fv.Energy = sumSquares / float64(len(window))
	fv.RMSEnergy = math.Sqrt(fv.Energy)

	for i := 1; i < len(window); i++ {
		if (window[i-1] >= 0) != (window[i] >= 0) {
			fv.ZeroCrossings++
		}
	}

	spectrum, freqs := magnitudeSpectrum(window, sampleRate)
	fillSpectralFeatures(&fv, spectrum, freqs)
	return fv
}

// magnitudeSpectrum runs a real FFT and keeps the positive-frequency half.
func magnitudeSpectrum(window []float64, sampleRate int) (spectrum, freqs []float64) {
	complexSpectrum := fft.FFTReal(window)
	half := len(complexSpectrum) / 2
	if half == 0 {
		return nil, nil
	}
	spectrum = make([]float64, half)
	freqs = make([]float64, half)
	binWidth := float64(sampleRate) / float64(len(window))
	for i := 0; i < half; i++ {
		spectrum[i] = cmplx.Abs(complexSpectrum[i])
		freqs[i] = float64(i) * binWidth
	}
	return spectrum, freqs
}

func fillSpectralFeatures(fv *FeatureVector, spectrum, freqs []float64) {
	if len(spectrum) == 0 {
		return
	}

	var total, weighted float64
	peakIdx := 0
	for i, m := range spectrum {
		total += m
		weighted += m * freqs[i]
		if m > spectrum[peakIdx] {
			peakIdx = i
		}
	}
	fv.PeakFrequency = freqs[peakIdx]
	if total <= 0 {
		return
	}
	fv.Centroid = weighted / total

	var cumulative float64
	threshold := 0.85 * total
	for i, m := range spectrum {
		cumulative += m
		if cumulative >= threshold {
			fv.Rolloff = freqs[i]
			break
		}
	}

	var variance float64
	for i, m := range spectrum {
		diff := freqs[i] - fv.Centroid
		variance += diff * diff * m
	}
	fv.Bandwidth = math.Sqrt(variance / total)

	if len(spectrum) > 1 {
		var fluxSum float64
		for i := 1; i < len(spectrum); i++ {
			d := spectrum[i] - spectrum[i-1]
			fluxSum += d * d
		}
		fv.Flux = fluxSum / float64(len(spectrum)-1)
	}

	if len(spectrum) > 4 {
		quarter := len(spectrum) / 4
		fv.LowEnergy = mean(spectrum[:quarter])
		fv.MidEnergy = mean(spectrum[quarter : 3*quarter])
		fv.HighEnergy = mean(spectrum[3*quarter:])
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
