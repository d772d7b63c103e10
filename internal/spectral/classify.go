package spectral

// Classification is the heuristic description of a file's audio content.
type Classification struct {
	Genre         string
	EnergyProfile string
	Style         string
	Confidence    float64
}

// Confidence ceilings. Local heuristics never compete with a fingerprint
// match, and placeholder vectors are worth even less.
const (
	maxConfidence         = 0.9
	maxDegradedConfidence = 0.5
	metadataBonus         = 0.2
)

// Classify runs the fixed decision table over the feature vector.
// hasMetadata grants the bonus for container tags that corroborate the
// heuristic result.
func Classify(fv FeatureVector, hasMetadata bool) Classification {
	c := Classification{
		Genre:         classifyGenre(fv),
		EnergyProfile: energyProfile(fv),
		Style:         styleDescriptor(fv),
	}

	confidence := baseConfidence(fv)
	if hasMetadata {
		confidence += metadataBonus
	}
	ceiling := maxConfidence
	if fv.Degraded {
		ceiling = maxDegradedConfidence
	}
	if confidence > ceiling {
		confidence = ceiling
	}
	c.Confidence = confidence
	return c
}

func classifyGenre(fv FeatureVector) string {
	centroid := fv.Centroid
	energy := fv.Energy
	duration := fv.DurationSeconds
	rolloff := fv.Rolloff

	switch {
	case centroid > 4500 && energy > 0.6:
		return "rock/metal"
	case centroid > 3500 && energy > 0.4 && duration < 240:
		return "pop/rock"
	case centroid < 1500 && duration > 300:
		return "classical/orchestral"
	case centroid > 1500 && centroid < 2500 && energy > 0.5:
		return "hip-hop/rap"
	case rolloff > 8000 && energy > 0.3:
		return "electronic/dance"
	case centroid > 2000 && centroid < 3000 && duration > 180:
		return "jazz/blues"
	case centroid < 2000 && energy < 0.3:
		return "ambient/calm"
	case duration > 300 && energy < 0.4:
		return "instrumental/soundtrack"
	default:
		return "pop/alternative"
	}
}

func energyProfile(fv FeatureVector) string {
	switch energy := fv.Energy; {
	case energy > 0.7:
		return "very energetic"
	case energy > 0.5:
		return "energetic"
	case energy > 0.3:
		return "moderate"
	case energy > 0.1:
		return "calm"
	default:
		return "very calm"
	}
}

func styleDescriptor(fv FeatureVector) string {
	centroid := fv.Centroid
	bandwidth := fv.Bandwidth
	duration := fv.DurationSeconds

	switch {
	case centroid > 3000 && bandwidth > 1000:
		return "modern, rich production"
	case centroid < 2000 && duration > 240:
		return "traditional, classical arrangement"
	case bandwidth > 1500:
		return "complex, multi-instrumental production"
	case centroid > 2500 && duration < 180:
		return "commercial, radio-friendly format"
	default:
		return "balanced, standard production"
	}
}

// baseConfidence rewards longer analysis windows, higher sample rates, and
// a complete feature set.
func baseConfidence(fv FeatureVector) float64 {
	confidence := 0.3
	if fv.DurationSeconds > 30 {
		confidence += 0.1
	}
	if fv.DurationSeconds > 120 {
		confidence += 0.1
	}
	if fv.SampleRate >= 44100 {
		confidence += 0.1
	}
	if fv.SampleRate >= 48000 {
		confidence += 0.05
	}
	if fv.Centroid > 0 {
		confidence += 0.1
	}
	if fv.Energy > 0 {
		confidence += 0.1
	}
	if fv.Centroid > 0 && fv.Energy > 0 && fv.DurationSeconds > 0 {
		confidence += 0.1
	}
	return confidence
}
