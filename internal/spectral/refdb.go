package spectral

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Reference is one known recording in the reference database.
type Reference struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Artist   string        `json:"artist"`
	Album    string        `json:"album,omitempty"`
	Features FeatureVector `json:"features"`
}

// ReferenceDB holds known feature vectors for nearest-match lookups.
type ReferenceDB struct {
	References []Reference `json:"references"`
}

// LoadReferenceDB reads a JSON reference database. A missing file yields an
// empty database, not an error.
func LoadReferenceDB(path string) (*ReferenceDB, error) {
	if path == "" {
		return &ReferenceDB{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &ReferenceDB{}, nil
		}
		return nil, fmt.Errorf("read reference db: %w", err)
	}
	var db ReferenceDB
	if err := json.Unmarshal(data, &db); err != nil {
		return nil, fmt.Errorf("parse reference db: %w", err)
	}
	return &db, nil
}

// BestMatch returns the reference most similar to the vector and its
// similarity. ok is false for an empty database.
func (db *ReferenceDB) BestMatch(fv FeatureVector) (Reference, float64, bool) {
	var best Reference
	bestScore := -1.0
	for _, ref := range db.References {
		score := Similarity(fv, ref.Features)
		if score > bestScore {
			best = ref
			bestScore = score
		}
	}
	if bestScore < 0 {
		return Reference{}, 0, false
	}
	return best, bestScore, true
}

// Similarity averages per-feature relative similarity over all numeric
// features where both vectors have non-zero values.
func Similarity(a, b FeatureVector) float64 {
	pairs := [][2]float64{
		{a.Energy, b.Energy},
		{float64(a.ZeroCrossings), float64(b.ZeroCrossings)},
		{a.Centroid, b.Centroid},
		{a.Rolloff, b.Rolloff},
		{a.Bandwidth, b.Bandwidth},
		{a.RMSEnergy, b.RMSEnergy},
		{a.Flux, b.Flux},
		{float64(a.SampleRate), float64(b.SampleRate)},
		{a.DurationSeconds, b.DurationSeconds},
		{a.AnalysisSeconds, b.AnalysisSeconds},
		{a.PeakFrequency, b.PeakFrequency},
		{a.LowEnergy, b.LowEnergy},
		{a.MidEnergy, b.MidEnergy},
		{a.HighEnergy, b.HighEnergy},
	}

	var sum float64
	var count int
	for _, pair := range pairs {
		v1, v2 := pair[0], pair[1]
		if v1 == 0 || v2 == 0 {
			continue
		}
		maxAbs := absFloat(v1)
		if a2 := absFloat(v2); a2 > maxAbs {
			maxAbs = a2
		}
		sim := 1 - absFloat(v1-v2)/maxAbs
		if sim < 0 {
			sim = 0
		}
		sum += sim
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
