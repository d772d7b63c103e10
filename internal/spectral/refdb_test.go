package spectral

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSimilarityIdenticalVectors(t *testing.T) {
	fv := FeatureVector{
		Energy:          0.5,
		ZeroCrossings:   880,
		Centroid:        2000,
		Rolloff:         8000,
		Bandwidth:       1200,
		RMSEnergy:       0.7,
		SampleRate:      44100,
		DurationSeconds: 180,
	}
	if sim := Similarity(fv, fv); sim != 1 {
		t.Fatalf("expected similarity 1 for identical vectors, got %v", sim)
	}
}

func TestSimilarityOrdersByCloseness(t *testing.T) {
	target := FeatureVector{Energy: 0.5, Centroid: 2000, Rolloff: 8000, SampleRate: 44100, DurationSeconds: 180}
	near := FeatureVector{Energy: 0.48, Centroid: 2100, Rolloff: 7900, SampleRate: 44100, DurationSeconds: 178}
	far := FeatureVector{Energy: 0.1, Centroid: 6000, Rolloff: 2000, SampleRate: 8000, DurationSeconds: 30}

	if Similarity(target, near) <= Similarity(target, far) {
		t.Fatal("expected nearer vector to score higher")
	}
}

func TestSimilarityNoComparableFeatures(t *testing.T) {
	if sim := Similarity(FeatureVector{}, FeatureVector{Energy: 0.5}); sim != 0 {
		t.Fatalf("expected 0 with no comparable features, got %v", sim)
	}
}

func TestReferenceDBBestMatch(t *testing.T) {
	db := &ReferenceDB{References: []Reference{
		{ID: "ref-1", Title: "So What", Artist: "Miles Davis", Features: FeatureVector{Energy: 0.3, Centroid: 2400, DurationSeconds: 545, SampleRate: 44100}},
		{ID: "ref-2", Title: "Thunderstruck", Artist: "AC/DC", Features: FeatureVector{Energy: 0.8, Centroid: 5200, DurationSeconds: 292, SampleRate: 44100}},
	}}

	probe := FeatureVector{Energy: 0.78, Centroid: 5100, DurationSeconds: 290, SampleRate: 44100}
	ref, score, ok := db.BestMatch(probe)
	if !ok {
		t.Fatal("expected a match")
	}
	if ref.ID != "ref-2" {
		t.Fatalf("expected ref-2, got %s", ref.ID)
	}
	if score <= 0.9 {
		t.Fatalf("expected high similarity, got %v", score)
	}
}

func TestReferenceDBEmpty(t *testing.T) {
	db := &ReferenceDB{}
	if _, _, ok := db.BestMatch(FeatureVector{Energy: 0.5}); ok {
		t.Fatal("expected no match from empty database")
	}
}

func TestLoadReferenceDB(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "refs.json")
	body := `{"references":[{"id":"ref-1","title":"So What","artist":"Miles Davis","features":{"energy":0.3,"spectral_centroid":2400}}]}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write db: %v", err)
	}

	db, err := LoadReferenceDB(path)
	if err != nil {
		t.Fatalf("LoadReferenceDB returned error: %v", err)
	}
	if len(db.References) != 1 || db.References[0].Features.Centroid != 2400 {
		t.Fatalf("unexpected db contents: %+v", db)
	}
}

func TestLoadReferenceDBMissingFile(t *testing.T) {
	db, err := LoadReferenceDB(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("expected missing file to yield empty db, got %v", err)
	}
	if len(db.References) != 0 {
		t.Fatalf("expected empty db, got %+v", db)
	}
}
