// Package acoustid looks up Chromaprint fingerprints against the AcoustID
// web service.
package acoustid
