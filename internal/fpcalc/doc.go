// Package fpcalc wraps the Chromaprint fpcalc binary used to generate
// acoustic fingerprints.
package fpcalc
