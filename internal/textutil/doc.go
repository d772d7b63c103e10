// Package textutil provides the text normalization and similarity helpers
// shared by the text-search resolver and candidate scoring.
//
// All comparisons in Stylus go through Normalize/Tokenize so that case,
// punctuation, and diacritics never influence a confidence score.
package textutil
