// Package services holds the shared error taxonomy and context plumbing for
// the identification methods and their remote clients.
//
// Sub-packages wrap each external collaborator (AcoustID lookup, MusicBrainz
// search) behind small typed clients. Every client error is tagged with one
// of the sentinel markers below so the resolver can classify failures with
// errors.Is instead of string matching.
package services
