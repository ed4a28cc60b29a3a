// Package tags extracts embedded metadata from audio files.
//
// The Reader interface is the seam between catalog scanning and the actual
// tag parsing so tests can substitute fixtures. The default implementation
// reads ID3/MP4/FLAC/OGG tags via github.com/dhowden/tag. Extraction failures
// are per-file: callers skip the file and continue.
package tags
