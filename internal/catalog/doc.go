// Package catalog maintains the set of locally known audio tracks.
//
// Track identity is the file path; importing the same path twice keeps the
// first-seen record. Tracks carry an explicit tag source so downstream
// matching can branch exhaustively on whether structured metadata exists or
// only the filename. The Scanner builds a catalog from a directory tree with
// best-effort semantics: extraction failures are logged and skipped, never
// fatal to the scan.
package catalog
