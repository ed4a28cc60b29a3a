// Package manifest reads externally supplied track manifests.
//
// A manifest is UTF-8 CSV with a required header row containing at least
// "Track Name", "Artist Name(s)", and "Album Name". Rows are independent:
// missing fields decode as empty strings, and rows without a track name are
// counted and skipped rather than failing the load. Row order is preserved
// because reconciliation consumes entries in manifest order.
package manifest
