// Package reconcile matches external manifest entries against the local
// track catalog.
//
// Matching runs in manifest order over the unclaimed portion of the catalog:
// each accepted match reserves its track so no two manifest entries resolve
// to the same file. Scores combine weighted title, filename, artist, album,
// and substring signals; acceptance is tiered (high, medium after a
// secondary check, or unmatched). User-authored overrides pin troublesome
// entries directly to catalog filenames and bypass scoring entirely.
//
// The matcher never fails a run: every manifest entry yields exactly one
// Result, with missing fields treated as empty strings.
package reconcile
