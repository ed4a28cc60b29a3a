// Package textutil provides text normalization utilities for catalog matching
// and filename sanitization.
//
// The primary use cases are:
//   - Canonicalizing track, artist, and filename strings for comparison
//   - Producing order-independent token sets and overlap ratios
//   - Sanitizing playlist and directory names for safe filesystem use
//
// Normalization lowercases input, folds fullwidth/CJK punctuation to ASCII
// equivalents, strips a fixed punctuation set plus a trailing ".mp3" token,
// and collapses whitespace. Identical input always yields an identical token
// set regardless of word order.
package textutil
