package reconcile

import (
	"log/slog"
	"math"
	"strings"
	"unicode/utf8"

	"cadence/internal/catalog"
	"cadence/internal/logging"
	"cadence/internal/manifest"
	"cadence/internal/textutil"
)

// Tier classifies a match's reliability.
type Tier int

const (
	TierNone Tier = iota
	TierMedium
	TierHigh
)

// String returns the tier label used in reports.
func (t Tier) String() string {
	switch t {
	case TierHigh:
		return "high"
	case TierMedium:
		return "medium"
	default:
		return "none"
	}
}

// Scoring weights and thresholds. Filename carries more weight exactly when
// structured metadata is unavailable.
const (
	titleWeight          = 15.0
	titleBonus           = 5.0
	titleBonusRatio      = 0.8
	filenameWeightNoMeta = 20.0
	filenameWeightMeta   = 8.0
	artistBonus          = 5.0
	albumBonus           = 3.0
	substringNoMeta      = 8.0
	substringMeta        = 3.0
	acceptHigh           = 8.0
	acceptMedium         = 3.5
	secondaryOverlap     = 0.5
	minArtistRunes       = 3
	minAlbumRunes        = 4
	minSubstringRunes    = 6
)

// Result is the reconciliation outcome for one manifest entry. Track is nil
// when the entry is unmatched.
type Result struct {
	Entry manifest.Entry
	Track *catalog.Track
	Tier  Tier
	Score float64
}

// Matcher scores manifest entries against unclaimed catalog tracks.
type Matcher struct {
	logger    *slog.Logger
	overrides *Overrides
}

// Option customises the Matcher.
type Option func(*Matcher)

// WithOverrides attaches a user-authored override catalog.
func WithOverrides(overrides *Overrides) Option {
	return func(m *Matcher) {
		m.overrides = overrides
	}
}

// NewMatcher constructs a reconciliation matcher.
func NewMatcher(logger *slog.Logger, opts ...Option) *Matcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	m := &Matcher{logger: logger.With(logging.String("component", "reconcile"))}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Reconcile maps each manifest entry to at most one unclaimed catalog track,
// in manifest order. Earlier entries reserve tracks, so order affects the
// outcome. Exactly one Result is returned per entry.
func (m *Matcher) Reconcile(entries []manifest.Entry, tracks []catalog.Track) []Result {
	claimed := make(map[string]struct{}, len(entries))
	results := make([]Result, 0, len(entries))

	for _, entry := range entries {
		result := m.matchEntry(entry, tracks, claimed)
		if result.Track != nil {
			claimed[result.Track.Path] = struct{}{}
		}
		results = append(results, result)
	}

	var matched int
	for _, r := range results {
		if r.Track != nil {
			matched++
		}
	}
	m.logger.Info("reconciliation complete",
		logging.Int("entries", len(entries)),
		logging.Int("matched", matched),
		logging.Int("unmatched", len(entries)-matched))
	return results
}

func (m *Matcher) matchEntry(entry manifest.Entry, tracks []catalog.Track, claimed map[string]struct{}) Result {
	result := Result{Entry: entry}

	if track := m.resolveOverride(entry, tracks, claimed); track != nil {
		result.Track = track
		result.Tier = TierHigh
		result.Score = math.Inf(1)
		m.logger.Debug("override resolved",
			logging.String("track_name", entry.TrackName),
			logging.String("path", track.Path))
		return result
	}

	var best *catalog.Track
	var bestScore float64
	for i := range tracks {
		track := &tracks[i]
		if _, taken := claimed[track.Path]; taken {
			continue
		}
		score := scoreCandidate(entry, track)
		if best == nil || score > bestScore {
			best = track
			bestScore = score
		}
	}
	if best == nil {
		return result
	}
	result.Score = bestScore

	switch {
	case bestScore >= acceptHigh:
		result.Track = best
		result.Tier = TierHigh
	case bestScore >= acceptMedium:
		if passesSecondaryCheck(entry, best) {
			result.Track = best
			result.Tier = TierMedium
		}
	}

	if result.Track != nil {
		m.logger.Debug("match accepted",
			logging.String("track_name", entry.TrackName),
			logging.String("path", result.Track.Path),
			logging.Float64("score", bestScore),
			logging.String("tier", result.Tier.String()))
	} else {
		m.logger.Debug("entry unmatched",
			logging.String("track_name", entry.TrackName),
			logging.Float64("best_score", bestScore))
	}
	return result
}

func (m *Matcher) resolveOverride(entry manifest.Entry, tracks []catalog.Track, claimed map[string]struct{}) *catalog.Track {
	if m.overrides == nil {
		return nil
	}
	filename, ok, err := m.overrides.Lookup(entry.TrackName)
	if err != nil {
		m.logger.Warn("override lookup failed", logging.Error(err))
		return nil
	}
	if !ok {
		return nil
	}
	for i := range tracks {
		track := &tracks[i]
		if track.Filename() != filename {
			continue
		}
		if _, taken := claimed[track.Path]; taken {
			return nil
		}
		return track
	}
	return nil
}

// scoreCandidate sums the weighted signals for one entry/track pair.
func scoreCandidate(entry manifest.Entry, track *catalog.Track) float64 {
	nameTokens := textutil.Tokens(entry.TrackName)
	hasMeta := track.HasMetadata()
	var score float64

	if hasMeta {
		ratio := textutil.Overlap(nameTokens, textutil.Tokens(track.Title))
		score += ratio * titleWeight
		if ratio > titleBonusRatio {
			score += titleBonus
		}
	}

	filenameRatio := textutil.Overlap(nameTokens, textutil.Tokens(track.Filename()))
	if hasMeta {
		score += filenameRatio * filenameWeightMeta
	} else {
		score += filenameRatio * filenameWeightNoMeta
	}

	if hasMeta && artistMatches(entry.Artists(), track.Artist, true) {
		score += artistBonus
	}

	if hasMeta && utf8.RuneCountInString(entry.AlbumName) >= minAlbumRunes {
		album := strings.ToLower(entry.AlbumName)
		trackAlbum := strings.ToLower(track.Album)
		if strings.Contains(album, trackAlbum) || strings.Contains(trackAlbum, album) {
			score += albumBonus
		}
	}

	normalizedName := textutil.Normalize(entry.TrackName)
	if utf8.RuneCountInString(normalizedName) >= minSubstringRunes &&
		strings.Contains(textutil.Normalize(track.Filename()), normalizedName) {
		if hasMeta {
			score += substringMeta
		} else {
			score += substringNoMeta
		}
	}

	return score
}

// passesSecondaryCheck gates medium-confidence acceptance: either the title
// token overlap clears the secondary threshold, or a manifest artist is a
// substring of the candidate's artist.
func passesSecondaryCheck(entry manifest.Entry, track *catalog.Track) bool {
	if textutil.OverlapStrings(entry.TrackName, track.Title) >= secondaryOverlap {
		return true
	}
	return artistMatches(entry.Artists(), track.Artist, false)
}

// artistMatches reports whether any candidate artist name (minimum length
// applied) matches the track artist. Bidirectional containment is used for
// scoring; the secondary check only tests candidate-inside-track.
func artistMatches(candidates []string, trackArtist string, bidirectional bool) bool {
	artist := strings.ToLower(trackArtist)
	for _, candidate := range candidates {
		if utf8.RuneCountInString(candidate) < minArtistRunes {
			continue
		}
		lower := strings.ToLower(candidate)
		if strings.Contains(artist, lower) {
			return true
		}
		if bidirectional && strings.Contains(lower, artist) {
			return true
		}
	}
	return false
}
