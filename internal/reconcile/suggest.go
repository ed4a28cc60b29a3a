package reconcile

import (
	"sort"

	"github.com/hbollon/go-edlib"

	"cadence/internal/catalog"
	"cadence/internal/manifest"
	"cadence/internal/textutil"
)

// Suggestion pairs a catalog track with its similarity to an unmatched
// manifest entry. Suggestions help users author overrides.
type Suggestion struct {
	Track      catalog.Track
	Similarity float32
}

const defaultMinSimilarity = 0.6

// Suggest ranks catalog tracks by Jaro-Winkler similarity against the
// entry's normalized track name. Jaro-Winkler weights matching prefixes
// heavily, which suits track titles where the leading words are usually
// right even when suffixes (remix/version markers) differ. Results below the
// similarity floor are dropped; the top n survive, best first.
func Suggest(entry manifest.Entry, tracks []catalog.Track, n int) []Suggestion {
	query := textutil.Normalize(entry.TrackName)
	if query == "" || n <= 0 {
		return nil
	}

	var out []Suggestion
	for _, track := range tracks {
		candidate := textutil.Normalize(track.DisplayTitle())
		if candidate == "" {
			continue
		}
		similarity := edlib.JaroWinklerSimilarity(query, candidate)
		if similarity < defaultMinSimilarity {
			continue
		}
		out = append(out, Suggestion{Track: track, Similarity: similarity})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Similarity > out[j].Similarity
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
