package acquire

import (
	"context"
	"fmt"

	"cadence/internal/catalog"
	"cadence/internal/playlist"
)

// MergeAndLink merges newly acquired tracks into the catalog and creates the
// corresponding playlist as one transition. The playlist only ever references
// tracks already merged, so no intermediate state is observable. Paths the
// catalog already holds keep their existing records. created tags the
// playlist's provenance.
func MergeAndLink(ctx context.Context, cat *catalog.Catalog, playlists *playlist.Store, name, created string, tracks []catalog.Track) (int, error) {
	merged := cat.Merge(tracks)

	p := &playlist.Playlist{Name: name, Created: created}
	for _, track := range tracks {
		existing, ok := cat.Get(track.Path)
		if !ok {
			continue
		}
		p.Songs = append(p.Songs, existing)
	}
	if err := playlists.Adopt(ctx, p); err != nil {
		return merged, fmt.Errorf("link playlist %q: %w", name, err)
	}
	return merged, nil
}
