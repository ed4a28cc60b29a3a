package manifest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
)

// Entry is one manifest row. ArtistNames may hold several artists delimited
// by semicolons or commas.
type Entry struct {
	TrackName   string `csv:"Track Name"`
	ArtistNames string `csv:"Artist Name(s)"`
	AlbumName   string `csv:"Album Name"`
}

// Artists splits the artist field into trimmed candidate names.
func (e Entry) Artists() []string {
	split := strings.FieldsFunc(e.ArtistNames, func(r rune) bool {
		return r == ';' || r == ','
	})
	out := make([]string, 0, len(split))
	for _, name := range split {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// LoadResult carries decoded entries plus the number of rows skipped for
// having no track name.
type LoadResult struct {
	Entries []Entry
	Skipped int
}

// Load reads a manifest CSV file.
func Load(path string) (LoadResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return LoadResult{}, fmt.Errorf("open manifest: %w", err)
	}
	defer file.Close()
	return Decode(file)
}

// Decode reads manifest rows from r. The header row is required; its absence
// (or absence of the required columns) is a load error. Individual rows are
// best-effort.
func Decode(r io.Reader) (LoadResult, error) {
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		reader := csv.NewReader(in)
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1
		reader.TrimLeadingSpace = true
		return reader
	})

	var rows []Entry
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return LoadResult{}, fmt.Errorf("decode manifest: %w", err)
	}

	result := LoadResult{Entries: make([]Entry, 0, len(rows))}
	for _, row := range rows {
		row.TrackName = strings.TrimSpace(row.TrackName)
		row.ArtistNames = strings.TrimSpace(row.ArtistNames)
		row.AlbumName = strings.TrimSpace(row.AlbumName)
		if row.TrackName == "" {
			result.Skipped++
			continue
		}
		result.Entries = append(result.Entries, row)
	}
	return result, nil
}
