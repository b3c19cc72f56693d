// Package tickers resolves free-text company names to ticker symbols.
package tickers

import "strings"

// Entry maps a normalized company name, or one of its aliases, to a ticker.
type Entry struct {
	Name   string
	Ticker string
}

// Directory is a read-only name to ticker table. Fuzzy matching walks the
// entries in the order they were given, so that order decides which ticker
// wins when several names overlap.
type Directory struct {
	entries []Entry
	exact   map[string]string
}

// New builds a directory from entries. Names are normalized; when a name
// appears twice the first entry wins.
func New(entries []Entry) *Directory {
	d := &Directory{
		entries: make([]Entry, 0, len(entries)),
		exact:   make(map[string]string, len(entries)),
	}

	for _, e := range entries {
		name := Normalize(e.Name)
		if name == "" {
			continue
		}
		if _, seen := d.exact[name]; seen {
			continue
		}

		ticker := strings.ToLower(strings.TrimSpace(e.Ticker))
		d.exact[name] = ticker
		d.entries = append(d.entries, Entry{Name: name, Ticker: ticker})
	}

	return d
}

// Normalize lowercases and trims a company name.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (d *Directory) ResolveExact(name string) (string, bool) {
	ticker, ok := d.exact[Normalize(name)]
	return ticker, ok
}

// ResolveFuzzy returns the ticker of the first entry whose name contains the
// query or is contained in it.
func (d *Directory) ResolveFuzzy(name string) (string, bool) {
	query := Normalize(name)
	if query == "" {
		return "", false
	}

	for _, e := range d.entries {
		if strings.Contains(e.Name, query) || strings.Contains(query, e.Name) {
			return e.Ticker, true
		}
	}

	return "", false
}

// Resolve tries an exact lookup first and falls back to fuzzy matching.
// suggested is true when the ticker came from the fuzzy match.
func (d *Directory) Resolve(name string) (ticker string, suggested bool, ok bool) {
	if ticker, ok := d.ResolveExact(name); ok {
		return ticker, false, true
	}

	if ticker, ok := d.ResolveFuzzy(name); ok {
		return ticker, true, true
	}

	return "", false, false
}

// Len returns the number of distinct names in the directory.
func (d *Directory) Len() int {
	return len(d.entries)
}
