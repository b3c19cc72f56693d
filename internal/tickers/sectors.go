package tickers

import "strings"

// Sector is the coarse industry grouping offered to investors when they
// state which kind of company interests them.
type Sector string

const (
	SectorTechnology Sector = "Technology"
	SectorNews       Sector = "News"
	SectorFinance    Sector = "Finance"
	SectorFood       Sector = "Food and Hospitality"
)

// Sectors maps lowercase tickers to their sector. Tickers missing from the
// map belong to no offered sector.
type Sectors map[string]Sector

func (s Sectors) Of(ticker string) (Sector, bool) {
	sector, ok := s[strings.ToLower(strings.TrimSpace(ticker))]
	return sector, ok
}

// Members returns a predicate matching tickers in sector.
func (s Sectors) Members(sector Sector) func(ticker string) bool {
	return func(ticker string) bool {
		got, ok := s.Of(ticker)
		return ok && got == sector
	}
}

var knownSectors = Sectors{
	"aapl":  SectorTechnology,
	"msft":  SectorTechnology,
	"googl": SectorTechnology,
	"meta":  SectorTechnology,
	"nvda":  SectorTechnology,
	"intc":  SectorTechnology,
	"orcl":  SectorTechnology,
	"crm":   SectorTechnology,
	"adbe":  SectorTechnology,

	"dis":  SectorNews,
	"nflx": SectorNews,
	"t":    SectorNews,
	"vz":   SectorNews,

	"jpm": SectorFinance,
	"gs":  SectorFinance,
	"ma":  SectorFinance,

	"ko":   SectorFood,
	"pep":  SectorFood,
	"mcd":  SectorFood,
	"sbux": SectorFood,
	"luv":  SectorFood,
	"dal":  SectorFood,
}

// DefaultSectors returns the sectors of the built-in companies.
func DefaultSectors() Sectors {
	return knownSectors
}
