package tickers

// Longer names come before their shorter aliases so fuzzy matches prefer the
// more specific entry.
var knownCompanies = []Entry{
	{"apple", "aapl"},
	{"microsoft", "msft"},
	{"alphabet", "googl"},
	{"google", "googl"},
	{"amazon", "amzn"},
	{"meta platforms", "meta"},
	{"facebook", "meta"},
	{"tesla", "tsla"},
	{"nvidia", "nvda"},
	{"walt disney", "dis"},
	{"disney", "dis"},
	{"coca cola", "ko"},
	{"coca-cola", "ko"},
	{"pepsico", "pep"},
	{"pepsi", "pep"},
	{"southwest airlines", "luv"},
	{"southwest", "luv"},
	{"delta air lines", "dal"},
	{"albemarle", "alb"},
	{"exxon mobil", "xom"},
	{"exxonmobil", "xom"},
	{"chevron", "cvx"},
	{"johnson & johnson", "jnj"},
	{"johnson and johnson", "jnj"},
	{"procter & gamble", "pg"},
	{"procter and gamble", "pg"},
	{"walmart", "wmt"},
	{"nike", "nke"},
	{"starbucks", "sbux"},
	{"mcdonald's", "mcd"},
	{"mcdonalds", "mcd"},
	{"intel", "intc"},
	{"netflix", "nflx"},
	{"jpmorgan chase", "jpm"},
	{"jpmorgan", "jpm"},
	{"goldman sachs", "gs"},
	{"mastercard", "ma"},
	{"boeing", "ba"},
	{"general motors", "gm"},
	{"general electric", "ge"},
	{"ford motor", "f"},
	{"verizon", "vz"},
	{"at&t", "t"},
	{"oracle", "orcl"},
	{"salesforce", "crm"},
	{"adobe", "adbe"},
	{"pfizer", "pfe"},
	{"home depot", "hd"},
	{"costco", "cost"},
	{"3m", "mmm"},
}

var defaultDirectory = New(knownCompanies)

// Default returns the built-in directory of well-known companies.
func Default() *Directory {
	return defaultDirectory
}
