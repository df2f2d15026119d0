package testcards

// Config is a configuration for the test card service
type Config struct {
	HTTPAddr string
	// DefaultBrand is used when a request names no brand or prefixes.
	DefaultBrand string
	// Length is the default total card number length.
	Length int
	// MaxBatch caps the number of cards one request may generate.
	MaxBatch int
	// ExpiryTZ is an IANA timezone name for expiry computations (e.g., "Europe/Berlin").
	ExpiryTZ string
	// ProductYears maps card product to validity years (e.g., credit=3, debit=5).
	ProductYears map[string]int
	// CardProduct is the product assumed when a request names none.
	CardProduct string
	// RepoBackend is "mem" or "pg".
	RepoBackend string
	DBDSN       string
	// PANHashKey peppers the HMAC used as the Postgres uniqueness key.
	PANHashKey string
}

func DefaultConfig() *Config {
	return &Config{
		HTTPAddr:     "localhost:9090",
		DefaultBrand: "visa",
		Length:       16,
		MaxBatch:     100,
		ProductYears: map[string]int{"credit": 3, "debit": 5},
		CardProduct:  "debit",
		RepoBackend:  "mem",
		PANHashKey:   "dev-secret-pepper",
	}
}
