package models

type GenerateRequest struct {
	// Brand names one built-in brand. Ignored when Prefixes or Brands is set.
	Brand string `json:"brand,omitempty"`
	// Brands are alternated card by card across the batch.
	Brands []string `json:"brands,omitempty"`
	// Prefixes is an explicit prefix set used instead of a brand.
	Prefixes []string `json:"prefixes,omitempty"`
	Length   int      `json:"length,omitempty"`
	Count    int      `json:"count,omitempty"`
	Product  string   `json:"product,omitempty"`
	Years    int      `json:"years,omitempty"`
}

type FixtureRequest struct {
	Brand    string `json:"brand,omitempty"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency,omitempty"`
	STAN     int    `json:"stan"`
}

type Fixture struct {
	Card    *Card  `json:"card"`
	Message string `json:"message_hex"`
}
