package models

import "time"

// Card is one synthesized test card. Number is empty when the card was
// loaded from the Postgres store, which keeps only the masked form.
type Card struct {
	ID         string `json:"id"`
	BatchID    string `json:"batch_id"`
	Brand      string `json:"brand,omitempty"`
	Number     string `json:"number,omitempty"`
	Masked     string `json:"masked"`
	ExpiryYYMM string `json:"expiry_yymm"`
	CardFace   string `json:"card_face"`
}

type Batch struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Cards     []*Card   `json:"cards"`
}

// Validation is the result of checking a caller-supplied number.
type Validation struct {
	Digits string `json:"-"`
	Masked string `json:"masked"`
	// Luhn is the plain checksum result; an input without digits passes.
	Luhn bool `json:"luhn"`
	// Valid additionally requires 13..19 digits and no stray characters.
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
	Brand  string `json:"brand,omitempty"`
}
