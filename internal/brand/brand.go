// Package brand describes synthetic card brands by their allowed leading
// digits and the total number length.
package brand

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alovak/cardsynth/internal/cardgen"
)

var ErrUnknownBrand = errors.New("unknown brand")

type Brand struct {
	Name     string   `json:"name"`
	Prefixes []string `json:"prefixes"`
	Length   int      `json:"length"`
}

var (
	Visa       = Brand{Name: "visa", Prefixes: []string{"4"}, Length: 16}
	Mastercard = Brand{Name: "mastercard", Prefixes: []string{"51", "52", "53", "54", "55"}, Length: 16}
)

// Builtin returns the brands known to Lookup and Detect.
func Builtin() []Brand {
	return []Brand{Visa, Mastercard}
}

// Lookup finds a built-in brand by name, ignoring case.
func Lookup(name string) (Brand, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, b := range Builtin() {
		if b.Name == n {
			return b, nil
		}
	}
	return Brand{}, fmt.Errorf("%w: %q", ErrUnknownBrand, name)
}

// Detect returns the built-in brand with the longest prefix matching the
// digits of number.
func Detect(number string) (Brand, bool) {
	digits := cardgen.DigitsOnly(number)
	var (
		best    Brand
		bestLen int
	)
	for _, b := range Builtin() {
		for _, p := range b.Prefixes {
			if len(p) > bestLen && strings.HasPrefix(digits, p) {
				best, bestLen = b, len(p)
			}
		}
	}
	return best, bestLen > 0
}

// Synthesize draws a number for b from src. A length of zero uses the
// brand's own length.
func (b Brand) Synthesize(src cardgen.Source, length int) (string, error) {
	if length == 0 {
		length = b.Length
	}
	return cardgen.Synthesize(src, b.Prefixes, length)
}

// Rotation cycles through a list of brands. It is a plain value owned by
// the caller: Next returns the advanced rotation rather than mutating it.
type Rotation struct {
	turn int
}

// Next returns the brand for the current turn and the rotation for the
// following one.
func (r Rotation) Next(brands []Brand) (Brand, Rotation, error) {
	if len(brands) == 0 {
		return Brand{}, r, fmt.Errorf("%w: no brands to rotate", cardgen.ErrInvalidArgument)
	}
	b := brands[r.turn%len(brands)]
	return b, Rotation{turn: (r.turn + 1) % len(brands)}, nil
}
