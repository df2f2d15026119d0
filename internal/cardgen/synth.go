package cardgen

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidArgument = errors.New("invalid argument")

// Synthesize builds a card number of exactly length digits: a prefix drawn
// uniformly from prefixes, random filler digits, and a Luhn check digit.
// Prefixes too long to leave room for a filler and a check digit are never
// drawn; if none fits, ErrInvalidArgument is returned.
func Synthesize(src Source, prefixes []string, length int) (string, error) {
	if src == nil {
		return "", fmt.Errorf("%w: nil source", ErrInvalidArgument)
	}
	if len(prefixes) == 0 {
		return "", fmt.Errorf("%w: empty prefix set", ErrInvalidArgument)
	}

	fitting := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		if p == "" || !IsDigits(p) {
			return "", fmt.Errorf("%w: prefix %q must be non-empty digits", ErrInvalidArgument, p)
		}
		if length > len(p)+1 {
			fitting = append(fitting, p)
		}
	}
	if len(fitting) == 0 {
		return "", fmt.Errorf("%w: length %d leaves no room after any prefix", ErrInvalidArgument, length)
	}

	prefix := fitting[src.Intn(len(fitting))]

	var sb strings.Builder
	sb.Grow(length)
	sb.WriteString(prefix)
	for sb.Len() < length-1 {
		sb.WriteByte('0' + byte(src.Intn(10)))
	}
	body := sb.String()
	return body + string(checkDigitChar(body)), nil
}

// GenerateUnique retries Synthesize until exists reports an unused number.
// A nil exists accepts the first number.
func GenerateUnique(
	src Source, prefixes []string, length, maxRetries int,
	exists func(string) (bool, error),
) (string, error) {
	if maxRetries <= 0 {
		maxRetries = 5
	}
	for i := 0; i <= maxRetries; i++ {
		pan, err := Synthesize(src, prefixes, length)
		if err != nil {
			return "", err
		}
		if exists == nil {
			return pan, nil
		}
		used, err := exists(pan)
		if err != nil {
			return "", fmt.Errorf("exists callback: %w", err)
		}
		if !used {
			return pan, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique number after %d retries", maxRetries)
}
