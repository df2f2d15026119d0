package cardgen

// CheckDigit returns the Luhn check digit for body, the digits that precede
// it. body must contain digits only.
func CheckDigit(body string) int {
	sum, dbl := 0, true
	for i := len(body) - 1; i >= 0; i-- {
		d := int(body[i] - '0')
		if dbl {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		dbl = !dbl
	}
	if r := sum % 10; r != 0 {
		return 10 - r
	}
	return 0
}

// IsValid reports whether digits passes the Luhn check. Non-digit characters
// are ignored, so an input without digits is valid; callers that need a
// real card number should use ValidatePAN.
func IsValid(digits string) bool {
	s := DigitsOnly(digits)
	sum := 0
	for i := 0; i < len(s); i++ {
		d := int(s[len(s)-1-i] - '0')
		if i%2 == 1 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
	}
	return sum%10 == 0
}

func checkDigitChar(body string) byte {
	return '0' + byte(CheckDigit(body))
}
