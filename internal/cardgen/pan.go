package cardgen

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidPAN = errors.New("invalid pan")

// ValidatePAN 校验 PAN 长度（13–19）、全数字与 Luhn 校验位。
func ValidatePAN(pan string) error {
	if pan == "" {
		return fmt.Errorf("%w: pan is required", ErrInvalidPAN)
	}
	if !IsDigits(pan) {
		return fmt.Errorf("%w: pan must contain digits only", ErrInvalidPAN)
	}
	if l := len(pan); l < 13 || l > 19 {
		return fmt.Errorf("%w: pan length must be 13..19 digits (got %d)", ErrInvalidPAN, l)
	}
	body := pan[:len(pan)-1]
	if pan[len(pan)-1] != checkDigitChar(body) {
		return fmt.Errorf("%w: invalid luhn check digit", ErrInvalidPAN)
	}
	return nil
}

func IsDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// DigitsOnly 去除所有非数字字符。
func DigitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// NormalizePAN 去除空格/横线/制表；其它字符保留，交给 ValidatePAN 拒绝。
func NormalizePAN(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '-':
			return -1
		default:
			return r
		}
	}, s)
}

// LastN / MaskPAN 供 testcards 存储与展示复用
func LastN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

// MaskPAN 保留前 6 位与后 4 位，其余遮蔽。
func MaskPAN(pan string) string {
	cleaned := NormalizePAN(pan)
	n := len(cleaned)
	if n == 0 {
		return ""
	}
	if n <= 4 {
		return strings.Repeat("*", n)
	}
	if n < 10 {
		return strings.Repeat("*", n-4) + cleaned[n-4:]
	}
	return cleaned[:6] + strings.Repeat("*", n-10) + cleaned[n-4:]
}
