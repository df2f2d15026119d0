package expiry

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Policy decides how long synthesized test cards stay valid.
type Policy struct {
	Location     *time.Location
	ProductYears map[string]int
}

func DefaultPolicy() Policy {
	return Policy{
		Location:     time.UTC,
		ProductYears: map[string]int{"credit": 3, "debit": 5},
	}
}

func (p Policy) loc() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}

// YearsFor returns validity years for product unless override > 0.
func (p Policy) YearsFor(product string, override int) int {
	if override > 0 {
		return override
	}
	if y, ok := p.ProductYears[strings.ToLower(product)]; ok {
		return y
	}
	return 5
}

// YYMM returns the expiry for a card issued at issue and valid for years.
func (p Policy) YYMM(issue time.Time, years int) string {
	t := issue.In(p.loc())
	return fmt.Sprintf("%02d%02d", (t.Year()+years)%100, int(t.Month()))
}

// CardFace renders a YYMM expiry as MM/YY.
func CardFace(yymm string) (string, error) {
	if err := ValidateYYMM(yymm); err != nil {
		return "", err
	}
	return yymm[2:] + "/" + yymm[:2], nil
}

// ParseYYMMEndOfMonth returns the last instant of the YYMM month in loc.
func ParseYYMMEndOfMonth(yymm string, loc *time.Location) (time.Time, error) {
	if err := ValidateYYMM(yymm); err != nil {
		return time.Time{}, err
	}
	if loc == nil {
		loc = time.UTC
	}
	yy, _ := strconv.Atoi(yymm[:2])
	mm, _ := strconv.Atoi(yymm[2:])
	firstNext := time.Date(2000+yy, time.Month(mm), 1, 0, 0, 0, 0, loc).AddDate(0, 1, 0)
	return firstNext.Add(-time.Nanosecond), nil
}

// IsExpired reports whether at is strictly after the end of the YYMM month.
func (p Policy) IsExpired(yymm string, at time.Time) (bool, error) {
	end, err := ParseYYMMEndOfMonth(yymm, p.loc())
	if err != nil {
		return false, err
	}
	return at.In(end.Location()).After(end), nil
}

func ValidateYYMM(yymm string) error {
	if len(yymm) != 4 {
		return fmt.Errorf("expiry must be YYMM (4 digits)")
	}
	for i := 0; i < 4; i++ {
		if yymm[i] < '0' || yymm[i] > '9' {
			return fmt.Errorf("expiry must be digits: YYMM")
		}
	}
	mm := int(yymm[2]-'0')*10 + int(yymm[3]-'0')
	if mm < 1 || mm > 12 {
		return fmt.Errorf("expiry month must be 01..12")
	}
	return nil
}
