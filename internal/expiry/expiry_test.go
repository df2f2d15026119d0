package expiry

import (
	"testing"
	"time"
)

func TestYYMM_Rollover(t *testing.T) {
	p := DefaultPolicy()
	issue := time.Date(2029, time.December, 15, 0, 0, 0, 0, time.UTC)
	if got := p.YYMM(issue, 1); got != "3012" {
		t.Fatalf("YYMM got %s want %s", got, "3012")
	}
	face, err := CardFace("3012")
	if err != nil || face != "12/30" {
		t.Fatalf("CardFace got %s err=%v", face, err)
	}
}

func TestYYMM_Location(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	p := Policy{Location: loc}
	// 2029-12-31 20:00 UTC is already January in UTC+10
	issue := time.Date(2029, time.December, 31, 20, 0, 0, 0, time.UTC)
	if got := p.YYMM(issue, 3); got != "3301" {
		t.Fatalf("YYMM got %s want %s", got, "3301")
	}
}

func TestParseYYMMEndOfMonth(t *testing.T) {
	ts, err := ParseYYMMEndOfMonth("3002", time.UTC)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	want := time.Date(2030, time.February, 28, 23, 59, 59, 999999999, time.UTC)
	if !ts.Equal(want) {
		t.Fatalf("got %v want %v", ts, want)
	}
}

func TestValidateYYMM(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"3002", true}, {"9912", true}, {"0001", true},
		{"123", false}, {"12a4", false}, {"3013", false}, {"0000", false},
	}
	for _, c := range cases {
		err := ValidateYYMM(c.in)
		if (err == nil) != c.ok {
			t.Fatalf("ValidateYYMM(%s) ok=%v got err=%v", c.in, c.ok, err)
		}
	}
	if _, err := CardFace("3013"); err == nil {
		t.Fatalf("expected error for CardFace(3013)")
	}
}

func TestIsExpired(t *testing.T) {
	p := DefaultPolicy()
	end, _ := ParseYYMMEndOfMonth("3002", time.UTC)
	if expired, err := p.IsExpired("3002", end); err != nil || expired {
		t.Fatalf("expected not expired at end, got expired=%v err=%v", expired, err)
	}
	if expired, err := p.IsExpired("3002", end.Add(time.Nanosecond)); err != nil || !expired {
		t.Fatalf("expected expired after end, got expired=%v err=%v", expired, err)
	}
}

func TestYearsFor(t *testing.T) {
	p := DefaultPolicy()
	if got := p.YearsFor("Credit", 0); got != 3 {
		t.Fatalf("credit years got %d want %d", got, 3)
	}
	if got := p.YearsFor("debit", 0); got != 5 {
		t.Fatalf("debit years got %d want %d", got, 5)
	}
	if got := p.YearsFor("prepaid", 0); got != 5 {
		t.Fatalf("fallback years got %d want %d", got, 5)
	}
	if got := p.YearsFor("anything", 7); got != 7 {
		t.Fatalf("override years got %d want %d", got, 7)
	}
}
