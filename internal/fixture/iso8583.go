// Package fixture packs synthesized test cards into ISO 8583 authorization
// requests that sandbox issuer tests can replay.
package fixture

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alovak/cardsynth/internal/cardgen"
	"github.com/alovak/cardsynth/internal/expiry"
	"github.com/moov-io/iso8583"
	"github.com/moov-io/iso8583/encoding"
	"github.com/moov-io/iso8583/field"
	"github.com/moov-io/iso8583/prefix"
)

const (
	mtiAuthorizationRequest = "0100"
	processingPurchase      = "000000"
)

// authSpec is Spec87 with the processing code carried as a fixed string:
// Spec87 declares it numeric without padding, which drops leading zeros.
var authSpec = func() *iso8583.MessageSpec {
	fields := make(map[int]field.Field, len(iso8583.Spec87.Fields))
	for id, f := range iso8583.Spec87.Fields {
		fields[id] = f
	}
	fields[3] = field.NewString(&field.Spec{
		Length:      6,
		Description: "Processing Code",
		Enc:         encoding.ASCII,
		Pref:        prefix.ASCII.Fixed,
	})
	return &iso8583.MessageSpec{
		Name:   iso8583.Spec87.Name,
		Fields: fields,
	}
}()

// ISO 4217 numeric codes for the currencies fixtures are built for.
var currencyCodes = map[string]string{
	"USD": "840",
	"EUR": "978",
	"GBP": "826",
	"JPY": "392",
}

type Authorization struct {
	MTI            string
	PAN            string
	ProcessingCode string
	Amount         int64
	STAN           int
	ExpiryYYMM     string
	CurrencyCode   string
}

// AuthorizationRequest packs a 0100 message for pan using ISO 8583:1987.
func AuthorizationRequest(pan, expiryYYMM string, amount int64, currency string, stan int) ([]byte, error) {
	if err := cardgen.ValidatePAN(pan); err != nil {
		return nil, err
	}
	if err := expiry.ValidateYYMM(expiryYYMM); err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}
	if stan < 0 || stan > 999999 {
		return nil, fmt.Errorf("stan must be 0..999999")
	}
	code, ok := currencyCodes[strings.ToUpper(currency)]
	if !ok {
		return nil, fmt.Errorf("unsupported currency %q", currency)
	}

	message := iso8583.NewMessage(authSpec)
	message.MTI(mtiAuthorizationRequest)

	fields := map[int]string{
		2:  pan,
		3:  processingPurchase,
		4:  fmt.Sprintf("%012d", amount),
		11: fmt.Sprintf("%06d", stan),
		14: expiryYYMM,
		49: code,
	}
	for id, v := range fields {
		if err := message.Field(id, v); err != nil {
			return nil, fmt.Errorf("setting field %d: %w", id, err)
		}
	}

	packed, err := message.Pack()
	if err != nil {
		return nil, fmt.Errorf("packing message: %w", err)
	}
	return packed, nil
}

// Decode unpacks a message produced by AuthorizationRequest.
func Decode(raw []byte) (Authorization, error) {
	message := iso8583.NewMessage(authSpec)
	if err := message.Unpack(raw); err != nil {
		return Authorization{}, fmt.Errorf("unpacking message: %w", err)
	}

	var (
		auth Authorization
		err  error
	)
	if auth.MTI, err = message.GetMTI(); err != nil {
		return Authorization{}, fmt.Errorf("reading mti: %w", err)
	}
	if auth.PAN, err = message.GetString(2); err != nil {
		return Authorization{}, fmt.Errorf("reading field 2: %w", err)
	}

	numeric := func(id int) (int64, error) {
		s, err := message.GetString(id)
		if err != nil {
			return 0, fmt.Errorf("reading field %d: %w", id, err)
		}
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("field %d: %w", id, err)
		}
		return n, nil
	}

	if auth.ProcessingCode, err = message.GetString(3); err != nil {
		return Authorization{}, fmt.Errorf("reading field 3: %w", err)
	}
	if auth.Amount, err = numeric(4); err != nil {
		return Authorization{}, err
	}
	stan, err := numeric(11)
	if err != nil {
		return Authorization{}, err
	}
	auth.STAN = int(stan)
	exp, err := numeric(14)
	if err != nil {
		return Authorization{}, err
	}
	auth.ExpiryYYMM = fmt.Sprintf("%04d", exp)
	currency, err := numeric(49)
	if err != nil {
		return Authorization{}, err
	}
	auth.CurrencyCode = fmt.Sprintf("%03d", currency)
	return auth, nil
}
