package payload

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"payqr/core/reconcile"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Fixed record tags.
const (
	FastPaymentTag  = "ST00012"
	BankTransferTag = "BT01"
)

// ErrInvalidTriple is returned when the triple has a non-positive or
// non-finite value. The renderer must never see such a payload.
var ErrInvalidTriple = errors.New("cannot encode invalid amount triple")

var printer = message.NewPrinter(language.English)

// Encode builds the QR payload text for the given format.
func Encode(t reconcile.Triple, p Profile, purpose string, f Format) (string, error) {
	if !t.Valid() {
		return "", ErrInvalidTriple
	}

	minor := MinorUnits(t.AmountB)
	sum := strconv.FormatInt(minor, 10)

	switch f {
	case FormatFastPayment:
		fields := []string{
			FastPaymentTag,
			"Name=" + Sanitize(p.Name),
			"PersonalAcc=" + Sanitize(p.PersonalAcc),
			"BankName=" + Sanitize(p.BankName),
			"BIC=" + Sanitize(p.BIC),
			"CorrespAcc=" + Sanitize(p.CorrespAcc),
			"PayeeINN=" + Sanitize(p.PayeeINN),
			"Sum=" + sum,
			"Purpose=" + Sanitize(purpose),
		}
		return strings.Join(fields, "|"), nil

	case FormatBankTransfer:
		fields := []string{
			BankTransferTag,
			Sanitize(p.PayeeINN),
			Sanitize(p.PersonalAcc),
			Sanitize(p.BIC),
			Sanitize(p.CorrespAcc),
			sum,
			Sanitize(purpose),
			Sanitize(p.Name),
		}
		return strings.Join(fields, "|"), nil

	case FormatPlainText:
		return fmt.Sprintf("Payment %s RUB. Purpose: %s. Payee: %s, INN %s, account %s.",
			WholeUnits(minor), Sanitize(purpose), Sanitize(p.Name),
			Sanitize(p.PayeeINN), Sanitize(p.PersonalAcc)), nil

	default:
		return "", fmt.Errorf("unsupported payload format %s", f)
	}
}

// MinorUnits converts an amount to integer minor units (kopecks), truncating
// fractions of a minor unit. Binary float noise below 1e-6 is rounded away
// first, so 11649.999999999998 yields 1165000 rather than 1164999.
func MinorUnits(amount float64) int64 {
	return decimal.NewFromFloat(amount).Round(6).Shift(2).Truncate(0).IntPart()
}

// FormatWhole formats an amount with thousands separators and no decimals.
func FormatWhole(amount float64) string {
	return printer.Sprintf("%.0f", amount)
}

// Sanitize prepares free text for a pipe-delimited record: it drops '|' and
// '\', turns each run of CR/LF into a single space and trims the result.
func Sanitize(s string) string {
	s = strings.Map(func(r rune) rune {
		if r == '|' || r == '\\' {
			return -1
		}
		return r
	}, s)

	var b strings.Builder
	b.Grow(len(s))
	inBreak := false
	for _, r := range s {
		if r == '\n' || r == '\r' {
			if !inBreak {
				b.WriteByte(' ')
			}
			inBreak = true
			continue
		}
		inBreak = false
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
