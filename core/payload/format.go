package payload

import (
	"fmt"
	"strings"
)

// Format selects the payload variant encoded into the QR code.
type Format int

const (
	// FormatFastPayment is the labelled ST00012 record read by banking apps.
	FormatFastPayment Format = iota
	// FormatBankTransfer is a positional record without field labels.
	FormatBankTransfer
	// FormatPlainText is a human-readable fallback.
	FormatPlainText
)

// formatOrder is the round-robin order used by Next.
var formatOrder = []Format{FormatFastPayment, FormatBankTransfer, FormatPlainText}

// String returns the wire name of the format.
func (f Format) String() string {
	switch f {
	case FormatFastPayment:
		return "fast_payment"
	case FormatBankTransfer:
		return "bank_transfer"
	case FormatPlainText:
		return "plain_text"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// Next returns the format following f in the cycle.
// Unknown formats restart the cycle.
func (f Format) Next() Format {
	for i, candidate := range formatOrder {
		if candidate == f {
			return formatOrder[(i+1)%len(formatOrder)]
		}
	}
	return formatOrder[0]
}

// ParseFormat converts a wire name into a Format.
func ParseFormat(s string) (Format, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for _, f := range formatOrder {
		if f.String() == needle {
			return f, nil
		}
	}
	return FormatFastPayment, fmt.Errorf("unknown payload format %q", s)
}
