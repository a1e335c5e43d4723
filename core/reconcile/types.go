package reconcile

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Field identifies which converter input the user changed most recently.
type Field int

const (
	// FieldNone means no field has been edited yet in this process.
	FieldNone Field = iota
	// FieldRate is the conversion rate (amount B per unit of amount A).
	FieldRate
	// FieldAmountA is the source amount (RMB).
	FieldAmountA
	// FieldAmountB is the derived amount (RUB).
	FieldAmountB
)

var fieldNames = map[Field]string{
	FieldNone:    "none",
	FieldRate:    "rate",
	FieldAmountA: "amount_a",
	FieldAmountB: "amount_b",
}

// String returns the wire name of the field.
func (f Field) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	return fmt.Sprintf("field(%d)", int(f))
}

// ParseField converts a wire name ("rate", "amount_a", ...) into a Field.
func ParseField(s string) (Field, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for f, name := range fieldNames {
		if name == needle {
			return f, nil
		}
	}
	return FieldNone, fmt.Errorf("unknown field %q", s)
}

// Inputs holds the raw values of the three linked fields.
// A nil pointer means the field is empty.
type Inputs struct {
	// Rate is the conversion rate.
	Rate *float64 `json:"rate" validate:"omitnil,finite,gt=0,lte=1000"`

	// AmountA is the amount in the source currency.
	AmountA *float64 `json:"amount_a" validate:"omitnil,finite,gt=0,lte=1000000"`

	// AmountB is the amount in the target currency.
	AmountB *float64 `json:"amount_b" validate:"omitnil,finite,gt=0,lte=1000000"`
}

// Triple is a consistent set of converter values.
// Once published, AmountB == AmountA * Rate within Tolerance.
type Triple struct {
	Rate    float64 `json:"rate"`
	AmountA float64 `json:"amount_a"`
	AmountB float64 `json:"amount_b"`
}

// Tolerance is the relative error accepted between AmountB and AmountA * Rate.
const Tolerance = 1e-9

// Valid reports whether all values are finite and strictly positive.
func (t Triple) Valid() bool {
	return isPositive(t.Rate) && isPositive(t.AmountA) && isPositive(t.AmountB)
}

// Consistent reports whether AmountB matches AmountA * Rate within Tolerance.
func (t Triple) Consistent() bool {
	want := t.AmountA * t.Rate
	return math.Abs(t.AmountB-want) <= Tolerance*math.Max(1, math.Abs(want))
}

// Inputs returns the triple as a fully populated Inputs value.
// The session uses it to write derived values back into its fields.
func (t Triple) Inputs() Inputs {
	rate, a, b := t.Rate, t.AmountA, t.AmountB
	return Inputs{Rate: &rate, AmountA: &a, AmountB: &b}
}

// ErrInsufficientData means the inputs do not determine a triple yet.
var ErrInsufficientData = errors.New("insufficient data to reconcile amounts")

// Limits enforced by Validate.
const (
	MaxRate   = 1000.0
	MaxAmount = 1_000_000.0
)

// ValidationError collects every violated bound of a single input set.
type ValidationError struct {
	// Problems holds one human-readable message per offending field.
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid input: " + strings.Join(e.Problems, "; ")
}

func isPositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
