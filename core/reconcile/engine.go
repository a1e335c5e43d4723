package reconcile

import "errors"

// Reconcile derives a consistent triple from the inputs, using edited as the
// tie-break. It never returns a numeric error: zero divisors and missing values
// both yield ErrInsufficientData.
func Reconcile(edited Field, in Inputs) (Triple, error) {
	rate, hasRate := present(in.Rate)
	a, hasA := present(in.AmountA)
	b, hasB := present(in.AmountB)

	var t Triple
	switch edited {
	case FieldRate:
		if !hasRate {
			return Triple{}, ErrInsufficientData
		}
		switch {
		case hasA:
			t = Triple{Rate: rate, AmountA: a, AmountB: a * rate}
		case hasB:
			t = Triple{Rate: rate, AmountA: b / rate, AmountB: b}
		default:
			return Triple{}, ErrInsufficientData
		}

	case FieldAmountA:
		if !hasA {
			return Triple{}, ErrInsufficientData
		}
		switch {
		case hasRate:
			t = Triple{Rate: rate, AmountA: a, AmountB: a * rate}
		case hasB:
			t = Triple{Rate: b / a, AmountA: a, AmountB: b}
		default:
			return Triple{}, ErrInsufficientData
		}

	case FieldAmountB:
		if !hasB {
			return Triple{}, ErrInsufficientData
		}
		switch {
		case hasRate:
			t = Triple{Rate: rate, AmountA: b / rate, AmountB: b}
		case hasA:
			t = Triple{Rate: b / a, AmountA: a, AmountB: b}
		default:
			return Triple{}, ErrInsufficientData
		}

	default:
		// Nothing edited yet: only rate and amount A can seed the triple.
		if !hasRate || !hasA {
			return Triple{}, ErrInsufficientData
		}
		t = Triple{Rate: rate, AmountA: a, AmountB: a * rate}
	}

	// Overflow or underflow in the derivation
	if !t.Valid() {
		return Triple{}, ErrInsufficientData
	}
	return t, nil
}

// Resolve validates the inputs, reconciles them and checks the derived values
// against the same bounds. It returns a *ValidationError for bad input or an
// out-of-range derived value, and ErrInsufficientData when the inputs are
// valid but incomplete.
func Resolve(edited Field, in Inputs) (Triple, error) {
	if err := Validate(in); err != nil {
		return Triple{}, err
	}
	t, err := Reconcile(edited, in)
	if err != nil {
		return Triple{}, err
	}
	t = snapToLimits(t)
	if err := Validate(t.Inputs()); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			for i, p := range verr.Problems {
				verr.Problems[i] = "derived " + p
			}
		}
		return Triple{}, err
	}
	return t, nil
}

// present returns the value when it is set, finite and strictly positive.
func present(v *float64) (float64, bool) {
	if v == nil || !isPositive(*v) {
		return 0, false
	}
	return *v, true
}

// snapToLimits pulls derived values that overshoot a limit by no more than
// Tolerance back onto it, so division noise alone never fails validation and
// the written-back inputs stay within bounds.
func snapToLimits(t Triple) Triple {
	snap := func(v, limit float64) float64 {
		if v > limit && v <= limit*(1+Tolerance) {
			return limit
		}
		return v
	}
	return Triple{
		Rate:    snap(t.Rate, MaxRate),
		AmountA: snap(t.AmountA, MaxAmount),
		AmountB: snap(t.AmountB, MaxAmount),
	}
}
