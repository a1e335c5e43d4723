// Package reconcile resolves the three linked converter fields (rate, amount A,
// amount B) into one consistent triple.
//
// A user can type into any of the three fields. Whichever field was touched last
// is the authority: the engine keeps it, picks the best remaining field as the
// second source, and derives the third.
//
// # State Machine
//
// The edited field is an explicit input, never inferred from shared state:
//
//   - FieldNone: rate and amount A are required, amount B = A * rate.
//   - FieldRate: rate is required. A wins over B as the second source.
//   - FieldAmountA: amount A is required. Rate wins over B.
//   - FieldAmountB: amount B is required. Rate wins over A.
//
// When no consistent triple can be built, Reconcile returns ErrInsufficientData.
// Callers clear their display in that case; it is not a failure.
//
// # Validation
//
// Validate checks raw user input before reconciliation: every present value must
// be finite and positive, the rate must not exceed MaxRate and each amount must
// not exceed MaxAmount. All violations are reported together in one
// *ValidationError.
//
// Resolve applies the same bounds to the derived triple, so a value the user
// never typed (a rate of 5000 from amounts 1 and 5000) is rejected before it
// can be written back into the inputs.
//
// # Usage Example
//
//	rate, amountA := 11.65, 1000.0
//	triple, err := reconcile.Resolve(reconcile.FieldNone, reconcile.Inputs{
//	    Rate:    &rate,
//	    AmountA: &amountA,
//	})
//	if errors.Is(err, reconcile.ErrInsufficientData) {
//	    // nothing to show yet
//	}
//	fmt.Println(triple.AmountB) // 11650
package reconcile
