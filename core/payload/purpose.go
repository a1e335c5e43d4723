package payload

import (
	"fmt"
	"strings"
)

// Contract is the optional contract clause of the payment purpose.
type Contract struct {
	// Enabled toggles the clause on.
	Enabled bool `json:"enabled"`
	// Reference is the contract number or name.
	Reference string `json:"reference"`
}

// Purpose builds the payment purpose text for amountA (RMB).
// The contract clause is included only when enabled with a non-blank reference.
func Purpose(amountA float64, c Contract) string {
	service := fmt.Sprintf("Goods payment service %s RMB", FormatWhole(amountA))

	ref := strings.TrimSpace(c.Reference)
	if !c.Enabled || ref == "" {
		return service
	}
	return fmt.Sprintf("Payment under contract %s. %s", ref, service)
}
