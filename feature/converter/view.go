package converter

import (
	"payqr/core/cache"
	"payqr/core/payload"
	"payqr/core/reconcile"
)

// Status describes the display area.
type Status string

const (
	// StatusEmpty means there is nothing to show.
	StatusEmpty Status = "empty"
	// StatusRendering means the artifact for the current key is being produced.
	StatusRendering Status = "rendering"
	// StatusReady means the artifact for the current key is available.
	StatusReady Status = "ready"
	// StatusFailed means the last render for the current key failed.
	StatusFailed Status = "failed"
)

// Reasons reported alongside StatusEmpty.
const (
	ReasonInvalid      = "invalid"
	ReasonInsufficient = "insufficient"
)

// View is a snapshot of the session as the user sees it.
type View struct {
	Inputs   reconcile.Inputs  `json:"inputs"`
	Edited   string            `json:"edited"`
	Contract payload.Contract  `json:"contract"`
	Format   string            `json:"format"`
	Triple   *reconcile.Triple `json:"triple,omitempty"`
	Payload  string            `json:"payload,omitempty"`
	Caption  string            `json:"caption,omitempty"`
	Key      *cache.Key        `json:"key,omitempty"`
	Status   Status            `json:"status"`
	Reason   string            `json:"reason,omitempty"`
	Problems []string          `json:"problems,omitempty"`
}

func cloneInputs(in reconcile.Inputs) reconcile.Inputs {
	cp := func(v *float64) *float64 {
		if v == nil {
			return nil
		}
		c := *v
		return &c
	}
	return reconcile.Inputs{Rate: cp(in.Rate), AmountA: cp(in.AmountA), AmountB: cp(in.AmountB)}
}
