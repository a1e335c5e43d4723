package payload

import (
	"strconv"

	"payqr/core/cache"
	"payqr/core/reconcile"
)

// WholeUnits formats minor units as whole major units with thousands
// separators, rounding half up. Every amount B shown in a payload or label goes
// through it, so that text depends on MinorUnits alone.
func WholeUnits(minor int64) string {
	return printer.Sprintf("%d", (minor+50)/100)
}

// AmountLabel is the caption drawn above the QR code.
func AmountLabel(t reconcile.Triple) string {
	return WholeUnits(MinorUnits(t.AmountB)) + " RUB"
}

// CacheKey builds the artifact cache key from the amount strings the encoder
// and AmountLabel emit for the triple. Triples that differ only below the
// printed precision share a key; triples whose payloads differ never do.
func CacheKey(t reconcile.Triple, f Format) cache.Key {
	return cache.NewKey(FormatWhole(t.AmountA), strconv.FormatInt(MinorUnits(t.AmountB), 10), f.String())
}
