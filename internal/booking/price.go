package booking

import (
	"time"

	"github.com/lodgely/hotel-reservation/internal/model"
)

// Night is one line of a stay quote.  PriceCents is the per-unit
// nightly price before the guest multiplier, and AvailableStock is the
// stock the ledger showed at quote time.
type Night struct {
	Date           time.Time `json:"-"`
	DateString     string    `json:"date"`
	AvailableStock uint32    `json:"available_stock"`
	PriceCents     int64     `json:"price_cents"`
}

// Quote is the result of pricing a stay against the ledger.  When
// Available is false the totals and nights are zeroed: a single
// missing or understocked night invalidates the whole range.
type Quote struct {
	Available        bool
	TotalAmountCents int64
	Nights           []Night
}

// PriceStay walks the nights of a stay and prices each one against the
// supplied ledger records, keyed by DateLayout-formatted date.  A night
// with no record, or with less stock than the requested guest count,
// makes the whole stay unavailable and discards any accumulated total.
// Each available night contributes effective_price * guests to the
// total, where the effective price is the record's override or the room
// type's base price.
func PriceStay(nights []time.Time, records map[string]*model.Availability, basePriceCents int64, guests uint32) Quote {
	q := Quote{Available: true}
	for _, d := range nights {
		rec, ok := records[d.Format(DateLayout)]
		if !ok || rec.Stock < guests {
			return Quote{Available: false}
		}
		price := rec.EffectivePriceCents(basePriceCents)
		q.TotalAmountCents += price * int64(guests)
		q.Nights = append(q.Nights, Night{
			Date:           d,
			DateString:     d.Format(DateLayout),
			AvailableStock: rec.Stock,
			PriceCents:     price,
		})
	}
	if len(nights) == 0 {
		q.Available = false
	}
	return q
}
