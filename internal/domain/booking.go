package domain

import "time"

// FlightOption is one flight candidate returned by a flight provider.
// Price is the one-way fare per family; combinations assume a round trip.
type FlightOption struct {
	ID          string  `json:"id"`
	Carrier     string  `json:"carrier"`
	Number      string  `json:"number"`
	Origin      string  `json:"origin,omitempty"`
	Destination string  `json:"destination"`
	Price       float64 `json:"price"`
}

// LodgingOption is one lodging candidate returned by a lodging provider.
// TotalPrice covers the whole stay (nightly rate × nights).
type LodgingOption struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	NightlyRate float64 `json:"nightly_rate"`
	TotalPrice  float64 `json:"total_price"`
	Rating      float64 `json:"rating,omitempty"`
}

// BookingCombination pairs one flight with one lodging and prices the pair
// as a unit. Invariant: TotalCost = 2×Flight.Price + Lodging.TotalPrice
// (round-trip assumption). Savings is the difference from the average
// combination cost of the same search, positive for below-average options.
type BookingCombination struct {
	Flight    FlightOption  `json:"flight"`
	Lodging   LodgingOption `json:"lodging"`
	TotalCost float64       `json:"total_cost"`
	Savings   float64       `json:"savings"`
	// BookBy is the booking deadline: two weeks before departure.
	BookBy time.Time `json:"book_by"`
}

// PriceStats summarises combination costs for one search.
// Invariant: Min ≤ Average ≤ Max. Average is rounded to a whole amount.
type PriceStats struct {
	Average float64 `json:"average"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// BookingResult is the output of the booking search phase. Combinations are
// sorted by TotalCost ascending; Best points at the cheapest and
// Alternatives holds the next three. Best is nil only when Combinations is
// empty; callers must check Empty before reading it.
type BookingResult struct {
	Combinations []BookingCombination `json:"combinations"`
	Best         *BookingCombination  `json:"best,omitempty"`
	Alternatives []BookingCombination `json:"alternatives,omitempty"`
	Prices       PriceStats           `json:"prices"`
}

// Empty reports whether the search produced no combinations.
func (r BookingResult) Empty() bool {
	return len(r.Combinations) == 0
}
