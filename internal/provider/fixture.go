package provider

import (
	"context"
	"strings"

	"github.com/mhutchens/trip-planner/internal/domain"
)

// Fixture implements all four provider interfaces from a static catalog.
// Responses are deterministic: identical inputs always produce identical
// candidate lists, which the pipeline's determinism guarantee relies on.
// Fixture is the default wiring in main and the workhorse of the tests.
type Fixture struct{}

// NewFixture returns a provider set member backed by the static catalog.
func NewFixture() *Fixture {
	return &Fixture{}
}

// FixtureSet returns a Set with every slot backed by the same Fixture.
func FixtureSet() Set {
	f := NewFixture()
	return Set{Destinations: f, Activities: f, Flights: f, Lodgings: f}
}

var fixtureDestinations = []domain.DestinationCandidate{
	{
		ID: "dest-orlando", Name: "Orlando", Location: "Florida, USA",
		FamilyScore: 9.2, Budget: domain.BudgetRange{Min: 1800, Max: 5200},
		Tags: []string{"theme-parks", "water-parks", "family"},
	},
	{
		ID: "dest-san-diego", Name: "San Diego", Location: "California, USA",
		FamilyScore: 8.7, Budget: domain.BudgetRange{Min: 1600, Max: 4400},
		Tags: []string{"beaches", "zoo", "family"},
	},
	{
		ID: "dest-gatlinburg", Name: "Gatlinburg", Location: "Tennessee, USA",
		FamilyScore: 8.1, Budget: domain.BudgetRange{Min: 900, Max: 2600},
		Tags: []string{"mountains", "hiking", "aquarium"},
	},
	{
		ID: "dest-washington", Name: "Washington, D.C.", Location: "District of Columbia, USA",
		FamilyScore: 7.6, Budget: domain.BudgetRange{Min: 1100, Max: 3100},
		Tags: []string{"museums", "history", "monuments"},
	},
	{
		ID: "dest-new-york", Name: "New York City", Location: "New York, USA",
		FamilyScore: 7.2, Budget: domain.BudgetRange{Min: 2400, Max: 7800},
		Tags: []string{"shows", "parks", "museums"},
	},
}

var fixtureActivities = map[string][]domain.ActivityCandidate{
	"Orlando": {
		{ID: "act-magic-kingdom", Name: "Magic Kingdom", Category: domain.CategoryAttraction,
			DurationMinutes: 480, Cost: domain.CostRange{Min: 109, Max: 189},
			Ages: domain.AgeRange{Min: 3, Max: 99}, Location: "Walt Disney World"},
		{ID: "act-universal", Name: "Universal Studios Florida", Category: domain.CategoryAttraction,
			DurationMinutes: 480, Cost: domain.CostRange{Min: 110, Max: 170},
			Ages: domain.AgeRange{Min: 6, Max: 99}, Location: "Universal Orlando"},
		{ID: "act-icon-park", Name: "The Wheel at ICON Park", Category: domain.CategoryEntertainment,
			DurationMinutes: 120, Cost: domain.CostRange{Min: 30, Max: 60},
			Ages: domain.AgeRange{Min: 2, Max: 99}, Location: "International Drive"},
		{ID: "act-gatorland", Name: "Gatorland", Category: domain.CategoryAttraction,
			DurationMinutes: 180, Cost: domain.CostRange{Min: 20, Max: 33},
			Ages: domain.AgeRange{Min: 3, Max: 99}, Location: "South Orange Blossom Trail"},
		{ID: "act-boma", Name: "Boma — Flavors of Africa", Category: domain.CategoryRestaurant,
			DurationMinutes: 90, Cost: domain.CostRange{Min: 45, Max: 65},
			Ages: domain.AgeRange{Min: 0, Max: 99}, Location: "Animal Kingdom Lodge"},
		{ID: "act-disney-springs", Name: "Disney Springs", Category: domain.CategoryEntertainment,
			DurationMinutes: 150, Cost: domain.CostRange{Min: 0, Max: 80},
			Ages: domain.AgeRange{Min: 0, Max: 99}, Location: "Lake Buena Vista"},
		{ID: "act-kennedy", Name: "Kennedy Space Center", Category: domain.CategoryAttraction,
			DurationMinutes: 360, Cost: domain.CostRange{Min: 60, Max: 80},
			Ages: domain.AgeRange{Min: 5, Max: 99}, Location: "Merritt Island"},
	},
	"San Diego": {
		{ID: "act-sd-zoo", Name: "San Diego Zoo", Category: domain.CategoryAttraction,
			DurationMinutes: 360, Cost: domain.CostRange{Min: 62, Max: 72},
			Ages: domain.AgeRange{Min: 0, Max: 99}, Location: "Balboa Park"},
		{ID: "act-sd-beach", Name: "La Jolla Cove", Category: domain.CategoryActivity,
			DurationMinutes: 240, Cost: domain.CostRange{Min: 0, Max: 20},
			Ages: domain.AgeRange{Min: 0, Max: 99}, Location: "La Jolla"},
		{ID: "act-sd-midway", Name: "USS Midway Museum", Category: domain.CategoryAttraction,
			DurationMinutes: 180, Cost: domain.CostRange{Min: 21, Max: 34},
			Ages: domain.AgeRange{Min: 4, Max: 99}, Location: "Navy Pier"},
		{ID: "act-sd-oldtown", Name: "Old Town Mexican Café", Category: domain.CategoryRestaurant,
			DurationMinutes: 90, Cost: domain.CostRange{Min: 30, Max: 55},
			Ages: domain.AgeRange{Min: 0, Max: 99}, Location: "Old Town"},
	},
}

// genericActivities serve destinations the catalog has no curated list for.
var genericActivities = []domain.ActivityCandidate{
	{ID: "act-city-tour", Name: "Guided City Tour", Category: domain.CategoryActivity,
		DurationMinutes: 180, Cost: domain.CostRange{Min: 25, Max: 60},
		Ages: domain.AgeRange{Min: 0, Max: 99}},
	{ID: "act-local-museum", Name: "Local Museum", Category: domain.CategoryAttraction,
		DurationMinutes: 150, Cost: domain.CostRange{Min: 10, Max: 30},
		Ages: domain.AgeRange{Min: 4, Max: 99}},
	{ID: "act-family-dinner", Name: "Family Dinner Spot", Category: domain.CategoryRestaurant,
		DurationMinutes: 90, Cost: domain.CostRange{Min: 40, Max: 80},
		Ages: domain.AgeRange{Min: 0, Max: 99}},
}

var fixtureFlights = []domain.FlightOption{
	{ID: "fl-sunrise-211", Carrier: "Sunrise Air", Number: "SA211", Price: 248},
	{ID: "fl-bluejet-404", Carrier: "BlueJet", Number: "BJ404", Price: 212},
	{ID: "fl-coastal-88", Carrier: "Coastal Wings", Number: "CW88", Price: 305},
}

var fixtureLodgings = []domain.LodgingOption{
	{ID: "lg-palm-grove", Name: "Palm Grove Resort", NightlyRate: 180, Rating: 4.5},
	{ID: "lg-hartley", Name: "Hartley Suites", NightlyRate: 126, Rating: 4.1},
	{ID: "lg-lakeside", Name: "Lakeside Inn", NightlyRate: 99, Rating: 3.9},
}

// SearchDestinations returns the full destination catalog. When the context
// carries a destination hint that matches a known destination, that
// destination is listed first so downstream ranking can still reorder it.
func (f *Fixture) SearchDestinations(ctx context.Context, tc domain.TripContext) ([]domain.DestinationCandidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]domain.DestinationCandidate, len(fixtureDestinations))
	copy(out, fixtureDestinations)

	if hint := strings.TrimSpace(tc.DestinationHint); hint != "" {
		for i, d := range out {
			if strings.EqualFold(d.Name, hint) {
				out[0], out[i] = out[i], out[0]
				break
			}
		}
	}
	return out, nil
}

// SearchActivities returns the curated list for the destination, or a small
// generic list when the catalog has none.
func (f *Fixture) SearchActivities(ctx context.Context, _ domain.TripContext, destination string) ([]domain.ActivityCandidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	src, ok := fixtureActivities[destination]
	if !ok {
		src = genericActivities
	}
	out := make([]domain.ActivityCandidate, len(src))
	copy(out, src)
	return out, nil
}

// SearchFlights returns the flight catalog with the destination filled in.
func (f *Fixture) SearchFlights(ctx context.Context, _ domain.TripContext, destination string) ([]domain.FlightOption, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]domain.FlightOption, len(fixtureFlights))
	copy(out, fixtureFlights)
	for i := range out {
		out[i].Destination = destination
	}
	return out, nil
}

// SearchLodgings returns the lodging catalog with TotalPrice computed from
// the trip length. A missing date range prices a single night.
func (f *Fixture) SearchLodgings(ctx context.Context, tc domain.TripContext, _ string) ([]domain.LodgingOption, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	nights := 1
	if tc.Dates != nil && tc.Dates.Days() > 0 {
		nights = tc.Dates.Days()
	}
	out := make([]domain.LodgingOption, len(fixtureLodgings))
	copy(out, fixtureLodgings)
	for i := range out {
		out[i].TotalPrice = out[i].NightlyRate * float64(nights)
	}
	return out, nil
}
