package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mhutchens/trip-planner/internal/domain"
)

// Presenter is the presentation phase. It projects the upstream phase
// outputs into a display dashboard, builds the export artifacts, and mints
// a shareable trip identifier. It reads upstream data and never mutates it.
type Presenter struct {
	baseURL string

	// now and newSuffix are injectable for tests; production uses the
	// wall clock and a random uuid fragment. The share id is the one
	// deliberately non-deterministic output of the pipeline.
	now       func() time.Time
	newSuffix func() string
}

// NewPresenter constructs the presentation phase. shareBaseURL is the origin
// shared links are built against, e.g. "https://trips.example.com".
func NewPresenter(shareBaseURL string) *Presenter {
	return &Presenter{
		baseURL:   strings.TrimRight(shareBaseURL, "/"),
		now:       time.Now,
		newSuffix: func() string { return uuid.NewString()[:8] },
	}
}

// Name implements Phase.
func (p *Presenter) Name() string { return PhasePresentation }

// Prepare executes the phase.
func (p *Presenter) Prepare(ctx context.Context, tc domain.TripContext, planned domain.PlannerResult, booked domain.BookingResult, scheduled domain.ScheduleResult) (domain.Presentation, error) {
	if err := ctx.Err(); err != nil {
		return domain.Presentation{}, err
	}

	dashboard := buildDashboard(tc, planned, booked, scheduled)
	tripID := p.mintTripID(tc.UserID)

	exports, err := buildExports(tripID, dashboard, planned, booked, scheduled)
	if err != nil {
		return domain.Presentation{}, fmt.Errorf("pipeline.Presenter.Prepare: %w", err)
	}

	return domain.Presentation{
		Dashboard: dashboard,
		Exports:   exports,
		Sharing:   p.buildSharing(tripID, dashboard),
	}, nil
}

// mintTripID generates a share identifier that stays collision-resistant for
// the lifetime of one deployment: unix timestamp + owner slug + random
// suffix.
func (p *Presenter) mintTripID(userID string) string {
	return fmt.Sprintf("trip-%d-%s-%s", p.now().Unix(), slugify(userID), p.newSuffix())
}

// slugify lowercases s and collapses anything that is not a letter or digit
// into single hyphens.
func slugify(s string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

func buildDashboard(tc domain.TripContext, planned domain.PlannerResult, booked domain.BookingResult, scheduled domain.ScheduleResult) domain.Dashboard {
	d := domain.Dashboard{
		Destination:   planned.Recommendation.Destination.Name,
		Location:      planned.Recommendation.Destination.Location,
		Days:          len(scheduled.Days),
		Currency:      tc.CurrencyOrDefault(),
		ActivityCount: len(planned.Activities),
	}
	if tc.Dates != nil {
		dates := *tc.Dates // copy; the dashboard must not alias the context
		d.Dates = &dates
	}
	if booked.Best != nil {
		d.TotalCost = booked.Best.TotalCost
		d.Savings = booked.Best.Savings
	}
	for _, a := range planned.Recommendation.TopActivities {
		d.Highlights = append(d.Highlights, a.Name)
	}
	return d
}

func (p *Presenter) buildSharing(tripID string, dashboard domain.Dashboard) domain.Sharing {
	shareURL := p.baseURL + "/t/" + tripID
	text := fmt.Sprintf("Our %d-day family trip to %s!", dashboard.Days, dashboard.Destination)

	return domain.Sharing{
		TripID: tripID,
		URL:    shareURL,
		Social: []domain.SocialLink{
			{Network: "x", URL: "https://x.com/intent/post?" + url.Values{
				"text": {text}, "url": {shareURL},
			}.Encode()},
			{Network: "facebook", URL: "https://www.facebook.com/sharer/sharer.php?" + url.Values{
				"u": {shareURL},
			}.Encode()},
			{Network: "whatsapp", URL: "https://wa.me/?" + url.Values{
				"text": {text + " " + shareURL},
			}.Encode()},
		},
	}
}

// buildExports produces the three standard artifacts: machine-readable JSON,
// a printable document, and a calendar feed.
func buildExports(tripID string, dashboard domain.Dashboard, planned domain.PlannerResult, booked domain.BookingResult, scheduled domain.ScheduleResult) ([]domain.ExportArtifact, error) {
	jsonPayload, err := buildJSONExport(tripID, dashboard, planned, booked, scheduled)
	if err != nil {
		return nil, err
	}
	return []domain.ExportArtifact{
		{
			Format:            domain.ExportJSON,
			ContentType:       "application/json",
			SuggestedFilename: tripID + ".json",
			Payload:           jsonPayload,
		},
		{
			Format:            domain.ExportDocument,
			ContentType:       "text/markdown; charset=utf-8",
			SuggestedFilename: tripID + ".md",
			Payload:           buildDocumentExport(dashboard, booked, scheduled),
		},
		{
			Format:            domain.ExportCalendar,
			ContentType:       "text/calendar; charset=utf-8",
			SuggestedFilename: tripID + ".ics",
			Payload:           buildCalendarExport(tripID, dashboard, scheduled),
		},
	}, nil
}

// jsonExport is the machine-readable export layout.
type jsonExport struct {
	TripID      string                     `json:"trip_id"`
	Destination string                     `json:"destination"`
	Dashboard   domain.Dashboard           `json:"dashboard"`
	BudgetPlan  *domain.BudgetBreakdown    `json:"budget_plan,omitempty"`
	BestBooking *domain.BookingCombination `json:"best_booking,omitempty"`
	Days        []domain.DaySchedule       `json:"days"`
}

func buildJSONExport(tripID string, dashboard domain.Dashboard, planned domain.PlannerResult, booked domain.BookingResult, scheduled domain.ScheduleResult) ([]byte, error) {
	doc := jsonExport{
		TripID:      tripID,
		Destination: dashboard.Destination,
		Dashboard:   dashboard,
		BudgetPlan:  planned.Budget,
		BestBooking: booked.Best,
		Days:        scheduled.Days,
	}
	return json.MarshalIndent(doc, "", "  ")
}

func buildDocumentExport(dashboard domain.Dashboard, booked domain.BookingResult, scheduled domain.ScheduleResult) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "# Family Trip to %s\n\n", dashboard.Destination)
	if dashboard.Dates != nil {
		fmt.Fprintf(&b, "%s — %s (%d days)\n\n",
			dashboard.Dates.Start.Format("Jan 2, 2006"),
			dashboard.Dates.End.Format("Jan 2, 2006"),
			dashboard.Days)
	}
	if booked.Best != nil {
		fmt.Fprintf(&b, "**Booking:** %s %s + %s — %.2f %s (saves %.2f)\n\n",
			booked.Best.Flight.Carrier, booked.Best.Flight.Number,
			booked.Best.Lodging.Name,
			booked.Best.TotalCost, dashboard.Currency, booked.Best.Savings)
	}
	for _, day := range scheduled.Days {
		fmt.Fprintf(&b, "## Day %d — %s\n\n", day.Day, day.Date.Format("Monday, Jan 2"))
		if len(day.Activities) == 0 {
			b.WriteString("Free day.\n\n")
			continue
		}
		for _, a := range day.Activities {
			fmt.Fprintf(&b, "- %s–%s %s\n",
				a.Start.Format("15:04"), a.End.Format("15:04"), a.Activity.Name)
		}
		b.WriteString("\n")
	}
	return []byte(b.String())
}

// buildCalendarExport emits an RFC 5545 calendar with one event per
// scheduled activity. Lines end in CRLF as the RFC requires.
func buildCalendarExport(tripID string, dashboard domain.Dashboard, scheduled domain.ScheduleResult) []byte {
	const stamp = "20060102T150405Z"

	var b strings.Builder
	writeLine := func(s string) {
		b.WriteString(s)
		b.WriteString("\r\n")
	}
	writeLine("BEGIN:VCALENDAR")
	writeLine("VERSION:2.0")
	writeLine("PRODID:-//trip-planner//itinerary//EN")
	writeLine("X-WR-CALNAME:Family Trip to " + escapeICS(dashboard.Destination))
	for _, day := range scheduled.Days {
		for i, a := range day.Activities {
			writeLine("BEGIN:VEVENT")
			writeLine(fmt.Sprintf("UID:%s-day%d-%d", tripID, day.Day, i+1))
			writeLine("DTSTART:" + a.Start.UTC().Format(stamp))
			writeLine("DTEND:" + a.End.UTC().Format(stamp))
			writeLine("SUMMARY:" + escapeICS(a.Activity.Name))
			if a.Activity.Location != "" {
				writeLine("LOCATION:" + escapeICS(a.Activity.Location))
			}
			writeLine("END:VEVENT")
		}
	}
	writeLine("END:VCALENDAR")
	return []byte(b.String())
}

// escapeICS escapes the characters RFC 5545 treats as special in text values.
func escapeICS(s string) string {
	r := strings.NewReplacer("\\", "\\\\", ";", "\\;", ",", "\\,", "\n", "\\n")
	return r.Replace(s)
}
