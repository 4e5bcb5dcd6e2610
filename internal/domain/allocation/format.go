package allocation

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatMinutes renders a duration such as "1 hr 30 mins". Zero hours or
// zero minutes are left out, so 0 renders as the empty string.
func FormatMinutes(minutes int) string {
	if minutes <= 0 {
		return ""
	}
	h := minutes / 60
	m := minutes % 60

	var b strings.Builder
	if h > 0 {
		fmt.Fprintf(&b, "%d hr%s ", h, plural(h))
	}
	if m > 0 {
		fmt.Fprintf(&b, "%d min%s", m, plural(m))
	}
	return strings.TrimSpace(b.String())
}

func plural(n int) string {
	if n > 1 {
		return "s"
	}
	return ""
}

// Formatter renders money for display.
type Formatter struct {
	symbol  string
	printer *message.Printer
}

// NewFormatter builds a Formatter for a BCP 47 locale such as "en-US" and a
// currency symbol placed before the amount.
func NewFormatter(locale, symbol string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	return &Formatter{symbol: symbol, printer: message.NewPrinter(tag)}, nil
}

// DefaultFormatter formats US dollars.
func DefaultFormatter() *Formatter {
	return &Formatter{symbol: "$", printer: message.NewPrinter(language.AmericanEnglish)}
}

// FormatCurrency renders an amount with two decimals and locale grouping,
// e.g. "$66,666.67".
func (f *Formatter) FormatCurrency(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	// Round half away from zero before handing the value to the printer.
	amount = math.Round(amount*100) / 100
	return sign + f.symbol + f.printer.Sprintf("%.2f", amount)
}

// PlayerLine is one display row of the per-player table.
type PlayerLine struct {
	Name       string `json:"name"`
	TimePlayed string `json:"time_played"`
	Cost       string `json:"cost"`
}

// Summary is a Result rendered for people.
type Summary struct {
	CourtCost       string       `json:"court_cost"`
	ShuttlecockCost string       `json:"shuttlecock_cost"`
	GrandTotal      string       `json:"grand_total"`
	CourtDuration   string       `json:"court_duration"`
	TotalTimePlayed string       `json:"total_time_played"`
	Players         []PlayerLine `json:"players"`
	Unallocated     string       `json:"unallocated,omitempty"`
}

// Summarize renders every amount and duration of r.
func (f *Formatter) Summarize(r Result) Summary {
	lines := make([]PlayerLine, len(r.PlayerCosts))
	for i, pc := range r.PlayerCosts {
		lines[i] = PlayerLine{
			Name:       pc.Name,
			TimePlayed: FormatMinutes(pc.TimePlayed),
			Cost:       f.FormatCurrency(pc.Cost),
		}
	}

	s := Summary{
		CourtCost:       f.FormatCurrency(r.TotalCourtCost),
		ShuttlecockCost: f.FormatCurrency(r.TotalShuttlecockCost),
		GrandTotal:      f.FormatCurrency(r.GrandTotal),
		CourtDuration:   FormatMinutes(r.CourtDuration),
		TotalTimePlayed: FormatMinutes(r.TotalTimePlayed),
		Players:         lines,
	}
	if r.TotalTimePlayed == 0 && r.GrandTotal > 0 {
		s.Unallocated = f.FormatCurrency(r.Unallocated())
	}
	return s
}
