package projection

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter renders figures with the locale's digit grouping.
type Formatter struct {
	p *message.Printer
}

// NewFormatter falls back to English for an unparseable locale.
func NewFormatter(locale string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return &Formatter{p: message.NewPrinter(tag)}
}

// Amount rounds to the nearest whole unit and groups thousands.
func (f *Formatter) Amount(v float64) string {
	return f.p.Sprintf("%d", int64(math.Round(v)))
}

// Currency prefixes the amount with the rupee symbol.
func (f *Formatter) Currency(v float64) string { return "Rs. " + f.Amount(v) }

// Line is one labelled figure of a report, in display order.
type Line struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Lines lays the report out for the results page and the exported document.
func (f *Formatter) Lines(r Report) []Line {
	return []Line{
		{"Land size", f.p.Sprintf("%v perches", r.LandSize)},
		{"Total plants", f.Amount(float64(r.TotalPlants))},
		{"Compost required", f.Amount(r.TotalCompostKg) + " kg"},
		{"Plant cost", f.Currency(r.PlantCost)},
		{"Compost cost", f.Currency(r.CompostCost)},
		{"Total investment", f.Currency(r.TotalInvestment)},
		{"Expected yield", f.Amount(r.TotalYieldKg) + " kg"},
		{"Minimum return", f.Currency(r.MinReturn)},
		{"Maximum return", f.Currency(r.MaxReturn)},
	}
}

// Disclaimer states the assumptions behind the figures.
func (f *Formatter) Disclaimer() string {
	return f.p.Sprintf(
		"Figures assume %.0f ft plant spacing, %d kg compost and %d kg average yield per plant, "+
			"and a market price of USD %s to %s per kg at Rs. %d per USD. Returns are estimates, not guarantees.",
		PlantSpacingFt, CompostPerPlantKg, YieldPerPlantKg,
		f.Amount(MinPricePerKg), f.Amount(MaxPricePerKg), ExchangeRate,
	)
}
