package views

import (
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"landcheck/projection"
)

// Results is what the projection page shows.
type Results struct {
	CustomerName string
	Lines        []projection.Line
	Disclaimer   string
	ExportURL    string
	ExportFailed bool
}

// ResultsPage shows the investment projection for one parcel.
func ResultsPage(r Results) g.Node {
	return Layout("Your projection",
		H1(g.Text("Investment projection")),
		P(g.Textf("Prepared for %s", r.CustomerName)),
		g.If(r.ExportFailed, banner("error", "Failed to generate PDF. Please try again.")),
		Table(Class("projection"),
			TBody(g.Map(r.Lines, func(l projection.Line) g.Node {
				return Tr(Th(g.Text(l.Label)), Td(g.Text(l.Value)))
			})),
		),
		P(Class("disclaimer"), g.Text(r.Disclaimer)),
		P(A(Href(r.ExportURL), g.Text("Download PDF"))),
	)
}
