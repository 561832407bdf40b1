package views

import (
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"landcheck/models"
)

// DashboardPage shows the signed-in user's profile, read-only.
// With a nil profile it renders msg in place of the details.
func DashboardPage(p *models.UserProfile, msg string) g.Node {
	if p == nil {
		return Layout("My account",
			H1(g.Text("My account")),
			P(g.Text(msg)),
		)
	}
	all := []profileRow{
		{"Name", p.DisplayName()},
		{"Title", p.Title},
		{"NIC", p.NIC},
		{"Email", p.Email},
		{"Phone", p.Phone},
		{"Address", p.Address.String()},
	}
	var rows []profileRow
	for _, r := range all {
		if r.value != "" {
			rows = append(rows, r)
		}
	}
	return Layout("My account",
		H1(g.Textf("Welcome, %s", p.DisplayName())),
		Dl(g.Map(rows, func(r profileRow) g.Node {
			return g.Group([]g.Node{Dt(g.Text(r.label)), Dd(g.Text(r.value))})
		})),
	)
}

type profileRow struct {
	label, value string
}
