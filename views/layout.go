// Package views renders the server-side pages with gomponents.
package views

import (
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

const siteName = "Land Check"

// Layout wraps page content in the document shell.
func Layout(title string, content ...g.Node) g.Node {
	if title == "" {
		title = siteName
	} else {
		title = title + " | " + siteName
	}
	return g.Group([]g.Node{
		g.Raw("<!DOCTYPE html>"),
		HTML(
			Lang("en"),
			Head(
				Meta(Charset("utf-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1.0")),
				TitleEl(g.Text(title)),
			),
			Body(
				Header(
					A(Href("/"), g.Text(siteName)),
					Nav(
						A(Href("/eligibility"), g.Text("Check your land")),
						g.Text(" "),
						A(Href("/dashboard"), g.Text("My account")),
					),
				),
				Main(g.Group(content)),
			),
		),
	})
}

// ErrorPage is shown for failures that have no better home.
func ErrorPage(title, message string) g.Node {
	return Layout(title,
		H1(g.Text(title)),
		P(Class("error"), g.Text(message)),
		P(A(Href("/eligibility"), g.Text("Back to the eligibility check"))),
	)
}

func banner(class, text string, extra ...g.Node) g.Node {
	return Div(Class("banner "+class), Role("alert"), P(g.Text(text)), g.Group(extra))
}
