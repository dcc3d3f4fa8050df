package views

import (
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

func NotFoundPage() g.Node {
	return Layout(
		PageConfig{Title: "Page not found - Noctura"},
		SiteHeader(),
		Section(
			Class("section"),
			Div(
				Class("container narrow text-center"),
				H1(Class("hero-title"), g.Text("Page not found")),
				P(Class("lead"), g.Text("The page you are looking for does not exist.")),
				A(Href("/"), Class("btn btn-primary btn-lg"), g.Text("Back to Noctura")),
			),
		),
		SiteFooter(""),
	)
}
