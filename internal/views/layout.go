package views

import (
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

const (
	DefaultTitle       = "Noctura - Secure Your AI Agents"
	DefaultDescription = "Noctura is a high-performance Policy Enforcement Point (PEP) proxy for MCP gateways."
)

type PageConfig struct {
	Title       string
	Description string
}

func Layout(config PageConfig, content ...g.Node) g.Node {
	if config.Title == "" {
		config.Title = DefaultTitle
	}

	if config.Description == "" {
		config.Description = DefaultDescription
	}

	return g.Group([]g.Node{
		g.Raw("<!DOCTYPE html>"),
		HTML(
			Lang("en"),
			Head(
				Meta(Charset("utf-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1.0")),
				TitleEl(g.Text(config.Title)),
				Meta(Name("description"), Content(config.Description)),

				Meta(g.Attr("property", "og:title"), Content(config.Title)),
				Meta(g.Attr("property", "og:description"), Content(config.Description)),
				Meta(g.Attr("property", "og:type"), Content("website")),

				Link(Rel("stylesheet"), Href(StaticPrefix+"/styles.css")),
				Script(Src(StaticPrefix+"/waitlist.js"), Defer()),
			),
			Body(
				Div(Class("page"), g.Group(content)),
			),
		),
	})
}
