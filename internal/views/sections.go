package views

import (
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

type Feature struct {
	Icon        icon
	Title       string
	Description string
}

const DefaultContactEmail = "contact@noctura.ai"

var features = []Feature{
	{iconShield, "Policy Enforcement", "Enforce tool-level policies with allow/deny rules, rate limiting, and timeouts"},
	{iconLock, "Egress Security", "Block private IPs, enforce domain allowlists, and prevent DNS rebinding attacks"},
	{iconEye, "Output Sanitization", "Automatically redact secrets, validate schemas, and scrub injection attempts"},
	{iconZap, "High Performance", "Low latency overhead with connection pooling and optimized routing"},
}

var benefits = []string{
	"Secure AI agent deployments",
	"Compliance and audit trails",
	"Real-time monitoring and alerts",
	"Easy policy management",
	"Zero-trust architecture",
	"Enterprise-grade security",
}

func Brand(size string) g.Node {
	return Div(
		Class("brand brand-"+size),
		Icon(iconShield, "brand-icon", ""),
		Span(Class("brand-name"), g.Text("Noctura")),
	)
}

func SiteHeader() g.Node {
	return Header(
		Class("site-header"),
		Div(
			Class("container site-header-inner"),
			A(Href("/"), Class("brand-link"), Brand("md")),
			Nav(
				Class("site-nav"),
				A(Href("#features"), g.Text("Features")),
				A(Href("#waitlist"), g.Text("Join Waitlist")),
			),
		),
	)
}

func Hero() g.Node {
	return Section(
		Class("section hero"),
		Div(
			Class("container narrow text-center"),
			Div(
				Class("badge"),
				Icon(iconShield, "icon-sm", ""),
				g.Text("Security-First AI Proxy"),
			),
			H1(
				Class("hero-title"),
				g.Text("Secure Your AI Agents with"),
				Span(Class("accent"), g.Text(" Noctura")),
			),
			P(
				Class("lead"),
				g.Text("Noctura is a high-performance Policy Enforcement Point (PEP) proxy for MCP gateways. Add security controls, output sanitization, and observability with minimal latency overhead."),
			),
			Div(
				Class("hero-actions"),
				A(
					Href("#waitlist"),
					Class("btn btn-primary btn-lg"),
					g.Text("Join the Waitlist"),
					Icon(iconArrowRight, "icon-sm", ""),
				),
				A(
					Href("#features"),
					Class("btn btn-outline btn-lg"),
					g.Text("Learn More"),
				),
			),
		),
	)
}

func Features() g.Node {
	return Section(
		ID("features"),
		Class("section section-muted"),
		Div(
			Class("container wide"),
			Div(
				Class("section-heading"),
				H2(g.Text("Enterprise-Grade Security for AI")),
				P(g.Text("Noctura provides comprehensive security controls that protect your AI infrastructure while maintaining high performance and ease of use.")),
			),
			Div(
				Class("grid grid-2"),
				g.Group(g.Map(features, func(f Feature) g.Node {
					return Article(
						Class("card feature-card"),
						Div(Class("feature-icon"), Icon(f.Icon, "icon-md", "")),
						H3(Class("card-title"), g.Text(f.Title)),
						P(Class("card-description"), g.Text(f.Description)),
					)
				})),
			),
		),
	)
}

func Benefits() g.Node {
	return Section(
		Class("section"),
		Div(
			Class("container narrow"),
			Div(
				Class("section-heading"),
				H2(g.Text("Why Choose Noctura?")),
				P(g.Text("Built for production AI deployments that require enterprise-grade security and compliance.")),
			),
			Ul(
				Class("grid grid-2 benefits"),
				g.Group(g.Map(benefits, func(b string) g.Node {
					return Li(
						Icon(iconCheckCircle, "icon-md accent", ""),
						Span(g.Text(b)),
					)
				})),
			),
		),
	)
}

func SiteFooter(contactEmail string) g.Node {
	if contactEmail == "" {
		contactEmail = DefaultContactEmail
	}

	return Footer(
		Class("site-footer"),
		Div(
			Class("container wide"),
			Div(
				Class("grid grid-2"),
				Div(
					Brand("sm"),
					P(Class("muted"), g.Text("Secure AI infrastructure with enterprise-grade policy enforcement and monitoring.")),
				),
				Div(
					H3(Class("footer-heading"), g.Text("Connect")),
					A(
						Href("mailto:"+contactEmail),
						Class("muted footer-link"),
						Title("Email"),
						Icon(iconMail, "icon-md", "Email"),
					),
				),
			),
			Div(
				Class("copyright"),
				P(g.Raw("&copy; 2025 Noctura. All rights reserved.")),
			),
		),
	)
}
