package views

import (
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

const (
	WaitlistAction   = "/waitlist"
	JoinLabel        = "Join Waitlist"
	JoiningLabel     = "Joining..."
	EmailPlaceholder = "Enter your email address"
)

type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
)

type Toast struct {
	Kind    ToastKind
	Message string
}

func Waitlist(state LandingState) g.Node {
	return Section(
		ID("waitlist"),
		Class("section section-muted"),
		Div(
			Class("container compact"),
			Div(
				Class("section-heading"),
				H2(g.Text("Be First to Know")),
				P(g.Text("Join our waitlist to get early access to Noctura and stay updated on our progress.")),
			),
			Div(
				Class("card waitlist-card"),
				Div(
					Class("text-center"),
					Div(Class("waitlist-icon"), Icon(iconMail, "icon-lg", "")),
					H3(Class("card-title"), g.Text("Join the Waitlist")),
					P(Class("card-description"), g.Text("Get notified when Noctura launches and receive exclusive early access.")),
				),
				WaitlistForm(state.Email, state.Submitting),
				P(Class("privacy muted"), g.Text("We respect your privacy. No spam, just updates about Noctura.")),
			),
		),
	)
}

// WaitlistForm posts back to the server; novalidate leaves all checks to the server so
// malformed addresses are still submitted.
func WaitlistForm(email string, submitting bool) g.Node {
	return Form(
		ID("waitlist-form"),
		Class("waitlist-form"),
		Method("post"),
		Action(WaitlistAction+"#waitlist"),
		g.Attr("novalidate"),
		Input(
			ID("waitlist-email"),
			Type("email"),
			Name("email"),
			Placeholder(EmailPlaceholder),
			Value(email),
			AutoComplete("email"),
			Class("input"),
			Required(),
		),
		SubmitButton(submitting),
	)
}

func SubmitButton(submitting bool) g.Node {
	label := JoinLabel
	if submitting {
		label = JoiningLabel
	}

	return Button(
		ID("waitlist-submit"),
		Type("submit"),
		Class("btn btn-primary btn-block"),
		g.Attr("data-busy-label", JoiningLabel),
		g.If(submitting, Disabled()),
		g.If(submitting, g.Attr("aria-busy", "true")),
		g.Text(label),
	)
}

func ToastNode(t Toast) g.Node {
	role := "status"
	if t.Kind == ToastError {
		role = "alert"
	}

	return Div(
		ID("toast"),
		Class("toast toast-"+string(t.Kind)),
		Role(role),
		g.Attr("aria-live", "polite"),
		g.Text(t.Message),
	)
}
