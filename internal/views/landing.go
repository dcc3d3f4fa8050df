package views

import (
	g "maragu.dev/gomponents"
)

// LandingState is everything that varies between renders of the landing page.
type LandingState struct {
	Email      string
	Submitting bool
	Toast      *Toast

	// ContactEmail backs the footer mailto link.
	ContactEmail string
}

func LandingPage(state LandingState) g.Node {
	return Layout(
		PageConfig{},
		SiteHeader(),
		Hero(),
		Features(),
		Benefits(),
		Waitlist(state),
		SiteFooter(state.ContactEmail),
		g.Iff(state.Toast != nil, func() g.Node { return ToastNode(*state.Toast) }),
	)
}
