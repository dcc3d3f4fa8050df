package views

import (
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

type icon []g.Node

var (
	iconShield      = icon{svgPath("M12 22s8-4 8-10V5l-8-3-8 3v7c0 6 8 10 8 10z")}
	iconLock        = icon{g.El("rect", g.Attr("x", "3"), g.Attr("y", "11"), g.Attr("width", "18"), g.Attr("height", "11"), g.Attr("rx", "2")), svgPath("M7 11V7a5 5 0 0 1 10 0v4")}
	iconEye         = icon{svgPath("M1 12s4-8 11-8 11 8 11 8-4 8-11 8-11-8-11-8z"), g.El("circle", g.Attr("cx", "12"), g.Attr("cy", "12"), g.Attr("r", "3"))}
	iconZap         = icon{svgPath("M13 2 3 14h9l-1 8 10-12h-9l1-8z")}
	iconArrowRight  = icon{svgPath("M5 12h14"), svgPath("m12 5 7 7-7 7")}
	iconCheckCircle = icon{svgPath("M22 11.08V12a10 10 0 1 1-5.93-9.14"), svgPath("M22 4 12 14.01l-3-3")}
	iconMail        = icon{g.El("rect", g.Attr("x", "2"), g.Attr("y", "4"), g.Attr("width", "20"), g.Attr("height", "16"), g.Attr("rx", "2")), svgPath("m22 7-8.97 5.7a1.94 1.94 0 0 1-2.06 0L2 7")}
)

func svgPath(d string) g.Node {
	return g.El("path", g.Attr("d", d))
}

// Icon renders a stroke icon sized by class. Icons are decorative unless label is set.
func Icon(i icon, class, label string) g.Node {
	return g.El("svg",
		Class("icon "+class),
		g.Attr("xmlns", "http://www.w3.org/2000/svg"),
		g.Attr("viewBox", "0 0 24 24"),
		g.Attr("fill", "none"),
		g.Attr("stroke", "currentColor"),
		g.Attr("stroke-width", "2"),
		g.Attr("stroke-linecap", "round"),
		g.Attr("stroke-linejoin", "round"),
		g.If(label == "", g.Attr("aria-hidden", "true")),
		g.If(label != "", g.Group([]g.Node{g.Attr("role", "img"), g.Attr("aria-label", label)})),
		g.Group(i),
	)
}
