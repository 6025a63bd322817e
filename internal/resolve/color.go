package resolve

type Color struct {
	Name string
	Hex  string
}

var colors = []Color{
	{"blue", "#0000ff"},
	{"crimson", "#dc143c"},
	{"cyan", "#00ffff"},
	{"fuchsia", "#ff00ff"},
	{"gold", "#ffd700"},
	{"green", "#008000"},
	{"lavender", "#e6e6fa"},
	{"lime", "#00ff00"},
	{"magenta", "#ff00ff"},
	{"orange", "#ffa500"},
	{"pink", "#ffc0cb"},
	{"purple", "#800080"},
	{"red", "#ff0000"},
	{"salmon", "#fa8072"},
	{"sky blue", "#87ceeb"},
	{"teal", "#008080"},
	{"turquoise", "#40e0d0"},
	{"violet", "#ee82ee"},
	{"yellow", "#ffff00"},
}

var colorNames = func() []string {
	names := make([]string, len(colors))
	for i, c := range colors {
		names[i] = c.Name
	}
	return names
}()

// Colors returns the named color table in definition order.
func Colors() []Color {
	out := make([]Color, len(colors))
	copy(out, colors)
	return out
}

// Color matches text against color names only; hex codes and RGB triples are
// not accepted.
func (r *Resolver) Color(text string) (Color, bool) {
	i, ok := best(colorNames, text, r.threshold)
	if !ok {
		return Color{}, false
	}
	return colors[i], true
}
