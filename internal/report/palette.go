package report

// Chart palettes, cycled modulo their length. Orange shades back the
// per-employee views, blue shades the per-subject views.
var (
	PaletteOrange = []string{
		"#FF881B",
		"#FFB01B",
		"#E06D0A",
		"#FFC966",
		"#CC5E00",
		"#FF9F4D",
	}

	PaletteBlue = []string{
		"#389BA9",
		"#2B7A8C",
		"#4DB6C6",
		"#1F5A68",
		"#6FC8D6",
		"#175062",
		"#8FD7E2",
		"#0F3E4D",
	}
)
