package render

// DisplayConfig is handed to the calendar widget alongside the items.
type DisplayConfig struct {
	Locale            string   `json:"locale"`
	FirstDay          int      `json:"firstDay"` // 0 = Sunday, 1 = Monday
	InitialView       string   `json:"initialView"`
	Views             []string `json:"views"`
	CompactBreakpoint int      `json:"compactBreakpoint"`
	Labels            Labels   `json:"labels"`
	Palette           Palette  `json:"palette"`
}

// Labels are the widget's user-facing texts.
type Labels struct {
	Today    string `json:"today"`
	Month    string `json:"month"`
	Week     string `json:"week"`
	List     string `json:"list"`
	AllDay   string `json:"allDay"`
	NoEvents string `json:"noEvents"`
	More     string `json:"more"`
}

// DefaultDisplayConfig is a Monday-first German calendar opening on the
// month grid.
func DefaultDisplayConfig(p Palette, breakpoint int) DisplayConfig {
	return DisplayConfig{
		Locale:            "de",
		FirstDay:          1,
		InitialView:       ViewMonth,
		Views:             []string{ViewMonth, ViewWeek, ViewList},
		CompactBreakpoint: breakpoint,
		Labels: Labels{
			Today:    "Heute",
			Month:    "Monat",
			Week:     "Woche",
			List:     "Liste",
			AllDay:   "Ganztägig",
			NoEvents: "Keine Veranstaltungen",
			More:     "weitere",
		},
		Palette: p,
	}
}
