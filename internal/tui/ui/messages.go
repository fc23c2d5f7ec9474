package ui

// ThemeChangeRequestMsg is sent when a theme change is requested.
type ThemeChangeRequestMsg struct {
	ThemeName string
}

// ThemeChangedMsg is broadcast to all views when the theme changes.
type ThemeChangedMsg struct {
	ThemeName string
	Styles    Styles
}

// DeferredMsg carries work scheduled off the event loop, such as a debounced
// resort, back onto it.
type DeferredMsg struct {
	Fn func()
}

// DayChangedMsg reports that the stored record of a day changed on disk.
type DayChangedMsg struct {
	Date string
}

// DaySelectedMsg is broadcast when the day view switches to another day.
type DaySelectedMsg struct {
	Date string
}

// StatusMsg sets the one-line status shown below the active view.
type StatusMsg struct {
	Text string
	Err  error
}
