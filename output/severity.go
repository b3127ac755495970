package output

// Severity classifies a message for routing and presentation.
type Severity uint8

const (
	SeverityAbort Severity = iota
	SeverityLog
	SeveritySuccess
	SeverityInfo
)

type palette struct {
	name string
	ansi string
	css  string
}

var palettes = [...]palette{
	SeverityAbort:   {name: "abort", ansi: "196", css: "red"},
	SeverityLog:     {name: "log", ansi: "208", css: "orange"},
	SeveritySuccess: {name: "success", ansi: "46", css: "green"},
	SeverityInfo:    {name: "info", ansi: "33", css: "blue"},
}

func (s Severity) palette() palette {
	if int(s) < len(palettes) {
		return palettes[s]
	}
	return palettes[SeverityInfo]
}

func (s Severity) String() string {
	if int(s) < len(palettes) {
		return palettes[s].name
	}
	return "unknown"
}

// ANSI returns the 256-color terminal code for s.
func (s Severity) ANSI() string {
	return s.palette().ansi
}

// CSS returns the CSS color name for s.
func (s Severity) CSS() string {
	return s.palette().css
}
