package output

import (
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// TerminalSink writes messages to a stream, colored with 256-color ANSI
// sequences when the stream is a terminal.
type TerminalSink struct {
	w      io.Writer
	styles [len(palettes)]lipgloss.Style
	mu     sync.Mutex
}

// TerminalOption configures a TerminalSink.
type TerminalOption func(*terminalConfig)

type terminalConfig struct {
	color *bool
}

// WithColor forces colors on or off regardless of terminal detection.
func WithColor(enabled bool) TerminalOption {
	return func(c *terminalConfig) {
		c.color = &enabled
	}
}

// NewTerminalSink returns a sink writing to w.
func NewTerminalSink(w io.Writer, opts ...TerminalOption) *TerminalSink {
	var cfg terminalConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	colored := isTerminal(w)
	if cfg.color != nil {
		colored = *cfg.color
	}

	r := lipgloss.NewRenderer(w)
	if colored {
		r.SetColorProfile(termenv.ANSI256)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}

	s := &TerminalSink{w: w}
	for i, p := range palettes {
		s.styles[i] = r.NewStyle().
			Foreground(lipgloss.Color(p.ansi)).
			TabWidth(lipgloss.NoTabConversion)
	}
	return s
}

// Write renders msg line by line so that trailing newlines survive styling.
func (s *TerminalSink) Write(msg string, sev Severity) {
	style := s.styles[SeverityInfo]
	if int(sev) < len(s.styles) {
		style = s.styles[sev]
	}

	lines := strings.Split(msg, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = style.Render(line)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = io.WriteString(s.w, strings.Join(lines, "\n"))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
