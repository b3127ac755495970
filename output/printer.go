package output

// Printer writes messages to a Sink using color-named methods.
type Printer struct {
	sink Sink
}

// NewPrinter returns a Printer writing to sink. A nil sink discards.
func NewPrinter(sink Sink) *Printer {
	if sink == nil {
		sink = Discard
	}
	return &Printer{sink: sink}
}

// Print writes msg with the given severity.
func (p *Printer) Print(sev Severity, msg string) {
	p.sink.Write(msg, sev)
}

// Red prints at abort severity.
func (p *Printer) Red(msg string) { p.Print(SeverityAbort, msg) }

// Orange prints at diagnostic log severity.
func (p *Printer) Orange(msg string) { p.Print(SeverityLog, msg) }

// Green prints at success severity.
func (p *Printer) Green(msg string) { p.Print(SeveritySuccess, msg) }

// Blue prints at info severity.
func (p *Printer) Blue(msg string) { p.Print(SeverityInfo, msg) }

// Sink returns the sink the printer writes to.
func (p *Printer) Sink() Sink {
	return p.sink
}
