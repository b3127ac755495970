package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tetratelabs/wazero/api"

	"github.com/leachain/vm-shim/errors"
	"github.com/leachain/vm-shim/output"
	"github.com/leachain/vm-shim/platform/process"
	"github.com/leachain/vm-shim/runtime"
	"github.com/leachain/vm-shim/shim"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	funcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type interactiveModel struct {
	err      error
	rt       *runtime.Runtime
	instance *runtime.Instance
	rec      *output.Recorder
	opts     runOptions
	filename string
	result   string
	captured []output.Entry
	funcs    []runtime.Function
	inputs   []textinput.Model
	selected int
	focusIdx int
	state    modelState
	// calling is set while a guest call is in flight; the recorder holds
	// that call's output, so a second call waits.
	calling bool
}

type modelState int

const (
	stateSelectFunc modelState = iota
	stateInputArgs
	stateShowResult
)

func newInteractiveModel(filename string, opts runOptions) *interactiveModel {
	return &interactiveModel{
		filename: filename,
		opts:     opts,
		rec:      output.NewRecorder(),
		state:    stateSelectFunc,
	}
}

type loadedMsg struct {
	err   error
	rt    *runtime.Runtime
	inst  *runtime.Instance
	funcs []runtime.Function
}

type callResultMsg struct {
	err      error
	result   string
	captured []output.Entry
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.loadModule
}

// loadModule instantiates the guest once; calls share its memory and the shim.
func (m *interactiveModel) loadModule() tea.Msg {
	ctx := context.Background()

	data, err := os.ReadFile(m.filename)
	if err != nil {
		return loadedMsg{err: err}
	}

	// Guest output goes to the recorder for display and to the log.
	sink := output.Multi(m.rec, output.NewZapSink(shim.Logger()))
	sh, err := process.New(m.opts.shimConfig(sink))
	if err != nil {
		return loadedMsg{err: err}
	}

	rtOpts := []runtime.Option{}
	if m.opts.wasi {
		rtOpts = append(rtOpts, runtime.WithWASI())
	}
	if m.opts.memoryPages > 0 {
		rtOpts = append(rtOpts, runtime.WithMemoryLimitPages(m.opts.memoryPages))
	}
	rt, err := runtime.New(ctx, sh, rtOpts...)
	if err != nil {
		return loadedMsg{err: err}
	}

	mod, err := rt.LoadWASM(ctx, data)
	if err != nil {
		rt.Close(ctx)
		return loadedMsg{err: err}
	}

	inst, err := mod.Instantiate(ctx)
	if err != nil {
		rt.Close(ctx)
		return loadedMsg{err: err}
	}

	return loadedMsg{rt: rt, inst: inst, funcs: mod.Exports()}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.rt != nil {
				m.rt.Close(context.Background())
			}
			return m, tea.Quit

		case "up", "k":
			if m.state == stateSelectFunc && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectFunc && m.selected < len(m.funcs)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectFunc:
				if len(m.funcs) == 0 {
					return m, nil
				}
				if m.calling {
					return m, nil
				}
				m.prepareInputs()
				if len(m.inputs) == 0 {
					return m, m.startCall()
				}
				m.state = stateInputArgs

			case stateInputArgs:
				return m, m.startCall()

			case stateShowResult:
				m.reset()
			}

		case "tab":
			if m.state == stateInputArgs && len(m.inputs) > 1 {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}

		case "esc":
			switch m.state {
			case stateInputArgs:
				m.state = stateSelectFunc
				m.inputs = nil
			case stateShowResult:
				m.reset()
			}
		}

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.rt = msg.rt
		m.instance = msg.inst
		m.funcs = msg.funcs
		// Output printed while binding (e.g. a missing memory warning).
		m.captured = m.rec.Entries()
		m.rec.Reset()

	case callResultMsg:
		m.calling = false
		m.result = msg.result
		m.err = msg.err
		m.captured = msg.captured
		m.state = stateShowResult
	}

	if m.state == stateInputArgs {
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m *interactiveModel) reset() {
	m.state = stateSelectFunc
	m.result = ""
	m.captured = nil
	m.err = nil
}

func (m *interactiveModel) prepareInputs() {
	f := m.funcs[m.selected]
	m.inputs = make([]textinput.Model, len(f.Params))
	for i, p := range f.Params {
		ti := textinput.New()
		ti.Placeholder = api.ValueTypeName(p)
		ti.Prompt = fmt.Sprintf("arg%d: ", i)
		ti.Width = 40
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	m.focusIdx = 0
}

// startCall returns the command for the selected function, or nil while
// another call is running.
func (m *interactiveModel) startCall() tea.Cmd {
	if m.calling {
		return nil
	}
	m.calling = true
	return m.callFunction
}

func (m *interactiveModel) callFunction() tea.Msg {
	ctx := context.Background()

	if m.instance == nil {
		return callResultMsg{err: fmt.Errorf("module not loaded")}
	}

	f := m.funcs[m.selected]
	values := make([]string, len(m.inputs))
	for i, input := range m.inputs {
		values[i] = input.Value()
	}
	args, err := parseArgs(values, f.Params)
	if err != nil {
		return callResultMsg{err: err}
	}

	m.rec.Reset()
	results, err := m.instance.Call(ctx, f.Name, args...)
	captured := m.rec.Entries()
	if err != nil {
		return callResultMsg{err: err, captured: captured}
	}

	result := "(no results)"
	if len(results) > 0 {
		result = formatResults(results, f.Results)
	}
	return callResultMsg{result: result, captured: captured}
}

func (m *interactiveModel) View() string {
	if m.err != nil && m.state != stateShowResult {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	if m.rt == nil {
		return "Loading module..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Lea VM Shim"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectFunc:
		if len(m.funcs) == 0 {
			b.WriteString("The module exports no functions.\n")
		} else {
			b.WriteString("Select a function to call:\n\n")
		}
		for i, f := range m.funcs {
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + formatSignature(f)))
			} else {
				b.WriteString("  " + m.formatFunc(f))
			}
			b.WriteString("\n")
		}
		b.WriteString(renderCaptured(m.captured))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter call • q quit"))

	case stateInputArgs:
		f := m.funcs[m.selected]
		b.WriteString(fmt.Sprintf("Calling %s\n\n", funcStyle.Render(f.Name)))
		for i, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString(" ")
			b.WriteString(typeStyle.Render(api.ValueTypeName(f.Params[i])))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter call • esc back"))

	case stateShowResult:
		f := m.funcs[m.selected]
		b.WriteString(fmt.Sprintf("Result of %s:\n\n", funcStyle.Render(f.Name)))
		switch {
		case errors.IsAbort(m.err):
			b.WriteString(errorStyle.Render("Guest aborted: " + strings.TrimRight(errors.AbortMessage(m.err), "\n")))
		case m.err != nil:
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		default:
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n")
		b.WriteString(renderCaptured(m.captured))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func (m *interactiveModel) formatFunc(f runtime.Function) string {
	result := ""
	if len(f.Results) > 0 {
		result = " -> " + typeStyle.Render(formatTypes(f.Results))
	}
	return funcStyle.Render(f.Name) + "(" + typeStyle.Render(formatTypes(f.Params)) + ")" + result
}

// renderCaptured shows host output in the severity colors of the terminal sink.
func renderCaptured(entries []output.Entry) string {
	if len(entries) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\nHost output:\n")
	for _, e := range entries {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(e.Severity.ANSI()))
		for _, line := range strings.Split(strings.TrimRight(e.Message, "\n"), "\n") {
			b.WriteString("  ")
			b.WriteString(style.Render(line))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func runInteractive(filename string, opts runOptions) error {
	p := tea.NewProgram(newInteractiveModel(filename, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
