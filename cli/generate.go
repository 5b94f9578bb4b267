package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss/list"
	"github.com/santiagomed/dapp/contract"
	"github.com/santiagomed/dapp/core"
	"github.com/santiagomed/dapp/logger"
	"github.com/santiagomed/dapp/utils"
)

type state int

const (
	Input state = iota
	Initializing
	Processing
	Finished
)

type resultMsg ExecutionResult

type deliveredMsg struct {
	lines []string
	err   error
}

type generateCmdModel struct {
	textInput    textinput.Model
	spinner      spinner.Model
	state        state
	setup        *genSetup
	prompt       string
	event        core.ProgressEvent
	warned       bool
	engineCtx    context.Context
	engineCancel context.CancelFunc
	publisher    *CliPublisher
	logger       logger.Logger
	err          error
}

func newGenerateModel(s *genSetup) generateCmdModel {
	ti := textinput.New()
	ti.Placeholder = "Describe the interface you want (optional)..."
	ti.Focus()
	ti.CharLimit = 280
	ti.Width = 80

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	ctx, cancel := context.WithCancel(context.Background())

	m := generateCmdModel{
		textInput:    ti,
		spinner:      sp,
		state:        Input,
		setup:        s,
		prompt:       s.flags.prompt,
		engineCtx:    ctx,
		engineCancel: cancel,
		publisher:    NewCliPublisher(s.logger),
		logger:       s.logger,
	}
	if m.prompt != "" {
		m.state = Initializing
	}
	s.engine.Start(ctx)
	return m
}

func (m generateCmdModel) Init() tea.Cmd {
	if m.state == Initializing {
		return func() tea.Msg { return nil }
	}
	return textinput.Blink
}

func (m generateCmdModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	// Check for Finished or Initializing states
	switch m.state {
	case Finished:
		return m, tea.Quit
	case Initializing:
		m.state = Processing
		return m, tea.Batch(m.spinner.Tick, m.startGeneration())
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		m, cmd := m.handleKeyPress(msg)
		if cmd != nil {
			return m, cmd
		}
	case core.ProgressEvent:
		return m.handleEvent(msg)
	case resultMsg:
		return m.handleResult(msg)
	case deliveredMsg:
		return m.handleDelivered(msg)
	default:
		if m.state == Processing {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	if m.state == Input {
		m.textInput, cmd = m.textInput.Update(msg)
	}
	return m, cmd
}

func (m generateCmdModel) View() string {
	switch m.state {
	case Input:
		return fmt.Sprintf("%s\n%s\n", m.textInput.View(), faintStyle.Render("(press enter to generate, or esc to quit)"))
	case Initializing:
		return fmt.Sprintf("%s Initializing", m.spinner.View())
	case Processing:
		return m.progressView()
	case Finished:
		return ""
	default:
		return "An error occurred."
	}
}

func (m generateCmdModel) progressView() string {
	e := m.event
	if e.Plan == nil {
		return fmt.Sprintf("%s Planning components for %s contract", m.spinner.View(), contract.Classify(m.setup.abi))
	}

	done := len(e.Completed)
	enumerator := func(items list.Items, i int) string {
		switch {
		case i < done:
			return checkStyle.Render("✓")
		case i == done && e.Stage == core.StageGenerating:
			return m.spinner.View()
		default:
			return " "
		}
	}

	l := list.New().Enumerator(enumerator)
	for i, c := range e.Plan.Components {
		switch {
		case i < done:
			l.Item(fmt.Sprintf("Generated %s.", c.Name))
		case i == done && e.Stage == core.StageGenerating:
			l.Item(fmt.Sprintf("Generating %s (%s).", c.Name, c.Kind))
		default:
			l.Item(faintStyle.Render(c.Name))
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s\n", nameStyle.Render(e.Plan.AppName)))
	sb.WriteString(fmt.Sprint(l))
	sb.WriteString("\n")
	if e.Stage == core.StageAssembling || e.Stage == core.StageComplete {
		sb.WriteString(fmt.Sprintf("%s Assembling app.\n", m.spinner.View()))
	}
	return sb.String()
}

func (m *generateCmdModel) Shutdown() {
	m.engineCancel()                         // Cancel the engine context
	m.setup.engine.Shutdown(5 * time.Second) // Give 5 seconds for graceful shutdown
}

// handleKeyPress handles key presses for the application.
func (m *generateCmdModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state {
	case Input:
		return m.handleInputState(msg)
	default:
		return m.handleQuit(msg)
	}
}

// handleInputState handles the input state of the application on key press.
func (m *generateCmdModel) handleInputState(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		return m.handleKeyEnter()
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	}
	return m, nil
}

// handleKeyEnter starts the run. An empty requirement is allowed.
func (m *generateCmdModel) handleKeyEnter() (tea.Model, tea.Cmd) {
	v := strings.TrimSpace(m.textInput.Value())
	m.textInput.SetValue("")
	m.prompt = v
	m.state = Initializing

	if v == "" {
		return m, tea.Sequence(tea.Printf("%s", faintStyle.Render("> (no extra requirements)")), func() tea.Msg { return nil })
	}
	message := faintStyle.Width(80).Render(fmt.Sprintf("> %s", utils.TruncateString(v, 240)))
	return m, tea.Sequence(tea.Printf("%s", message), func() tea.Msg { return nil })
}

func (m *generateCmdModel) listenForNextEvent() tea.Msg {
	return <-m.publisher.Events()
}

func (m *generateCmdModel) startGeneration() tea.Cmd {
	resultChan := m.setup.engine.AddRequest(m.setup.request(m.prompt), m.publisher)
	waitForResult := func() tea.Msg {
		return resultMsg(<-resultChan)
	}
	return tea.Batch(m.listenForNextEvent, waitForResult)
}

func (m *generateCmdModel) handleEvent(e core.ProgressEvent) (tea.Model, tea.Cmd) {
	m.logger.Debug(fmt.Sprintf("Received event: %s %s", e.Stage, e.Current))
	m.event = e
	if !m.warned && e.Plan != nil {
		m.warned = true
		if warn := planWarning(e.Plan); warn != "" {
			return m, tea.Batch(tea.Printf("%s", warnStyle.Render(warn)), m.listenForNextEvent)
		}
	}
	if e.Stage == core.StageComplete {
		return m, nil
	}
	return m, m.listenForNextEvent
}

func (m *generateCmdModel) handleResult(res resultMsg) (tea.Model, tea.Cmd) {
	if res.Err != nil {
		m.logger.Error(fmt.Sprintf("Error received during generation: %v", res.Err))
		m.err = res.Err
		m.state = Finished
		return m, tea.Sequence(tea.Printf("%s", errorStyle.Render(describeError(res.Err))), tea.Quit)
	}

	m.logger.Info("Finalizing app.")
	result := res.Result
	deliver := func() tea.Msg {
		lines, err := m.setup.delivery.deliver(m.engineCtx, result)
		return deliveredMsg{lines: lines, err: err}
	}
	return m, deliver
}

func (m *generateCmdModel) handleDelivered(msg deliveredMsg) (tea.Model, tea.Cmd) {
	m.state = Finished
	if msg.err != nil {
		m.logger.Error(fmt.Sprintf("Failed to write app: %v", msg.err))
		m.err = msg.err
		return m, tea.Sequence(tea.Printf("%s", errorStyle.Render(msg.err.Error())), tea.Quit)
	}
	return m, tea.Sequence(tea.Printf("%s", strings.Join(msg.lines, "\n")), tea.Quit)
}

// handleQuit handles the quit state of the application on key press.
func (m *generateCmdModel) handleQuit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
		m.logger.Debug("User exited the application")
		m.engineCancel()
		message := faintStyle.Render("Interrupted. Exiting application...")
		return m, tea.Sequence(tea.Printf("%s", message), tea.Quit)
	}
	return m, nil
}
