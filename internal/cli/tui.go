package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/graphdraw/graphdraw/pkg/observability"
	"github.com/graphdraw/graphdraw/pkg/pipeline"
)

// The run view shows pipeline stages as they complete. Stage events come
// from the observability pipeline hooks, so the TUI sees exactly what any
// other instrumentation would see.

type stageStartMsg struct {
	name string
}

type stageDoneMsg struct {
	name     string
	duration time.Duration
}

type runDoneMsg struct {
	result *pipeline.Result
	err    error
}

type tickMsg time.Time

type stageEntry struct {
	name     string
	duration time.Duration
}

// RunModel is the bubbletea model for a long pipeline run.
type RunModel struct {
	title     string
	completed []stageEntry
	current   string
	start     time.Time
	frame     int
	result    *pipeline.Result
	err       error
	cancelled bool
}

// NewRunModel creates a run view titled after the document being laid out.
func NewRunModel(title string) RunModel {
	return RunModel{title: title, start: time.Now()}
}

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m RunModel) Init() tea.Cmd {
	return tick()
}

func (m RunModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit
		}
	case stageStartMsg:
		m.current = msg.name
	case stageDoneMsg:
		m.completed = append(m.completed, stageEntry{name: msg.name, duration: msg.duration})
		if m.current == msg.name {
			m.current = ""
		}
	case runDoneMsg:
		m.result = msg.result
		m.err = msg.err
		return m, tea.Quit
	case tickMsg:
		m.frame++
		return m, tick()
	}
	return m, nil
}

func (m RunModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Laying out " + m.title))
	b.WriteString("\n\n")

	for _, st := range m.completed {
		b.WriteString(fmt.Sprintf("  %s %s %s\n",
			styleIconSuccess.Render(iconSuccess),
			st.name,
			StyleDim.Render("("+st.duration.Round(time.Millisecond).String()+")")))
	}
	if m.current != "" {
		frame := spinnerFrames[m.frame%len(spinnerFrames)]
		b.WriteString(fmt.Sprintf("  %s %s\n", styleIconSpinner.Render(frame), m.current))
	}

	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("  elapsed %s · q to cancel",
		time.Since(m.start).Round(time.Second))))
	b.WriteString("\n")
	return b.String()
}

// tuiHooks forwards pipeline events to the running program.
type tuiHooks struct {
	observability.NoopPipelineHooks
	p *tea.Program
}

func (h tuiHooks) OnParseStart(_ context.Context, _ string) {
	h.p.Send(stageStartMsg{name: "parse"})
}

func (h tuiHooks) OnParseComplete(_ context.Context, _ string, _ int, d time.Duration, _ error) {
	h.p.Send(stageDoneMsg{name: "parse", duration: d})
}

func (h tuiHooks) OnLayoutStart(_ context.Context, algorithm string, _ int) {
	h.p.Send(stageStartMsg{name: "layout (" + algorithm + ")"})
}

func (h tuiHooks) OnLayoutComplete(_ context.Context, algorithm string, d time.Duration, _ error) {
	h.p.Send(stageDoneMsg{name: "layout (" + algorithm + ")", duration: d})
}

func (h tuiHooks) OnRenderStart(_ context.Context, _ []string) {
	h.p.Send(stageStartMsg{name: "render"})
}

func (h tuiHooks) OnRenderComplete(_ context.Context, _ []string, d time.Duration, _ error) {
	h.p.Send(stageDoneMsg{name: "render", duration: d})
}

// runWithTUI executes the pipeline behind an interactive progress view.
func runWithTUI(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options, title string) (*pipeline.Result, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewRunModel(title), tea.WithContext(runCtx))
	observability.SetPipelineHooks(tuiHooks{p: p})
	defer observability.SetPipelineHooks(observability.NoopPipelineHooks{})

	go func() {
		result, err := runner.Execute(runCtx, opts)
		p.Send(runDoneMsg{result: result, err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	m := final.(RunModel)
	if m.cancelled {
		return nil, context.Canceled
	}
	return m.result, m.err
}
