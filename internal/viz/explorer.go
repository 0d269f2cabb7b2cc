package viz

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/nstar/internal/physics"
	"github.com/san-kum/nstar/internal/star"
)

const (
	massStep      = 50.0
	densityFactor = 1.1
)

// resultMsg carries the outcome of run seq. Only the latest seq is shown.
type resultMsg struct {
	seq int
	res *star.Result
	err error
}

// Explorer is a Bubble Tea model that recomputes the star each time a
// parameter changes.
type Explorer struct {
	ctx     context.Context
	opts    star.Options
	theme   Theme
	res     *star.Result
	err     error
	running bool
	runs    int
	width   int

	seq    int
	cancel context.CancelFunc
}

func NewExplorer(ctx context.Context, opts star.Options) Explorer {
	return Explorer{ctx: ctx, opts: opts, theme: CurrentTheme, width: 80, running: true}
}

// Options returns the parameters of the next run.
func (e Explorer) Options() star.Options { return e.opts }

func (e Explorer) Result() (*star.Result, error) { return e.res, e.err }

func (e Explorer) Init() tea.Cmd { return runStar(e.ctx, e.opts, e.seq) }

func runStar(ctx context.Context, opts star.Options, seq int) tea.Cmd {
	return func() tea.Msg {
		res, err := star.Run(ctx, opts)
		return resultMsg{seq: seq, res: res, err: err}
	}
}

// restart cancels the run in flight and starts one for the current options.
func (e *Explorer) restart() tea.Cmd {
	e.stop()
	ctx, cancel := context.WithCancel(e.ctx)
	e.cancel = cancel
	e.seq++
	e.running = true
	return runStar(ctx, e.opts, e.seq)
}

func (e *Explorer) stop() {
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
}

func (e Explorer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		if msg.seq != e.seq {
			return e, nil
		}
		e.res, e.err = msg.res, msg.err
		e.running = false
		e.runs++
		return e, nil
	case tea.WindowSizeMsg:
		e.width = msg.Width
		return e, nil
	case tea.KeyMsg:
		return e.handleKey(msg)
	}
	return e, nil
}

func (e Explorer) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		e.stop()
		return e, tea.Quit
	case "m":
		if e.opts.Model == physics.ModelClassical {
			e.opts.Model = physics.ModelRelativistic
		} else {
			e.opts.Model = physics.ModelClassical
		}
	case "+", "=":
		e.opts.ParticleMass += massStep
	case "-", "_":
		e.opts.ParticleMass = max(e.opts.ParticleMass-massStep, 0)
	case "]":
		e.opts.Constants.CentralDensity *= densityFactor
	case "[":
		e.opts.Constants.CentralDensity /= densityFactor
	case "t":
		e.theme = nextTheme(e.theme)
		return e, nil
	case "r":
	default:
		return e, nil
	}
	return e, e.restart()
}

func (e Explorer) View() string {
	s := newStyles(e.theme)
	var b strings.Builder

	b.WriteString(s.title.Render("nstar explorer"))
	b.WriteString("  ")
	b.WriteString(s.label.Render(fmt.Sprintf("theme %s  runs %d", e.theme.Name, e.runs)))
	b.WriteString("\n")
	b.WriteString(separator(s, min(e.width, 80)))
	b.WriteString("\n")

	fmt.Fprintf(&b, "%s %s   %s %s   %s %s\n",
		s.label.Render("model"), s.value.Render(e.opts.Model.String()),
		s.label.Render("mn"), s.value.Render(fmt.Sprintf("%.1f MeV", e.opts.ParticleMass)),
		s.label.Render("rho_s"), s.value.Render(fmt.Sprintf("%.1f MeV/fm^3", e.opts.Constants.CentralDensity)))
	b.WriteString("\n")

	switch {
	case e.running:
		b.WriteString(s.hint.Render("integrating..."))
		b.WriteString("\n")
	case e.err != nil:
		b.WriteString(s.failed.Render(e.err.Error()))
		b.WriteString("\n")
	case e.res != nil:
		b.WriteString(summary(s, e.res))
		b.WriteString("\n")
		p := e.res.Profile()
		width := max(min(e.width, 80)-12, 10)
		b.WriteString(s.label.Render("mass     "))
		b.WriteString(s.sparkline(p.MassSolar, width))
		b.WriteString("\n")
		b.WriteString(s.label.Render("pressure "))
		b.WriteString(s.sparkline(p.PressureMeV, width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(s.hint.Render("m model  +/- mass  [/] density  t theme  r rerun  q quit"))
	return b.String()
}

// RunExplorer starts the interactive program and blocks until it exits.
func RunExplorer(ctx context.Context, opts star.Options) error {
	p := tea.NewProgram(NewExplorer(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
