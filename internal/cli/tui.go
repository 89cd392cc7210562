package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stipple/pkg/dxf"
	"github.com/matzehuels/stipple/pkg/pipeline"
	"github.com/matzehuels/stipple/pkg/scatter"
)

// TUI styles
var (
	tuiKeyStyle   = lipgloss.NewStyle().Foreground(colorBlue)
	tuiFrameStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
)

// Preview limits in terminal cells.
const (
	maxPreviewCols = 96
	maxPreviewRows = 32
)

// tuiCommand creates the tui command.
func (c *CLI) tuiCommand() *cobra.Command {
	var (
		params pipeline.Options
		output string
	)

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Tune parameters interactively",
		Long: `Tune generation parameters in the terminal.

Keys:
  r      regenerate            e      export DXF
  + / -  density               [ / ]  padding
  { / }  interspace            q      quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, profile, err := c.resolveOptions(cmd, params)
			if err != nil {
				return err
			}
			if output == "" {
				output = profile.Output.Path
			}
			if output == "" {
				output = dxf.Filename
			}
			runner, err := c.newRunner(true)
			if err != nil {
				return err
			}
			m := newTUIModel(cmd.Context(), runner, opts, output)
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	addParamFlags(cmd, &params)
	cmd.Flags().StringVarP(&output, "output", "o", "", "DXF file written by the export key (default canvasData.dxf)")
	return cmd
}

// =============================================================================
// tuiModel - Interactive generation
// =============================================================================

type generatedMsg struct {
	result scatter.Result
	err    error
}

type exportedMsg struct {
	path string
	err  error
}

// tuiModel is the bubbletea model for interactive generation.
type tuiModel struct {
	ctx    context.Context
	runner *pipeline.Runner
	output string

	// opts are the edited parameters; shown are those of the displayed set.
	opts   pipeline.Options
	shown  pipeline.Options
	result scatter.Result
	busy   bool
	status string

	width  int
	height int
}

func newTUIModel(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options, output string) tuiModel {
	return tuiModel{
		ctx:    ctx,
		runner: runner,
		output: output,
		opts:   opts,
		width:  80,
		height: 24,
	}
}

// Init generates the first set on start.
func (m tuiModel) Init() tea.Cmd {
	return m.generate()
}

func (m tuiModel) generate() tea.Cmd {
	ctx, runner, opts := m.ctx, m.runner, m.opts
	return func() tea.Msg {
		res, err := runner.Generate(ctx, opts)
		return generatedMsg{result: res, err: err}
	}
}

func (m tuiModel) export() tea.Cmd {
	path := m.output
	data := dxf.Export(m.shown.Canvas(), m.result.Points)
	return func() tea.Msg {
		return exportedMsg{path: path, err: os.WriteFile(path, data, 0o644)}
	}
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case generatedMsg:
		m.busy = false
		if msg.err != nil {
			m.status = StyleError.Render(msg.err.Error())
			return m, nil
		}
		m.result = msg.result
		m.shown = m.opts
		m.status = ""
	case exportedMsg:
		if msg.err != nil {
			m.status = StyleError.Render(msg.err.Error())
		} else {
			m.status = StyleSuccess.Render(fmt.Sprintf("%s wrote %s", iconSuccess, msg.path))
		}
	}
	return m, nil
}

func (m tuiModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "r":
		if m.busy {
			return m, nil
		}
		m.busy = true
		m.status = StyleDim.Render("generating…")
		return m, m.generate()
	case "e":
		return m, m.export()
	case "+", "=":
		m.opts.Density++
	case "-", "_":
		m.opts.Density = max(m.opts.Density-1, 0)
	case "]":
		m.opts.Padding++
	case "[":
		m.opts.Padding = max(m.opts.Padding-1, 0)
	case "}":
		m.opts.Interspace++
	case "{":
		m.opts.Interspace = max(m.opts.Interspace-1, 0)
	}
	return m, nil
}

// dirty reports whether the edited parameters differ from the displayed set.
func (m tuiModel) dirty() bool {
	return m.opts.Density != m.shown.Density ||
		m.opts.Padding != m.shown.Padding ||
		m.opts.Interspace != m.shown.Interspace
}

func (m tuiModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("stipple"))
	b.WriteString("\n\n")

	row := func(label, value, keys string) {
		b.WriteString(styleKey.Render(label))
		b.WriteString(StyleValue.Render(fmt.Sprintf("%-10s", value)))
		if keys != "" {
			b.WriteString(" " + tuiKeyStyle.Render(keys))
		}
		b.WriteString("\n")
	}
	row("Canvas", fmt.Sprintf("%d×%d", m.opts.Width, m.opts.Height), "")
	row("Grid", fmt.Sprintf("%d×%d", m.opts.Columns, m.opts.Rows), "")
	row("Density", fmt.Sprint(m.opts.Density), "+ -")
	row("Padding", dxf.FormatNumber(m.opts.Padding), "[ ]")
	row("Interspace", dxf.FormatNumber(m.opts.Interspace), "{ }")
	row("Total", fmt.Sprint(m.opts.TotalPoints()), "")
	b.WriteString("\n")

	drawn := fmt.Sprintf("Points Drawn: %d", m.result.Points.Len())
	b.WriteString(StyleNumber.Render(drawn))
	if m.dirty() {
		b.WriteString(StyleWarning.Render("  (press r to apply changes)"))
	}
	b.WriteString("\n")

	cols, rows := previewSize(m.shown.Canvas(), m.width-4, m.height-16)
	if cols > 0 && rows > 0 {
		b.WriteString(tuiFrameStyle.Render(dotMap(m.shown.Canvas(), m.result.Points, cols, rows)))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}
	b.WriteString(StyleDim.Render("r regenerate  e export  q quit"))
	return b.String()
}

// previewSize fits the canvas aspect ratio into the available cells.
// Terminal cells are about twice as tall as wide.
func previewSize(canvas scatter.Canvas, availCols, availRows int) (int, int) {
	availCols = min(availCols, maxPreviewCols)
	availRows = min(availRows, maxPreviewRows)
	if canvas.Width <= 0 || canvas.Height <= 0 || availCols <= 0 || availRows <= 0 {
		return 0, 0
	}
	cols := availCols
	rows := int(float64(cols) * canvas.Height / canvas.Width / 2)
	if rows > availRows {
		rows = availRows
		cols = int(float64(rows) * 2 * canvas.Width / canvas.Height)
	}
	return max(cols, 1), max(rows, 1)
}

// dotMap draws points into a cols×rows character grid. Cells are blank,
// '·' for one point, or '•' for more.
func dotMap(canvas scatter.Canvas, points scatter.PointSet, cols, rows int) string {
	counts := make([]int, cols*rows)
	if canvas.Width > 0 && canvas.Height > 0 {
		for _, p := range points.All() {
			cx := min(int(p[0]/canvas.Width*float64(cols)), cols-1)
			cy := min(int(p[1]/canvas.Height*float64(rows)), rows-1)
			if cx >= 0 && cy >= 0 {
				counts[cy*cols+cx]++
			}
		}
	}

	var b strings.Builder
	for y := range rows {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := range cols {
			switch n := counts[y*cols+x]; {
			case n == 0:
				b.WriteByte(' ')
			case n == 1:
				b.WriteString("·")
			default:
				b.WriteString("•")
			}
		}
	}
	return b.String()
}
