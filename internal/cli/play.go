package cli

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/plotline/pkg/player"
	"github.com/matzehuels/plotline/pkg/render/canvas"
	"github.com/matzehuels/plotline/pkg/render/sink"
	"github.com/matzehuels/plotline/pkg/timeline"
)

// Play styles
var (
	playHeadStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	playTrackStyle = lipgloss.NewStyle().Foreground(colorDim)
	playLabelStyle = lipgloss.NewStyle().Foreground(colorGray).Width(10)
)

const (
	defaultBarWidth = 60
	scrubSecs       = 1.0
)

type playOpts struct {
	at     float64
	paused bool
	seed   uint64
}

func (c *CLI) playCommand() *cobra.Command {
	var opts playOpts

	cmd := &cobra.Command{
		Use:   "play <scene.toml>",
		Short: "Play a scene's timeline in the terminal",
		Long: `Play runs the timeline at the scene's frame rate and shows the playhead,
the active items and the draw ops of each frame. Evaluation errors pause
playback until every message is dismissed.

Keys: space play/pause, ←/→ scrub, x dismiss error, s save frame, q quit.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeScene,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlay(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().Float64Var(&opts.at, "at", 0, "start time in seconds")
	cmd.Flags().BoolVar(&opts.paused, "paused", false, "start paused")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "override the scene seed")

	return cmd
}

func (c *CLI) runPlay(ctx context.Context, input string, opts *playOpts) error {
	sc, tl, err := c.loadScene(ctx, input, opts.seed)
	if err != nil {
		return err
	}
	bg, err := sc.BackgroundColor()
	if err != nil {
		return err
	}

	tl.SeekSeconds(opts.at)
	tl.Running = !opts.paused

	base := basePath("", input)
	m := newPlayModel(ctx, player.New(tl, sc.Width, sc.Height), filepath.Base(input))
	m.snapshot = func(secs float64, ops []canvas.Op) (string, error) {
		path := fmt.Sprintf("%s-%06.2fs.svg", base, secs)
		data := sink.RenderSVG(ops, sink.WithSize(sc.Width, sc.Height), sink.WithBackground(bg), sink.WithTitle(filepath.Base(input)))
		return path, writeOutput(path, data)
	}

	// The logger would draw over the view.
	logger := loggerFromContext(ctx)
	level := logger.GetLevel()
	logger.SetLevel(log.FatalLevel)
	defer logger.SetLevel(level)

	final, err := tea.NewProgram(m, tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("play: %w", err)
	}
	if fm, ok := final.(playModel); ok && fm.saved > 0 {
		printSuccess("Saved %d frames", fm.saved)
	}
	return nil
}

// =============================================================================
// playModel - Interactive timeline playback
// =============================================================================

type frameMsg time.Time

// playModel is the bubbletea model of the play command. Every frame tick
// evaluates the timeline once through the player.
type playModel struct {
	ctx      context.Context
	player   *player.Player
	title    string
	barWidth int

	ops       []canvas.Op
	evaluated []timeline.Evaluated
	status    string
	saved     int

	// snapshot writes the current frame and returns its path.
	snapshot func(secs float64, ops []canvas.Op) (string, error)
}

func newPlayModel(ctx context.Context, p *player.Player, title string) playModel {
	return playModel{ctx: ctx, player: p, title: title, barWidth: defaultBarWidth}
}

func (m playModel) tick() tea.Cmd {
	fps := m.player.Timeline().FPS
	if fps <= 0 {
		fps = timeline.DefaultFPS
	}
	return tea.Tick(time.Duration(float64(time.Second)/fps), func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m playModel) Init() tea.Cmd {
	return m.tick()
}

func (m playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	tl := m.player.Timeline()
	switch msg := msg.(type) {
	case frameMsg:
		m.ops, m.evaluated = m.player.Step(m.ctx)
		return m, m.tick()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ", "space":
			if tl.Running {
				tl.Running = false
			} else if !tl.Resume(m.player.Queue()) {
				m.status = "dismiss errors with x to resume"
			}
		case "left", "h":
			tl.SeekSeconds(tl.Seconds() - scrubSecs)
		case "right", "l":
			tl.SeekSeconds(tl.Seconds() + scrubSecs)
		case "home", "0":
			tl.Seek(0)
		case "x":
			if m.player.Queue().HasErrors() {
				if m.player.Dismiss() {
					m.status = "resumed"
				}
			}
		case "s":
			if m.snapshot == nil {
				break
			}
			path, err := m.snapshot(tl.Seconds(), m.ops)
			if err != nil {
				m.status = "save failed: " + err.Error()
			} else {
				m.saved++
				m.status = "saved " + path
			}
		}
	case tea.WindowSizeMsg:
		m.barWidth = max(msg.Width-playLabelStyle.GetWidth()-4, 20)
	}
	return m, nil
}

func (m playModel) View() string {
	tl := m.player.Timeline()
	var b strings.Builder

	state := "▶"
	if !tl.Running {
		state = "⏸"
	}
	b.WriteString(StyleTitle.Render(m.title))
	b.WriteString(fmt.Sprintf("  %s %s / %s\n\n",
		StyleHighlight.Render(state),
		StyleValue.Render(fmt.Sprintf("%5.2fs", tl.Seconds())),
		StyleDim.Render(fmt.Sprintf("%gs", tl.TotalSecs))))

	b.WriteString(m.timelineView())
	b.WriteString("\n")

	active := make(map[string]timeline.Evaluated, len(m.evaluated))
	for _, ev := range m.evaluated {
		active[ev.Item.Name] = ev
	}
	for _, it := range tl.Items {
		ev, ok := active[it.Name]
		if !ok {
			continue
		}
		line := fmt.Sprintf("  %s %-14s %3.0f%%  %d calls  %s",
			swatch(it), it.Name, ev.Progress*100, ev.Stats.Calls, ev.Stats.Duration.Round(time.Microsecond))
		if ev.Err != nil {
			line += "  " + StyleError.Render("failed")
		}
		b.WriteString(line + "\n")
	}
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %d draw ops", len(m.ops))))
	b.WriteString("\n")

	if q := m.player.Queue(); q.HasErrors() {
		b.WriteString("\n")
		for i, msg := range q.Messages() {
			prefix := "  "
			if i == 0 {
				prefix = StyleError.Render(iconError) + " "
			}
			b.WriteString(prefix + StyleError.Render(msg) + "\n")
		}
	}
	if m.status != "" {
		b.WriteString("\n" + StyleDim.Render(m.status) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(StyleDim.Render("space play/pause  ←/→ scrub  x dismiss  s save  q quit"))
	b.WriteString("\n")
	return b.String()
}

// timelineView draws one track per item row with the playhead above.
func (m playModel) timelineView() string {
	tl := m.player.Timeline()
	if tl.Width <= 0 {
		return ""
	}
	col := func(x float64) int {
		return min(int(math.Floor(x/tl.Width*float64(m.barWidth))), m.barWidth-1)
	}

	var b strings.Builder
	head := col(tl.Playhead)
	b.WriteString(playLabelStyle.Render("") + " " + strings.Repeat(" ", head) + playHeadStyle.Render("▼") + "\n")

	rows := map[float64][]*timeline.Item{}
	for _, it := range tl.Items {
		rows[it.Y] = append(rows[it.Y], it)
	}
	ys := make([]float64, 0, len(rows))
	for y := range rows {
		ys = append(ys, y)
	}
	slices.Sort(ys)

	for _, y := range ys {
		cells := make([]string, m.barWidth)
		for i := range cells {
			cells[i] = playTrackStyle.Render("·")
		}
		var names []string
		for _, it := range rows[y] {
			names = append(names, it.Name)
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(it.Color.Hex()))
			for i := col(it.X); i <= col(it.X+it.Length-1e-9) && i < m.barWidth; i++ {
				cells[i] = style.Render("█")
			}
		}
		if head >= 0 && head < m.barWidth {
			cells[head] = playHeadStyle.Render("│")
		}
		label := strings.Join(names, ",")
		if len(label) > 9 {
			label = label[:8] + "…"
		}
		b.WriteString(playLabelStyle.Render(label) + " " + strings.Join(cells, "") + "\n")
	}
	return b.String()
}

func swatch(it *timeline.Item) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(it.Color.Hex())).Render("■")
}
