package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/masonry/pkg/config"
	"github.com/matzehuels/masonry/pkg/content"
	"github.com/matzehuels/masonry/pkg/masonry"
	"github.com/matzehuels/masonry/pkg/surface"
)

// One terminal cell covers cellWidth x cellHeight surface units.
const (
	cellWidth  = 8
	cellHeight = 16
)

// chromeRows is the number of terminal rows used by the header and footer.
const chromeRows = 4

// Preview styles
var (
	previewBoxStyle    = lipgloss.NewStyle().Foreground(colorCyan)
	previewBrokenStyle = lipgloss.NewStyle().Foreground(colorYellow)
	previewDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
)

// previewCommand creates the preview command.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		geo      geometry
		pageSize int
	)

	cmd := &cobra.Command{
		Use:   "preview [feed]",
		Short: "Browse a feed in the terminal",
		Long: `Lay out a feed in the terminal. The surface follows the window size, so
resizing the terminal relayouts every item. Scrolling near the bottom pages
in the next --page-size items.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPreview(cmd.Context(), args[0], &geo, pageSize)
		},
	}

	geo.register(cmd)
	cmd.Flags().IntVar(&pageSize, "page-size", 20, "items per page")
	return cmd
}

func (c *CLI) runPreview(ctx context.Context, input string, geo *geometry, pageSize int) error {
	f, err := geo.settings()
	if err != nil {
		return err
	}
	f.Responsive = true

	descs, err := config.ImportFeed(input)
	if err != nil {
		return err
	}
	pages := config.Paginate(descs, pageSize)
	if len(pages) == 0 {
		printWarning("Feed %s is empty", input)
		return nil
	}

	store, err := newCache(ctx, f.Cache)
	if err != nil {
		return err
	}
	defer store.Close()
	images := newImageLoader(f, store, filepath.Dir(input))

	// Log lines would tear the alt screen.
	level := c.Logger.GetLevel()
	c.Logger.SetLevel(LogError)
	defer c.Logger.SetLevel(level)

	wf, canvas, err := c.newWaterfall(ctx, f, images, pages[0])
	if err != nil {
		return err
	}
	defer wf.Destroy()

	m := newPreviewModel(ctx, wf, canvas, pages, filepath.Base(input))
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// =============================================================================
// previewModel
// =============================================================================

// settledMsg reports that every pending load and pass has finished.
type settledMsg struct{ err error }

// refreshMsg asks the model to wait for the waterfall again, after a scroll
// had time to pass through the debounce.
type refreshMsg struct{}

// previewModel is the bubbletea model for the preview command.
type previewModel struct {
	ctx    context.Context
	wf     *masonry.Waterfall
	canvas *surface.Canvas
	title  string

	pages [][]content.Descriptor
	armed int // index of the last page handed to LoadMore
	want  int // item count once the armed page has been appended

	cols, rows int
	err        error
}

func newPreviewModel(ctx context.Context, wf *masonry.Waterfall, canvas *surface.Canvas, pages [][]content.Descriptor, title string) *previewModel {
	return &previewModel{
		ctx:    ctx,
		wf:     wf,
		canvas: canvas,
		title:  title,
		pages:  pages,
		want:   len(pages[0]),
	}
}

func (m *previewModel) Init() tea.Cmd {
	return m.settle()
}

func (m *previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		step := float64(cellHeight)
		page := m.canvas.Scroll().Viewport
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "down", "j":
			m.canvas.ScrollBy(step)
		case "up", "k":
			m.canvas.ScrollBy(-step)
		case "pgdown", " ", "f":
			m.canvas.ScrollBy(page)
		case "pgup", "b":
			m.canvas.ScrollBy(-page)
		case "home", "g":
			m.canvas.ScrollTo(0)
		case "end", "G":
			m.canvas.ScrollToBottom()
		default:
			return m, nil
		}
		return m, m.refreshAfterDebounce()

	case tea.WindowSizeMsg:
		m.cols, m.rows = msg.Width, msg.Height
		m.canvas.Resize(float64(m.cols*cellWidth), float64(max(m.rows-chromeRows, 1)*cellHeight))
		return m, m.settle()

	case refreshMsg:
		return m, m.settle()

	case settledMsg:
		m.err = msg.err
		m.armNextPage()
	}
	return m, nil
}

// armNextPage hands the next page to the waterfall once the previous one
// has been appended.
func (m *previewModel) armNextPage() {
	if len(m.wf.Items()) < m.want || m.armed+1 >= len(m.pages) {
		return
	}
	m.armed++
	m.want += len(m.pages[m.armed])
	m.wf.LoadMore(m.pages[m.armed])
}

func (m *previewModel) settle() tea.Cmd {
	return func() tea.Msg {
		return settledMsg{err: m.wf.Settle(m.ctx)}
	}
}

func (m *previewModel) refreshAfterDebounce() tea.Cmd {
	d := m.wf.Config().ScrollDebounce + 50*time.Millisecond
	return tea.Tick(d, func(time.Time) tea.Msg { return refreshMsg{} })
}

func (m *previewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.title))
	b.WriteString("  ")
	b.WriteString(previewDimStyle.Render("↑/↓ scroll  space page  g/G top/bottom  q quit"))
	b.WriteString("\n\n")

	if m.cols > 0 {
		b.WriteString(m.draw())
	}

	mt := m.canvas.Scroll()
	status := fmt.Sprintf("%d items · extent %.0f · top %.0f", len(m.wf.Items()), mt.Height, mt.Top)
	if m.wf.Loading() {
		status += " · loading"
	}
	if m.armed+1 >= len(m.pages) && !m.wf.Loading() {
		status += " · end of feed"
	}
	if m.err != nil {
		status += " · " + m.err.Error()
	}
	b.WriteString("\n")
	b.WriteString(previewDimStyle.Render(status))
	return b.String()
}

// draw renders the visible nodes as boxes on a cell grid.
func (m *previewModel) draw() string {
	rows := max(m.rows-chromeRows, 1)
	grid := make([][]rune, rows)
	broken := make([][]bool, rows)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", m.cols))
		broken[i] = make([]bool, m.cols)
	}

	top := m.canvas.Scroll().Top
	for _, n := range m.canvas.Visible() {
		p := n.Position
		x0 := int(p.Left / cellWidth)
		x1 := int(p.Right()/cellWidth) - 1
		y0 := int((p.Top - top) / cellHeight)
		y1 := int((p.Bottom()-top)/cellHeight) - 1
		if x1 <= x0 {
			x1 = x0 + 1
		}
		if y1 < y0 {
			y1 = y0
		}
		label := n.Element.Alt
		if label == "" {
			label = shortName(n.Element.Src)
		}
		box(grid, broken, x0, y0, x1, y1, label, n.Element.Broken)
	}

	var b strings.Builder
	for y, line := range grid {
		var run []rune
		flag := false
		flush := func() {
			if len(run) == 0 {
				return
			}
			if flag {
				b.WriteString(previewBrokenStyle.Render(string(run)))
			} else {
				b.WriteString(previewBoxStyle.Render(string(run)))
			}
			run = run[:0]
		}
		for x, r := range line {
			if broken[y][x] != flag {
				flush()
				flag = broken[y][x]
			}
			run = append(run, r)
		}
		flush()
		b.WriteString("\n")
	}
	return b.String()
}

// box draws a rectangle with a label on its first inner row, clipping to
// the grid.
func box(grid [][]rune, broken [][]bool, x0, y0, x1, y1 int, label string, isBroken bool) {
	set := func(x, y int, r rune) {
		if y < 0 || y >= len(grid) || x < 0 || x >= len(grid[y]) {
			return
		}
		grid[y][x] = r
		broken[y][x] = isBroken
	}
	for x := x0 + 1; x < x1; x++ {
		set(x, y0, '─')
		set(x, y1, '─')
	}
	for y := y0 + 1; y < y1; y++ {
		set(x0, y, '│')
		set(x1, y, '│')
	}
	set(x0, y0, '╭')
	set(x1, y0, '╮')
	set(x0, y1, '╰')
	set(x1, y1, '╯')

	if y1-y0 < 2 {
		return
	}
	width := x1 - x0 - 1
	for i, r := range []rune(label) {
		if i >= width {
			break
		}
		set(x0+1+i, y0+1, r)
	}
}

// shortName returns the last path element of an image source.
func shortName(src string) string {
	if i := strings.LastIndexByte(src, '/'); i >= 0 {
		return src[i+1:]
	}
	return src
}
