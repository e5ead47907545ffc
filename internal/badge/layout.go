package badge

// Fixed geometry of the badge, in user units.
const (
	CanvasWidth   = 560.0
	Padding       = 20.0
	HeaderHeight  = 56.0
	BlockGap      = 16.0
	CardHeight    = 60.0
	CardGap       = 12.0
	RowHeight     = 44.0
	RowGap        = 6.0
	FooterHeight  = 24.0
	StatsColumns  = 4
	contentWidth  = CanvasWidth - 2*Padding
	minCardColumn = 1
)

// Rect is an axis-aligned box; Y grows downwards.
type Rect struct {
	X, Y, W, H float64
}

// Bottom returns the Y coordinate of the lower edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Right returns the X coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Layout is the complete geometry of one badge.
type Layout struct {
	Width, Height float64
	Header        Rect
	Stats         Rect
	Cards         []Rect
	Rows          Rect
	RowSlots      []Rect
	Footer        Rect
}

// ComputeLayout derives the badge geometry from content counts only; text is
// never measured. Blocks are stacked top to bottom: header, stats panel,
// leaderboard rows, footer, separated by BlockGap and framed by Padding.
func ComputeLayout(rows, cards, columns int) Layout {
	rows = max(rows, 0)
	cards = max(cards, 0)
	columns = max(columns, minCardColumn)

	l := Layout{Width: CanvasWidth}
	y := Padding

	l.Header = Rect{X: Padding, Y: y, W: contentWidth, H: HeaderHeight}
	y = l.Header.Bottom() + BlockGap

	l.Stats = Rect{X: Padding, Y: y, W: contentWidth, H: statsHeight(cards, columns)}
	l.Cards = cardRects(l.Stats, cards, columns)
	y = l.Stats.Bottom() + BlockGap

	l.Rows = Rect{X: Padding, Y: y, W: contentWidth, H: float64(rows) * RowHeight}
	l.RowSlots = make([]Rect, rows)
	for i := range rows {
		l.RowSlots[i] = Rect{
			X: Padding,
			Y: l.Rows.Y + float64(i)*RowHeight,
			W: contentWidth,
			H: RowHeight - RowGap,
		}
	}
	y = l.Rows.Bottom()

	l.Footer = Rect{X: Padding, Y: y, W: contentWidth, H: FooterHeight}
	l.Height = l.Footer.Bottom() + Padding
	return l
}

func statsHeight(cards, columns int) float64 {
	lines := cardLines(cards, columns)
	if lines == 0 {
		return 0
	}
	return float64(lines)*CardHeight + float64(lines-1)*CardGap
}

func cardLines(cards, columns int) int {
	return (cards + columns - 1) / columns
}

func cardRects(panel Rect, cards, columns int) []Rect {
	w := (panel.W - float64(columns-1)*CardGap) / float64(columns)
	rects := make([]Rect, cards)
	for i := range cards {
		col, line := i%columns, i/columns
		rects[i] = Rect{
			X: panel.X + float64(col)*(w+CardGap),
			Y: panel.Y + float64(line)*(CardHeight+CardGap),
			W: w,
			H: CardHeight,
		}
	}
	return rects
}
