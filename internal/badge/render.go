// Package badge lays out and draws the contributor leaderboard as a
// standalone SVG document.
//
// Rendering goes through a small scene graph (see [Node]) so that geometry
// and content can be inspected without parsing markup. Untrusted text enters
// the graph only through [Sanitize].
package badge

import (
	"fmt"
	"strconv"

	"github.com/naka-gawa/github-leaderboard-badge/internal/domain"
)

// Caption is the fixed subtitle under the organization name.
const Caption = "Top contributors across all repositories"

// Row geometry, relative to a row slot.
const (
	rankCenterX   = 18.0
	avatarCenterX = 52.0
	avatarRadius  = 14.0
	textX         = 76.0
	TrackWidth    = 300.0
	trackHeight   = 8.0
	trackOffsetY  = 24.0
	MinBarWidth   = 4.0
	shareWidth    = 56.0
	shareHeight   = 22.0
)

const fontFamily = "Segoe UI, Helvetica, Arial, sans-serif"

var medals = map[int]string{1: "🥇", 2: "🥈", 3: "🥉"}

// Theme holds the badge colors.
type Theme struct {
	Background string
	Panel      string
	Accent     string
	Text       string
	Muted      string
	Track      string
}

// DefaultTheme is the dark theme used unless WithTheme is given.
var DefaultTheme = Theme{
	Background: "#1E1E2F",
	Panel:      "#2E2E4D",
	Accent:     "#FFD700",
	Text:       "#FFFFFF",
	Muted:      "#A0A0C0",
	Track:      "#44446A",
}

// RenderOption customizes Render.
type RenderOption func(*renderer)

// WithTheme overrides the colors.
func WithTheme(t Theme) RenderOption { return func(r *renderer) { r.theme = t } }

// WithStatsColumns sets how many metric cards share one line.
func WithStatsColumns(n int) RenderOption { return func(r *renderer) { r.columns = n } }

type renderer struct {
	theme   Theme
	columns int
}

type statCard struct {
	label, value string
}

// Render builds the badge for s. The output depends only on s, so identical
// summaries produce byte-identical documents.
func Render(s *domain.Summary, opts ...RenderOption) *Document {
	r := renderer{theme: DefaultTheme, columns: StatsColumns}
	for _, opt := range opts {
		opt(&r)
	}

	cards := statCards(s)
	l := ComputeLayout(len(s.Leaderboard), len(cards), r.columns)

	root := El("svg",
		A("xmlns", "http://www.w3.org/2000/svg"),
		A("width", l.Width),
		A("height", l.Height),
		A("viewBox", fmt.Sprintf("0 0 %s %s", num(l.Width), num(l.Height))),
		A("role", "img"),
		A("font-family", fontFamily),
	)
	root.Append(
		El("title").WithText("Top contributors of "+Sanitize(s.Organization, OrgNameLimit)),
		r.defs(s, l),
		El("rect", A("width", "100%"), A("height", "100%"), A("rx", 10), A("ry", 10), A("fill", r.theme.Background)),
		r.header(s, l.Header),
		r.stats(cards, l),
		r.rows(s, l),
		r.footer(s, l.Footer),
	)
	return &Document{Root: root, Layout: l}
}

func statCards(s *domain.Summary) []statCard {
	return []statCard{
		{"Repositories", strconv.Itoa(s.RepositoriesScanned)},
		{"Contributors", strconv.Itoa(s.UniqueContributors)},
		{"Commits", strconv.Itoa(s.TotalCommits)},
		{"Top share", percent(s.TopSharePercent)},
	}
}

// defs declares one circular clip per row. Ids carry the row index so rows
// never share a clip within the document.
func (r renderer) defs(s *domain.Summary, l Layout) *Node {
	defs := El("defs")
	for i := range s.Leaderboard {
		slot := l.RowSlots[i]
		defs.Append(El("clipPath", A("id", clipID(i))).Append(
			El("circle",
				A("cx", slot.X+avatarCenterX),
				A("cy", slot.Y+slot.H/2),
				A("r", avatarRadius),
			),
		))
	}
	return defs
}

func (r renderer) header(s *domain.Summary, box Rect) *Node {
	return El("g", A("class", "header")).Append(
		El("text", A("class", "org-name"), A("x", box.X), A("y", box.Y+26),
			A("font-size", 20), A("font-weight", "bold"), A("fill", r.theme.Accent),
		).WithText(Sanitize(s.Organization, OrgNameLimit)),
		El("text", A("class", "caption"), A("x", box.X), A("y", box.Y+46),
			A("font-size", 12), A("fill", r.theme.Muted),
		).WithText(Caption),
	)
}

func (r renderer) stats(cards []statCard, l Layout) *Node {
	g := El("g", A("class", "stats"))
	for i, c := range cards {
		box := l.Cards[i]
		g.Append(El("g", A("class", "stat-card"), A("id", fmt.Sprintf("stat-%d", i))).Append(
			El("rect", A("x", box.X), A("y", box.Y), A("width", box.W), A("height", box.H),
				A("rx", 8), A("fill", r.theme.Panel)),
			El("text", A("class", "stat-label"), A("x", box.X+12), A("y", box.Y+22),
				A("font-size", 11), A("fill", r.theme.Muted)).WithText(c.label),
			El("text", A("class", "stat-value"), A("x", box.X+12), A("y", box.Y+46),
				A("font-size", 20), A("font-weight", "bold"), A("fill", r.theme.Text)).WithText(c.value),
		))
	}
	return g
}

func (r renderer) rows(s *domain.Summary, l Layout) *Node {
	g := El("g", A("class", "leaderboard"))
	for i, e := range s.Leaderboard {
		g.Append(r.row(i, e, s.MaxCommits, l.RowSlots[i]))
	}
	return g
}

func (r renderer) row(i int, e domain.LeaderboardEntry, maxCommits int, slot Rect) *Node {
	midY := slot.Y + slot.H/2
	trackX := slot.X + textX
	shareX := slot.Right() - shareWidth - 8

	return El("g", A("class", "row"), A("id", fmt.Sprintf("row-%d", i))).Append(
		El("rect", A("x", slot.X), A("y", slot.Y), A("width", slot.W), A("height", slot.H),
			A("rx", 6), A("fill", r.theme.Panel)),
		El("text", A("class", "rank"), A("x", slot.X+rankCenterX), A("y", midY+5),
			A("font-size", 14), A("text-anchor", "middle"), A("fill", r.theme.Accent)).WithText(rankLabel(e.Rank)),
		El("image", A("class", "avatar"), A("href", e.AvatarURL),
			A("x", slot.X+avatarCenterX-avatarRadius), A("y", midY-avatarRadius),
			A("width", 2*avatarRadius), A("height", 2*avatarRadius),
			A("clip-path", "url(#"+clipID(i)+")"), A("preserveAspectRatio", "xMidYMid slice")),
		El("text", A("class", "username"), A("x", trackX), A("y", slot.Y+16),
			A("font-size", 13), A("fill", r.theme.Text)).WithText(Sanitize(e.Login, UsernameLimit)),
		El("text", A("class", "commits"), A("x", trackX+TrackWidth), A("y", slot.Y+16),
			A("font-size", 11), A("text-anchor", "end"), A("fill", r.theme.Muted)).WithText(strconv.Itoa(e.Commits)+" commits"),
		El("rect", A("class", "bar-track"), A("x", trackX), A("y", slot.Y+trackOffsetY),
			A("width", TrackWidth), A("height", trackHeight), A("rx", 4), A("fill", r.theme.Track)),
		El("rect", A("class", "bar-fill"), A("x", trackX), A("y", slot.Y+trackOffsetY),
			A("width", BarWidth(e.Commits, maxCommits)), A("height", trackHeight), A("rx", 4), A("fill", r.theme.Accent)),
		El("rect", A("class", "share-badge"), A("x", shareX), A("y", midY-shareHeight/2),
			A("width", shareWidth), A("height", shareHeight), A("rx", shareHeight/2), A("fill", r.theme.Accent)),
		El("text", A("class", "share"), A("x", shareX+shareWidth/2), A("y", midY+4),
			A("font-size", 11), A("font-weight", "bold"), A("text-anchor", "middle"), A("fill", r.theme.Background),
		).WithText(percent(e.SharePercent)),
	)
}

func (r renderer) footer(s *domain.Summary, box Rect) *Node {
	return El("text", A("class", "footer"), A("x", box.X+box.W/2), A("y", box.Y+16),
		A("font-size", 10), A("text-anchor", "middle"), A("fill", r.theme.Muted),
	).WithText("Generated " + s.GeneratedAt.UTC().Format("2006-01-02 15:04 UTC"))
}

// BarWidth scales commits against maxCommits onto the track. Small or zero
// counts still get MinBarWidth so every row shows a bar.
func BarWidth(commits, maxCommits int) float64 {
	maxCommits = max(maxCommits, 1)
	w := float64(commits) / float64(maxCommits) * TrackWidth
	return min(max(w, MinBarWidth), TrackWidth)
}

func rankLabel(rank int) string {
	if m, ok := medals[rank]; ok {
		return m
	}
	return "#" + strconv.Itoa(rank)
}

func clipID(i int) string { return fmt.Sprintf("avatar-clip-%d", i) }

func percent(p float64) string { return strconv.FormatFloat(p, 'f', 1, 64) + "%" }

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
