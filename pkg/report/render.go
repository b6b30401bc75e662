package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-social/pkg/sentiment"
)

// exampleWidth bounds example post text in the report.
const exampleWidth = 100

// Render writes the plain-text report.
func Render(w io.Writer, s *Summary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "cluso-social summary\t%s\n\n", s.GeneratedAt.Format("2006-01-02 15:04:05 MST"))

	fmt.Fprintf(tw, "Seed users:\t%d\n", s.Seeds)
	fmt.Fprintf(tw, "Users collected:\t%d\n", s.Users)
	fmt.Fprintf(tw, "Posts collected:\t%d\n", s.Posts)
	fmt.Fprintf(tw, "Communities:\t%d\n", s.Communities)
	fmt.Fprintf(tw, "Outliers:\t%d\n", s.Outliers)
	fmt.Fprintf(tw, "Average users per community:\t%.2f\n", s.AvgCommunitySize)
	fmt.Fprintf(tw, "Largest community:\t%d\n", s.LargestCommunity)
	fmt.Fprintf(tw, "Graph:\t%d nodes, %d edges\n", s.GraphNodes, s.GraphEdges)
	fmt.Fprintf(tw, "Edges removed:\t%d\n", s.EdgesRemoved)
	fmt.Fprintf(tw, "Modularity:\t%.4f\n", s.Modularity)

	fmt.Fprintf(tw, "\nPosts by sentiment:\n")
	for _, l := range sentiment.Labels {
		fmt.Fprintf(tw, "  %s\t%d\n", l, s.Sentiment[l])
	}

	if len(s.Examples) > 0 {
		fmt.Fprintf(tw, "\nExample posts:\n")
		for _, l := range sentiment.Labels {
			ex, ok := s.Examples[l]
			if !ok {
				continue
			}
			fmt.Fprintf(tw, "  %s (%+d)\t%s\n", l, ex.Score, excerpt(ex.Text))
		}
	}

	if len(s.FriendsPerSeed) > 0 {
		fmt.Fprintf(tw, "\nFriends per seed:\n")
		for _, f := range s.FriendsPerSeed {
			fmt.Fprintf(tw, "  %s\t%d\n", f.ScreenName, f.Friends)
		}
	}

	if len(s.MostCommon) > 0 {
		fmt.Fprintf(tw, "\nMost common friends:\n")
		for _, f := range s.MostCommon {
			fmt.Fprintf(tw, "  %s\t%d\n", f.ID, f.Count)
		}
	}

	if len(s.Overlaps) > 0 {
		fmt.Fprintf(tw, "\nFriend overlap:\n")
		for _, o := range s.Overlaps {
			fmt.Fprintf(tw, "  %s / %s\t%d\n", o.A, o.B, o.Shared)
		}
	}

	if len(s.Warnings) > 0 {
		fmt.Fprintf(tw, "\nWarnings:\n")
		for _, warn := range s.Warnings {
			fmt.Fprintf(tw, "  - %s\n", warn)
		}
	}

	return tw.Flush()
}

// Plain returns Render's output as a string.
func Plain(s *Summary) string {
	var b strings.Builder
	_ = Render(&b, s)
	return b.String()
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF")).
			MarginBottom(1)

	statsBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(0, 2).
			MarginRight(2)

	sentimentBoxStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#00FFFF")).
				Padding(0, 2)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFF00")).
			Bold(true)

	labelColors = map[sentiment.Label]lipgloss.Color{
		sentiment.Positive: lipgloss.Color("#00FF00"),
		sentiment.Negative: lipgloss.Color("#FF0000"),
		sentiment.Neutral:  lipgloss.Color("#AAAAAA"),
	}
)

// Styled renders the headline figures for a terminal.
func Styled(s *Summary) string {
	row := func(label string, value any) string {
		return labelStyle.Render(fmt.Sprintf("%-14s", label)) + fmt.Sprint(value)
	}

	stats := statsBoxStyle.Render(strings.Join([]string{
		row("Users", s.Users),
		row("Posts", s.Posts),
		row("Communities", s.Communities),
		row("Outliers", s.Outliers),
		row("Avg size", fmt.Sprintf("%.2f", s.AvgCommunitySize)),
		row("Edges removed", s.EdgesRemoved),
		row("Modularity", fmt.Sprintf("%.4f", s.Modularity)),
	}, "\n"))

	lines := make([]string, 0, len(sentiment.Labels))
	for _, l := range sentiment.Labels {
		name := lipgloss.NewStyle().Foreground(labelColors[l]).Render(fmt.Sprintf("%-10s", l))
		lines = append(lines, name+fmt.Sprint(s.Sentiment[l]))
	}
	sentimentBox := sentimentBoxStyle.Render(strings.Join(lines, "\n"))

	out := titleStyle.Render("cluso-social summary") + "\n" +
		lipgloss.JoinHorizontal(lipgloss.Top, stats, sentimentBox)

	for _, w := range s.Warnings {
		out += "\n" + warnStyle.Render("! "+w)
	}
	return out + "\n"
}

// excerpt flattens whitespace and truncates text to exampleWidth runes.
func excerpt(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) <= exampleWidth {
		return text
	}
	runes := []rune(text)
	return string(runes[:exampleWidth-3]) + "..."
}
