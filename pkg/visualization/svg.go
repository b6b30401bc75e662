package visualization

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/dd0wney/cluso-social/pkg/algorithms"
	"github.com/dd0wney/cluso-social/pkg/graph"
)

const (
	nodeRadius   = 6.0
	outlierColor = "#9e9e9e"
	edgeColor    = "#b0b0b0"
)

// palette cycles when there are more communities than colours.
var palette = []string{
	"#7D56F4", "#04B575", "#FF5F87", "#FFAF00", "#00AFFF",
	"#AF5FFF", "#5FD700", "#FF8700", "#0087AF", "#D70087",
}

// CommunityColor returns the fill used for community id; negative ids are
// outliers.
func CommunityColor(id int) string {
	if id < 0 {
		return outlierColor
	}
	return palette[id%len(palette)]
}

// Drawing is everything RenderSVG needs.
type Drawing struct {
	Graph     *graph.Graph
	Positions map[string]Position
	Partition *algorithms.Partition // nil draws every node as an outlier
	Labels    map[string]string     // optional node id -> display name
	Width     float64
	Height    float64
}

// RenderSVG writes the graph as a standalone SVG document. Edges removed
// while partitioning are drawn dashed. Nodes are filled by community.
func RenderSVG(w io.Writer, d Drawing) error {
	bw := bufio.NewWriter(w)

	removed := make(map[graph.Edge]bool)
	community := map[string]int{}
	if d.Partition != nil {
		for _, r := range d.Partition.Removed {
			removed[r.Edge] = true
		}
		community = d.Partition.NodeCommunity
	}

	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">`+"\n",
		d.Width, d.Height, d.Width, d.Height)
	fmt.Fprintf(bw, `<rect width="100%%" height="100%%" fill="#ffffff"/>`+"\n")

	bw.WriteString(`<g stroke="` + edgeColor + `" stroke-width="1">` + "\n")
	for _, e := range d.Graph.Edges() {
		a, okA := d.Positions[e.From]
		b, okB := d.Positions[e.To]
		if !okA || !okB {
			continue
		}
		dash := ""
		if removed[e] {
			dash = ` stroke-dasharray="4 3"`
		}
		fmt.Fprintf(bw, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"%s/>`+"\n", a.X, a.Y, b.X, b.Y, dash)
	}
	bw.WriteString("</g>\n")

	bw.WriteString(`<g font-family="sans-serif" font-size="10">` + "\n")
	for _, id := range d.Graph.Nodes() {
		pos, ok := d.Positions[id]
		if !ok {
			continue
		}
		cid, ok := community[id]
		if !ok {
			cid = -1
		}
		label := id
		if name := d.Labels[id]; name != "" {
			label = name
		}
		fmt.Fprintf(bw, `<circle cx="%.2f" cy="%.2f" r="%.1f" fill="%s"><title>`, pos.X, pos.Y, nodeRadius, CommunityColor(cid))
		if err := xml.EscapeText(bw, []byte(label)); err != nil {
			return err
		}
		bw.WriteString("</title></circle>\n")

		if d.Labels[id] != "" {
			fmt.Fprintf(bw, `<text x="%.2f" y="%.2f">`, pos.X+nodeRadius+2, pos.Y+3)
			if err := xml.EscapeText(bw, []byte(label)); err != nil {
				return err
			}
			bw.WriteString("</text>\n")
		}
	}
	bw.WriteString("</g>\n</svg>\n")

	return bw.Flush()
}
