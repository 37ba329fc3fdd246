package collector

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"HomicideWatch/internal/model"
)

// Error taxonomy for the collector. Gate skips are not errors; all of
// these abort the run.
var (
	ErrFetch = errors.New("fetch failed")
	ErrParse = errors.New("parse failed")
	// ErrNoTable also matches ErrParse via errors.Is.
	ErrNoTable        = fmt.Errorf("%w: statistics table not found", ErrParse)
	ErrLengthMismatch = errors.New("length mismatch between parsed years and homicide counts")
)

// TableID is the DOM id of the homicide statistics table.
const TableID = "homicide-stats"

// countClass tags the current-year total cell in the source markup.
const countClass = "homicides-count"

// dateLayouts lists the formats the as-of cell has been observed in.
var dateLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"01/02/2006",
	"1/2/2006",
	"2006-01-02",
}

// ParseSnapshot extracts a typed TableSnapshot from the raw page
// markup. Pure function of its input.
//
// The header row's <th> cells after the first are the year labels in
// document order, current year first. Only the first body row is
// authoritative: its first <td> carries the as-of date (text up to the
// first line break), the cell tagged with class "homicides-count"
// carries the current YTD total, and the remaining totals are read
// positionally from the row's <td> cells, skipping the first two and
// the trailing non-data cell.
func ParseSnapshot(markup string) (*model.TableSnapshot, error) {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	table := findByID(doc, TableID)
	if table == nil {
		return nil, ErrNoTable
	}

	years, err := parseHeaderYears(table)
	if err != nil {
		return nil, err
	}

	row := firstBodyRow(table)
	if row == nil {
		return nil, fmt.Errorf("%w: table has no body row", ErrParse)
	}

	asOf, err := parseAsOfDate(row)
	if err != nil {
		return nil, err
	}

	counts, err := parseCounts(row)
	if err != nil {
		return nil, err
	}
	if len(counts) != len(years) {
		return nil, fmt.Errorf("%w: %d years, %d counts", ErrLengthMismatch, len(years), len(counts))
	}

	totals := make([]model.YearTotal, len(years))
	for i, y := range years {
		totals[i] = model.YearTotal{Year: y, Total: counts[i]}
	}
	return &model.TableSnapshot{AsOf: asOf, YearTotals: totals}, nil
}

// parseHeaderYears reads the year labels from the first table row's
// <th> cells, skipping the leading label cell.
func parseHeaderYears(table *html.Node) ([]int, error) {
	headerRow := findElement(table, "tr")
	if headerRow == nil {
		return nil, fmt.Errorf("%w: header row missing", ErrParse)
	}
	ths := collectElements(headerRow, "th")
	if len(ths) < 3 {
		return nil, fmt.Errorf("%w: header row needs at least two year columns, got %d cells", ErrParse, len(ths))
	}
	years := make([]int, 0, len(ths)-1)
	for _, th := range ths[1:] {
		y, err := strconv.Atoi(strings.TrimSpace(nodeText(th)))
		if err != nil {
			return nil, fmt.Errorf("%w: header cell %q is not a year", ErrParse, nodeText(th))
		}
		years = append(years, y)
	}
	return years, nil
}

// firstBodyRow returns the first <tr> that carries <td> cells. The
// header row carries only <th> cells, so this works whether or not the
// source wraps rows in an explicit <thead>/<tbody>.
func firstBodyRow(table *html.Node) *html.Node {
	for _, tr := range collectElements(table, "tr") {
		if findElement(tr, "td") != nil {
			return tr
		}
	}
	return nil
}

func parseAsOfDate(row *html.Node) (time.Time, error) {
	cell := findElement(row, "td")
	raw, _, _ := strings.Cut(nodeText(cell), "\n")
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: cannot parse as-of date %q", ErrParse, raw)
}

func parseCounts(row *html.Node) ([]int, error) {
	current := findByClass(row, countClass)
	if current == nil {
		return nil, fmt.Errorf("%w: current total cell missing", ErrParse)
	}
	tds := collectElements(row, "td")
	if len(tds) < 3 {
		return nil, fmt.Errorf("%w: body row has only %d cells", ErrParse, len(tds))
	}

	counts := make([]int, 0, len(tds)-2)
	ytd, err := parseCount(current)
	if err != nil {
		return nil, err
	}
	counts = append(counts, ytd)
	// Skip the date and YTD cells; drop the trailing non-data cell.
	for _, td := range tds[2 : len(tds)-1] {
		n, err := parseCount(td)
		if err != nil {
			return nil, err
		}
		counts = append(counts, n)
	}
	return counts, nil
}

func parseCount(cell *html.Node) (int, error) {
	raw := strings.TrimSpace(nodeText(cell))
	raw = strings.ReplaceAll(raw, ",", "")
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: count cell %q is not a non-negative integer", ErrParse, raw)
	}
	return n, nil
}

// findByID walks the tree for the element with the given id attribute.
func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode && getAttr(n, "id") == id {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

// findByClass walks the tree for the first element carrying class.
func findByClass(n *html.Node, class string) *html.Node {
	if n.Type == html.ElementNode {
		for _, c := range strings.Fields(getAttr(n, "class")) {
			if c == class {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByClass(c, class); found != nil {
			return found
		}
	}
	return nil
}

// findElement returns the first descendant element with the given tag.
func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// collectElements gathers all descendant elements with the given tag
// in document order.
func collectElements(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

// nodeText renders the visible text of a node, emitting a newline for
// <br> so multi-line cells split the way a browser renders them.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
		case html.ElementNode:
			if n.Data == "br" {
				b.WriteString("\n")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
