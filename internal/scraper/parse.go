package scraper

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// CardStub is one row of a set list table.
type CardStub struct {
	Name     string
	PagePath string
	Grade    int
	Clan     string
	Type     string
}

// CardDetail is the data scraped from an individual card page.
type CardDetail struct {
	ImageURL string
	Effect   []string
}

// ParseSetTable extracts card rows from the first sortable table in a
// set page. Column positions come from the header row, so reordered
// wiki layouts keep parsing.
func ParseSetTable(r io.Reader) ([]CardStub, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	table := findFirst(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "table" && hasClass(n, "sortable")
	})
	if table == nil {
		return nil, fmt.Errorf("no sortable card table found")
	}

	columns := map[string]int{}
	headerCells := findAll(table, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "th"
	})
	for i, th := range headerCells {
		key := strings.ToLower(strings.TrimSpace(nodeText(th)))
		switch {
		case strings.Contains(key, "name"):
			columns["name"] = i
		case strings.Contains(key, "grade"):
			columns["grade"] = i
		case strings.Contains(key, "clan"):
			columns["clan"] = i
		case strings.Contains(key, "type"):
			columns["type"] = i
		}
	}
	if _, ok := columns["name"]; !ok {
		return nil, fmt.Errorf("card table has no name column")
	}

	var stubs []CardStub
	rows := findAll(table, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "tr"
	})
	for _, row := range rows {
		cells := findAll(row, func(n *html.Node) bool {
			return n.Type == html.ElementNode && n.Data == "td"
		})
		if len(cells) <= columns["name"] {
			continue // header or malformed row
		}

		stub := CardStub{}
		nameCell := cells[columns["name"]]
		if link := findFirst(nameCell, func(n *html.Node) bool {
			return n.Type == html.ElementNode && n.Data == "a"
		}); link != nil {
			stub.Name = strings.TrimSpace(nodeText(link))
			stub.PagePath = attrVal(link, "href")
		} else {
			stub.Name = strings.TrimSpace(nodeText(nameCell))
		}
		if stub.Name == "" {
			continue
		}

		if i, ok := columns["grade"]; ok && i < len(cells) {
			stub.Grade = parseGrade(nodeText(cells[i]))
		}
		if i, ok := columns["clan"]; ok && i < len(cells) {
			stub.Clan = strings.TrimSpace(nodeText(cells[i]))
		}
		if i, ok := columns["type"]; ok && i < len(cells) {
			stub.Type = strings.TrimSpace(nodeText(cells[i]))
		}

		stubs = append(stubs, stub)
	}

	return stubs, nil
}

// ParseCardPage extracts the card image URL and effect lines from a
// card page.
func ParseCardPage(r io.Reader) (*CardDetail, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	detail := &CardDetail{}

	// The infobox carries the card scan; any other image is page chrome.
	infobox := findFirst(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && hasClass(n, "infobox")
	})
	searchRoot := doc
	if infobox != nil {
		searchRoot = infobox
	}
	if img := findFirst(searchRoot, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "img" && attrVal(n, "src") != ""
	}); img != nil {
		detail.ImageURL = attrVal(img, "src")
	}

	if effectNode := findFirst(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && hasClass(n, "effect")
	}); effectNode != nil {
		detail.Effect = textLines(effectNode)
	}

	return detail, nil
}

// parseGrade accepts "3", "Grade 3" and similar.
func parseGrade(s string) int {
	fields := strings.Fields(strings.TrimSpace(s))
	for i := len(fields) - 1; i >= 0; i-- {
		if g, err := strconv.Atoi(fields[i]); err == nil {
			return g
		}
	}
	return 0
}

// nodeText flattens all text under a node into one space-joined string.
func nodeText(n *html.Node) string {
	return strings.Join(textLines(n), " ")
}

// textLines flattens a node's text, treating <br> as line breaks.
func textLines(n *html.Node) []string {
	var lines []string
	var current strings.Builder

	flush := func() {
		line := strings.TrimSpace(current.String())
		current.Reset()
		if line != "" {
			lines = append(lines, line)
		}
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			current.WriteString(n.Data)
		case n.Type == html.ElementNode && n.Data == "br":
			flush()
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	flush()

	return lines
}

func findFirst(root *html.Node, pred func(*html.Node) bool) *html.Node {
	if pred(root) {
		return root
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, pred); found != nil {
			return found
		}
	}
	return nil
}

func findAll(root *html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if pred(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

func hasClass(n *html.Node, class string) bool {
	for _, field := range strings.Fields(attrVal(n, "class")) {
		if field == class {
			return true
		}
	}
	return false
}

func attrVal(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
