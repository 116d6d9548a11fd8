// Package htmlclean normalizes the HTML job descriptions the boards return
// into a small, consistent subset: h2 headings, p paragraphs, and ol/ul
// lists. Running Clean over its own output is a no-op.
package htmlclean

import (
	"fmt"
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Clean parses raw HTML and rebuilds it from the recognized block elements,
// in document order, dropping duplicate blocks. Malformed input degrades to
// whatever blocks the parser can recover; Clean never fails.
func Clean(raw string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html.UnescapeString(raw)))
	if err != nil {
		return strings.TrimSpace(raw)
	}

	// Boards disagree on heading depth; fold h4 into h2.
	doc.Find("h4").Each(func(_ int, s *goquery.Selection) {
		for _, n := range s.Nodes {
			n.Data = "h2"
			n.DataAtom = atom.H2
		}
	})

	var out []string
	seen := make(map[string]struct{})
	emit := func(block string) {
		if block == "" {
			return
		}
		if _, ok := seen[block]; ok {
			return
		}
		seen[block] = struct{}{}
		out = append(out, block)
	}

	doc.Find("h2, p, div, ol, ul").Each(func(_ int, s *goquery.Selection) {
		switch goquery.NodeName(s) {
		case "h2":
			if text := strings.TrimSpace(s.Text()); text != "" {
				emit("<h2>" + text + "</h2>")
			}
		case "ol", "ul":
			emit(listBlock(goquery.NodeName(s), s))
		case "p", "div":
			emit(textBlock(s))
		}
	})

	return strings.TrimSpace(strings.Join(out, "\n"))
}

// listBlock rebuilds a list from its direct li children.
func listBlock(tag string, s *goquery.Selection) string {
	items := s.ChildrenFiltered("li")
	if items.Length() == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "<%s>", tag)
	items.Each(func(_ int, li *goquery.Selection) {
		if text := strings.TrimSpace(li.Text()); text != "" {
			fmt.Fprintf(&b, "<li>%s</li>", text)
		}
	})
	fmt.Fprintf(&b, "</%s>", tag)
	return b.String()
}

// textBlock converts a p or div into a paragraph, or into a list when every
// line carries a list marker. Boards often fake lists with line breaks
// inside a single block; this restores the real markup.
func textBlock(s *goquery.Selection) string {
	lines := textLines(s)
	if len(lines) == 0 {
		return ""
	}

	marked := true
	for _, line := range lines {
		if !hasListMarker(line) {
			marked = false
			break
		}
	}

	if marked && len(lines) >= 2 {
		var b strings.Builder
		if strings.HasPrefix(lines[0], "1.") {
			b.WriteString("<ol>")
			for _, line := range lines {
				fmt.Fprintf(&b, "<li>%s</li>", strings.TrimSpace(strings.TrimLeft(line, "1234567890. ")))
			}
			b.WriteString("</ol>")
		} else {
			b.WriteString("<ul>")
			for _, line := range lines {
				fmt.Fprintf(&b, "<li>%s</li>", strings.TrimSpace(strings.TrimLeft(line, "-• ")))
			}
			b.WriteString("</ul>")
		}
		return b.String()
	}
	return "<p>" + strings.Join(lines, " ") + "</p>"
}

// textLines walks every text node under the selection, treating node
// boundaries as line breaks, and returns the non-empty trimmed lines.
func textLines(s *goquery.Selection) []string {
	var chunks []string
	var walk func(n *xhtml.Node)
	walk = func(n *xhtml.Node) {
		if n.Type == xhtml.TextNode {
			chunks = append(chunks, n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range s.Nodes {
		walk(n)
	}

	var lines []string
	for _, line := range strings.Split(strings.Join(chunks, "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func hasListMarker(line string) bool {
	if line == "" {
		return false
	}
	if line[0] >= '0' && line[0] <= '9' {
		return true
	}
	return strings.HasPrefix(line, "-") || strings.HasPrefix(line, "•")
}
