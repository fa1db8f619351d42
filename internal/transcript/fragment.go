package transcript

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// The fragment markup is shared by the answer provider, which renders the session history,
// and the client, which turns it back into turns.
var fragmentTemplate = template.Must(template.New("history").Parse(
	`{{range .}}<div class='chat-row {{.Class}}'><div class='avatar {{.Class}}-avatar'>{{.Avatar}}</div><div class='bubble {{.Class}}-bubble'>{{.Content}}</div></div>{{end}}`,
))

type fragmentRow struct {
	Class   string
	Avatar  string
	Content string
}

// RenderHTML renders turns as chat-row markup. Content is HTML-escaped.
func RenderHTML(turns []Turn) (string, error) {
	rows := make([]fragmentRow, 0, len(turns))
	for _, turn := range turns {
		row := fragmentRow{Content: turn.Content}
		switch turn.Role {
		case RoleUser:
			row.Class, row.Avatar = "user", "🧑"
		case RoleError:
			row.Class, row.Avatar = "error", "🤖"
		default:
			row.Class, row.Avatar = "ai", "🤖"
		}
		rows = append(rows, row)
	}
	var buf bytes.Buffer
	if err := fragmentTemplate.Execute(&buf, rows); err != nil {
		return "", fmt.Errorf("render history: %w", err)
	}
	return buf.String(), nil
}

// ParseFragment reads chat-row markup back into turns, in document order. Rows without a
// recognizable role class are skipped.
func ParseFragment(fragment string) ([]Turn, error) {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
	})
	if err != nil {
		return nil, fmt.Errorf("parse history fragment: %w", err)
	}
	var turns []Turn
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, "chat-row") {
			if role, ok := rowRole(n); ok {
				turns = append(turns, Turn{Role: role, Content: bubbleText(n)})
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return turns, nil
}

func rowRole(n *html.Node) (Role, bool) {
	switch {
	case hasClass(n, "user"):
		return RoleUser, true
	case hasClass(n, "error"):
		return RoleError, true
	case hasClass(n, "ai"), hasClass(n, "assistant"):
		return RoleAssistant, true
	default:
		return "", false
	}
}

func bubbleText(row *html.Node) string {
	var bubble *html.Node
	var find func(n *html.Node)
	find = func(n *html.Node) {
		if bubble != nil {
			return
		}
		if n.Type == html.ElementNode && hasClass(n, "bubble") {
			bubble = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			find(c)
		}
	}
	find(row)
	if bubble == nil {
		return ""
	}
	var b strings.Builder
	collectText(bubble, &b)
	return strings.TrimSpace(b.String())
}

func collectText(n *html.Node, b *strings.Builder) {
	switch {
	case n.Type == html.TextNode:
		b.WriteString(n.Data)
	case n.Type == html.ElementNode && n.Data == "br":
		b.WriteRune('\n')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, field := range strings.Fields(attr.Val) {
			if field == class {
				return true
			}
		}
	}
	return false
}
