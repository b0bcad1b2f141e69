package bootstrap

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"strings"
	"sync"

	"golang.org/x/net/html"
)

var (
	// ErrAlreadyMounted is returned when Mount is called a second time.
	ErrAlreadyMounted = errors.New("root component already mounted")
	// ErrAnchorNotFound is returned when no element matches the anchor.
	ErrAnchorNotFound = errors.New("mount anchor not found")
	// ErrAnchorNotUnique is returned when more than one element matches the anchor.
	ErrAnchorNotUnique = errors.New("mount anchor is not unique")
	// ErrUnsupportedSelector is returned for anchors other than "#id".
	ErrUnsupportedSelector = errors.New("only #id selectors are supported")
)

// Component renders an HTML fragment.
type Component interface {
	Render(w io.Writer) error
}

// TemplateComponent renders an html/template with fixed data.
type TemplateComponent struct {
	tmpl *template.Template
	data any
}

// NewTemplateComponent parses text as an html/template.
func NewTemplateComponent(name, text string, data any) (*TemplateComponent, error) {
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parsing component %q: %w", name, err)
	}
	return &TemplateComponent{tmpl: tmpl, data: data}, nil
}

// Render executes the template.
func (c *TemplateComponent) Render(w io.Writer) error {
	return c.tmpl.Execute(w, c.data)
}

const appTemplate = `<main class="app"><h1>{{.Title}}</h1><p>Vite + Go</p></main>`

// App returns the root component.
func App() Component {
	c, err := NewTemplateComponent("App", appTemplate, struct{ Title string }{"myaxum"})
	if err != nil {
		panic(err)
	}
	return c
}

// DocumentMounter mounts a component into a host page and writes the
// resulting document. The anchor's existing children are replaced.
type DocumentMounter struct {
	page []byte
	root Component
	out  io.Writer

	mu      sync.Mutex
	mounted bool
}

// NewDocumentMounter returns a mounter for the given host page.
func NewDocumentMounter(page []byte, root Component, out io.Writer) *DocumentMounter {
	return &DocumentMounter{page: page, root: root, out: out}
}

// Mount renders the root component into the single element matching anchor.
func (m *DocumentMounter) Mount(_ context.Context, anchor string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mounted {
		return ErrAlreadyMounted
	}

	id, ok := strings.CutPrefix(anchor, "#")
	if !ok || id == "" {
		return fmt.Errorf("%w: %q", ErrUnsupportedSelector, anchor)
	}

	doc, err := html.Parse(bytes.NewReader(m.page))
	if err != nil {
		return fmt.Errorf("parsing host page: %w", err)
	}

	matches := findByID(doc, id, nil)
	switch len(matches) {
	case 0:
		return fmt.Errorf("%w: %s", ErrAnchorNotFound, anchor)
	case 1:
	default:
		return fmt.Errorf("%w: %s matches %d elements", ErrAnchorNotUnique, anchor, len(matches))
	}
	target := matches[0]

	var buf bytes.Buffer
	if err := m.root.Render(&buf); err != nil {
		return fmt.Errorf("rendering root component: %w", err)
	}
	nodes, err := html.ParseFragment(&buf, target)
	if err != nil {
		return fmt.Errorf("parsing rendered component: %w", err)
	}

	for c := target.FirstChild; c != nil; {
		next := c.NextSibling
		target.RemoveChild(c)
		c = next
	}
	for _, n := range nodes {
		target.AppendChild(n)
	}

	if err := html.Render(m.out, doc); err != nil {
		return fmt.Errorf("writing mounted document: %w", err)
	}
	m.mounted = true
	return nil
}

func findByID(n *html.Node, id string, acc []*html.Node) []*html.Node {
	if n.Type == html.ElementNode {
		for _, a := range n.Attr {
			if a.Namespace == "" && a.Key == "id" && a.Val == id {
				acc = append(acc, n)
				break
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		acc = findByID(c, id, acc)
	}
	return acc
}
