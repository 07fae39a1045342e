// Package dom is the parsed-document model the fix routines operate on.
//
// A Document wraps a golang.org/x/net/html tree pulled from the live page.
// All mutation goes through Document methods, which edit the tree and append
// an Op to an ordered log. The browser layer replays the log against the
// live DOM, so the tree and the page stay in lockstep across a pass.
package dom

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// OpKind identifies a replayable DOM operation.
type OpKind string

const (
	OpSetAttr     OpKind = "set_attr"
	OpRemoveAttr  OpKind = "remove_attr"
	OpInsertFirst OpKind = "insert_first"
	OpAppendChild OpKind = "append_child"
	OpSetText     OpKind = "set_text"
)

// Op is one DOM mutation, addressed by the element's tree path at the time
// the op was recorded. Ops are only valid when replayed in log order.
type Op struct {
	Kind  OpKind `json:"kind"`
	Path  string `json:"path"`
	Name  string `json:"name,omitempty"`
	Value string `json:"value,omitempty"`
	HTML  string `json:"html,omitempty"`
}

// Document wraps a parsed HTML tree and an append-only op log.
type Document struct {
	root *html.Node
	ops  []Op
	now  func() time.Time
}

// Parse builds a Document from raw HTML.
func Parse(raw []byte) (*Document, error) {
	root, err := html.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("dom: parse: %w", err)
	}
	return &Document{root: root, now: time.Now}, nil
}

// SetClock overrides the trace timestamp source. Testing only.
func (d *Document) SetClock(now func() time.Time) { d.now = now }

// Root returns the document node.
func (d *Document) Root() *html.Node { return d.root }

// Ops returns the mutation log recorded so far.
func (d *Document) Ops() []Op { return d.ops }

// Render serialises the tree back to HTML.
func (d *Document) Render() ([]byte, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, d.root); err != nil {
		return nil, fmt.Errorf("dom: render: %w", err)
	}
	return buf.Bytes(), nil
}

// Each walks all element nodes depth-first in document order.
func (d *Document) Each(fn func(*html.Node)) {
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			fn(n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(d.root)
}

// FindAll returns all elements matching any of the given tags.
func (d *Document) FindAll(tags ...atom.Atom) []*html.Node {
	var out []*html.Node
	d.Each(func(n *html.Node) {
		for _, t := range tags {
			if n.DataAtom == t {
				out = append(out, n)
				return
			}
		}
	})
	return out
}

// First returns the first element with the given tag, or nil.
func (d *Document) First(tag atom.Atom) *html.Node {
	for _, n := range d.FindAll(tag) {
		return n
	}
	return nil
}

// ByID returns the element with the given id, or nil.
func (d *Document) ByID(id string) *html.Node {
	if id == "" {
		return nil
	}
	var found *html.Node
	d.Each(func(n *html.Node) {
		if found == nil && Attr(n, "id") == id {
			found = n
		}
	})
	return found
}

// DocumentElement returns the <html> element.
func (d *Document) DocumentElement() *html.Node { return d.First(atom.Html) }

// Head returns the <head> element.
func (d *Document) Head() *html.Node { return d.First(atom.Head) }

// Body returns the <body> element.
func (d *Document) Body() *html.Node { return d.First(atom.Body) }

// nonTextInputTypes are input types the classifier and label repair skip.
var nonTextInputTypes = map[string]bool{
	"hidden": true, "submit": true, "reset": true, "button": true,
	"image": true, "file": true, "checkbox": true, "radio": true,
	"range": true, "color": true,
}

// FormControls returns the text-bearing form controls on the page:
// inputs (minus button-like and binary types), selects, and textareas.
func (d *Document) FormControls() []*html.Node {
	var out []*html.Node
	d.Each(func(n *html.Node) {
		switch n.DataAtom {
		case atom.Input:
			if !nonTextInputTypes[strings.ToLower(Attr(n, "type"))] {
				out = append(out, n)
			}
		case atom.Select, atom.Textarea:
			out = append(out, n)
		}
	})
	return out
}

// Attr returns the value of the named attribute, or "".
func Attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// HasAttr reports whether the attribute is present (even when empty).
func HasAttr(n *html.Node, name string) bool {
	for _, a := range n.Attr {
		if a.Key == name {
			return true
		}
	}
	return false
}

// SetAttr sets an attribute on the tree and records the op. Setting the
// value it already holds is a no-op and records nothing.
func (d *Document) SetAttr(n *html.Node, name, val string) {
	for i, a := range n.Attr {
		if a.Key == name {
			if a.Val == val {
				return
			}
			n.Attr[i].Val = val
			d.ops = append(d.ops, Op{Kind: OpSetAttr, Path: Path(n), Name: name, Value: val})
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: name, Val: val})
	d.ops = append(d.ops, Op{Kind: OpSetAttr, Path: Path(n), Name: name, Value: val})
}

// RemoveAttr removes an attribute from the tree and records the op.
// Removing an absent attribute records nothing.
func (d *Document) RemoveAttr(n *html.Node, name string) {
	for i, a := range n.Attr {
		if a.Key == name {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			d.ops = append(d.ops, Op{Kind: OpRemoveAttr, Path: Path(n), Name: name})
			return
		}
	}
}

// InsertFirst inserts child as the parent's first child and records the op
// with the child serialised as an HTML fragment. The child is serialised
// before the tree is mutated, so a failure leaves both untouched.
func (d *Document) InsertFirst(parent, child *html.Node) error {
	frag, err := renderFragment(child)
	if err != nil {
		return err
	}
	path := Path(parent)
	parent.InsertBefore(child, parent.FirstChild)
	d.ops = append(d.ops, Op{Kind: OpInsertFirst, Path: path, HTML: frag})
	return nil
}

// AppendChild appends child as the parent's last child and records the op.
func (d *Document) AppendChild(parent, child *html.Node) error {
	frag, err := renderFragment(child)
	if err != nil {
		return err
	}
	path := Path(parent)
	parent.AppendChild(child)
	d.ops = append(d.ops, Op{Kind: OpAppendChild, Path: path, HTML: frag})
	return nil
}

// SetText replaces the element's children with a single text node and
// records the op.
func (d *Document) SetText(n *html.Node, text string) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	n.AppendChild(NewText(text))
	d.ops = append(d.ops, Op{Kind: OpSetText, Path: Path(n), Value: text})
}

// NewElement builds an element node with attribute key/value pairs.
func NewElement(tag atom.Atom, attrPairs ...string) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		DataAtom: tag,
		Data:     tag.String(),
	}
	for i := 0; i+1 < len(attrPairs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrPairs[i], Val: attrPairs[i+1]})
	}
	return n
}

// NewText builds a text node.
func NewText(text string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: text}
}

// Path computes an XPath-style address for an element: each step is the
// lowercase tag with a 1-based index among same-tag siblings. Indexes are
// always emitted so the path resolves to exactly one node.
func Path(n *html.Node) string {
	var parts []string
	for cur := n; cur != nil && cur.Type == html.ElementNode; cur = cur.Parent {
		idx := 1
		for sib := cur.PrevSibling; sib != nil; sib = sib.PrevSibling {
			if sib.Type == html.ElementNode && sib.Data == cur.Data {
				idx++
			}
		}
		parts = append([]string{fmt.Sprintf("%s[%d]", cur.Data, idx)}, parts...)
	}
	return "/" + strings.Join(parts, "/")
}

// Text extracts the visible text of a subtree: text nodes joined by single
// spaces, script and style contents skipped, whitespace collapsed.
func Text(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.ElementNode &&
			(c.DataAtom == atom.Script || c.DataAtom == atom.Style) {
			return
		}
		if c.Type == html.TextNode {
			t := strings.TrimSpace(c.Data)
			if t != "" {
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(t)
			}
		}
		for cc := c.FirstChild; cc != nil; cc = cc.NextSibling {
			walk(cc)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

// Ancestors returns the element ancestor chain of n, nearest first,
// up to maxDepth levels and never past <body>.
func Ancestors(n *html.Node, maxDepth int) []*html.Node {
	var out []*html.Node
	for cur := n.Parent; cur != nil && len(out) < maxDepth; cur = cur.Parent {
		if cur.Type != html.ElementNode || cur.DataAtom == atom.Body || cur.DataAtom == atom.Html {
			break
		}
		out = append(out, cur)
	}
	return out
}

func renderFragment(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", fmt.Errorf("dom: render fragment: %w", err)
	}
	return buf.String(), nil
}
