package badge

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"
)

// Attr is one attribute of a scene node. Values are raw and escaped on output.
type Attr struct {
	Name, Value string
}

// Node is an element of the badge scene graph. Text is character data that
// has already been escaped (see Sanitize) and is written verbatim.
type Node struct {
	Tag      string
	Attrs    []Attr
	Text     string
	Children []*Node
}

// El creates a node with the given tag and attributes.
func El(tag string, attrs ...Attr) *Node {
	return &Node{Tag: tag, Attrs: attrs}
}

// A builds an attribute, formatting numbers without trailing zeros.
func A(name string, value any) Attr {
	switch v := value.(type) {
	case string:
		return Attr{Name: name, Value: v}
	case float64:
		return Attr{Name: name, Value: strconv.FormatFloat(v, 'f', -1, 64)}
	case int:
		return Attr{Name: name, Value: strconv.Itoa(v)}
	default:
		return Attr{Name: name, Value: fmt.Sprint(v)}
	}
}

// Append adds children and returns n for chaining.
func (n *Node) Append(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// WithText sets escaped character data and returns n for chaining.
func (n *Node) WithText(escaped string) *Node {
	n.Text = escaped
	return n
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// HasClass reports whether the node's class attribute lists class.
func (n *Node) HasClass(class string) bool {
	v, ok := n.Attr("class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

// Find returns every node in the subtree, n included, for which match is
// true, in document order.
func (n *Node) Find(match func(*Node) bool) []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(cur *Node) {
		if match(cur) {
			out = append(out, cur)
		}
		for _, c := range cur.Children {
			walk(c)
		}
	}
	walk(n)
	return out
}

// FindClass returns the nodes carrying class, in document order.
func (n *Node) FindClass(class string) []*Node {
	return n.Find(func(c *Node) bool { return c.HasClass(class) })
}

// FindID returns the node whose id attribute equals id, or nil.
func (n *Node) FindID(id string) *Node {
	found := n.Find(func(c *Node) bool {
		v, ok := c.Attr("id")
		return ok && v == id
	})
	if len(found) == 0 {
		return nil
	}
	return found[0]
}

// Document is a rendered badge: its scene graph and the geometry it was laid out with.
type Document struct {
	Root   *Node
	Layout Layout
}

// SVG serializes the document.
func (d *Document) SVG() []byte {
	var buf bytes.Buffer
	writeNode(&buf, d.Root, 0)
	return buf.Bytes()
}

// WriteSVG serializes the document to w.
func (d *Document) WriteSVG(w io.Writer) error {
	_, err := w.Write(d.SVG())
	return err
}

func writeNode(buf *bytes.Buffer, n *Node, depth int) {
	indent := strings.Repeat("  ", depth)
	buf.WriteString(indent)
	buf.WriteByte('<')
	buf.WriteString(n.Tag)
	for _, a := range n.Attrs {
		fmt.Fprintf(buf, ` %s="%s"`, a.Name, html.EscapeString(a.Value))
	}

	switch {
	case n.Text == "" && len(n.Children) == 0:
		buf.WriteString("/>\n")
		return
	case len(n.Children) == 0:
		fmt.Fprintf(buf, ">%s</%s>\n", n.Text, n.Tag)
		return
	}

	buf.WriteString(">")
	buf.WriteString(n.Text)
	buf.WriteString("\n")
	for _, c := range n.Children {
		writeNode(buf, c, depth+1)
	}
	fmt.Fprintf(buf, "%s</%s>\n", indent, n.Tag)
}
