package profxml

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

// Node is a generic profile XML element. Attributes keep their document
// order, children are kept in document order, character data is dropped.
type Node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []Node     `xml:",any"`
}

func NewNode(name string) *Node {
	return &Node{XMLName: xml.Name{Local: name}}
}

func (n *Node) Name() string {
	return n.XMLName.Local
}

// Attr returns the value of the attribute with the given local name.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr replaces an existing attribute or appends a new one.
func (n *Node) SetAttr(name, value string) {
	for i := range n.Attrs {
		if n.Attrs[i].Name.Local == name {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, xml.Attr{Name: xml.Name{Local: name}, Value: value})
}

func (n *Node) Append(child *Node) {
	n.Children = append(n.Children, *child)
}

// ChildrenNamed returns the direct children with the given local name in
// document order.
func (n *Node) ChildrenNamed(name string) []*Node {
	var out []*Node
	for i := range n.Children {
		if n.Children[i].XMLName.Local == name {
			out = append(out, &n.Children[i])
		}
	}
	return out
}

// Parse decodes a single element from raw XML. Only whitespace and
// comments may follow the element.
func Parse(data []byte) (*Node, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var n Node
	if err := dec.Decode(&n); err != nil {
		return nil, fmt.Errorf("parse xml: %w", err)
	}
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return &n, nil
		}
		if err != nil {
			return nil, fmt.Errorf("parse xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.Comment:
		case xml.CharData:
			if len(bytes.TrimSpace(t)) != 0 {
				return nil, errors.New("parse xml: character data after root element")
			}
		default:
			return nil, fmt.Errorf("parse xml: unexpected %T after root element", tok)
		}
	}
}

func (n *Node) Marshal() ([]byte, error) {
	return xml.Marshal(n)
}

func (n *Node) MarshalIndent() ([]byte, error) {
	return xml.MarshalIndent(n, "", "  ")
}

// DebugString chỉ dùng cho debug/log nếu cần.
func (n *Node) DebugString() string {
	return fmt.Sprintf("Node name=%s attrs=%d children=%d", n.Name(), len(n.Attrs), len(n.Children))
}
