package domain

// Attr is a single named attribute on a Document node.
type Attr struct {
	Name  string
	Value string
}

// Document is a tree node with a name, ordered attributes, and either
// ordered children or a single text value.
type Document struct {
	// Name is the element name.
	Name string

	// Attrs are the node attributes. Names are unique per node.
	Attrs []Attr

	// Children are the child nodes. Order is significant for arrays.
	Children []Document

	// Text is the text value of a leaf node.
	Text string
}

// NewElement creates a node with the given children.
func NewElement(name string, children ...Document) Document {
	return Document{Name: name, Children: children}
}

// NewText creates a leaf node holding text.
func NewText(name, text string) Document {
	return Document{Name: name, Text: text}
}

// IsLeaf returns true if the node has no children.
func (d Document) IsLeaf() bool {
	return len(d.Children) == 0
}

// IsZero returns true for the zero Document.
func (d Document) IsZero() bool {
	return d.Name == "" && len(d.Attrs) == 0 && len(d.Children) == 0 && d.Text == ""
}

// Attr returns the value of the named attribute.
func (d Document) Attr(name string) (string, bool) {
	for _, a := range d.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Child returns the first child with the given name.
func (d Document) Child(name string) (Document, bool) {
	for _, c := range d.Children {
		if c.Name == name {
			return c, true
		}
	}
	return Document{}, false
}

// ChildText returns the text of the first child with the given name.
// Returns an empty string if there is no such child.
func (d Document) ChildText(name string) string {
	c, ok := d.Child(name)
	if !ok {
		return ""
	}
	return c.Text
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	out := Document{Name: d.Name, Text: d.Text}
	if d.Attrs != nil {
		out.Attrs = make([]Attr, len(d.Attrs))
		copy(out.Attrs, d.Attrs)
	}
	if d.Children != nil {
		out.Children = make([]Document, len(d.Children))
		for i, c := range d.Children {
			out.Children[i] = c.Clone()
		}
	}
	return out
}
