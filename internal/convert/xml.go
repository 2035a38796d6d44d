package convert

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/custodia-labs/invokers/internal/core/domain"
)

var namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9._-]*$`)

// ValidName reports whether name can be used as an element or attribute name.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// ParseDocument parses the XML text form of a Document.
// Comments, processing instructions and directives are ignored.
// Namespace prefixes are not supported.
func ParseDocument(text string) (domain.Document, error) {
	if strings.TrimSpace(text) == "" {
		return domain.Document{}, fmt.Errorf("%w: empty document", ErrMalformed)
	}

	dec := xml.NewDecoder(strings.NewReader(text))

	var (
		stack []*domain.Document
		texts []*strings.Builder
		root  *domain.Document
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return domain.Document{}, fmt.Errorf("%w: parsing xml: %v", ErrMalformed, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if len(stack) == 0 && root != nil {
				return domain.Document{}, fmt.Errorf("%w: multiple root elements", ErrMalformed)
			}
			node, err := startNode(t)
			if err != nil {
				return domain.Document{}, err
			}
			stack = append(stack, node)
			texts = append(texts, &strings.Builder{})

		case xml.CharData:
			if len(stack) == 0 {
				if strings.TrimSpace(string(t)) != "" {
					return domain.Document{}, fmt.Errorf("%w: text outside root element", ErrMalformed)
				}
				continue
			}
			texts[len(texts)-1].Write(t)

		case xml.EndElement:
			node := stack[len(stack)-1]
			text := texts[len(texts)-1].String()
			stack = stack[:len(stack)-1]
			texts = texts[:len(texts)-1]

			if len(node.Children) > 0 {
				if strings.TrimSpace(text) != "" {
					return domain.Document{}, fmt.Errorf("%w: element %q mixes text and children", ErrMalformed, node.Name)
				}
			} else {
				node.Text = text
			}

			if len(stack) == 0 {
				root = node
				continue
			}
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, *node)
		}
	}

	if root == nil {
		return domain.Document{}, fmt.Errorf("%w: no root element", ErrMalformed)
	}
	return *root, nil
}

func startNode(t xml.StartElement) (*domain.Document, error) {
	if t.Name.Space != "" || !ValidName(t.Name.Local) {
		return nil, fmt.Errorf("%w: invalid element name %q", ErrMalformed, qualified(t.Name))
	}
	node := &domain.Document{Name: t.Name.Local}
	seen := make(map[string]bool, len(t.Attr))
	for _, a := range t.Attr {
		if a.Name.Space != "" || !ValidName(a.Name.Local) {
			return nil, fmt.Errorf("%w: invalid attribute name %q", ErrMalformed, qualified(a.Name))
		}
		if seen[a.Name.Local] {
			return nil, fmt.Errorf("%w: duplicate attribute %q", ErrMalformed, a.Name.Local)
		}
		seen[a.Name.Local] = true
		node.Attrs = append(node.Attrs, domain.Attr{Name: a.Name.Local, Value: a.Value})
	}
	return node, nil
}

func qualified(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

// RenderDocument renders doc in its XML text form without a declaration
// or indentation.
func RenderDocument(doc domain.Document) (string, error) {
	var b strings.Builder
	if err := renderNode(&b, doc); err != nil {
		return "", err
	}
	return b.String(), nil
}

// MustRender renders doc and panics on invalid names. For tests and
// documents built from constant names.
func MustRender(doc domain.Document) string {
	s, err := RenderDocument(doc)
	if err != nil {
		panic(err)
	}
	return s
}

func renderNode(b *strings.Builder, d domain.Document) error {
	if !ValidName(d.Name) {
		return fmt.Errorf("%w: invalid element name %q", ErrMalformed, d.Name)
	}
	if len(d.Children) > 0 && strings.TrimSpace(d.Text) != "" {
		return fmt.Errorf("%w: element %q mixes text and children", ErrMalformed, d.Name)
	}

	b.WriteByte('<')
	b.WriteString(d.Name)
	seen := make(map[string]bool, len(d.Attrs))
	for _, a := range d.Attrs {
		if !ValidName(a.Name) {
			return fmt.Errorf("%w: invalid attribute name %q", ErrMalformed, a.Name)
		}
		if seen[a.Name] {
			return fmt.Errorf("%w: duplicate attribute %q", ErrMalformed, a.Name)
		}
		seen[a.Name] = true
		b.WriteByte(' ')
		b.WriteString(a.Name)
		b.WriteString(`="`)
		escape(b, a.Value)
		b.WriteByte('"')
	}

	if len(d.Children) == 0 && d.Text == "" {
		b.WriteString("/>")
		return nil
	}
	b.WriteByte('>')
	if len(d.Children) > 0 {
		for _, c := range d.Children {
			if err := renderNode(b, c); err != nil {
				return err
			}
		}
	} else {
		escape(b, d.Text)
	}
	b.WriteString("</")
	b.WriteString(d.Name)
	b.WriteByte('>')
	return nil
}

func escape(b *strings.Builder, s string) {
	// EscapeText only fails when the writer does.
	_ = xml.EscapeText(b, []byte(s))
}
