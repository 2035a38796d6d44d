package convert

import (
	"encoding/json"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/custodia-labs/invokers/internal/core/domain"
)

const (
	// DefaultItemName is the reserved element name for array entries.
	DefaultItemName = "item"

	// ContentKey holds text found beside attributes.
	ContentKey = "content"
)

var numberPattern = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// Converter translates between Documents and object values.
// The zero value is ready to use.
type Converter struct {
	// ItemName overrides DefaultItemName.
	ItemName string

	// AttributeKeys lists object keys rendered as attributes when their
	// value is a scalar. Used for request documents only.
	AttributeKeys []string
}

var defaultConverter = &Converter{}

// ToObject converts doc with the default converter.
func ToObject(doc domain.Document) (any, error) {
	return defaultConverter.ToObject(doc)
}

// ToDocument converts v with the default converter.
func ToDocument(v any, rootName string) (domain.Document, error) {
	return defaultConverter.ToDocument(v, rootName)
}

// DocumentToJSON converts doc to its JSON wire form.
func DocumentToJSON(doc domain.Document) ([]byte, error) {
	v, err := ToObject(doc)
	if err != nil {
		return nil, err
	}
	return EncodeJSON(v)
}

// JSONToDocument converts a JSON payload to a Document rooted at rootName.
func JSONToDocument(data []byte, rootName string) (domain.Document, error) {
	v, err := DecodeJSON(data)
	if err != nil {
		return domain.Document{}, err
	}
	return ToDocument(v, rootName)
}

func (c *Converter) itemName() string {
	if c.ItemName == "" {
		return DefaultItemName
	}
	return c.ItemName
}

// ToObject converts a Document to an object value.
// The root element name is not part of the result.
func (c *Converter) ToObject(doc domain.Document) (any, error) {
	if !ValidName(doc.Name) {
		return nil, fmt.Errorf("%w: invalid element name %q", ErrMalformed, doc.Name)
	}

	if len(doc.Children) == 0 {
		if len(doc.Attrs) == 0 {
			return Sniff(doc.Text), nil
		}
		obj := NewObject()
		if err := c.mergeAttrs(obj, doc); err != nil {
			return nil, err
		}
		if strings.TrimSpace(doc.Text) != "" {
			obj.Set(ContentKey, Sniff(doc.Text))
		}
		return obj, nil
	}

	if strings.TrimSpace(doc.Text) != "" {
		return nil, fmt.Errorf("%w: element %q mixes text and children", ErrMalformed, doc.Name)
	}

	if len(doc.Attrs) == 0 && c.allItems(doc.Children) {
		arr := make([]any, 0, len(doc.Children))
		for _, child := range doc.Children {
			v, err := c.ToObject(child)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	}

	obj := NewObject()
	if err := c.mergeAttrs(obj, doc); err != nil {
		return nil, err
	}
	grouped := make(map[string]bool)
	for _, child := range doc.Children {
		v, err := c.ToObject(child)
		if err != nil {
			return nil, err
		}
		existing, ok := obj.Get(child.Name)
		switch {
		case !ok:
			obj.Set(child.Name, v)
		case grouped[child.Name]:
			obj.Set(child.Name, append(existing.([]any), v))
		default:
			grouped[child.Name] = true
			obj.Set(child.Name, []any{existing, v})
		}
	}
	return obj, nil
}

func (c *Converter) allItems(children []domain.Document) bool {
	item := c.itemName()
	for _, child := range children {
		if child.Name != item {
			return false
		}
	}
	return true
}

func (c *Converter) mergeAttrs(obj *Object, doc domain.Document) error {
	for _, a := range doc.Attrs {
		if !ValidName(a.Name) {
			return fmt.Errorf("%w: invalid attribute name %q", ErrMalformed, a.Name)
		}
		if obj.Has(a.Name) {
			return fmt.Errorf("%w: duplicate attribute %q", ErrMalformed, a.Name)
		}
		obj.Set(a.Name, Sniff(a.Value))
	}
	return nil
}

// ToDocument converts an object value to a Document rooted at rootName.
func (c *Converter) ToDocument(v any, rootName string) (domain.Document, error) {
	return c.node(rootName, v)
}

func (c *Converter) node(name string, v any) (domain.Document, error) {
	if !ValidName(name) {
		return domain.Document{}, fmt.Errorf("%w: invalid element name %q", ErrMalformed, name)
	}

	switch t := v.(type) {
	case *Object:
		doc := domain.Document{Name: name}
		for _, k := range t.Keys() {
			val, _ := t.Get(k)
			if err := c.field(&doc, k, val); err != nil {
				return domain.Document{}, err
			}
		}
		return doc, nil

	case []any:
		doc := domain.Document{Name: name}
		for _, e := range t {
			child, err := c.node(c.itemName(), e)
			if err != nil {
				return domain.Document{}, err
			}
			doc.Children = append(doc.Children, child)
		}
		return doc, nil

	default:
		text, err := scalarText(v)
		if err != nil {
			return domain.Document{}, err
		}
		return domain.Document{Name: name, Text: text}, nil
	}
}

func (c *Converter) field(doc *domain.Document, key string, val any) error {
	if arr, ok := val.([]any); ok && len(arr) > 1 {
		for _, e := range arr {
			child, err := c.node(key, e)
			if err != nil {
				return err
			}
			doc.Children = append(doc.Children, child)
		}
		return nil
	}

	if isScalar(val) && slices.Contains(c.AttributeKeys, key) {
		if !ValidName(key) {
			return fmt.Errorf("%w: invalid attribute name %q", ErrMalformed, key)
		}
		text, err := scalarText(val)
		if err != nil {
			return err
		}
		doc.Attrs = append(doc.Attrs, domain.Attr{Name: key, Value: text})
		return nil
	}

	child, err := c.node(key, val)
	if err != nil {
		return err
	}
	doc.Children = append(doc.Children, child)
	return nil
}

func isScalar(v any) bool {
	switch v.(type) {
	case *Object, []any:
		return false
	default:
		return true
	}
}

func scalarText(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case json.Number:
		return string(t), nil
	case bool:
		return strconv.FormatBool(t), nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64), nil
	default:
		return "", fmt.Errorf("%w: unsupported type %T", ErrMalformed, v)
	}
}

// Sniff infers the scalar type of text.
func Sniff(text string) any {
	switch {
	case text == "":
		return nil
	case text == "true":
		return true
	case text == "false":
		return false
	case numberPattern.MatchString(text):
		return json.Number(text)
	default:
		return text
	}
}
