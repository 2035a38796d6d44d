// Package convert translates between Document trees and the JSON wire format.
//
// The object side is an ordered value tree restricted to *Object, []any,
// string, json.Number, bool and nil. Conversion rules:
//
//   - A leaf without attributes becomes a scalar by sniffing its text:
//     JSON-number grammar yields json.Number, "true"/"false" yield bool,
//     empty text yields nil, anything else stays a string.
//   - A leaf with attributes becomes an object of its attributes. Non-blank
//     text beside attributes is stored under "content".
//   - A node whose children are all named "item" becomes an array.
//   - Any other node becomes an object keyed by child name. A repeated name
//     collects its values into an array.
//
// The reverse direction renders object fields as child elements. Multi-value
// arrays under a key become repeated elements; single-value arrays and arrays
// nested in arrays become "item" children. Empty objects and arrays render as
// empty elements and therefore read back as nil.
//
// Every malformed input is reported with an error wrapping ErrMalformed.
package convert
