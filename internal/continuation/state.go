package continuation

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/custodia-labs/invokers/internal/core/domain"
)

const (
	// RootName is the root element of a continuation Document.
	RootName = "context"

	// RetryCountField holds the remaining attempts.
	RetryCountField = "retry_count"
)

// Decode reads the typed state from a continuation Document.
// Leaf children other than retry_count become connector fields.
func Decode(doc domain.Document) (domain.ContinuationState, error) {
	if doc.Name != RootName {
		return domain.ContinuationState{}, fmt.Errorf("root element %q: %w", doc.Name, domain.ErrInvalidContinuation)
	}

	raw, ok := doc.Child(RetryCountField)
	if !ok {
		return domain.ContinuationState{}, fmt.Errorf("missing %s: %w", RetryCountField, domain.ErrInvalidContinuation)
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw.Text))
	if err != nil || n < 0 {
		return domain.ContinuationState{}, fmt.Errorf("%s %q: %w", RetryCountField, raw.Text, domain.ErrInvalidContinuation)
	}

	state := domain.ContinuationState{RemainingAttempts: n}
	for _, c := range doc.Children {
		if c.Name == RetryCountField {
			continue
		}
		if !c.IsLeaf() {
			return domain.ContinuationState{}, fmt.Errorf("field %q is not a leaf: %w", c.Name, domain.ErrInvalidContinuation)
		}
		state = state.WithField(c.Name, c.Text)
	}
	return state, nil
}

// Encode renders state as a continuation Document.
// Fields follow retry_count in key order.
func Encode(state domain.ContinuationState) domain.Document {
	doc := domain.NewElement(RootName, domain.NewText(RetryCountField, strconv.Itoa(state.RemainingAttempts)))
	for _, k := range slices.Sorted(maps.Keys(state.Fields)) {
		doc.Children = append(doc.Children, domain.NewText(k, state.Fields[k]))
	}
	return doc
}
