package continuation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/invokers/internal/convert"
	"github.com/custodia-labs/invokers/internal/core/domain"
)

func TestEncodeDecode(t *testing.T) {
	t.Run("renders the wire form", func(t *testing.T) {
		doc := Encode(domain.ContinuationState{RemainingAttempts: 2})

		assert.Equal(t, "<context><retry_count>2</retry_count></context>", convert.MustRender(doc))
	})

	t.Run("round trips fields in key order", func(t *testing.T) {
		state := domain.ContinuationState{RemainingAttempts: 1}.
			WithField("page", "3").
			WithField("cursor", "abc")

		doc := Encode(state)
		assert.Equal(t,
			"<context><retry_count>1</retry_count><cursor>abc</cursor><page>3</page></context>",
			convert.MustRender(doc))

		back, err := Decode(doc)
		require.NoError(t, err)
		assert.Equal(t, state, back)
	})

	t.Run("decodes parsed text", func(t *testing.T) {
		doc, err := convert.ParseDocument("<context>\n  <retry_count> 0 </retry_count>\n</context>")
		require.NoError(t, err)

		state, err := Decode(doc)

		require.NoError(t, err)
		assert.Equal(t, 0, state.RemainingAttempts)
		assert.True(t, state.Exhausted())
	})

	t.Run("rejects bad documents", func(t *testing.T) {
		bad := map[string]domain.Document{
			"wrong root":   domain.NewElement("ctx", domain.NewText(RetryCountField, "1")),
			"no count":     domain.NewElement(RootName),
			"not a number": domain.NewElement(RootName, domain.NewText(RetryCountField, "x")),
			"negative":     domain.NewElement(RootName, domain.NewText(RetryCountField, "-1")),
			"nested field": domain.NewElement(RootName,
				domain.NewText(RetryCountField, "1"),
				domain.NewElement("f", domain.NewText("g", "1")),
			),
		}
		for name, doc := range bad {
			t.Run(name, func(t *testing.T) {
				_, err := Decode(doc)
				assert.ErrorIs(t, err, domain.ErrInvalidContinuation)
			})
		}
	})
}
