package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_Accessors(t *testing.T) {
	doc := Document{
		Name:  "Request",
		Attrs: []Attr{{Name: "version", Value: "2"}},
		Children: []Document{
			NewText("first_name", "Ivan"),
			NewText("last_name", "Petrov"),
		},
	}

	v, ok := doc.Attr("version")
	require.True(t, ok)
	assert.Equal(t, "2", v)

	_, ok = doc.Attr("missing")
	assert.False(t, ok)

	child, ok := doc.Child("last_name")
	require.True(t, ok)
	assert.Equal(t, "Petrov", child.Text)

	assert.Equal(t, "Ivan", doc.ChildText("first_name"))
	assert.Equal(t, "", doc.ChildText("birthdate"))
	assert.False(t, doc.IsLeaf())
	assert.True(t, child.IsLeaf())
}

func TestDocument_IsZero(t *testing.T) {
	assert.True(t, Document{}.IsZero())
	assert.False(t, NewText("a", "").IsZero())
}

func TestDocument_Clone(t *testing.T) {
	orig := NewElement("root", NewText("a", "1"))
	orig.Attrs = []Attr{{Name: "x", Value: "y"}}

	cp := orig.Clone()
	cp.Children[0].Text = "changed"
	cp.Attrs[0].Value = "changed"

	assert.Equal(t, "1", orig.Children[0].Text)
	assert.Equal(t, "y", orig.Attrs[0].Value)
}

func TestContinuationState(t *testing.T) {
	s := ContinuationState{RemainingAttempts: 1}
	assert.False(t, s.Exhausted())

	_, ok := s.Field("marker")
	assert.False(t, ok)

	s2 := s.WithField("marker", "page-2")
	v, ok := s2.Field("marker")
	require.True(t, ok)
	assert.Equal(t, "page-2", v)
	assert.Nil(t, s.Fields, "WithField must not mutate the receiver")

	assert.True(t, ContinuationState{}.Exhausted())
	assert.True(t, ContinuationState{RemainingAttempts: -1}.Exhausted())
}
