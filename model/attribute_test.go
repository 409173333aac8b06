package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAttrPrecedence(t *testing.T) {
	require := require.New(t)
	var a attr[int]

	// Unset cells accept any source, including Convention.
	require.True(a.CanSet(SourceConvention))
	require.True(a.Set(ptr(1), SourceConvention))
	v, ok := a.Get()
	require.True(ok)
	require.Equal(1, v)
	require.Equal(SourceConvention, a.Source())

	// Higher source wins and the recorded source ratchets up.
	require.True(a.Set(ptr(2), SourceDataAnnotation))
	require.Equal(2, a.ValueOr(0))
	require.Equal(SourceDataAnnotation, a.Source())

	// Lower source is rejected without touching the cell.
	require.False(a.Set(ptr(3), SourceConvention))
	require.Equal(2, a.ValueOr(0))
	require.Equal(SourceDataAnnotation, a.Source())

	// Equal source is allowed, value and source included.
	require.True(a.Set(ptr(4), SourceDataAnnotation))
	require.Equal(4, a.ValueOr(0))

	// Explicit overrides everything.
	require.True(a.Set(ptr(5), SourceExplicit))
	require.Equal(SourceExplicit, a.Source())
	require.False(a.Set(ptr(6), SourceDataAnnotation))
}

func TestAttrClear(t *testing.T) {
	require := require.New(t)
	var a attr[string]
	require.True(a.Set(ptr("x"), SourceDataAnnotation))

	// Clearing needs the same precedence as setting.
	require.False(a.Set(nil, SourceConvention))
	require.Equal("x", a.ValueOr(""))

	// A successful clear resets both value and source, so a later
	// convention write succeeds again.
	require.True(a.Set(nil, SourceExplicit))
	_, ok := a.Get()
	require.False(ok)
	require.Equal(SourceNone, a.Source())
	require.True(a.Set(ptr("y"), SourceConvention))
	require.Equal("y", a.ValueOr(""))
}

func TestAttrValueOr(t *testing.T) {
	require := require.New(t)
	var a attr[bool]
	require.True(a.ValueOr(true))
	require.False(a.ValueOr(false))
	require.True(a.Set(ptr(false), SourceConvention))
	require.False(a.ValueOr(true))
}

func TestAnnotations(t *testing.T) {
	require := require.New(t)
	var a annotatable

	require.True(a.SetAnnotation("relational:table", "users", SourceConvention))
	v, ok := a.Annotation("relational:table")
	require.True(ok)
	require.Equal("users", v)
	require.Equal(SourceConvention, a.AnnotationSource("relational:table"))

	// Annotations gate per name.
	require.True(a.SetAnnotation("relational:schema", "public", SourceExplicit))
	require.False(a.SetAnnotation("relational:schema", "other", SourceDataAnnotation))
	require.True(a.SetAnnotation("relational:table", "people", SourceDataAnnotation))
	v, _ = a.Annotation("relational:table")
	require.Equal("people", v)

	// nil removes, subject to the same gate.
	require.False(a.SetAnnotation("relational:schema", nil, SourceConvention))
	require.True(a.SetAnnotation("relational:schema", nil, SourceExplicit))
	_, ok = a.Annotation("relational:schema")
	require.False(ok)
	require.Equal(SourceNone, a.AnnotationSource("relational:schema"))
}
