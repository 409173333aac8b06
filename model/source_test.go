package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSourceOverrides(t *testing.T) {
	require := require.New(t)
	ordered := []Source{SourceNone, SourceConvention, SourceDataAnnotation, SourceExplicit}
	for i, lower := range ordered {
		for j, higher := range ordered {
			if i <= j {
				require.True(higher.Overrides(lower), "%s should override %s", higher, lower)
			} else {
				require.False(higher.Overrides(lower), "%s should not override %s", higher, lower)
			}
		}
	}
	// Ties override in both directions.
	require.True(SourceConvention.Overrides(SourceConvention))
	require.True(SourceExplicit.Overrides(SourceExplicit))
}

func TestSourceMax(t *testing.T) {
	require := require.New(t)
	require.Equal(SourceExplicit, SourceNone.Max(SourceExplicit))
	require.Equal(SourceExplicit, SourceExplicit.Max(SourceConvention))
	require.Equal(SourceDataAnnotation, SourceDataAnnotation.Max(SourceConvention))
	require.Equal(SourceNone, SourceNone.Max(SourceNone))
}

func TestSourceString(t *testing.T) {
	require := require.New(t)
	require.Equal("None", SourceNone.String())
	require.Equal("Convention", SourceConvention.String())
	require.Equal("DataAnnotation", SourceDataAnnotation.String())
	require.Equal("Explicit", SourceExplicit.String())
}
