package convention

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessera-orm/tessera/model"
)

func TestLoadConfig(t *testing.T) {
	require := require.New(t)

	cfg, err := LoadConfig(strings.NewReader("disabled:\n  - ForeignKeyIndex\n  - ManyToManyAssociation\n"))
	require.NoError(err)
	require.Equal([]string{"ForeignKeyIndex", "ManyToManyAssociation"}, cfg.Disabled)

	// An empty document is a valid everything-enabled config.
	cfg, err = LoadConfig(strings.NewReader(""))
	require.NoError(err)
	require.Empty(cfg.Disabled)

	_, err = LoadConfig(strings.NewReader("disabled: {not a list}"))
	require.Error(err)
}

func TestSetHonorsDisabled(t *testing.T) {
	require := require.New(t)

	full := DefaultSet()
	assert.NotEmpty(t, full.PropertyAdded)
	assert.NotEmpty(t, full.ForeignKeyAdded)
	assert.NotEmpty(t, full.SkipNavigationAdded)

	cfg := &Config{Disabled: []string{"ForeignKeyIndex"}}
	set := Set(cfg)
	require.Empty(set.ForeignKeyAdded)
	require.NotEmpty(set.SkipNavigationAdded)

	// A model built with the trimmed set leaves foreign keys unindexed.
	m := model.MustNew(model.WithConventions(set))
	user, err := m.Builder().Entity("User", model.SourceExplicit)
	require.NoError(err)
	_, err = user.Property("id", model.SourceExplicit)
	require.NoError(err)
	post, err := m.Builder().Entity("Post", model.SourceExplicit)
	require.NoError(err)
	_, err = post.HasRelationship(user.Metadata(), nil, model.SourceConvention)
	require.NoError(err)
	require.Empty(post.Metadata().Indexes())
}
