package convention

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tessera-orm/tessera/model"
)

func newDiscoveryModel(t *testing.T) *model.Model {
	t.Helper()
	set := model.NewConventionSet().Add(PrimaryKeyDiscovery{})
	return model.MustNew(model.WithConventions(set))
}

func TestDiscoverIDProperty(t *testing.T) {
	require := require.New(t)
	m := newDiscoveryModel(t)

	user, err := m.Builder().Entity("User", model.SourceExplicit)
	require.NoError(err)
	_, err = user.Property("name", model.SourceExplicit)
	require.NoError(err)
	require.Nil(user.Metadata().PrimaryKey())

	_, err = user.Property("id", model.SourceExplicit)
	require.NoError(err)
	pk := user.Metadata().PrimaryKey()
	require.NotNil(pk)
	require.Equal("id", pk.Properties()[0].Name())
	require.Equal(model.SourceConvention, pk.GetSource())
	require.Equal(model.SourceConvention, user.Metadata().PrimaryKeySource())
}

func TestDiscoverTypeQualifiedIDProperty(t *testing.T) {
	require := require.New(t)
	m := newDiscoveryModel(t)

	user, err := m.Builder().Entity("User", model.SourceExplicit)
	require.NoError(err)
	_, err = user.Property("user_id", model.SourceExplicit)
	require.NoError(err)
	pk := user.Metadata().PrimaryKey()
	require.NotNil(pk)
	require.Equal("user_id", pk.Properties()[0].Name())
}

func TestDiscoveryYieldsToConfiguredKey(t *testing.T) {
	require := require.New(t)
	m := newDiscoveryModel(t)

	user, err := m.Builder().Entity("User", model.SourceExplicit)
	require.NoError(err)
	_, err = user.Property("email", model.SourceExplicit)
	require.NoError(err)
	_, err = user.PrimaryKey([]string{"email"}, model.SourceDataAnnotation)
	require.NoError(err)

	// An "id" property arriving later does not displace the annotated key.
	_, err = user.Property("id", model.SourceExplicit)
	require.NoError(err)
	pk := user.Metadata().PrimaryKey()
	require.Equal("email", pk.Properties()[0].Name())
	require.Equal(model.SourceDataAnnotation, user.Metadata().PrimaryKeySource())
}

func TestNoDiscoveryOnDerivedTypes(t *testing.T) {
	require := require.New(t)
	m := newDiscoveryModel(t)

	animal, err := m.Builder().Entity("Animal", model.SourceExplicit)
	require.NoError(err)
	_, err = animal.Property("id", model.SourceExplicit)
	require.NoError(err)

	dog, err := m.Builder().Entity("Dog", model.SourceExplicit)
	require.NoError(err)
	_, err = dog.HasBaseType(animal.Metadata(), model.SourceExplicit)
	require.NoError(err)

	// Keys live on the root of a hierarchy.
	_, err = dog.Property("dog_id", model.SourceExplicit)
	require.NoError(err)
	require.Nil(dog.Metadata().PrimaryKey())
	require.NotNil(animal.Metadata().PrimaryKey())
}
