package model

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tessera-orm/tessera"
)

func TestEntityCreationGates(t *testing.T) {
	require := require.New(t)
	m := MustNew()
	mb := m.Builder()

	// Empty name: silent for conventions, hard error for explicit.
	got, err := mb.Entity("", SourceConvention)
	require.NoError(err)
	require.Nil(got)
	_, err = mb.Entity("", SourceExplicit)
	require.True(tessera.IsConfiguration(err))

	user, err := mb.Entity("User", SourceConvention)
	require.NoError(err)
	require.NotNil(user)
	require.Equal(SourceConvention, user.Metadata().GetSource())

	// Asking again returns the same type and ratchets the source up.
	again, err := mb.Entity("User", SourceExplicit)
	require.NoError(err)
	require.Same(user.Metadata(), again.Metadata())
	require.Equal(SourceExplicit, user.Metadata().GetSource())
}

func TestEntityShapeConflict(t *testing.T) {
	require := require.New(t)
	m := MustNew()
	mb := m.Builder()

	_, err := mb.EntityWithShape("User", reflect.TypeOf(userShape{}), SourceExplicit)
	require.NoError(err)

	got, err := mb.EntityWithShape("User", reflect.TypeOf(struct{ X int }{}), SourceConvention)
	require.NoError(err)
	require.Nil(got)
	_, err = mb.EntityWithShape("User", reflect.TypeOf(struct{ X int }{}), SourceExplicit)
	require.True(tessera.IsConfiguration(err))

	// A shapeless type can acquire a shape from an overriding source.
	post, err := mb.Entity("Post", SourceConvention)
	require.NoError(err)
	require.Nil(post.Metadata().Shape())
	_, err = mb.EntityWithShape("Post", reflect.TypeOf(userShape{}), SourceExplicit)
	require.NoError(err)
	require.NotNil(post.Metadata().Shape())
}

func TestFinalizedModelRejectsMutation(t *testing.T) {
	require := require.New(t)
	m := MustNew()
	user, err := m.Builder().Entity("User", SourceExplicit)
	require.NoError(err)
	_, err = user.Property("id", SourceExplicit)
	require.NoError(err)
	pk, err := user.PrimaryKey([]string{"id"}, SourceExplicit)
	require.NoError(err)
	require.NoError(m.Finalize())
	require.True(m.IsFinalized())

	got, err := m.Builder().Entity("Post", SourceConvention)
	require.NoError(err)
	require.Nil(got)
	_, err = m.Builder().Entity("Post", SourceExplicit)
	require.ErrorIs(err, tessera.ErrModelFinalized)

	// The seal covers every structural mutator, not only entity creation.
	_, err = user.Property("email", SourceExplicit)
	require.ErrorIs(err, tessera.ErrModelFinalized)
	pb, err := user.Property("email", SourceConvention)
	require.NoError(err)
	require.Nil(pb)
	require.False(user.CanHaveProperty("email"))
	_, err = user.HasKey([]string{"id"}, SourceExplicit)
	require.ErrorIs(err, tessera.ErrModelFinalized)
	_, err = user.HasIndex([]string{"id"}, SourceExplicit)
	require.ErrorIs(err, tessera.ErrModelFinalized)
	_, err = user.HasRelationship(user.Metadata(), nil, SourceExplicit)
	require.ErrorIs(err, tessera.ErrModelFinalized)
	_, err = user.SkipNavigation("Friends", user.Metadata(), true, SourceExplicit)
	require.ErrorIs(err, tessera.ErrModelFinalized)
	_, err = user.RemoveKey(pk.Metadata(), SourceExplicit)
	require.ErrorIs(err, tessera.ErrModelFinalized)
	_, err = m.Builder().RemoveEntityType(user.Metadata(), SourceExplicit)
	require.ErrorIs(err, tessera.ErrModelFinalized)
	require.NotNil(m.FindEntityType("User"))
	require.NotNil(user.Metadata().PrimaryKey())

	// Finalizing twice is an error.
	require.Error(m.Finalize())
}

func TestRemoveEntityTypePrecedence(t *testing.T) {
	require := require.New(t)
	m := MustNew()
	user, err := m.Builder().Entity("User", SourceExplicit)
	require.NoError(err)

	require.False(m.Builder().CanRemoveEntityType(user.Metadata(), SourceConvention))
	got, err := m.Builder().RemoveEntityType(user.Metadata(), SourceConvention)
	require.NoError(err)
	require.Nil(got)
	require.NotNil(m.FindEntityType("User"))

	_, err = m.Builder().RemoveEntityType(user.Metadata(), SourceExplicit)
	require.NoError(err)
	require.Nil(m.FindEntityType("User"))
	require.False(user.Metadata().InModel())
}

func TestRemoveEntityTypeCascades(t *testing.T) {
	require := require.New(t)
	m := MustNew()
	mb := m.Builder()

	user, err := mb.Entity("User", SourceExplicit)
	require.NoError(err)
	_, err = user.Property("id", SourceExplicit)
	require.NoError(err)
	_, err = user.PrimaryKey([]string{"id"}, SourceExplicit)
	require.NoError(err)

	post, err := mb.Entity("Post", SourceExplicit)
	require.NoError(err)
	fkb, err := post.HasRelationship(user.Metadata(), nil, SourceExplicit)
	require.NoError(err)
	require.NotNil(fkb)
	_, err = post.Navigation("Author", fkb.Metadata(), true, false, SourceExplicit)
	require.NoError(err)

	// Removing the principal takes the dependent's foreign key and
	// navigation with it, but not the dependent itself.
	_, err = mb.RemoveEntityType(user.Metadata(), SourceExplicit)
	require.NoError(err)
	require.Nil(m.FindEntityType("User"))
	require.NotNil(m.FindEntityType("Post"))
	require.Empty(post.Metadata().ForeignKeys())
	require.Empty(post.Metadata().Navigations())
}

func TestRemoveEntityTypeBlockedByStrongerForeignKey(t *testing.T) {
	require := require.New(t)
	m := MustNew()
	mb := m.Builder()

	user, err := mb.Entity("User", SourceConvention)
	require.NoError(err)
	_, err = user.Property("id", SourceConvention)
	require.NoError(err)
	_, err = user.PrimaryKey([]string{"id"}, SourceConvention)
	require.NoError(err)

	post, err := mb.Entity("Post", SourceExplicit)
	require.NoError(err)
	_, err = post.HasRelationship(user.Metadata(), nil, SourceExplicit)
	require.NoError(err)

	// The convention-created type cannot be collected while an explicit
	// foreign key points at it.
	got, err := mb.RemoveEntityType(user.Metadata(), SourceConvention)
	require.NoError(err)
	require.Nil(got)
	require.NotNil(m.FindEntityType("User"))
}

func TestRemoveEntityTypeBlockedByStrongerSkipNavigation(t *testing.T) {
	require := require.New(t)
	m := MustNew()
	mb := m.Builder()

	user, err := mb.Entity("User", SourceConvention)
	require.NoError(err)
	post, err := mb.Entity("Post", SourceExplicit)
	require.NoError(err)
	nav, err := post.SkipNavigation("Users", user.Metadata(), true, SourceExplicit)
	require.NoError(err)

	// The convention-created type cannot be collected while an explicit
	// skip navigation points at it.
	require.False(mb.CanRemoveEntityType(user.Metadata(), SourceConvention))
	got, err := mb.RemoveEntityType(user.Metadata(), SourceConvention)
	require.NoError(err)
	require.Nil(got)
	require.NotNil(m.FindEntityType("User"))
	require.Same(nav.Metadata(), post.Metadata().FindSkipNavigation("Users"))

	// An explicit removal overrides and cascades the navigation away.
	_, err = mb.RemoveEntityType(user.Metadata(), SourceExplicit)
	require.NoError(err)
	require.Nil(m.FindEntityType("User"))
	require.Empty(post.Metadata().SkipNavigations())
}
