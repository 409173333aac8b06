package model

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tessera-orm/tessera"
)

func TestPropertyMemberClash(t *testing.T) {
	require := require.New(t)
	m := MustNew()
	user, err := m.Builder().Entity("User", SourceExplicit)
	require.NoError(err)
	post, err := m.Builder().Entity("Post", SourceExplicit)
	require.NoError(err)
	_, err = post.Property("id", SourceExplicit)
	require.NoError(err)
	_, err = post.PrimaryKey([]string{"id"}, SourceExplicit)
	require.NoError(err)

	fkb, err := user.HasRelationship(post.Metadata(), nil, SourceExplicit)
	require.NoError(err)
	_, err = user.Navigation("Posts", fkb.Metadata(), true, true, SourceExplicit)
	require.NoError(err)

	// A navigation occupies the member namespace.
	require.False(user.CanHaveProperty("Posts"))
	got, err := user.Property("Posts", SourceConvention)
	require.NoError(err)
	require.Nil(got)
	_, err = user.Property("Posts", SourceExplicit)
	require.True(tessera.IsConfiguration(err))
}

func TestHasKeyMakesPropertiesRequired(t *testing.T) {
	require := require.New(t)
	user := newTestEntity(t, "User")
	pb, err := user.PropertyWithShape("email", reflect.TypeOf((*string)(nil)), SourceExplicit)
	require.NoError(err)
	require.True(pb.Metadata().IsNullable())

	kb, err := user.HasKey([]string{"email"}, SourceConvention)
	require.NoError(err)
	require.NotNil(kb)
	require.False(pb.Metadata().IsNullable())
	require.True(pb.Metadata().IsKeyProperty())

	// Re-declaring the same key reuses it and ratchets the source.
	again, err := user.HasKey([]string{"email"}, SourceExplicit)
	require.NoError(err)
	require.Same(kb.Metadata(), again.Metadata())
	require.Equal(SourceExplicit, kb.Metadata().GetSource())
}

func TestHasKeyRollsBackNullabilityOnFailure(t *testing.T) {
	require := require.New(t)
	user := newTestEntity(t, "User")
	a, err := user.PropertyWithShape("a", reflect.TypeOf((*string)(nil)), SourceExplicit)
	require.NoError(err)
	b, err := user.PropertyWithShape("b", reflect.TypeOf((*string)(nil)), SourceExplicit)
	require.NoError(err)

	// Pin b optional at Explicit so a convention key cannot flip it.
	_, err = b.IsRequired(ptr(false), SourceExplicit)
	require.NoError(err)

	got, err := user.HasKey([]string{"a", "b"}, SourceConvention)
	require.NoError(err)
	require.Nil(got)

	// a's nullability was restored, source included.
	require.True(a.Metadata().IsNullable())
	require.Equal(SourceNone, a.Metadata().NullableSource())
	require.Empty(user.Metadata().Keys())
}

func TestPrimaryKeyPrecedence(t *testing.T) {
	require := require.New(t)
	user := newTestEntity(t, "User")
	_, err := user.Property("id", SourceExplicit)
	require.NoError(err)
	_, err = user.Property("email", SourceExplicit)
	require.NoError(err)

	kb, err := user.PrimaryKey([]string{"id"}, SourceConvention)
	require.NoError(err)
	require.NotNil(kb)
	require.True(kb.Metadata().IsPrimary())
	require.Equal(SourceConvention, user.Metadata().PrimaryKeySource())

	// A data annotation replaces the convention primary key; the old key
	// stays declared but is no longer primary.
	kb2, err := user.PrimaryKey([]string{"email"}, SourceDataAnnotation)
	require.NoError(err)
	require.NotNil(kb2)
	require.True(kb2.Metadata().IsPrimary())
	require.False(kb.Metadata().IsPrimary())
	require.Len(user.Metadata().Keys(), 2)

	// A convention cannot take it back.
	require.False(user.CanSetPrimaryKey([]string{"id"}, SourceConvention))
	got, err := user.PrimaryKey([]string{"id"}, SourceConvention)
	require.NoError(err)
	require.Nil(got)
	require.True(kb2.Metadata().IsPrimary())
}

func TestHasRelationshipDerivesShadowProperties(t *testing.T) {
	require := require.New(t)
	m := MustNew()
	user, err := m.Builder().Entity("User", SourceExplicit)
	require.NoError(err)
	_, err = user.Property("id", SourceExplicit)
	require.NoError(err)
	_, err = user.PrimaryKey([]string{"id"}, SourceExplicit)
	require.NoError(err)

	post, err := m.Builder().Entity("Post", SourceExplicit)
	require.NoError(err)
	fkb, err := post.HasRelationship(user.Metadata(), nil, SourceConvention)
	require.NoError(err)
	require.NotNil(fkb)

	fk := fkb.Metadata()
	require.Len(fk.Properties(), 1)
	require.Equal("user_id", fk.Properties()[0].Name())
	require.True(fk.Properties()[0].IsShadow())
	require.Same(user.Metadata(), fk.PrincipalEntityType())
	require.Same(user.Metadata().PrimaryKey(), fk.PrincipalKey())

	// A second derived relationship to the same principal uniquifies its
	// shadow property instead of clashing.
	fkb2, err := post.HasRelationship(user.Metadata(), nil, SourceConvention)
	require.NoError(err)
	require.NotNil(fkb2)
	require.NotSame(fk, fkb2.Metadata())
	require.Equal("user_id1", fkb2.Metadata().Properties()[0].Name())
	require.Len(post.Metadata().ForeignKeys(), 2)

	// Naming the same dependent properties reuses the existing foreign key.
	fkb3, err := post.HasRelationship(user.Metadata(), []string{"user_id"}, SourceConvention)
	require.NoError(err)
	require.Same(fk, fkb3.Metadata())
}

func TestHasRelationshipRequiresPrincipalKey(t *testing.T) {
	require := require.New(t)
	m := MustNew()
	user, err := m.Builder().Entity("User", SourceExplicit)
	require.NoError(err)
	post, err := m.Builder().Entity("Post", SourceExplicit)
	require.NoError(err)

	// No primary key on the principal: silent for conventions, a
	// structural error for explicit callers. Either way Post is unchanged.
	got, err := post.HasRelationship(user.Metadata(), nil, SourceConvention)
	require.NoError(err)
	require.Nil(got)
	_, err = post.HasRelationship(user.Metadata(), nil, SourceExplicit)
	require.True(tessera.IsStructural(err))
	require.ErrorIs(err, tessera.ErrStructural)
	require.Empty(post.Metadata().Properties())
	require.Empty(post.Metadata().ForeignKeys())
}

func TestRemoveKeyCascadesToForeignKeys(t *testing.T) {
	require := require.New(t)
	m := MustNew()
	user, err := m.Builder().Entity("User", SourceExplicit)
	require.NoError(err)
	_, err = user.Property("id", SourceExplicit)
	require.NoError(err)
	kb, err := user.PrimaryKey([]string{"id"}, SourceConvention)
	require.NoError(err)

	post, err := m.Builder().Entity("Post", SourceExplicit)
	require.NoError(err)
	_, err = post.HasRelationship(user.Metadata(), nil, SourceConvention)
	require.NoError(err)
	require.Len(post.Metadata().ForeignKeys(), 1)

	// A weaker source cannot remove a key held by stronger foreign keys.
	strongPost, err := post.HasRelationship(user.Metadata(), nil, SourceExplicit)
	require.NoError(err)
	require.Equal(SourceExplicit, strongPost.Metadata().GetSource())
	got, err := user.RemoveKey(kb.Metadata(), SourceConvention)
	require.NoError(err)
	require.Nil(got)
	require.NotNil(user.Metadata().PrimaryKey())

	// Explicit removal cascades through the referencing foreign key.
	_, err = user.RemoveKey(kb.Metadata(), SourceExplicit)
	require.NoError(err)
	require.Nil(user.Metadata().PrimaryKey())
	require.Empty(post.Metadata().ForeignKeys())
}

func TestRemoveForeignKeyCollectsImplicitType(t *testing.T) {
	require := require.New(t)
	m := MustNew()
	user, err := m.Builder().Entity("User", SourceExplicit)
	require.NoError(err)
	_, err = user.Property("id", SourceExplicit)
	require.NoError(err)
	_, err = user.PrimaryKey([]string{"id"}, SourceExplicit)
	require.NoError(err)

	assoc, err := m.Builder().ImplicitEntity("UserFriend", SourceConvention)
	require.NoError(err)
	require.True(assoc.Metadata().IsImplicit())
	fkb, err := assoc.HasRelationship(user.Metadata(), nil, SourceConvention)
	require.NoError(err)
	require.NotNil(fkb)

	// Dropping the implicit type's last foreign key collects the type.
	_, err = assoc.RemoveForeignKey(fkb.Metadata(), SourceConvention)
	require.NoError(err)
	require.Nil(m.FindEntityType("UserFriend"))
}

func TestBaseType(t *testing.T) {
	require := require.New(t)
	m := MustNew()
	animal, err := m.Builder().Entity("Animal", SourceExplicit)
	require.NoError(err)
	_, err = animal.Property("name", SourceExplicit)
	require.NoError(err)
	dog, err := m.Builder().Entity("Dog", SourceExplicit)
	require.NoError(err)

	_, err = dog.HasBaseType(animal.Metadata(), SourceExplicit)
	require.NoError(err)
	require.Same(animal.Metadata(), dog.Metadata().BaseType())

	// Inherited properties resolve through the chain but are not declared
	// locally.
	require.NotNil(dog.Metadata().FindProperty("name"))
	require.Nil(dog.Metadata().FindDeclaredProperty("name"))

	// Cycles are rejected.
	require.False(animal.CanSetBaseType(dog.Metadata(), SourceExplicit))
	_, err = animal.HasBaseType(dog.Metadata(), SourceExplicit)
	require.True(tessera.IsConfiguration(err))

	// Clashing declared members block the assignment.
	cat, err := m.Builder().Entity("Cat", SourceExplicit)
	require.NoError(err)
	_, err = cat.Property("name", SourceExplicit)
	require.NoError(err)
	require.False(cat.CanSetBaseType(animal.Metadata(), SourceExplicit))

	// nil clears.
	_, err = dog.HasBaseType(nil, SourceExplicit)
	require.NoError(err)
	require.Nil(dog.Metadata().BaseType())
	require.Equal(SourceNone, dog.Metadata().BaseTypeSource())
}

func TestSkipNavigationAndInverse(t *testing.T) {
	require := require.New(t)
	m := MustNew()
	post, err := m.Builder().Entity("Post", SourceExplicit)
	require.NoError(err)
	tag, err := m.Builder().Entity("Tag", SourceExplicit)
	require.NoError(err)

	left, err := post.SkipNavigation("Tags", tag.Metadata(), true, SourceExplicit)
	require.NoError(err)
	require.NotNil(left)
	right, err := tag.SkipNavigation("Posts", post.Metadata(), true, SourceExplicit)
	require.NoError(err)

	_, err = left.HasInverse(right.Metadata(), SourceExplicit)
	require.NoError(err)
	require.Same(right.Metadata(), left.Metadata().Inverse())
	require.Same(left.Metadata(), right.Metadata().Inverse())

	// Removing one side clears the back reference on the other.
	_, err = post.RemoveSkipNavigation(left.Metadata(), SourceExplicit)
	require.NoError(err)
	require.Nil(tag.Metadata().FindSkipNavigation("Posts").Inverse())
}

func TestNavigationEndpointValidation(t *testing.T) {
	require := require.New(t)
	m := MustNew()
	user, err := m.Builder().Entity("User", SourceExplicit)
	require.NoError(err)
	_, err = user.Property("id", SourceExplicit)
	require.NoError(err)
	_, err = user.PrimaryKey([]string{"id"}, SourceExplicit)
	require.NoError(err)
	post, err := m.Builder().Entity("Post", SourceExplicit)
	require.NoError(err)
	fkb, err := post.HasRelationship(user.Metadata(), nil, SourceExplicit)
	require.NoError(err)
	fk := fkb.Metadata()

	// Dependent navigations live on the foreign key's declaring type.
	got, err := user.Navigation("Author", fk, true, false, SourceConvention)
	require.NoError(err)
	require.Nil(got)
	nb, err := post.Navigation("Author", fk, true, false, SourceExplicit)
	require.NoError(err)
	require.NotNil(nb)
	require.Same(user.Metadata(), nb.Metadata().TargetEntityType())

	// Principal navigations live on the principal.
	nb2, err := user.Navigation("Posts", fk, false, true, SourceExplicit)
	require.NoError(err)
	require.NotNil(nb2)
	require.Same(post.Metadata(), nb2.Metadata().TargetEntityType())
	require.True(nb2.Metadata().IsCollection())
}
