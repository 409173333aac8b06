package model

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// recorder captures convention invocations as "name/event/subject" strings
// shared across convention instances.
type recorder struct {
	calls []string
}

func (r *recorder) record(name, event, subject string) {
	r.calls = append(r.calls, fmt.Sprintf("%s/%s/%s", name, event, subject))
}

type recordingConvention struct {
	name string
	rec  *recorder

	// onPropertyAdded, when set, runs after recording so tests can mutate
	// the model from inside a callback.
	onPropertyAdded func(b *PropertyBuilder, ctx *Context)
	stopOn          string
}

func (c *recordingConvention) ProcessEntityTypeAdded(b *EntityTypeBuilder, ctx *Context) {
	c.rec.record(c.name, "entity", b.Metadata().Name())
	if c.stopOn == b.Metadata().Name() {
		ctx.StopProcessing()
	}
}

func (c *recordingConvention) ProcessPropertyAdded(b *PropertyBuilder, ctx *Context) {
	c.rec.record(c.name, "property", b.Metadata().Name())
	if c.onPropertyAdded != nil {
		c.onPropertyAdded(b, ctx)
	}
}

func (c *recordingConvention) ProcessPropertyNullableChanged(b *PropertyBuilder, _ *Context) {
	c.rec.record(c.name, "nullable", b.Metadata().Name())
}

func TestDispatchImmediateWhenIdle(t *testing.T) {
	require := require.New(t)
	rec := &recorder{}
	set := NewConventionSet().Add(&recordingConvention{name: "c1", rec: rec})
	m := MustNew(WithConventions(set))

	_, err := m.Builder().Entity("User", SourceExplicit)
	require.NoError(err)
	require.Equal([]string{"c1/entity/User"}, rec.calls)
	require.False(m.Dispatcher().InBatch())
}

func TestBatchDefersUntilOutermostClose(t *testing.T) {
	require := require.New(t)
	rec := &recorder{}
	set := NewConventionSet().Add(&recordingConvention{name: "c1", rec: rec})
	m := MustNew(WithConventions(set))
	d := m.Dispatcher()

	outer := d.StartBatch()
	user, err := m.Builder().Entity("User", SourceExplicit)
	require.NoError(err)

	inner := d.StartBatch()
	_, err = user.Property("name", SourceExplicit)
	require.NoError(err)
	inner.Close()

	// Inner close does not drain while the outer batch is open.
	require.Empty(rec.calls)
	require.True(d.InBatch())

	outer.Close()
	require.Equal([]string{"c1/entity/User", "c1/property/name"}, rec.calls)
	require.False(d.InBatch())
}

func TestBatchCloseIdempotent(t *testing.T) {
	require := require.New(t)
	rec := &recorder{}
	set := NewConventionSet().Add(&recordingConvention{name: "c1", rec: rec})
	m := MustNew(WithConventions(set))

	batch := m.Dispatcher().StartBatch()
	_, err := m.Builder().Entity("User", SourceExplicit)
	require.NoError(err)
	batch.Close()
	batch.Close()
	require.Equal([]string{"c1/entity/User"}, rec.calls)
}

func TestArrivalOrderAcrossKinds(t *testing.T) {
	require := require.New(t)
	rec := &recorder{}
	set := NewConventionSet().Add(
		&recordingConvention{name: "c1", rec: rec},
		&recordingConvention{name: "c2", rec: rec},
	)
	m := MustNew(WithConventions(set))

	batch := m.Dispatcher().StartBatch()
	user, err := m.Builder().Entity("User", SourceExplicit)
	require.NoError(err)
	_, err = user.Property("name", SourceExplicit)
	require.NoError(err)
	_, err = m.Builder().Entity("Post", SourceExplicit)
	require.NoError(err)
	batch.Close()

	// Events interleave by arrival; all conventions for one event run
	// before the next event starts.
	require.Equal([]string{
		"c1/entity/User", "c2/entity/User",
		"c1/property/name", "c2/property/name",
		"c1/entity/Post", "c2/entity/Post",
	}, rec.calls)
}

func TestNestedBatchDrainsDepthFirst(t *testing.T) {
	require := require.New(t)
	rec := &recorder{}
	c1 := &recordingConvention{name: "c1", rec: rec}
	c2 := &recordingConvention{name: "c2", rec: rec}
	set := NewConventionSet().Add(c1, c2)
	m := MustNew(WithConventions(set))

	// While reacting to "a", c1 creates "c" inside its own batch. That
	// batch drains at its close, before the outer drain resumes, so both
	// conventions settle "c" before either sees "b".
	c1.onPropertyAdded = func(b *PropertyBuilder, ctx *Context) {
		et := b.Metadata().DeclaringEntityType()
		if b.Metadata().Name() != "a" || et.FindDeclaredProperty("c") != nil {
			return
		}
		nested := ctx.Dispatcher().StartBatch()
		defer nested.Close()
		_, err := et.Builder().Property("c", SourceConvention)
		require.NoError(err)
	}

	user, err := m.Builder().Entity("User", SourceExplicit)
	require.NoError(err)
	rec.calls = nil

	batch := m.Dispatcher().StartBatch()
	_, err = user.Property("a", SourceExplicit)
	require.NoError(err)
	_, err = user.Property("b", SourceExplicit)
	require.NoError(err)
	batch.Close()

	require.Equal([]string{
		"c1/property/a",
		"c1/property/c", "c2/property/c",
		"c2/property/a",
		"c1/property/b", "c2/property/b",
	}, rec.calls)
}

func TestStopProcessingShortCircuitsOneEvent(t *testing.T) {
	require := require.New(t)
	rec := &recorder{}
	set := NewConventionSet().Add(
		&recordingConvention{name: "c1", rec: rec, stopOn: "User"},
		&recordingConvention{name: "c2", rec: rec},
	)
	m := MustNew(WithConventions(set))

	batch := m.Dispatcher().StartBatch()
	_, err := m.Builder().Entity("User", SourceExplicit)
	require.NoError(err)
	_, err = m.Builder().Entity("Post", SourceExplicit)
	require.NoError(err)
	batch.Close()

	// c2 is skipped for User only; Post dispatches to both.
	require.Equal([]string{
		"c1/entity/User",
		"c1/entity/Post", "c2/entity/Post",
	}, rec.calls)
}

func TestStaleEventsDropped(t *testing.T) {
	require := require.New(t)
	rec := &recorder{}
	set := NewConventionSet().Add(&recordingConvention{name: "c1", rec: rec})
	m := MustNew(WithConventions(set))

	batch := m.Dispatcher().StartBatch()
	user, err := m.Builder().Entity("User", SourceExplicit)
	require.NoError(err)
	pb, err := user.Property("name", SourceExplicit)
	require.NoError(err)
	_, err = user.RemoveProperty(pb.Metadata(), SourceExplicit)
	require.NoError(err)

	post, err := m.Builder().Entity("Post", SourceExplicit)
	require.NoError(err)
	_, err = m.Builder().RemoveEntityType(post.Metadata(), SourceExplicit)
	require.NoError(err)
	batch.Close()

	// The property and the Post type were gone by drain time; only the
	// surviving addition reaches conventions.
	require.Equal([]string{"c1/entity/User"}, rec.calls)
}

func TestRolledBackNullabilityChangeNotDispatched(t *testing.T) {
	require := require.New(t)
	rec := &recorder{}
	set := NewConventionSet().Add(&recordingConvention{name: "c1", rec: rec})
	m := MustNew(WithConventions(set))

	user, err := m.Builder().Entity("User", SourceExplicit)
	require.NoError(err)
	a, err := user.Property("a", SourceExplicit)
	require.NoError(err)
	b, err := user.Property("b", SourceExplicit)
	require.NoError(err)
	_, err = b.IsRequired(ptr(false), SourceExplicit)
	require.NoError(err)

	rec.calls = nil
	batch := m.Dispatcher().StartBatch()
	// b is pinned nullable at a stronger source, so the key is rejected and
	// the flip already applied to a rolls back before the batch drains.
	got, err := user.HasKey([]string{"a", "b"}, SourceConvention)
	require.NoError(err)
	require.Nil(got)
	batch.Close()

	require.Empty(rec.calls)
	require.True(a.Metadata().IsNullable())
	require.Equal(SourceNone, a.Metadata().NullableSource())
}
