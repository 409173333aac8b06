package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved(t *testing.T) (*Logger, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	return New(zap.New(core)), logs
}

func TestNilReceiverSafe(t *testing.T) {
	var l *Logger
	l.EntityTypeAdded(EntityTypeData{EntityType: "User"})
	l.MemberAdded("property", MemberData{EntityType: "User", Member: "id"})
	l.ValueChanged("nullable", ValueChangeData{EntityType: "User", Member: "id", Old: true, New: false})
	l.ModelFinalizing(3)
}

func TestNewNilLoggerIsNop(t *testing.T) {
	l := New(nil)
	require.NotNil(t, l)
	l.EntityTypeAdded(EntityTypeData{EntityType: "User"})
}

func TestEntityTypeEvents(t *testing.T) {
	require := require.New(t)
	l, logs := newObserved(t)

	l.EntityTypeAdded(EntityTypeData{EntityType: "User"})
	l.EntityTypeRemoved(EntityTypeData{EntityType: "User"})

	entries := logs.All()
	require.Len(entries, 2)
	require.Equal("entity type added", entries[0].Message)
	require.Equal("User", entries[0].ContextMap()["entity_type"])
	require.Equal("entity type removed", entries[1].Message)
}

func TestMemberAndValueEvents(t *testing.T) {
	require := require.New(t)
	l, logs := newObserved(t)

	l.MemberAdded("foreign key", MemberData{EntityType: "Post", Member: "user_id"})
	l.ValueChanged("nullable", ValueChangeData{EntityType: "Post", Member: "user_id", Old: true, New: false})
	l.RelationshipAdded(RelationshipData{
		DeclaringEntityType: "Post",
		PrincipalEntityType: "User",
		Properties:          []string{"user_id"},
	})

	entries := logs.All()
	require.Len(entries, 3)

	fields := entries[0].ContextMap()
	require.Equal("foreign key", fields["kind"])
	require.Equal("Post", fields["entity_type"])
	require.Equal("user_id", fields["member"])

	fields = entries[1].ContextMap()
	require.Equal("nullable", fields["attribute"])
	require.Equal(true, fields["old"])
	require.Equal(false, fields["new"])

	fields = entries[2].ContextMap()
	require.Equal("Post", fields["declaring_entity_type"])
	require.Equal("User", fields["principal_entity_type"])
}
