package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vodachat/voda-server/internal/store"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateAndGetUser(t *testing.T) {
	req := require.New(t)
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateUser(ctx, "1234567890", "Marie Dupont", "")
	req.NoError(err)
	req.Equal("1234567890", created.ID)
	req.Equal("Marie Dupont", created.DisplayName)
	req.False(created.CreatedAt.IsZero())

	got, err := s.GetUserByID(ctx, "1234567890")
	req.NoError(err)
	req.Equal(created.ID, got.ID)
	req.Equal(created.DisplayName, got.DisplayName)
}

func TestCreateUserDuplicateID(t *testing.T) {
	req := require.New(t)
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateUser(ctx, "1234567890", "Marie Dupont", "")
	req.NoError(err)

	_, err = s.CreateUser(ctx, "1234567890", "Jean Martin", "")
	req.ErrorIs(err, store.ErrDuplicateID)
}

func TestGetUserNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetUserByID(context.Background(), "0000000000")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestAppendMessageAssignsIncreasingIDs(t *testing.T) {
	req := require.New(t)
	s := newTestStore(t)
	ctx := context.Background()

	var last int64
	for i := 0; i < 5; i++ {
		msg, err := s.AppendMessage(ctx, "a", "b", "hello")
		req.NoError(err)
		req.Greater(msg.ID, last)
		last = msg.ID
	}
}

func TestConversationBothDirectionsOrdered(t *testing.T) {
	req := require.New(t)
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.AppendMessage(ctx, "a", "b", "first")
	req.NoError(err)
	_, err = s.AppendMessage(ctx, "b", "a", "second")
	req.NoError(err)
	_, err = s.AppendMessage(ctx, "a", "c", "unrelated")
	req.NoError(err)
	_, err = s.AppendMessage(ctx, "a", "b", "third")
	req.NoError(err)

	msgs, err := s.Conversation(ctx, "a", "b")
	req.NoError(err)
	req.Len(msgs, 3)
	req.Equal("first", msgs[0].Body)
	req.Equal("second", msgs[1].Body)
	req.Equal("third", msgs[2].Body)
	req.Less(msgs[0].ID, msgs[1].ID)
	req.Less(msgs[1].ID, msgs[2].ID)

	// The same conversation seen from the other side.
	reverse, err := s.Conversation(ctx, "b", "a")
	req.NoError(err)
	req.Len(reverse, 3)
	req.Equal(msgs[0].ID, reverse[0].ID)
}

func TestConversationEmpty(t *testing.T) {
	req := require.New(t)
	s := newTestStore(t)

	msgs, err := s.Conversation(context.Background(), "a", "b")
	req.NoError(err)
	req.NotNil(msgs)
	req.Empty(msgs)
}
