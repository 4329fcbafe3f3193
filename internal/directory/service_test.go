package directory

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vodachat/voda-server/internal/store"
	"github.com/vodachat/voda-server/internal/store/sqlite"
)

var userIDPattern = regexp.MustCompile(`^[1-9][0-9]{9}$`)

func newTestService(t *testing.T) *Service {
	t.Helper()
	st, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return NewService(st)
}

func TestRegisterAssignsUniqueIDs(t *testing.T) {
	req := require.New(t)
	svc := newTestService(t)
	ctx := context.Background()

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		user, err := svc.Register(ctx, "Marie", "Dupont")
		req.NoError(err)
		req.Regexp(userIDPattern, user.ID)

		_, dup := seen[user.ID]
		req.False(dup, "id %s assigned twice", user.ID)
		seen[user.ID] = struct{}{}
	}
}

func TestRegisterDisplayName(t *testing.T) {
	req := require.New(t)
	svc := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		surname string
		want    string
	}{
		{"Marie", "Dupont", "Marie Dupont"},
		{" Marie ", " Dupont ", "Marie Dupont"},
		{"Marie", "", "Marie"},
		{"Marie", "   ", "Marie"},
	}

	for _, tt := range tests {
		user, err := svc.Register(ctx, tt.name, tt.surname)
		req.NoError(err)
		req.Equal(tt.want, user.DisplayName)
	}
}

func TestLookup(t *testing.T) {
	req := require.New(t)
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Marie", "Dupont")
	req.NoError(err)

	got, err := svc.Lookup(ctx, user.ID)
	req.NoError(err)
	req.Equal(user.ID, got.ID)

	_, err = svc.Lookup(ctx, "0000000000")
	req.ErrorIs(err, ErrNotFound)
}

// collidingStore reports a duplicate id for the first few inserts to force
// the retry path.
type collidingStore struct {
	store.UserStore
	collisions int
	attempts   []string
}

func (c *collidingStore) CreateUser(ctx context.Context, id, displayName, photo string) (*store.User, error) {
	c.attempts = append(c.attempts, id)
	if len(c.attempts) <= c.collisions {
		return nil, store.ErrDuplicateID
	}
	return c.UserStore.CreateUser(ctx, id, displayName, photo)
}

func TestRegisterRetriesOnCollision(t *testing.T) {
	req := require.New(t)

	st, err := sqlite.New(":memory:")
	req.NoError(err)
	t.Cleanup(func() { st.Close() })

	colliding := &collidingStore{UserStore: st, collisions: 3}
	svc := NewService(colliding)

	user, err := svc.Register(context.Background(), "Marie", "Dupont")
	req.NoError(err)
	req.Len(colliding.attempts, 4)
	req.Equal(colliding.attempts[3], user.ID)
}
