package directory

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/vodachat/voda-server/internal/store"
)

// ErrNotFound is returned when a user id is unknown to the directory.
var ErrNotFound = errors.New("user not found")

// idSpace is the size of the user id space: ids are 10-digit decimal
// strings in [1000000000, 9999999999].
var idSpace = big.NewInt(9_000_000_000)

// maxIDAttempts bounds the collision retry loop. With the id space far
// larger than any expected population a single attempt almost always wins.
const maxIDAttempts = 16

// Service manages user identities on top of a UserStore.
type Service struct {
	store store.UserStore
}

// NewService creates a directory service.
func NewService(userStore store.UserStore) *Service {
	return &Service{store: userStore}
}

// Register creates a new user with a freshly generated id. The display name
// is the trimmed name and surname joined with a space; an empty surname
// falls back to just the name.
func (s *Service) Register(ctx context.Context, name, surname string) (*store.User, error) {
	display := strings.TrimSpace(strings.TrimSpace(name) + " " + strings.TrimSpace(surname))

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id, err := newUserID()
		if err != nil {
			return nil, fmt.Errorf("generate user id: %w", err)
		}

		user, err := s.store.CreateUser(ctx, id, display, "")
		if errors.Is(err, store.ErrDuplicateID) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		return user, nil
	}

	return nil, errors.New("exhausted user id attempts")
}

// Lookup retrieves a user by id. Returns ErrNotFound for unknown ids.
func (s *Service) Lookup(ctx context.Context, id string) (*store.User, error) {
	user, err := s.store.GetUserByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func newUserID() (string, error) {
	n, err := rand.Int(rand.Reader, idSpace)
	if err != nil {
		return "", err
	}
	return n.Add(n, big.NewInt(1_000_000_000)).String(), nil
}
