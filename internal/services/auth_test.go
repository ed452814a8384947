package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"eventbooking/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	byEmail map[string]*domain.User
	nextID  int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*domain.User), nextID: 1}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	if _, ok := f.byEmail[u.Email]; ok {
		return domain.ErrDuplicateEmail
	}
	u.ID = fmt.Sprintf("u-%d", f.nextID)
	f.nextID++
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

// fakeHasher prefixes instead of hashing so tests can assert on values.
type fakeHasher struct{}

func (fakeHasher) GenerateSalt() (string, error) { return "salt", nil }

func (fakeHasher) Hash(salt, password string) (string, error) {
	return "hashed:" + salt + ":" + password, nil
}

func (fakeHasher) Compare(hash, salt, password string) error {
	if hash != "hashed:"+salt+":"+password {
		return fmt.Errorf("hash mismatch")
	}
	return nil
}

type fakeIssuer struct {
	err error
}

func (f fakeIssuer) Issue(userID, email, role string, expiry time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token-for-" + userID, nil
}

func TestAuthService_SignUp(t *testing.T) {
	t.Run("creates attendee by default", func(t *testing.T) {
		repo := newFakeUserRepo()
		svc := NewAuthService(repo, fakeHasher{}, fakeIssuer{}, time.Hour)

		user, err := svc.SignUp(context.Background(), "Ada@Example.com", "correct horse", "Ada", "")
		require.NoError(t, err)
		assert.Equal(t, "ada@example.com", user.Email, "email is normalized")
		assert.Equal(t, domain.RoleAttendee, user.Role)
		assert.Equal(t, "hashed:salt:correct horse", user.PasswordHash)
		assert.Equal(t, "salt", user.Salt)
		assert.NotEmpty(t, user.ID)
	})

	t.Run("keeps an explicit role", func(t *testing.T) {
		repo := newFakeUserRepo()
		svc := NewAuthService(repo, fakeHasher{}, fakeIssuer{}, time.Hour)

		user, err := svc.SignUp(context.Background(), "org@example.com", "correct horse", "Org", "organizer")
		require.NoError(t, err)
		assert.Equal(t, domain.RoleOrganizer, user.Role)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		svc := NewAuthService(newFakeUserRepo(), fakeHasher{}, fakeIssuer{}, time.Hour)

		_, err := svc.SignUp(context.Background(), "not-an-email", "correct horse", "Ada", "")
		require.ErrorIs(t, err, domain.ErrInvalidInput)

		_, err = svc.SignUp(context.Background(), "ada@example.com", "short", "Ada", "")
		require.ErrorIs(t, err, domain.ErrInvalidInput)

		_, err = svc.SignUp(context.Background(), "ada@example.com", "correct horse", "Ada", "superuser")
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := newFakeUserRepo()
		svc := NewAuthService(repo, fakeHasher{}, fakeIssuer{}, time.Hour)

		_, err := svc.SignUp(context.Background(), "ada@example.com", "correct horse", "Ada", "")
		require.NoError(t, err)
		_, err = svc.SignUp(context.Background(), "ADA@example.com", "correct horse", "Ada", "")
		require.ErrorIs(t, err, domain.ErrDuplicateEmail)
	})
}

func TestAuthService_Login(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, fakeHasher{}, fakeIssuer{}, time.Hour)
	user, err := svc.SignUp(context.Background(), "ada@example.com", "correct horse", "Ada", "")
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		token, err := svc.Login(context.Background(), "Ada@Example.com", "correct horse")
		require.NoError(t, err)
		assert.Equal(t, "token-for-"+user.ID, token)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "ada@example.com", "wrong")
		require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "nobody@example.com", "correct horse")
		require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("issuer failure surfaces", func(t *testing.T) {
		failing := NewAuthService(repo, fakeHasher{}, fakeIssuer{err: fmt.Errorf("kms unavailable")}, time.Hour)
		_, err := failing.Login(context.Background(), "ada@example.com", "correct horse")
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}
