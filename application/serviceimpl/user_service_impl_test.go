package serviceimpl

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"taskhub-api/domain/dto"
	"taskhub-api/domain/models"
	"taskhub-api/domain/policy"
	"taskhub-api/domain/ports"
	"taskhub-api/domain/services"
	"taskhub-api/infrastructure/memory"
	"taskhub-api/pkg/apperror"
)

type recordingNotifier struct {
	mu      sync.Mutex
	notices []*ports.RegistrationNotice
	err     error
}

func (n *recordingNotifier) NotifyRegistration(ctx context.Context, notice *ports.RegistrationNotice) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
	return n.err
}

func (n *recordingNotifier) last() *ports.RegistrationNotice {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.notices) == 0 {
		return nil
	}
	return n.notices[len(n.notices)-1]
}

type userFixture struct {
	svc      services.UserService
	users    *memory.UserRepository
	tokens   services.TokenService
	notifier *recordingNotifier
	clock    *fakeClock
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()

	clock := &fakeClock{now: time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)}
	users := memory.NewUserRepository()
	tokens := newTestTokenService(clock)
	notifier := &recordingNotifier{}

	svc := NewUserService(users, memory.NewVerificationTokenRepository(), tokens, notifier,
		WithBcryptCost(bcrypt.MinCost),
		WithUserClock(clock.Now),
	)
	return &userFixture{svc: svc, users: users, tokens: tokens, notifier: notifier, clock: clock}
}

func TestRegisterCreatesUserWithDefaults(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	user, token, err := f.svc.Register(ctx, &dto.RegisterRequest{Username: "a", Email: "a@x.com", Password: "p"})
	require.NoError(t, err)

	assert.Equal(t, models.RoleUser, user.Role)
	assert.False(t, user.IsVerified)
	assert.NotEqual(t, "p", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("p")))

	claims, err := f.tokens.Verify(services.TokenKindAccess, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	notice := f.notifier.last()
	require.NotNil(t, notice)
	assert.Equal(t, "a@x.com", notice.Email)
}

func TestRegisterTwiceIsConflict(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	_, _, err := f.svc.Register(ctx, &dto.RegisterRequest{Username: "a", Email: "a@x.com", Password: "p"})
	require.NoError(t, err)

	for _, req := range []*dto.RegisterRequest{
		{Username: "a", Email: "new@x.com", Password: "p"},
		{Username: "new", Email: "a@x.com", Password: "p"},
	} {
		_, token, err := f.svc.Register(ctx, req)
		assert.True(t, apperror.Is(err, apperror.KindConflict))
		assert.Empty(t, token)
	}

	count, err := f.users.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestRegisterSucceedsWhenNotifierFails(t *testing.T) {
	f := newUserFixture(t)
	f.notifier.err = errors.New("queue down")

	_, token, err := f.svc.Register(context.Background(), &dto.RegisterRequest{Username: "a", Email: "a@x.com", Password: "p"})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestLogin(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	registered, _, err := f.svc.Register(ctx, &dto.RegisterRequest{Username: "a", Email: "a@x.com", Password: "secret"})
	require.NoError(t, err)

	user, token, err := f.svc.Login(ctx, &dto.LoginRequest{Email: "a@x.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, token)

	user, token, err = f.svc.Login(ctx, &dto.LoginRequest{Email: "a@x.com", Password: "wrong"})
	assert.True(t, apperror.Is(err, apperror.KindUnauthorized))
	assert.Nil(t, user)
	assert.Empty(t, token)

	_, _, err = f.svc.Login(ctx, &dto.LoginRequest{Email: "nobody@x.com", Password: "secret"})
	assert.True(t, apperror.Is(err, apperror.KindUnauthorized))
}

func TestVerifyEmailIsSingleUse(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	user, _, err := f.svc.Register(ctx, &dto.RegisterRequest{Username: "a", Email: "a@x.com", Password: "p"})
	require.NoError(t, err)
	token := f.notifier.last().VerificationToken

	require.NoError(t, f.svc.VerifyEmail(ctx, token))

	stored, err := f.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsVerified)

	err = f.svc.VerifyEmail(ctx, token)
	assert.True(t, apperror.Is(err, apperror.KindInvalidOrExpired))
}

func TestVerifyEmailRejectsAccessTokenAndExpiry(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	_, access, err := f.svc.Register(ctx, &dto.RegisterRequest{Username: "a", Email: "a@x.com", Password: "p"})
	require.NoError(t, err)
	verification := f.notifier.last().VerificationToken

	err = f.svc.VerifyEmail(ctx, access)
	assert.True(t, apperror.Is(err, apperror.KindInvalidOrExpired))

	err = f.svc.VerifyEmail(ctx, "garbage")
	assert.True(t, apperror.Is(err, apperror.KindInvalidOrExpired))

	f.clock.now = f.clock.now.Add(25 * time.Hour)
	err = f.svc.VerifyEmail(ctx, verification)
	assert.True(t, apperror.Is(err, apperror.KindInvalidOrExpired))
}

func TestVerifyEmailRejectsUnstoredToken(t *testing.T) {
	f := newUserFixture(t)

	// signed correctly but never recorded
	issued, err := f.tokens.Issue(services.TokenKindEmailVerification, uuid.New())
	require.NoError(t, err)

	err = f.svc.VerifyEmail(context.Background(), issued.Token)
	assert.True(t, apperror.Is(err, apperror.KindInvalidOrExpired))
}

func TestUpdateProfileOnlyTouchesUsernameAndEmail(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	user, _, err := f.svc.Register(ctx, &dto.RegisterRequest{Username: "a", Email: "a@x.com", Password: "p"})
	require.NoError(t, err)
	actor := policy.Actor{ID: user.ID, Role: policy.RoleUser}

	updated, err := f.svc.UpdateProfile(ctx, actor, &dto.UpdateProfileRequest{Username: "alpha"})
	require.NoError(t, err)
	assert.Equal(t, "alpha", updated.Username)
	assert.Equal(t, "a@x.com", updated.Email)
	assert.Equal(t, models.RoleUser, updated.Role)
	assert.Equal(t, user.Password, updated.Password)

	_, _, err = f.svc.Register(ctx, &dto.RegisterRequest{Username: "b", Email: "b@x.com", Password: "p"})
	require.NoError(t, err)

	_, err = f.svc.UpdateProfile(ctx, actor, &dto.UpdateProfileRequest{Email: "b@x.com"})
	assert.True(t, apperror.Is(err, apperror.KindConflict))
}

func TestListUsersRequiresPrivilege(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	user, _, err := f.svc.Register(ctx, &dto.RegisterRequest{Username: "a", Email: "a@x.com", Password: "p"})
	require.NoError(t, err)

	_, err = f.svc.ListUsers(ctx, policy.Actor{ID: user.ID, Role: policy.RoleUser})
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	users, err := f.svc.ListUsers(ctx, policy.Actor{ID: uuid.New(), Role: policy.RoleManager})
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestGetProfileMissingUser(t *testing.T) {
	f := newUserFixture(t)

	_, err := f.svc.GetProfile(context.Background(), policy.Actor{ID: uuid.New(), Role: policy.RoleUser})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}
