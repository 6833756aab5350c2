package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/qiaozhwen/shop-be/internal/shared"
)

type fakeRepo struct {
	accounts map[string]*Account
	touched  map[int64]time.Time
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{accounts: map[string]*Account{}, touched: map[int64]time.Time{}}
}

func (r *fakeRepo) FindByUsername(_ context.Context, username string) (*Account, error) {
	acct, ok := r.accounts[username]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *acct
	return &copied, nil
}

func (r *fakeRepo) FindByID(_ context.Context, id int64) (*Account, error) {
	for _, acct := range r.accounts {
		if acct.ID == id {
			copied := *acct
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeRepo) TouchLastLogin(_ context.Context, id int64, at time.Time) error {
	r.touched[id] = at
	return nil
}

func (r *fakeRepo) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	for _, acct := range r.accounts {
		if acct.ID == id {
			acct.PasswordHash = passwordHash
			return nil
		}
	}
	return shared.ErrNotFound
}

type fakeAudit struct {
	logs []shared.SystemLog
}

func (a *fakeAudit) Record(_ context.Context, log shared.SystemLog) error {
	a.logs = append(a.logs, log)
	return nil
}

func hashPassword(t *testing.T, plain string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func newTestService(t *testing.T, repo Repository, audit AuditLogger) (*Service, *TokenIssuer) {
	t.Helper()
	tokens := NewTokenIssuer("test-secret", time.Hour)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(logger, repo, tokens, audit), tokens
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	repo := newFakeRepo()
	repo.accounts["alice"] = &Account{
		ID:           7,
		Username:     "alice",
		PasswordHash: hashPassword(t, "s3cret-pass"),
		Name:         "Alice",
		Role:         RoleManager,
		Status:       StatusActive,
	}
	audit := &fakeAudit{}
	svc, tokens := newTestService(t, repo, audit)

	acct, token, err := svc.Login(context.Background(), "alice", "s3cret-pass", "127.0.0.1", "go-test")
	require.NoError(t, err)
	require.Equal(t, int64(7), acct.ID)
	require.NotEmpty(t, token)

	identity, err := tokens.Verify(token)
	require.NoError(t, err)
	require.Equal(t, int64(7), identity.StaffID)
	require.Equal(t, "alice", identity.Username)

	require.Contains(t, repo.touched, int64(7))
	require.Len(t, audit.logs, 1)
	require.Equal(t, "auth", audit.logs[0].Module)
	require.Equal(t, "login", audit.logs[0].Action)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	repo := newFakeRepo()
	repo.accounts["alice"] = &Account{
		ID:           7,
		Username:     "alice",
		PasswordHash: hashPassword(t, "s3cret-pass"),
		Status:       StatusActive,
	}
	svc, _ := newTestService(t, repo, nil)

	_, _, err := svc.Login(context.Background(), "alice", "wrong", "", "")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), "nobody", "s3cret-pass", "", "")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestLoginRejectsDisabledAccount(t *testing.T) {
	repo := newFakeRepo()
	repo.accounts["bob"] = &Account{
		ID:           9,
		Username:     "bob",
		PasswordHash: hashPassword(t, "s3cret-pass"),
		Status:       StatusDisabled,
	}
	svc, _ := newTestService(t, repo, nil)

	_, _, err := svc.Login(context.Background(), "bob", "s3cret-pass", "", "")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	tokens := NewTokenIssuer("test-secret", time.Minute)
	acct := &Account{ID: 3, Username: "carol"}

	token, err := tokens.Issue(acct, time.Now().Add(-2*time.Minute))
	require.NoError(t, err)

	_, err = tokens.Verify(token)
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	issuer := NewTokenIssuer("secret-a", time.Hour)
	verifier := NewTokenIssuer("secret-b", time.Hour)

	token, err := issuer.Issue(&Account{ID: 1, Username: "dave"}, time.Now())
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestChangePasswordRehashes(t *testing.T) {
	repo := newFakeRepo()
	repo.accounts["alice"] = &Account{
		ID:           7,
		Username:     "alice",
		PasswordHash: hashPassword(t, "old-pass"),
		Status:       StatusActive,
	}
	svc, _ := newTestService(t, repo, nil)

	require.NoError(t, svc.ChangePassword(context.Background(), 7, "old-pass", "new-pass-123"))

	stored := repo.accounts["alice"].PasswordHash
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored), []byte("new-pass-123")))
	require.Error(t, bcrypt.CompareHashAndPassword([]byte(stored), []byte("old-pass")))
}

func TestChangePasswordRejectsWrongOldPassword(t *testing.T) {
	repo := newFakeRepo()
	repo.accounts["alice"] = &Account{
		ID:           7,
		Username:     "alice",
		PasswordHash: hashPassword(t, "old-pass"),
		Status:       StatusActive,
	}
	svc, _ := newTestService(t, repo, nil)

	err := svc.ChangePassword(context.Background(), 7, "guess", "new-pass-123")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.accounts["alice"].PasswordHash), []byte("old-pass")))
}

func TestLogoutRecordsAudit(t *testing.T) {
	audit := &fakeAudit{}
	svc, _ := newTestService(t, newFakeRepo(), audit)

	svc.Logout(context.Background(), 7, "alice", "127.0.0.1", "go-test")

	require.Len(t, audit.logs, 1)
	require.Equal(t, "logout", audit.logs[0].Action)
	require.Equal(t, int64(7), audit.logs[0].StaffID)
}
