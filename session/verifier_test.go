package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/jobvine/jobvine-web/backend"
	"github.com/jobvine/jobvine-web/session"
	"github.com/jobvine/jobvine-web/token"
)

// stalledVerifier blocks until its context is cancelled, simulating a
// backend that accepts the connection but never answers.
type stalledVerifier struct {
	mu      sync.Mutex
	lastErr error
	done    bool
}

func (s *stalledVerifier) Verify(ctx context.Context, _ string) (*backend.User, error) {
	<-ctx.Done()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done = true
	s.lastErr = ctx.Err()
	return nil, ctx.Err()
}

func (s *stalledVerifier) finished() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done, s.lastErr
}

func waitForCalls(t *testing.T, verifier *fakeVerifier, want int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return verifier.callCount() == want
	}, time.Second, 5*time.Millisecond)
}

func TestMaybeVerifyFiresOnceWhileFresh(t *testing.T) {
	verifier := &fakeVerifier{user: &backend.User{ID: 42, Role: backend.RoleCandidate}}
	m := newTestManager(t, verifier)
	raw := testToken(t, 42, testNow.Add(time.Hour))
	m.Initialize("sid-1", raw)

	m.MaybeVerify("sid-1", raw)
	waitForCalls(t, verifier, 1)

	// VerifiedAt was stamped; with the clock frozen every further request
	// inside the re-verify window is a no-op.
	m.MaybeVerify("sid-1", raw)
	m.MaybeVerify("sid-1", raw)
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, 1, verifier.callCount())
}

func TestMaybeVerifySkipsLoggedOutSessions(t *testing.T) {
	verifier := &fakeVerifier{}
	m := newTestManager(t, verifier)
	m.Initialize("sid-1", "")

	m.MaybeVerify("sid-1", "")
	m.MaybeVerify("sid-1", "some-token")
	time.Sleep(20 * time.Millisecond)
	require.Zero(t, verifier.callCount())
}

func TestVerifyNowAdoptsBackendUser(t *testing.T) {
	// The backend record carries fields the token never had (the role) and
	// supersedes the locally decoded claims.
	verifier := &fakeVerifier{user: &backend.User{
		ID:        42,
		Email:     "jane@example.com",
		FirstName: "Janet",
		LastName:  "Doe",
		Role:      backend.RoleEmployer,
	}}
	m := newTestManager(t, verifier)
	raw := testToken(t, 42, testNow.Add(time.Hour))
	sess, _ := m.Initialize("sid-1", raw)
	require.Empty(t, sess.User.Role)

	m.VerifyNow(context.Background(), "sid-1", sess.Generation, raw)

	after, err := m.Get("sid-1")
	require.NoError(t, err)
	require.True(t, after.LoggedIn)
	require.Equal(t, backend.RoleEmployer, after.User.Role)
	require.Equal(t, "Janet", after.User.FirstName)
}

func TestVerifyNowRevokesOnUnauthorized(t *testing.T) {
	verifier := &fakeVerifier{err: backend.ErrUnauthorized}
	m := newTestManager(t, verifier)
	raw := testToken(t, 42, testNow.Add(time.Hour))
	sess, _ := m.Initialize("sid-1", raw)
	require.True(t, sess.LoggedIn)

	m.VerifyNow(context.Background(), "sid-1", sess.Generation, raw)

	after, err := m.Get("sid-1")
	require.NoError(t, err)
	require.False(t, after.LoggedIn)
	require.Nil(t, after.User)
	require.Greater(t, after.Generation, sess.Generation)
}

func TestVerifyNowFailsOpenOnBackendErrors(t *testing.T) {
	verifier := &fakeVerifier{err: errors.New("connection refused")}
	m := newTestManager(t, verifier)
	raw := testToken(t, 42, testNow.Add(time.Hour))
	sess, _ := m.Initialize("sid-1", raw)

	m.VerifyNow(context.Background(), "sid-1", sess.Generation, raw)

	// An unreachable backend never logs the browser out.
	after, err := m.Get("sid-1")
	require.NoError(t, err)
	require.True(t, after.LoggedIn)
	require.Equal(t, int64(42), after.User.ID)
}

func TestMaybeVerifyTimesOutAndFailsOpen(t *testing.T) {
	// A backend that hangs must not pin the verification goroutine forever,
	// and the timeout is an availability problem, not a revocation: the
	// session stays authenticated.
	verifier := &stalledVerifier{}
	m, err := session.NewManager(
		session.NewInMemoryRepo(),
		verifier,
		session.WithNowTime(fixedNow),
		session.WithDecoder(token.NewDecoder(token.WithNow(fixedNow))),
		session.WithVerifyTimeout(10*time.Millisecond),
	)
	require.NoError(t, err)

	raw := testToken(t, 42, testNow.Add(time.Hour))
	m.Initialize("sid-1", raw)
	m.MaybeVerify("sid-1", raw)

	require.Eventually(t, func() bool {
		done, _ := verifier.finished()
		return done
	}, time.Second, 5*time.Millisecond)

	_, lastErr := verifier.finished()
	require.ErrorIs(t, lastErr, context.DeadlineExceeded)

	after, err := m.Get("sid-1")
	require.NoError(t, err)
	require.True(t, after.LoggedIn)
	require.Equal(t, int64(42), after.User.ID)
}

func TestVerifyNowDropsResultAfterLogout(t *testing.T) {
	verifier := &fakeVerifier{user: &backend.User{ID: 42, Role: backend.RoleCandidate}}
	m := newTestManager(t, verifier)
	raw := testToken(t, 42, testNow.Add(time.Hour))
	sess, _ := m.Initialize("sid-1", raw)

	// The session moves on while the verification is "in flight".
	m.Logout("sid-1")

	m.VerifyNow(context.Background(), "sid-1", sess.Generation, raw)

	after, err := m.Get("sid-1")
	require.NoError(t, err)
	require.False(t, after.LoggedIn)
	require.Nil(t, after.User)
}

func TestVerifyNowDropsRevocationAfterRelogin(t *testing.T) {
	verifier := &fakeVerifier{err: backend.ErrUnauthorized}
	m := newTestManager(t, verifier)
	oldToken := testToken(t, 42, testNow.Add(time.Hour))
	sess, _ := m.Initialize("sid-1", oldToken)

	// A fresh login replaced the token while the old verification was in
	// flight; the stale 401 must not tear down the new session.
	newToken := testToken(t, 42, testNow.Add(2*time.Hour))
	relogged, err := m.Login("sid-1", newToken)
	require.NoError(t, err)

	m.VerifyNow(context.Background(), "sid-1", sess.Generation, oldToken)

	after, err := m.Get("sid-1")
	require.NoError(t, err)
	require.True(t, after.LoggedIn)
	require.Equal(t, relogged.Generation, after.Generation)
}
