package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuth(t *testing.T) *Authenticator {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	return New("signing-key", "school-portal", string(hash))
}

func TestIssueAndVerify(t *testing.T) {
	a := newTestAuth(t)
	require.True(t, a.Enabled())

	token, err := a.Issue("school-portal", "s3cret")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	sub, err := a.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "school-portal", sub)
}

func TestIssueRejectsBadCredentials(t *testing.T) {
	a := newTestAuth(t)

	_, err := a.Issue("school-portal", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = a.Issue("someone-else", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestIssueDisabled(t *testing.T) {
	a := New("", "", "")
	assert.False(t, a.Enabled())

	_, err := a.Issue("x", "y")
	assert.ErrorIs(t, err, ErrDisabled)

	var nilAuth *Authenticator
	assert.False(t, nilAuth.Enabled())
}

func TestVerifyRejectsExpiredAndForeignTokens(t *testing.T) {
	a := newTestAuth(t)
	a.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	expired, err := a.Issue("school-portal", "s3cret")
	require.NoError(t, err)

	_, err = a.Verify(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := newTestAuth(t)
	other.signingKey = []byte("another-key")
	foreign, err := other.Issue("school-portal", "s3cret")
	require.NoError(t, err)

	_, err = newTestAuth(t).Verify(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = a.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestBearerToken(t *testing.T) {
	tok, ok := BearerToken("Bearer abc.def")
	assert.True(t, ok)
	assert.Equal(t, "abc.def", tok)

	tok, ok = BearerToken("bearer xyz")
	assert.True(t, ok)
	assert.Equal(t, "xyz", tok)

	_, ok = BearerToken("Basic abc")
	assert.False(t, ok)

	_, ok = BearerToken("")
	assert.False(t, ok)
}
