package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newService(t *testing.T) *AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	return NewAuthService("test-key", "admin", string(hash))
}

func TestCheckPassword(t *testing.T) {
	a := newService(t)
	assert.True(t, a.CheckPassword("admin", "s3cret"))
	assert.False(t, a.CheckPassword("admin", "wrong"))
	assert.False(t, a.CheckPassword("other", "s3cret"))
	assert.False(t, NewAuthService("k", "", "").CheckPassword("", ""))
}

func TestLoginAndMiddleware(t *testing.T) {
	a := newService(t)

	rec := httptest.NewRecorder()
	LoginHandler(a)(rec, httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"username":"admin","password":"s3cret"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	tok := resp["access_token"]
	require.NotEmpty(t, tok)

	var seen string
	protected := JWTMiddleware(a)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SubjectFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/conversions", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin", seen)

	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/conversions", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	other := NewAuthService("another-key", "admin", "")
	forged, err := other.IssueJWT("admin")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/conversions", nil)
	req.Header.Set("Authorization", "Bearer "+forged)
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	a := newService(t)
	for _, body := range []string{`{"username":"admin","password":"nope"}`, `not json`} {
		rec := httptest.NewRecorder()
		LoginHandler(a)(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body)))
		assert.NotEqual(t, http.StatusOK, rec.Code, body)
	}
}

func TestParseRejectsExpiredAndNoneAlg(t *testing.T) {
	a := newService(t)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Sub: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	s, err := expired.SignedString([]byte("test-key"))
	require.NoError(t, err)
	_, err = a.Parse(s)
	assert.Error(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{Sub: "admin"})
	s, err = none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = a.Parse(s)
	assert.Error(t, err)
}
