package auth

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/papertrade/papertrade/internal/session"
	"github.com/papertrade/papertrade/internal/template"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	// Templates load relative to the repository root.
	if err := os.Chdir("../../.."); err != nil {
		panic(err)
	}

	os.Setenv("SECRET_KEY", "test-secret")
	session.InitSessionStorage()
	template.Init()
	os.Exit(m.Run())
}

func TestViewLoginForm(t *testing.T) {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/login", nil)

	HandleViewLoginForm(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Log In")
}

func TestViewRegisterForm(t *testing.T) {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/register", nil)

	HandleViewRegisterForm(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Confirm password")
}

func TestLogoutClearsSessionAndRedirects(t *testing.T) {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/logout", nil)

	HandleLogout(recorder, request)

	assert.Equal(t, http.StatusFound, recorder.Code)
	assert.Equal(t, "/login", recorder.Header().Get("Location"))
}
