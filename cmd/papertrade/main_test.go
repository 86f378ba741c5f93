package main

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
	if err := os.Chdir("../.."); err != nil {
		panic(err)
	}

	os.Setenv("SECRET_KEY", "test-secret")
	session.InitSessionStorage()
	template.Init()
	os.Exit(m.Run())
}

// Requests the router cannot match must get apology pages, not mux's
// plain-text defaults.
func TestRouterRespondsWithApologyPages(t *testing.T) {
	router := newRouter(nil, nil)

	tests := []struct {
		name    string
		method  string
		path    string
		status  int
		message string
	}{
		{"unknown path", "GET", "/no-such-page", http.StatusNotFound, "not found"},
		{"wrong method", "POST", "/history", http.StatusMethodNotAllowed, "method not allowed"},
		{"post to portfolio", "POST", "/", http.StatusMethodNotAllowed, "method not allowed"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			request := httptest.NewRequest(test.method, test.path, nil)

			router.ServeHTTP(recorder, request)

			assert.Equal(t, test.status, recorder.Code)
			assert.Contains(t, recorder.Body.String(), test.message)
		})
	}
}
