package trade

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

// Every trade route must bounce anonymous requests to the login page
// without touching the database.
func TestAnonymousRequestsRedirectToLogin(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		handle func(http.ResponseWriter, *http.Request)
	}{
		{"portfolio", "/", func(writer http.ResponseWriter, request *http.Request) {
			HandlePortfolio(nil, nil, writer, request)
		}},
		{"buy form", "/buy", func(writer http.ResponseWriter, request *http.Request) {
			HandleViewBuyForm(nil, writer, request)
		}},
		{"buy", "/buy", func(writer http.ResponseWriter, request *http.Request) {
			HandleBuy(nil, nil, writer, request)
		}},
		{"sell form", "/sell", func(writer http.ResponseWriter, request *http.Request) {
			HandleViewSellForm(nil, writer, request)
		}},
		{"sell", "/sell", func(writer http.ResponseWriter, request *http.Request) {
			HandleSell(nil, nil, writer, request)
		}},
		{"quote form", "/quote", func(writer http.ResponseWriter, request *http.Request) {
			HandleViewQuoteForm(nil, writer, request)
		}},
		{"quote", "/quote", func(writer http.ResponseWriter, request *http.Request) {
			HandleQuote(nil, nil, writer, request)
		}},
		{"history", "/history", func(writer http.ResponseWriter, request *http.Request) {
			HandleHistory(nil, writer, request)
		}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			request := httptest.NewRequest("GET", test.path, nil)

			test.handle(recorder, request)

			assert.Equal(t, http.StatusFound, recorder.Code)
			assert.Equal(t, "/login", recorder.Header().Get("Location"))
		})
	}
}
