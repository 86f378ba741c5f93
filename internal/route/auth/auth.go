// Package auth defines routes for registration, login, and logout.
package auth

import (
	"net/http"

	"github.com/papertrade/papertrade/internal/database"
	"github.com/papertrade/papertrade/internal/env"
	"github.com/papertrade/papertrade/internal/ledger"
	"github.com/papertrade/papertrade/internal/model"
	"github.com/papertrade/papertrade/internal/route/util"
	"github.com/papertrade/papertrade/internal/session"
	"github.com/papertrade/papertrade/internal/template"
	"github.com/shopspring/decimal"
)

// FormPageData is the page data for the login and register forms.
type FormPageData struct {
	User model.User
}

func HandleViewLoginForm(writer http.ResponseWriter, request *http.Request) {
	// Reaching the login form forgets any current user.
	session.ClearSession(writer, request)
	template.Render(template.Login, writer, FormPageData{})
}

func HandleLogin(conn *database.Conn, writer http.ResponseWriter, request *http.Request) {
	request.ParseForm()

	user, err := ledger.Authenticate(
		request.Context(),
		conn,
		request.Form.Get("username"),
		request.Form.Get("password"),
	)

	if err != nil {
		if ledger.Rejected(err) {
			util.RespondApology(writer, http.StatusForbidden, err.Error())
		} else {
			util.RespondInternalServerError(writer, err)
		}

		return
	}

	if err := session.SaveUserInSession(writer, request, &user); err != nil {
		util.RespondInternalServerError(writer, err)

		return
	}

	http.Redirect(writer, request, "/", http.StatusFound)
}

func HandleLogout(writer http.ResponseWriter, request *http.Request) {
	session.ClearSession(writer, request)
	http.Redirect(writer, request, "/login", http.StatusFound)
}

func HandleViewRegisterForm(writer http.ResponseWriter, request *http.Request) {
	template.Render(template.Register, writer, FormPageData{})
}

func HandleRegister(conn *database.Conn, writer http.ResponseWriter, request *http.Request) {
	request.ParseForm()

	startingCash, err := decimal.NewFromString(env.Get("STARTING_CASH", "10000.00"))

	if err != nil {
		util.RespondInternalServerError(writer, err)

		return
	}

	err = ledger.Register(
		request.Context(),
		conn,
		request.Form.Get("username"),
		request.Form.Get("password"),
		request.Form.Get("confirmation"),
		startingCash,
	)

	if err != nil {
		if ledger.Rejected(err) {
			util.RespondValidationError(writer, err.Error())
		} else {
			util.RespondInternalServerError(writer, err)
		}

		return
	}

	http.Redirect(writer, request, "/login", http.StatusFound)
}
