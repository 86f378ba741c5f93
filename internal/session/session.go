// Package session handles saving/loading users to/from sessions
package session

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gorilla/sessions"
	"github.com/papertrade/papertrade/internal/database"
	"github.com/papertrade/papertrade/internal/model"
)

var sessionStore *sessions.CookieStore

// InitSessionStorage starts up session storage or crashes the program with an error
func InitSessionStorage() {
	secretKey := os.Getenv("SECRET_KEY")

	if len(secretKey) == 0 {
		fmt.Fprintf(os.Stderr, "No SECRET_KEY variable set!\n")
		os.Exit(1)
	}

	sessionStore = sessions.NewCookieStore([]byte(secretKey))
}

// LoadUserFromSession loads the authenticated user for a request, if any.
//
// The second return value reports whether a user is logged in. A session
// referring to a user that no longer exists counts as anonymous.
func LoadUserFromSession(
	conn *database.Conn,
	request *http.Request,
	user *model.User,
) (bool, error) {
	session, sessionError := sessionStore.Get(request, "sessionid")

	if sessionError != nil {
		return false, nil
	}

	userID, ok := session.Values["userID"].(int)

	if !ok {
		return false, nil
	}

	row := conn.QueryRow(
		request.Context(),
		"select id, username, cash from users where id = $1",
		userID,
	)

	if err := row.Scan(&user.ID, &user.Username, &user.Cash); err != nil {
		if err == database.ErrNoRows {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

// SaveUserInSession binds the session to the given user.
func SaveUserInSession(writer http.ResponseWriter, request *http.Request, user *model.User) error {
	session, _ := sessionStore.Get(request, "sessionid")
	session.Values["userID"] = user.ID

	return session.Save(request, writer)
}

// ClearSession unconditionally clears the session binding.
func ClearSession(writer http.ResponseWriter, request *http.Request) error {
	session, _ := sessionStore.Get(request, "sessionid")

	for key := range session.Values {
		delete(session.Values, key)
	}

	return session.Save(request, writer)
}
