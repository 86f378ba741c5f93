package ledger

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"github.com/papertrade/papertrade/internal/database"
	"github.com/papertrade/papertrade/internal/model"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

const passwordHashCost = 14

// Register creates a new account with a starting cash balance.
func Register(
	ctx context.Context,
	conn *database.Conn,
	username string,
	password string,
	confirmation string,
	startingCash decimal.Decimal,
) error {
	username = strings.TrimSpace(username)

	if len(username) == 0 {
		return ErrMissingUsername
	}

	var existingID int
	row := conn.QueryRow(ctx, "select id from users where username = $1", username)

	if err := row.Scan(&existingID); err == nil {
		return ErrUsernameTaken
	} else if err != database.ErrNoRows {
		return err
	}

	if len(password) == 0 {
		return ErrMissingPassword
	}

	if password != confirmation {
		return ErrPasswordMismatch
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)

	if err != nil {
		return err
	}

	err = conn.Exec(
		ctx,
		"insert into users (username, password_hash, cash) values ($1, $2, $3)",
		username,
		string(passwordHash),
		startingCash,
	)

	// The unique index is the authority. Two racing registrations can both
	// pass the check above, and the loser lands here.
	var pgError *pgconn.PgError

	if errors.As(err, &pgError) && pgError.Code == pgerrcode.UniqueViolation {
		return ErrUsernameTaken
	}

	return err
}

// Authenticate checks a username and password against the database.
//
// Every failure mode returns ErrInvalidCredentials, so callers cannot tell
// a bad username from a bad password.
func Authenticate(
	ctx context.Context,
	conn *database.Conn,
	username string,
	password string,
) (model.User, error) {
	var user model.User

	if len(username) == 0 || len(password) == 0 {
		return user, ErrInvalidCredentials
	}

	var passwordHash string
	row := conn.QueryRow(
		ctx,
		"select id, username, cash, password_hash from users where username = $1",
		username,
	)

	if err := row.Scan(&user.ID, &user.Username, &user.Cash, &passwordHash); err != nil {
		if err == database.ErrNoRows {
			return model.User{}, ErrInvalidCredentials
		}

		return model.User{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)) != nil {
		return model.User{}, ErrInvalidCredentials
	}

	return user, nil
}
