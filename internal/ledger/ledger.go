// Package ledger implements the transactional trading logic for Papertrade.
//
// Every buy and sell runs as a single database transaction under row-level
// locking, so a rejected order never leaves partial state behind.
package ledger

import (
	"context"
	"errors"
	"strings"

	"github.com/papertrade/papertrade/internal/database"
	"github.com/papertrade/papertrade/internal/model"
	"github.com/papertrade/papertrade/internal/quote"
	"github.com/shopspring/decimal"
)

// Errors describing requests that fail validation before any state change.
var (
	ErrMissingSymbol      = errors.New("must provide symbol")
	ErrUnknownSymbol      = errors.New("symbol does not exist")
	ErrMissingShares      = errors.New("must provide shares")
	ErrNonIntegerShares   = errors.New("shares is not an integer")
	ErrNonPositiveShares  = errors.New("shares is not a positive integer")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInsufficientShares = errors.New("must have enough shares")
	ErrMissingUsername    = errors.New("must provide username")
	ErrUsernameTaken      = errors.New("username taken")
	ErrMissingPassword    = errors.New("must provide password")
	ErrPasswordMismatch   = errors.New("confirmation incorrect")
	ErrInvalidCredentials = errors.New("invalid username and/or password")
)

var rejectableErrors = []error{
	ErrMissingSymbol,
	ErrUnknownSymbol,
	ErrMissingShares,
	ErrNonIntegerShares,
	ErrNonPositiveShares,
	ErrInsufficientFunds,
	ErrInsufficientShares,
	ErrMissingUsername,
	ErrUsernameTaken,
	ErrMissingPassword,
	ErrPasswordMismatch,
	ErrInvalidCredentials,
}

// Rejected reports whether err describes an invalid request rather than an
// internal failure.
func Rejected(err error) bool {
	for _, target := range rejectableErrors {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}

// ParseShares parses a submitted share count.
//
// Values like "10" and "10.0" are accepted. Fractional, non-numeric,
// zero, and negative values are rejected.
func ParseShares(value string) (int64, error) {
	value = strings.TrimSpace(value)

	if len(value) == 0 {
		return 0, ErrMissingShares
	}

	number, err := decimal.NewFromString(value)

	if err != nil || !number.IsInteger() {
		return 0, ErrNonIntegerShares
	}

	shares := number.IntPart()

	if !decimal.NewFromInt(shares).Equal(number) {
		return 0, ErrNonIntegerShares
	}

	if shares <= 0 {
		return 0, ErrNonPositiveShares
	}

	return shares, nil
}

func recordTransaction(
	ctx context.Context,
	tx *database.Tx,
	userID int,
	direction string,
	stockQuote *model.Quote,
	shares int64,
) error {
	return tx.Exec(
		ctx,
		`insert into transactions (user_id, direction, symbol, name, quantity, price)
		values ($1, $2, $3, $4, $5, $6)`,
		userID,
		direction,
		stockQuote.Symbol,
		stockQuote.Name,
		shares,
		stockQuote.Price,
	)
}

// Buy purchases shares of a stock for a user.
//
// The quote service is asked exactly once, and the price it answers with is
// the price the whole order settles at.
func Buy(
	ctx context.Context,
	conn *database.Conn,
	source quote.Source,
	userID int,
	symbol string,
	shares string,
) error {
	if len(strings.TrimSpace(symbol)) == 0 {
		return ErrMissingSymbol
	}

	stockQuote, found := source.Lookup(ctx, symbol)

	if !found {
		return ErrUnknownSymbol
	}

	count, err := ParseShares(shares)

	if err != nil {
		return err
	}

	cost := stockQuote.Price.Mul(decimal.NewFromInt(count))

	tx, err := conn.Begin(ctx)

	if err != nil {
		return err
	}

	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var cash decimal.Decimal
	row := tx.QueryRow(ctx, "select cash from users where id = $1 for update", userID)

	if err := row.Scan(&cash); err != nil {
		return err
	}

	if cash.LessThan(cost) {
		return ErrInsufficientFunds
	}

	if err := recordTransaction(ctx, tx, userID, model.DirectionBuy, &stockQuote, count); err != nil {
		return err
	}

	if err := tx.Exec(
		ctx,
		`insert into holdings (user_id, symbol, quantity)
		values ($1, $2, $3)
		on conflict (user_id, symbol)
		do update set quantity = holdings.quantity + excluded.quantity`,
		userID,
		stockQuote.Symbol,
		count,
	); err != nil {
		return err
	}

	if err := tx.Exec(
		ctx,
		"update users set cash = cash - $1 where id = $2",
		cost,
		userID,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Sell sells shares of a stock a user holds.
//
// A holding that reaches exactly zero shares is removed rather than kept as
// a zero row.
func Sell(
	ctx context.Context,
	conn *database.Conn,
	source quote.Source,
	userID int,
	symbol string,
	shares string,
) error {
	if len(strings.TrimSpace(symbol)) == 0 {
		return ErrMissingSymbol
	}

	stockQuote, found := source.Lookup(ctx, symbol)

	if !found {
		return ErrUnknownSymbol
	}

	count, err := ParseShares(shares)

	if err != nil {
		return err
	}

	tx, err := conn.Begin(ctx)

	if err != nil {
		return err
	}

	defer func() {
		_ = tx.Rollback(ctx)
	}()

	// Lock the user row before the holding row, in the same order Buy does,
	// so concurrent buys and sells on one account cannot deadlock.
	var cash decimal.Decimal
	cashRow := tx.QueryRow(ctx, "select cash from users where id = $1 for update", userID)

	if err := cashRow.Scan(&cash); err != nil {
		return err
	}

	var held int64
	row := tx.QueryRow(
		ctx,
		"select quantity from holdings where user_id = $1 and symbol = $2 for update",
		userID,
		stockQuote.Symbol,
	)

	if err := row.Scan(&held); err != nil {
		if err == database.ErrNoRows {
			return ErrInsufficientShares
		}

		return err
	}

	if held < count {
		return ErrInsufficientShares
	}

	if err := recordTransaction(ctx, tx, userID, model.DirectionSell, &stockQuote, count); err != nil {
		return err
	}

	if err := tx.Exec(
		ctx,
		"update holdings set quantity = quantity - $1 where user_id = $2 and symbol = $3",
		count,
		userID,
		stockQuote.Symbol,
	); err != nil {
		return err
	}

	if err := tx.Exec(
		ctx,
		"delete from holdings where user_id = $1 and symbol = $2 and quantity = 0",
		userID,
		stockQuote.Symbol,
	); err != nil {
		return err
	}

	proceeds := stockQuote.Price.Mul(decimal.NewFromInt(count))

	if err := tx.Exec(
		ctx,
		"update users set cash = cash + $1 where id = $2",
		proceeds,
		userID,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func scanHolding(row database.Row, holding *model.Holding) error {
	return row.Scan(&holding.Symbol, &holding.Name, &holding.Quantity)
}

// Holdings loads the stocks a user currently owns.
//
// Display names come from the most recent transaction for each symbol, the
// transaction log being the only place names are recorded.
func Holdings(
	ctx context.Context,
	conn *database.Conn,
	userID int,
) ([]model.Holding, error) {
	var holdingList []model.Holding

	err := model.LoadList(
		ctx,
		conn,
		&holdingList,
		8,
		scanHolding,
		`
		select holdings.symbol, latest.name, holdings.quantity
		from holdings
		join lateral (
			select name from transactions
			where transactions.user_id = holdings.user_id
			and transactions.symbol = holdings.symbol
			order by time desc
			limit 1
		) latest on true
		where holdings.user_id = $1
		order by latest.name
		`,
		userID,
	)

	return holdingList, err
}

// PortfolioRow is a held stock valued at its current price.
type PortfolioRow struct {
	model.Holding
	Price decimal.Decimal
	Value decimal.Decimal
}

// PortfolioSummary is a user's cash, valued holdings, and grand total.
type PortfolioSummary struct {
	Cash       decimal.Decimal
	Rows       []PortfolioRow
	GrandTotal decimal.Decimal
}

// Portfolio values everything a user holds at current prices.
//
// A symbol the quote service cannot answer for is shown with a zero price
// instead of failing the whole page.
func Portfolio(
	ctx context.Context,
	conn *database.Conn,
	source quote.Source,
	userID int,
) (*PortfolioSummary, error) {
	summary := PortfolioSummary{}

	row := conn.QueryRow(ctx, "select cash from users where id = $1", userID)

	if err := row.Scan(&summary.Cash); err != nil {
		return nil, err
	}

	holdingList, err := Holdings(ctx, conn, userID)

	if err != nil {
		return nil, err
	}

	summary.Rows = make([]PortfolioRow, 0, len(holdingList))
	summary.GrandTotal = summary.Cash

	for _, holding := range holdingList {
		portfolioRow := PortfolioRow{Holding: holding}

		if stockQuote, found := source.Lookup(ctx, holding.Symbol); found {
			portfolioRow.Price = stockQuote.Price
		}

		portfolioRow.Value = portfolioRow.Price.Mul(decimal.NewFromInt(holding.Quantity))
		summary.GrandTotal = summary.GrandTotal.Add(portfolioRow.Value)
		summary.Rows = append(summary.Rows, portfolioRow)
	}

	return &summary, nil
}

func scanTransaction(row database.Row, transaction *model.Transaction) error {
	return row.Scan(
		&transaction.ID,
		&transaction.Direction,
		&transaction.Symbol,
		&transaction.Name,
		&transaction.Quantity,
		&transaction.Price,
		&transaction.Time,
	)
}

// History loads the full transaction log for a user, newest first.
func History(
	ctx context.Context,
	conn *database.Conn,
	userID int,
) ([]model.Transaction, error) {
	var transactionList []model.Transaction

	err := model.LoadList(
		ctx,
		conn,
		&transactionList,
		16,
		scanTransaction,
		`select id, direction, symbol, name, quantity, price, time
		from transactions
		where user_id = $1
		order by time desc, id desc`,
		userID,
	)

	return transactionList, err
}
