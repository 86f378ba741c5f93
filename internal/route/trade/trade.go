// Package trade defines routes for the portfolio, orders, quotes, and history.
package trade

import (
	"net/http"

	"github.com/papertrade/papertrade/internal/database"
	"github.com/papertrade/papertrade/internal/ledger"
	"github.com/papertrade/papertrade/internal/model"
	"github.com/papertrade/papertrade/internal/quote"
	"github.com/papertrade/papertrade/internal/route/util"
	"github.com/papertrade/papertrade/internal/session"
	"github.com/papertrade/papertrade/internal/template"
)

// requireUser loads the authenticated user for a request.
//
// Anonymous requests are redirected to the login page. The return value
// reports whether handling should continue.
func requireUser(
	conn *database.Conn,
	writer http.ResponseWriter,
	request *http.Request,
	user *model.User,
) bool {
	found, err := session.LoadUserFromSession(conn, request, user)

	if err != nil {
		util.RespondInternalServerError(writer, err)

		return false
	}

	if !found {
		http.Redirect(writer, request, "/login", http.StatusFound)

		return false
	}

	return true
}

func respondLedgerError(writer http.ResponseWriter, err error) {
	if ledger.Rejected(err) {
		util.RespondValidationError(writer, err.Error())
	} else {
		util.RespondInternalServerError(writer, err)
	}
}

// FormPageData is the page data for the buy and quote forms.
type FormPageData struct {
	User model.User
}

type PortfolioPageData struct {
	User    model.User
	Summary *ledger.PortfolioSummary
}

// HandlePortfolio shows the stocks and cash a user has.
func HandlePortfolio(
	conn *database.Conn,
	source quote.Source,
	writer http.ResponseWriter,
	request *http.Request,
) {
	data := PortfolioPageData{}

	if !requireUser(conn, writer, request, &data.User) {
		return
	}

	summary, err := ledger.Portfolio(request.Context(), conn, source, data.User.ID)

	if err != nil {
		util.RespondInternalServerError(writer, err)

		return
	}

	data.Summary = summary
	template.Render(template.Portfolio, writer, data)
}

func HandleViewBuyForm(conn *database.Conn, writer http.ResponseWriter, request *http.Request) {
	data := FormPageData{}

	if !requireUser(conn, writer, request, &data.User) {
		return
	}

	template.Render(template.Buy, writer, data)
}

// HandleBuy submits a buy order.
func HandleBuy(
	conn *database.Conn,
	source quote.Source,
	writer http.ResponseWriter,
	request *http.Request,
) {
	var user model.User

	if !requireUser(conn, writer, request, &user) {
		return
	}

	request.ParseForm()

	err := ledger.Buy(
		request.Context(),
		conn,
		source,
		user.ID,
		request.Form.Get("symbol"),
		request.Form.Get("shares"),
	)

	if err != nil {
		respondLedgerError(writer, err)

		return
	}

	http.Redirect(writer, request, "/", http.StatusFound)
}

type SellPageData struct {
	User     model.User
	Holdings []model.Holding
}

func HandleViewSellForm(conn *database.Conn, writer http.ResponseWriter, request *http.Request) {
	data := SellPageData{}

	if !requireUser(conn, writer, request, &data.User) {
		return
	}

	holdingList, err := ledger.Holdings(request.Context(), conn, data.User.ID)

	if err != nil {
		util.RespondInternalServerError(writer, err)

		return
	}

	data.Holdings = holdingList
	template.Render(template.Sell, writer, data)
}

// HandleSell submits a sell order.
func HandleSell(
	conn *database.Conn,
	source quote.Source,
	writer http.ResponseWriter,
	request *http.Request,
) {
	var user model.User

	if !requireUser(conn, writer, request, &user) {
		return
	}

	request.ParseForm()

	err := ledger.Sell(
		request.Context(),
		conn,
		source,
		user.ID,
		request.Form.Get("symbol"),
		request.Form.Get("shares"),
	)

	if err != nil {
		respondLedgerError(writer, err)

		return
	}

	http.Redirect(writer, request, "/", http.StatusFound)
}

type HistoryPageData struct {
	User         model.User
	Transactions []model.Transaction
}

// HandleHistory shows the transaction log for a user.
func HandleHistory(conn *database.Conn, writer http.ResponseWriter, request *http.Request) {
	data := HistoryPageData{}

	if !requireUser(conn, writer, request, &data.User) {
		return
	}

	transactionList, err := ledger.History(request.Context(), conn, data.User.ID)

	if err != nil {
		util.RespondInternalServerError(writer, err)

		return
	}

	data.Transactions = transactionList
	template.Render(template.History, writer, data)
}

func HandleViewQuoteForm(conn *database.Conn, writer http.ResponseWriter, request *http.Request) {
	data := FormPageData{}

	if !requireUser(conn, writer, request, &data.User) {
		return
	}

	template.Render(template.Quote, writer, data)
}

type QuotedPageData struct {
	User  model.User
	Quote model.Quote
}

// HandleQuote looks up a price without persisting anything.
func HandleQuote(
	conn *database.Conn,
	source quote.Source,
	writer http.ResponseWriter,
	request *http.Request,
) {
	data := QuotedPageData{}

	if !requireUser(conn, writer, request, &data.User) {
		return
	}

	request.ParseForm()
	symbol := request.Form.Get("symbol")

	if len(symbol) == 0 {
		util.RespondValidationError(writer, ledger.ErrMissingSymbol.Error())

		return
	}

	stockQuote, found := source.Lookup(request.Context(), symbol)

	if !found {
		util.RespondValidationError(writer, "not a valid symbol")

		return
	}

	data.Quote = stockQuote
	template.Render(template.Quoted, writer, data)
}
