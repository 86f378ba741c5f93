package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/papertrade/papertrade/internal/database"
	"github.com/papertrade/papertrade/internal/env"
	"github.com/papertrade/papertrade/internal/quote"
	"github.com/papertrade/papertrade/internal/route/auth"
	"github.com/papertrade/papertrade/internal/route/trade"
	"github.com/papertrade/papertrade/internal/route/util"
	"github.com/papertrade/papertrade/internal/session"
	"github.com/papertrade/papertrade/internal/template"
	"github.com/sirupsen/logrus"
)

// Browsers must never serve stale ledger state from cache.
func noCacheMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		writer.Header().Set("Expires", "0")
		writer.Header().Set("Pragma", "no-cache")
		next.ServeHTTP(writer, request)
	})
}

// Panics become 500 apologies like any other internal failure.
func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		defer func() {
			if value := recover(); value != nil {
				util.RespondInternalServerError(writer, fmt.Errorf("panic: %v", value))
			}
		}()

		next.ServeHTTP(writer, request)
	})
}

type connHandler = func(*database.Conn, http.ResponseWriter, *http.Request)
type tradeHandler = func(*database.Conn, quote.Source, http.ResponseWriter, *http.Request)

func newRouter(conn *database.Conn, source quote.Source) *mux.Router {
	withConn := func(handler connHandler) http.HandlerFunc {
		return func(writer http.ResponseWriter, request *http.Request) {
			handler(conn, writer, request)
		}
	}

	withSource := func(handler tradeHandler) http.HandlerFunc {
		return func(writer http.ResponseWriter, request *http.Request) {
			handler(conn, source, writer, request)
		}
	}

	router := mux.NewRouter().StrictSlash(true)
	router.Use(recoverMiddleware)
	router.Use(noCacheMiddleware)

	// Unknown paths and wrong methods get apology pages like every other
	// error, not the router's plain-text defaults.
	router.NotFoundHandler = http.HandlerFunc(
		func(writer http.ResponseWriter, request *http.Request) {
			util.RespondApology(writer, http.StatusNotFound, "not found")
		},
	)
	router.MethodNotAllowedHandler = http.HandlerFunc(
		func(writer http.ResponseWriter, request *http.Request) {
			util.RespondApology(writer, http.StatusMethodNotAllowed, "method not allowed")
		},
	)

	router.HandleFunc("/", withSource(trade.HandlePortfolio)).Methods("GET")
	router.HandleFunc("/buy", withConn(trade.HandleViewBuyForm)).Methods("GET")
	router.HandleFunc("/buy", withSource(trade.HandleBuy)).Methods("POST")
	router.HandleFunc("/sell", withConn(trade.HandleViewSellForm)).Methods("GET")
	router.HandleFunc("/sell", withSource(trade.HandleSell)).Methods("POST")
	router.HandleFunc("/quote", withConn(trade.HandleViewQuoteForm)).Methods("GET")
	router.HandleFunc("/quote", withSource(trade.HandleQuote)).Methods("POST")
	router.HandleFunc("/history", withConn(trade.HandleHistory)).Methods("GET")
	router.HandleFunc("/login", auth.HandleViewLoginForm).Methods("GET")
	router.HandleFunc("/login", withConn(auth.HandleLogin)).Methods("POST")
	router.HandleFunc("/logout", auth.HandleLogout).Methods("GET")
	router.HandleFunc("/register", auth.HandleViewRegisterForm).Methods("GET")
	router.HandleFunc("/register", withConn(auth.HandleRegister)).Methods("POST")

	fileServer := http.FileServer(http.Dir("./static/"))
	router.PathPrefix("/static/").
		Handler(http.StripPrefix("/static/", fileServer))

	return router
}

func main() {
	env.LoadEnvironmentVariables()
	env.Require("API_KEY", "SECRET_KEY")
	session.InitSessionStorage()
	template.Init()

	conn, err := database.Connect()

	if err != nil {
		logrus.Fatalf("database connection error: %s", err)
	}

	defer conn.Close()

	router := newRouter(conn, quote.NewClientFromEnvironment())

	server := http.Server{
		Addr:    ":" + env.Get("PORT", "8000"),
		Handler: router,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("server error: %s", err)
		}
	}()

	logrus.Info("Server started")
	<-done

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.Fatalf("Server shut down failed: %+v", err)
	}

	logrus.Info("Server shut down successfully")
}
