// Create an account for logging in to the trading ledger
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/papertrade/papertrade/internal/database"
	"github.com/papertrade/papertrade/internal/env"
	"github.com/papertrade/papertrade/internal/ledger"
	"github.com/shopspring/decimal"
)

func main() {
	env.LoadEnvironmentVariables()

	if len(os.Args) != 3 {
		fmt.Fprintf(os.Stderr, "Usage: adduser <username> <password>\n")
		os.Exit(1)
	}

	startingCash, err := decimal.NewFromString(env.Get("STARTING_CASH", "10000.00"))

	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid STARTING_CASH: %s\n", err)
		os.Exit(1)
	}

	conn, err := database.Connect()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %s\n", err)
		os.Exit(1)
	}

	defer conn.Close()

	err = ledger.Register(
		context.Background(),
		conn,
		os.Args[1],
		os.Args[2],
		os.Args[2],
		startingCash,
	)

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating user: %s\n", err)
		os.Exit(1)
	}
}
