package env

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnvironmentVariables loads the .env file or crashes the program with an error
func LoadEnvironmentVariables() {
	if err := godotenv.Load(".env"); err != nil {
		fmt.Fprintf(os.Stderr, ".env error: %s\n", err)
		os.Exit(1)
	}
}

// Require crashes the program if any of the named variables is unset.
func Require(names ...string) {
	for _, name := range names {
		if len(os.Getenv(name)) == 0 {
			fmt.Fprintf(os.Stderr, "No %s variable set!\n", name)
			os.Exit(1)
		}
	}
}

// Get returns the value of a variable, or a fallback when it is unset.
func Get(name string, fallback string) string {
	if value := os.Getenv(name); len(value) > 0 {
		return value
	}

	return fallback
}
