// Package main is the entry point for the treasury server and CLI.
package main

import (
	"os"

	"github.com/SscSPs/masjid_treasury/cmd/treasury/cmd"
)

// @title Masjid Treasury API
// @version 1.0
// @description Double-entry fund ledger for a mosque treasury.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
