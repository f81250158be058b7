package main

import (
	"os"

	"github.com/wonny/covercall/cmd/ccscan/commands"
)

// main is the entry point for the ccscan CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/ccscan [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
