// Package main - mvp90 CLI
//
// Usage:
//
//	go run ./cmd/mvp90 signals --sort noveltyScore
//	go run ./cmd/mvp90 breakdown 1 --score originality_score
package main

import (
	"os"

	"github.com/thebenmerlin/MVP90/cmd/mvp90/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
