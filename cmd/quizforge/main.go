// Package main is the single-binary entrypoint for the quizforge engine.
package main

import "github.com/quizforge/quizforge/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
