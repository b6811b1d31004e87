// Package main is the entry point for the dotastats CLI tool, which
// fetches a roster's Dota 2 match histories from the Stratz API and
// reports per-player statistics.
package main

import "github.com/brohirim/dotastats/cmd"

func main() {
	cmd.Execute()
}
