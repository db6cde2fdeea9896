/*
Package main is the entry point for the suggest-engine CLI.

suggest-engine hands out one personalized activity idea at a time. It
blends the filters you pass with preferences learned from how you reacted
to earlier ideas, and limits free use to a few suggestions per month.

Usage:

	suggest-engine [command]

Examples:

	# Create ~/.suggest-engine/config.yaml
	suggest-engine init --endpoint https://ideas.example.com/v1/generate

	# Ask for something outdoors and cheap
	suggest-engine suggest --setting outdoor --budget '$'

	# Tell the engine you liked it
	suggest-engine react completed --rating 5

Build metadata is injected with:

	-ldflags "-X github.com/khanglvm/suggest-engine/internal/version.Version=v1.0.0"
*/
package main

import (
	"fmt"
	"os"

	"github.com/khanglvm/suggest-engine/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
