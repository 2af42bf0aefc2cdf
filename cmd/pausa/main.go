package main

import "github.com/emiliopalmerini/pausa/internal/cli"

func main() {
	cli.Execute()
}
