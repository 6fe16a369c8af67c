package main

import "github.com/mcoot/skylandly/internal/cli"

func main() {
	cli.Execute()
}
