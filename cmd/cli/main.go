package main

import "github.com/dmitrijs2005/walletvault/internal/cli"

func main() {
	cli.Execute()
}
