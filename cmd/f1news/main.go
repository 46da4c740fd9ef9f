package main

import "github.com/paddocknews/f1news/internal/cli"

func main() {
	cli.Execute()
}
