package main

import "github.com/mcoot/dotriacontordle/internal/cli"

func main() {
	cli.Execute()
}
