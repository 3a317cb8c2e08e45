package main

import "go.leafdb/internal/cli"

func main() {
	cli.Execute()
}
