package main

import "github.com/dyike/marketwatch/internal/cli"

func main() {
	cli.Run()
}
