package main

import (
	"warroom/internal/cli"
)

func main() {
	cli.Run()
}
