package main

import (
	"github.com/mcoot/townsquare-go/internal/cli"
)

func main() {
	cli.Execute()
}
