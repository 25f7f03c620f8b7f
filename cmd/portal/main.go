package main

import (
	"github.com/gameportal/portal-go/internal/cli"
)

func main() {
	cli.Execute()
}
