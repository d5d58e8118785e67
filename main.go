package main

import (
	"github.com/theomrc/linklocal/cmd"
	_ "github.com/theomrc/linklocal/cmd/cli"
)

func main() {
	cmd.Execute()
}
