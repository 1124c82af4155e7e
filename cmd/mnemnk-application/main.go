package main

import (
	"github.com/bryanchriswhite/mnemnk-application/cmd/mnemnk-application/commands"
)

func main() {
	commands.Execute()
}
