package main

import (
	"github.com/corvids/azdo-mcp/commands"
)

func main() {
	commands.Execute()
}
