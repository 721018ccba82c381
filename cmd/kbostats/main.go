package main

import (
	"context"

	"github.com/fortuna/kbostats/cmd/kbostats/commands"
)

func main() {
	commands.ExecuteContext(context.Background())
}
