package main

import (
	"context"
	"os"

	"github.com/yourorg/miniapp-config/internal/cli"
)

func main() {
	os.Exit(cli.Execute(context.Background(), cli.DefaultDeps(), os.Args[1:]))
}
