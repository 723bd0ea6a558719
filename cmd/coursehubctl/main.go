package main

import (
	"context"
	"fmt"
	"os"

	"github.com/noah-isme/coursehub-api/internal/cli"
)

func main() {
	if err := cli.NewRootCommand(cli.DefaultEnv()).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
