package main

import (
	"context"
	"fmt"
	"os"

	"production/internal/cli"
)

func main() {
	if err := cli.NewRootCommand(nil).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "prodctl:", err)
		os.Exit(1)
	}
}
