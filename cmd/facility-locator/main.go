package main

import (
	"context"
	"os"

	"github.com/thecuz1/FacilityLocator-sub000/internal/cli"
)

func main() {
	if err := cli.RootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
