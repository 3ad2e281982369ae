package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/nevofinance/nevo/web"
)

func main() {
	// A missing .env is fine, the environment may already be set.
	_ = godotenv.Load()

	ctx := context.Background()
	if err := web.Run(ctx, os.Getenv, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}
