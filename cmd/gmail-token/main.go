// Command gmail-token runs the one-time OAuth consent flow for the onboarding
// notification sender and writes GMAIL_TOKEN_FILE.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/HridhimaDabhade/tpem-project/internal/auth"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	credentials := os.Getenv("GMAIL_CREDENTIALS_FILE")
	tokenFile := os.Getenv("GMAIL_TOKEN_FILE")
	if tokenFile == "" {
		tokenFile = "token.json"
	}
	if credentials == "" {
		log.Error("GMAIL_CREDENTIALS_FILE is required")
		os.Exit(1)
	}

	cfg, err := auth.GmailConfig(credentials)
	if err != nil {
		log.Error("load credentials", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Printf("Open this link to authorize Gmail access:\n%s\n\nPaste the code here: ", auth.AuthCodeURL(cfg))
	var code string
	if _, err := fmt.Scan(&code); err != nil {
		log.Error("read authorization code", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := auth.ExchangeAndSave(context.Background(), cfg, code, tokenFile); err != nil {
		log.Error("save token", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log.Info("gmail token saved", slog.String("path", tokenFile))
}
