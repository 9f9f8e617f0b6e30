package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fekuna/omnipos-inventory-service/config"
	"github.com/fekuna/omnipos-inventory-service/internal/auth"
	"github.com/joho/godotenv"
)

func main() {
	ownerID := flag.String("owner", "", "Owner (tenant) the token acts for")
	userID := flag.String("user", "", "Optional: user id recorded as performer")
	ttl := flag.Duration("ttl", 24*time.Hour, "Token lifetime")
	flag.Parse()

	if strings.TrimSpace(*ownerID) == "" {
		fmt.Fprintln(os.Stderr, "token: -owner is required")
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg := config.LoadEnv()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "token: %v\n", err)
		os.Exit(1)
	}

	token, err := auth.IssueToken(cfg.JWT.SecretKey, strings.TrimSpace(*ownerID), strings.TrimSpace(*userID), *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
