package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"royalwood-storefront/internal/auth"
	"royalwood-storefront/internal/config"
)

func main() {
	var (
		subject  string
		ttl      time.Duration
		notAdmin bool
	)
	flag.StringVar(&subject, "subject", "admin", "Token subject, usually the admin's email")
	flag.DurationVar(&ttl, "ttl", 12*time.Hour, "Token lifetime")
	flag.BoolVar(&notAdmin, "not-admin", false, "Mint a token without the admin claim")
	flag.Parse()

	cfg := config.FromEnv()
	if cfg.AdminJWTSecret == "" {
		fmt.Fprintln(os.Stderr, "STOREFRONT_ADMIN_JWT_SECRET is not set")
		os.Exit(2)
	}

	token, err := auth.NewAdminTokens(cfg.AdminJWTSecret).Issue(subject, !notAdmin, ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "issue token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
