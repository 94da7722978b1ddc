// Command token mints an operator bearer token signed with the configured
// jwt.secret, for the front desk or for scripts calling the API.
package main

import (
	"alcyxob/gymdesk/internal/api"
	"alcyxob/gymdesk/internal/config"
	"flag"
	"fmt"
	"log"
	"time"
)

func main() {
	configPath := flag.String("config", ".", "directory holding config.yaml")
	operator := flag.String("operator", "frontdesk", "operator name stored in the token")
	ttl := flag.Duration("ttl", 0, "token lifetime; defaults to jwt.expiration")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}

	lifetime := *ttl
	if lifetime <= 0 {
		lifetime = cfg.JWT.Expiration
	}
	token, expiresAt, err := api.IssueOperatorToken(cfg.JWT.Secret, *operator, lifetime)
	if err != nil {
		log.Fatalf("FATAL: Could not issue token: %v", err)
	}

	fmt.Println(token)
	log.Printf("INFO: Token for %q expires at %s", *operator, expiresAt.Format(time.RFC3339))
}
