// Command token mints a gamer token for services running with auth.mode jwt.
// It reads the same config file as the API and must be run by someone who
// holds the signing secret.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"levelup_api/internal/auth"
	"levelup_api/internal/config"
)

func main() {
	uid := flag.String("uid", "", "gamer uid to issue the token for")
	ttl := flag.Duration("ttl", 0, "token lifetime, defaults to auth.token_ttl")

	cfg := config.MustLoad()

	if cfg.Auth.Mode != config.AuthModeJWT {
		log.Fatalf("auth mode is %q, tokens are only used in %q mode", cfg.Auth.Mode, config.AuthModeJWT)
	}
	if *uid == "" {
		log.Fatal("-uid is required")
	}

	ts, err := auth.NewTokenService(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatal(err)
	}

	d := cfg.Auth.TokenTTL
	if *ttl > time.Duration(0) {
		d = *ttl
	}

	token, err := ts.GenerateWithDuration(*uid, d)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(token)
}
