// Command devtoken issues an access token for local testing. The rescue service only
// verifies tokens; accounts live in the identity provider.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Temutjin2k/rescue-coordination/config"
	"github.com/Temutjin2k/rescue-coordination/internal/service/auth"
	"github.com/Temutjin2k/rescue-coordination/pkg/configparser"
	"github.com/Temutjin2k/rescue-coordination/pkg/logger"
)

var (
	userID     = flag.Int64("user", 0, "user id to issue the token for")
	configPath = flag.String("config-path", "config.yaml", "Path to the config yaml file")
	secret     = flag.String("secret", "", "signing secret, overrides the configured one")
	ttl        = flag.Duration("ttl", 0, "token lifetime, overrides the configured one")
)

func main() {
	flag.Parse()

	ctx := context.Background()
	log := logger.InitLogger("devtoken", logger.LevelInfo)

	if *userID <= 0 {
		fmt.Fprintln(os.Stderr, "usage: devtoken -user <id> [-config-path file] [-secret s] [-ttl 1h]")
		os.Exit(2)
	}

	var cfg config.Config
	if err := configparser.LoadAndParseYaml(*configPath, &cfg); err != nil {
		log.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}
	if *secret != "" {
		cfg.Auth.JWTSecret = *secret
	}
	if *ttl > 0 {
		cfg.Auth.AccessTokenTTL = *ttl
	}

	token, expires, err := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL).Issue(ctx, *userID)
	if err != nil {
		log.Error(ctx, "failed to issue token", err)
		os.Exit(1)
	}

	log.Info(ctx, "token issued", "user_id", *userID, "expires_at", expires.Format(time.RFC3339))
	fmt.Println(token)
}
