package config

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/Temutjin2k/rescue-coordination/pkg/logger"
	wrap "github.com/Temutjin2k/rescue-coordination/pkg/logger/wrapper"
)

const HelpMessage = `
Rescue coordination engine

Usage:
  rescue -mode <mode> [-config-path <file>]

Modes:
  rescue-service   PostgreSQL + RabbitMQ + Redis backed service
  standalone       single process with in-memory storage

Options:
  -config-path     path to the yaml config file (default: config.yaml)
  -help            show this message

Every option of the config file can be overridden with an environment
variable named SECTION_KEY, for example DATABASE_HOST or RESCUE_THROTTLE_INTERVAL.
`

func PrintHelp() {
	if HelpMessage != "" {
		fmt.Printf("%s", HelpMessage)
	} else {
		flag.Usage()
	}
}

// PrintConfig logs the effective configuration with secrets masked.
func PrintConfig(cfg *Config, log logger.Logger) {
	ctx := wrapAction("print_config")
	log.Info(ctx, "configuration loaded",
		"mode", cfg.Mode,
		"log_level", cfg.Log.Level,
		"server_port", cfg.Server.Port,
		"database_dsn", mask(cfg.Database.GetDSN(), cfg.Database.Password),
		"rabbitmq_dsn", mask(cfg.RabbitMQ.GetDSN(), cfg.RabbitMQ.Password),
		"redis_addr", cfg.Redis.Addr,
		"throttle_interval", cfg.Rescue.ThrottleInterval.String(),
		"query_limit", cfg.Rescue.DefaultLimit,
		"subscriber_buffer", cfg.Stream.SubscriberBuffer,
	)
}

func mask(s, secret string) string {
	if secret == "" {
		return s
	}
	return strings.ReplaceAll(s, secret, "****")
}

func wrapAction(action string) context.Context {
	return wrap.WithAction(context.Background(), action)
}
