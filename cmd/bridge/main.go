package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/turiddu25/cobble-economy/internal/bridge/bootstrap"
	"github.com/turiddu25/cobble-economy/internal/pkg/env"
	"github.com/turiddu25/cobble-economy/internal/pkg/jwt"
	"github.com/turiddu25/cobble-economy/internal/pkg/logging"
)

const (
	networkProtocol = "tcp"
)

func main() {
	issueToken := flag.Bool("issue-token", false, "print a signed host token and exit")
	subject := flag.String("subject", "host", "token subject")
	perms := flag.String("perms", "", "comma separated permission nodes granted to the token")
	ttl := flag.Duration("ttl", 0, "token lifetime, 0 for no expiry")
	flag.Parse()

	mainCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	defaultLogger := logging.StdoutLogger

	if _, err := env.LoadDotEnv(os.Getenv(env.EnvDotEnvPath)); err != nil {
		defaultLogger.Error("failed to load dotenv file", "error", err.Error())
		os.Exit(1)
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		defaultLogger.Error("invalid configuration", "error", err.Error())
		os.Exit(1)
	}

	if *issueToken {
		token, err := jwt.NewJWTTokenIssuer().IssueToken([]byte(cfg.JwtSecret), *subject, splitPermissions(*perms), *ttl)
		if err != nil {
			defaultLogger.Error("failed to issue token", "error", err.Error())
			os.Exit(1)
		}
		fmt.Println(token)
		return
	}

	logger := logging.NewStdoutLogger(cfg.LogLevel)

	grpcLis, err := net.Listen(networkProtocol, cfg.GrpcPort)
	if err != nil {
		logger.Error("failed to listen", "port", cfg.GrpcPort, "error", err.Error())
		os.Exit(1)
	}

	app := bootstrap.NewBridgeApp(cfg, logger)

	runErr := app.Run(mainCtx, grpcLis)
	if runErr != nil {
		logger.Error("bridge failed", "error", runErr.Error())
	}

	app.Shutdown()

	if runErr != nil {
		os.Exit(1)
	}
}

func splitPermissions(raw string) []string {
	var perms []string
	for _, node := range strings.Split(raw, ",") {
		if node = strings.TrimSpace(node); node != "" {
			perms = append(perms, node)
		}
	}
	return perms
}

