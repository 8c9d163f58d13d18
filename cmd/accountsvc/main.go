package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/mkrupp/userapi/internal/infra/config"
	"github.com/mkrupp/userapi/internal/infra/logging"
	"github.com/mkrupp/userapi/internal/infra/transport/http"
	"github.com/mkrupp/userapi/internal/repo/account"
	"github.com/mkrupp/userapi/internal/svc/accountsvc"
)

const (
	appName = "userapi"
	svcName = "accountsvc"
)

type Config struct {
	config.EnvConfig

	Log   logging.LoggerConfig               `envPrefix:"LOG_"`
	Auth  accountsvc.AccountConfig           `envPrefix:"AUTH_"`
	HTTP  accountsvc.HTTPTransportConfig     `envPrefix:"HTTP_"`
	Store account.BunAccountRepositoryConfig `envPrefix:"DB_"`
}

func main() {
	var (
		cfg Config

		configPrefix = strings.ToUpper(strings.Join([]string{appName, svcName}, "_"))
		loggerName   = strings.ToLower(strings.Join([]string{appName, svcName}, "."))
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := config.Parse(ctx, &cfg, configPrefix); err != nil {
		panic(err)
	}

	logging.Configure(ctx, cfg.Log, loggerName)

	if err := run(ctx, cfg); err != nil {
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg Config) (err error) {
	log := logging.GetLogger("cmd.accountsvc")

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "error", "err", err)

			return
		}

		log.InfoContext(ctx, "shutdown")
	}()

	if cfg.Store.Driver == account.DriverSQLite && cfg.Store.DSN != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Store.DSN), 0o750); err != nil {
			return fmt.Errorf("create storage dir: %w", err)
		}
	}

	accountSvc, err := accountsvc.NewAccountService(ctx,
		account.BunAccountRepositoryFactory(cfg.Store),
		cfg.Auth,
	)
	if err != nil {
		return fmt.Errorf("new account service: %w", err)
	}

	defer func() {
		if cerr := accountSvc.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close account service: %w", cerr)
		}
	}()

	httpTransport := accountsvc.NewHTTPTransport(accountSvc, cfg.HTTP)

	if err := http.ListenAndServe(ctx, httpTransport, cfg.HTTP.HTTPTransportConfig); err != nil {
		return fmt.Errorf("listen and serve: %w", err)
	}

	return nil
}
