package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fekuna/omnipos-inventory-service/config"
	alertUCPkg "github.com/fekuna/omnipos-inventory-service/internal/alert/usecase"
	"github.com/fekuna/omnipos-inventory-service/internal/notify"
	"github.com/fekuna/omnipos-inventory-service/internal/reconcile/dto"
	recUCPkg "github.com/fekuna/omnipos-inventory-service/internal/reconcile/usecase"
	"github.com/fekuna/omnipos-inventory-service/internal/store"
	"github.com/fekuna/omnipos-inventory-service/pkg/i18n"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	ownerID := flag.String("owner", "", "Optional: reconcile a single owner (default: every owner)")
	driver := flag.String("driver", "", "Optional: storage driver override (postgres/memory)")
	quiet := flag.Bool("quiet", false, "Only print the JSON report")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.LoadEnv()
	if strings.TrimSpace(*driver) != "" {
		cfg.Storage.Driver = strings.TrimSpace(*driver)
	}
	i18n.Init()

	appLogger := logger.NewNop()
	if !*quiet {
		appLogger = logger.NewZapLogger(&logger.ZapLoggerConfig{
			IsDevelopment:     cfg.IsDevelopment(),
			Encoding:          "console",
			Level:             cfg.Logger.Level,
			DisableStacktrace: true,
		})
	}
	defer appLogger.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	repos, err := store.Open(ctx, cfg, appLogger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open storage: %v\n", err)
		os.Exit(1)
	}
	defer repos.Close()

	alerts := alertUCPkg.NewAlertUseCase(repos.Alerts, notify.Nop{}, appLogger)
	uc := recUCPkg.NewReconcileUseCase(repos.Reconcile, alerts, appLogger)

	var (
		reports []dto.Report
		runErr  error
	)
	if id := strings.TrimSpace(*ownerID); id != "" {
		var report *dto.Report
		report, runErr = uc.ReconcileAll(ctx, id)
		if report != nil {
			reports = append(reports, *report)
		}
	} else {
		reports, runErr = uc.ReconcileEveryOwner(ctx)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(reports); err != nil {
		appLogger.Error("Failed to write report", zap.Error(err))
	}

	failed := runErr != nil
	for _, r := range reports {
		if len(r.Errors) > 0 {
			failed = true
		}
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "reconcile: %v\n", runErr)
	}
	if failed {
		repos.Close()
		os.Exit(1)
	}
}
