package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"restaurant/internal/config"
	"restaurant/internal/domain/model"
	"restaurant/internal/handler"
	"restaurant/internal/infra/db"
	"restaurant/internal/infra/engine"
	"restaurant/internal/infra/notify"
	infraRepo "restaurant/internal/infra/repository"
	"restaurant/internal/server"
	"restaurant/internal/usecase"

	"github.com/spf13/cobra"
)

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	//DB接続
	gormDB, err := db.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return fmt.Errorf("db handle: %w", err)
	}
	defer sqlDB.Close()

	if err := db.Migrate(gormDB); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	//Repository（GORM実装）
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	detailRepo := infraRepo.NewOrderDetailGormRepository(gormDB)
	menuRepo := infraRepo.NewMenuGormRepository(gormDB)
	historyRepo := infraRepo.NewHistoryGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	//通知（AMQP_URLが空なら何もしない）
	notifier, closeNotifier, err := newNotifier(cfg.AMQP, logger)
	if err != nil {
		return err
	}
	defer closeNotifier()

	//分析エンジン
	guard := engine.NewGuard(
		engine.Command{Path: cfg.Engine.ProbeCommand, Args: cfg.Engine.ProbeArgs},
		cfg.Engine.ProbeTimeout,
		logger,
	)
	bridge := engine.NewBridge(
		engine.Command{Path: cfg.Engine.Command, Args: cfg.Engine.Args},
		cfg.Engine.Timeout,
		cfg.Engine.MaxConcurrent,
		logger,
	)

	//起動時に一度だけ確認（リクエストは止めない）
	probeAtStartup(ctx, guard, logger)

	//Usecase
	orderUC := usecase.NewOrderUsecase(txm, orderRepo, detailRepo, notifier, cfg.Analysis.DefaultLabel, logger)
	menuUC := usecase.NewMenuUsecase(menuRepo)
	assembler := usecase.NewTransactionAssembler(historyRepo, cfg.Analysis.DefaultLabel)
	assocUC := usecase.NewAssociationUsecase(guard, assembler, bridge, logger)

	//Handler
	e := server.New(server.Handlers{
		Menu:        handler.NewMenuHandler(menuUC),
		Order:       handler.NewOrderHandler(orderUC),
		Association: handler.NewAssociationHandler(assocUC),
		Health:      handler.NewHealthHandler(sqlDB),
	}, logger)

	return server.Run(ctx, e, cfg.Addr(), logger)
}

func probeAtStartup(ctx context.Context, guard usecase.DependencyGuard, logger *slog.Logger) model.EngineAvailability {
	avail := guard.Check(ctx)
	if !avail.Available {
		logger.Warn("analysis engine dependencies missing; /association will fail until installed",
			slog.String("detail", avail.Detail),
			slog.String("hint", "run: api deps install"),
		)
		return avail
	}
	logger.Info("analysis engine dependencies ok", slog.String("detail", avail.Detail))
	return avail
}

func newNotifier(cfg config.AMQP, logger *slog.Logger) (usecase.StaffNotifier, func(), error) {
	if cfg.URL == "" {
		logger.Info("AMQP_URL not set, staff notifications disabled")
		return notify.Noop{Logger: logger}, func() {}, nil
	}
	n, err := notify.Dial(cfg.URL, cfg.Exchange, logger)
	if err != nil {
		return nil, nil, err
	}
	return n, n.Close, nil
}
