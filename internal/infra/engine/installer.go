package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"restaurant/internal/domain/model"
)

// *Guard が実装
type Prober interface {
	Check(ctx context.Context) model.EngineAvailability
}

type InstallReport struct {
	AlreadyInstalled bool
	Step             string
	Attempts         []string
}

// Installer はプローブが通るまでインストール手段を順に試す。
// CLI（api deps install）専用
type Installer struct {
	probe       Prober
	steps       []Command
	stepTimeout time.Duration
	logger      *slog.Logger
}

func NewInstaller(probe Prober, steps []Command, stepTimeout time.Duration, logger *slog.Logger) *Installer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Installer{probe: probe, steps: steps, stepTimeout: stepTimeout, logger: logger}
}

// pipの順: --user → グローバル → pip3
func DefaultInstallSteps(python string) []Command {
	pkgs := []string{"pandas", "mlxtend"}
	return []Command{
		{Path: python, Args: append([]string{"-m", "pip", "install", "--user"}, pkgs...)},
		{Path: python, Args: append([]string{"-m", "pip", "install"}, pkgs...)},
		{Path: "pip3", Args: append([]string{"install"}, pkgs...)},
	}
}

// 先にプローブして通ればそのまま返す。
// 各手段のあとに再プローブし、通った時点で終わり。全部だめならErrInstallFailed
func (i *Installer) Install(ctx context.Context) (InstallReport, error) {
	var report InstallReport

	if avail := i.probe.Check(ctx); avail.Available {
		i.logger.Info("engine dependencies already installed", slog.String("detail", avail.Detail))
		report.AlreadyInstalled = true
		return report, nil
	}

	var lastDetail string
	for _, step := range i.steps {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Attempts = append(report.Attempts, step.String())
		i.logger.Info("installing engine dependencies", slog.String("step", step.String()))

		stepCtx, cancel := context.WithTimeout(ctx, i.stepTimeout)
		res, err := runProcess(stepCtx, step, nil, nil)
		cancel()

		switch {
		case err != nil:
			lastDetail = err.Error()
			i.logger.Warn("install step failed", slog.String("step", step.String()), slog.Any("error", err))
			continue
		case res.ExitCode != 0:
			lastDetail = strings.TrimSpace(string(res.Stderr))
			i.logger.Warn("install step failed",
				slog.String("step", step.String()),
				slog.Int("exit_code", res.ExitCode),
				slog.String("stderr", lastDetail),
			)
			continue
		}

		avail := i.probe.Check(ctx)
		if avail.Available {
			report.Step = step.String()
			i.logger.Info("engine dependencies installed", slog.String("step", report.Step))
			return report, nil
		}
		lastDetail = avail.Detail
	}

	return report, fmt.Errorf("%w: %s", ErrInstallFailed, lastDetail)
}
