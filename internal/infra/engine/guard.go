package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"restaurant/internal/domain/model"
	"restaurant/internal/metrics"
)

// Guard はエンジンの実行環境（pandas/mlxtend）が使えるかを確認する。
// 結果はキャッシュしない（起動後に入れた/壊れた環境も次のリクエストで分かる）
type Guard struct {
	probe   Command
	timeout time.Duration
	logger  *slog.Logger
}

func NewGuard(probe Command, timeout time.Duration, logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{probe: probe, timeout: timeout, logger: logger}
}

// プローブを1回実行する。時間内に0で終われば成功（Detailはstdout）、
// それ以外はDetailに理由を入れる
func (g *Guard) Check(ctx context.Context) model.EngineAvailability {
	runCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	res, err := runProcess(runCtx, g.probe, nil, nil)
	avail := probeAvailability(res, err, g.timeout)
	metrics.RecordEngineProbe(avail.Available)

	if avail.Available {
		g.logger.Debug("engine dependencies verified", slog.String("detail", avail.Detail))
	} else {
		g.logger.Warn("engine dependencies not available",
			slog.String("probe", g.probe.String()),
			slog.String("detail", avail.Detail),
		)
	}
	return avail
}

func probeAvailability(res runResult, err error, timeout time.Duration) model.EngineAvailability {
	var se *startError
	switch {
	case errors.As(err, &se):
		return model.EngineAvailability{Detail: fmt.Sprintf("could not start probe: %v", se.err)}
	case errors.Is(err, context.DeadlineExceeded):
		return model.EngineAvailability{Detail: fmt.Sprintf("probe did not finish within %s", timeout)}
	case err != nil:
		return model.EngineAvailability{Detail: err.Error()}
	case res.ExitCode != 0:
		detail := strings.TrimSpace(string(res.Stderr))
		if detail == "" {
			detail = fmt.Sprintf("probe exited with code %d", res.ExitCode)
		}
		return model.EngineAvailability{Detail: detail}
	}
	return model.EngineAvailability{Available: true, Detail: strings.TrimSpace(string(res.Stdout))}
}
