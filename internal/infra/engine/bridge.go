package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"restaurant/internal/domain/model"
	"restaurant/internal/metrics"

	"golang.org/x/sync/semaphore"
)

// Bridge は分析エンジンを呼び出しごとに別プロセスで起動する。
// 同時に動くプロセスはmaxConcurrentまで（超えた分はctxに従って待つ）
type Bridge struct {
	command Command
	timeout time.Duration
	sem     *semaphore.Weighted
	logger  *slog.Logger
}

// timeoutは1回の実行の上限。maxConcurrentが1未満なら1
func NewBridge(command Command, timeout time.Duration, maxConcurrent int64, logger *slog.Logger) *Bridge {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{
		command: command,
		timeout: timeout,
		sem:     semaphore.NewWeighted(maxConcurrent),
		logger:  logger,
	}
}

// stdoutの形。結果か {"error": "..."}
type wireResult struct {
	model.AnalysisResult
	Error *string `json:"error"`
}

// Mine はreqをstdinで渡してエンジンを実行する。リトライはしない。
// 失敗は *AnalysisError（errors.Is(err, ErrAnalysis)）。呼び出し元が先に
// キャンセルした場合は ctx.Err() を返す。
func (b *Bridge) Mine(ctx context.Context, req model.AnalysisRequest) (model.AnalysisResult, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return model.AnalysisResult{}, fmt.Errorf("encoding analysis request: %w", err)
	}

	if err := b.sem.Acquire(ctx, 1); err != nil {
		return model.AnalysisResult{}, err
	}
	defer b.sem.Release(1)

	runCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	start := time.Now()
	res, err := runProcess(runCtx, b.command, payload, []string{"PYTHONIOENCODING=utf-8"})
	elapsed := time.Since(start)
	metrics.ObserveAnalysisDuration(elapsed.Seconds())

	if err != nil {
		return model.AnalysisResult{}, b.classify(ctx, runCtx, res, err)
	}

	if res.ExitCode != 0 {
		b.logger.Error("analysis engine exited nonzero",
			slog.String("command", b.command.String()),
			slog.Int("exit_code", res.ExitCode),
			slog.String("stderr", string(res.Stderr)),
		)
		return model.AnalysisResult{}, &AnalysisError{
			Kind:     KindExit,
			Command:  b.command.String(),
			ExitCode: res.ExitCode,
			Stderr:   string(res.Stderr),
		}
	}

	result, err := decodeResult(res.Stdout)
	if err != nil {
		if ae, ok := AsAnalysisError(err); ok {
			ae.Command = b.command.String()
			ae.Stderr = string(res.Stderr)
		}
		b.logger.Error("analysis engine returned an unusable result",
			slog.String("command", b.command.String()),
			slog.String("raw_output", string(res.Stdout)),
			slog.Any("error", err),
		)
		return model.AnalysisResult{}, err
	}

	b.logger.Debug("analysis engine finished",
		slog.Int("transactions", len(req.Transactions)),
		slog.Int("itemsets", len(result.FrequentItemsets)),
		slog.Int("rules", len(result.AssociationRules)),
		slog.Duration("duration", elapsed),
	)
	return result, nil
}

func (b *Bridge) classify(ctx, runCtx context.Context, res runResult, err error) error {
	var se *startError
	if errors.As(err, &se) {
		b.logger.Error("failed to start analysis engine",
			slog.String("command", b.command.String()),
			slog.Any("error", se.err),
		)
		return &AnalysisError{Kind: KindStart, Command: b.command.String(), Err: se.err}
	}

	// 呼び出し元のキャンセルはタイムアウト扱いにしない
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		b.logger.Error("analysis engine timed out",
			slog.String("command", b.command.String()),
			slog.Duration("timeout", b.timeout),
		)
		return &AnalysisError{
			Kind:    KindTimeout,
			Command: b.command.String(),
			Stderr:  string(res.Stderr),
			Timeout: b.timeout,
			Err:     context.DeadlineExceeded,
		}
	}

	return &AnalysisError{
		Kind:    KindExit,
		Command: b.command.String(),
		Stderr:  string(res.Stderr),
		Err:     err,
	}
}

// JSONオブジェクトちょうど1つだけ受け付ける（前後の空白は可）
func decodeResult(stdout []byte) (model.AnalysisResult, error) {
	raw := string(stdout)
	dec := json.NewDecoder(bytes.NewReader(stdout))

	var msg json.RawMessage
	if err := dec.Decode(&msg); err != nil {
		return model.AnalysisResult{}, &AnalysisError{Kind: KindParse, RawOutput: raw, Err: err}
	}
	if !bytes.HasPrefix(msg, []byte("{")) {
		return model.AnalysisResult{}, &AnalysisError{
			Kind:      KindParse,
			RawOutput: raw,
			Err:       errors.New("result message is not a JSON object"),
		}
	}
	var wire wireResult
	if err := json.Unmarshal(msg, &wire); err != nil {
		return model.AnalysisResult{}, &AnalysisError{Kind: KindParse, RawOutput: raw, Err: err}
	}

	var extra json.RawMessage
	if err := dec.Decode(&extra); err != io.EOF {
		return model.AnalysisResult{}, &AnalysisError{
			Kind:      KindParse,
			RawOutput: raw,
			Err:       errors.New("unexpected data after the result message"),
		}
	}

	if wire.Error != nil {
		return model.AnalysisResult{}, &AnalysisError{
			Kind:      KindEngine,
			RawOutput: raw,
			Err:       errors.New(*wire.Error),
		}
	}

	result := wire.AnalysisResult
	if result.FrequentItemsets == nil {
		result.FrequentItemsets = []model.FrequentItemset{}
	}
	if result.AssociationRules == nil {
		result.AssociationRules = []model.AssociationRule{}
	}
	return result, nil
}
