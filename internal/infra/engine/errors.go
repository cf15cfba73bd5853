package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// *AnalysisError はすべて errors.Is(err, ErrAnalysis) になる
var ErrAnalysis = errors.New("analysis failed")

// どのインストール手段でもプローブが通らなかった
var ErrInstallFailed = errors.New("dependency installation failed")

// エンジン実行の失敗の種類
type FailureKind string

const (
	// 起動できない（コマンドなし・権限）
	KindStart FailureKind = "start"
	// 0以外で終了
	KindExit FailureKind = "exit"
	// 終了コード0だがstdoutがJSON1つではない
	KindParse FailureKind = "parse"
	// エンジンが {"error"} を返した
	KindEngine FailureKind = "engine"
	// 時間切れでkillした
	KindTimeout FailureKind = "timeout"
)

// Stderr/RawOutputは調査用にそのまま持つ
type AnalysisError struct {
	Kind      FailureKind
	Command   string
	ExitCode  int
	Stderr    string
	RawOutput string
	Timeout   time.Duration
	Err       error
}

func (e *AnalysisError) Error() string {
	switch e.Kind {
	case KindStart:
		return fmt.Sprintf("could not start analysis engine %q: %v", e.Command, e.Err)
	case KindExit:
		return fmt.Sprintf("analysis engine exited with code %d: %s", e.ExitCode, strings.TrimSpace(e.Stderr))
	case KindParse:
		return fmt.Sprintf("failed to parse analysis engine output: %v (raw output: %q)", e.Err, e.RawOutput)
	case KindEngine:
		return fmt.Sprintf("analysis engine reported an error: %v", e.Err)
	case KindTimeout:
		return fmt.Sprintf("timeout: analysis engine did not finish within %s", e.Timeout)
	default:
		return fmt.Sprintf("analysis engine failed: %v", e.Err)
	}
}

func (e *AnalysisError) Unwrap() error { return e.Err }

func (e *AnalysisError) Is(target error) bool { return target == ErrAnalysis }

func AsAnalysisError(err error) (*AnalysisError, bool) {
	var ae *AnalysisError
	ok := errors.As(err, &ae)
	return ae, ok
}
