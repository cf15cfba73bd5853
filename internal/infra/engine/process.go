package engine

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"
)

// kill後この時間でパイプを閉じる（孫プロセスがstdoutを握ってWaitが返らないのを防ぐ）
const processWaitDelay = 2 * time.Second

// 実行ファイルと引数
type Command struct {
	Path string
	Args []string
}

func (c Command) String() string {
	return strings.TrimSpace(c.Path + " " + strings.Join(c.Args, " "))
}

type runResult struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// プロセスが動き出す前の失敗
type startError struct {
	err error
}

func (e *startError) Error() string { return e.err.Error() }
func (e *startError) Unwrap() error { return e.err }

// stdinを書いて閉じ、終了まで待つ。0以外の終了はエラーではなくExitCodeで返す。
// エラーは *startError / ctx.Err() / I/O失敗
func runProcess(ctx context.Context, c Command, stdin []byte, extraEnv []string) (runResult, error) {
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Env = append(os.Environ(), extraEnv...)
	cmd.WaitDelay = processWaitDelay
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return runResult{}, &startError{err: err}
	}

	err := cmd.Wait()
	res := runResult{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return res, ctxErr
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, err
	}
	return res, nil
}
