package engine

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"restaurant/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureRequest() model.AnalysisRequest {
	return model.AnalysisRequest{
		Transactions:  [][]string{{"A", "B"}, {"A"}, {"A", "B", "C"}},
		MinSupport:    0.34,
		MinConfidence: 0.5,
		MinLift:       1.0,
	}
}

func findItemset(res model.AnalysisResult, items ...string) (model.FrequentItemset, bool) {
	for _, is := range res.FrequentItemsets {
		if assert.ObjectsAreEqual(items, is.Items) {
			return is, true
		}
	}
	return model.FrequentItemset{}, false
}

func TestBridge_Mine_Fixture(t *testing.T) {
	b := NewBridge(fakeCommand(t, "apriori"), 10*time.Second, 2, discardLogger())

	res, err := b.Mine(context.Background(), fixtureRequest())
	require.NoError(t, err)

	// {A,B}: 3件中2件
	ab, ok := findItemset(res, "A", "B")
	require.True(t, ok, "itemsets=%v", res.FrequentItemsets)
	assert.InDelta(t, 2.0/3.0, ab.Support, 0.01)

	a, ok := findItemset(res, "A")
	require.True(t, ok)
	assert.InDelta(t, 1.0, a.Support, 0.001)

	// Cは 1/3 < 0.34
	_, ok = findItemset(res, "C")
	assert.False(t, ok)

	require.NotEmpty(t, res.AssociationRules)
	for _, r := range res.AssociationRules {
		assert.GreaterOrEqual(t, r.Confidence, 0.5)
		assert.GreaterOrEqual(t, r.Lift, 1.0)
	}
}

func TestBridge_Mine_SetsUTF8Encoding(t *testing.T) {
	b := NewBridge(fakeCommand(t, "env"), 10*time.Second, 1, discardLogger())

	_, err := b.Mine(context.Background(), fixtureRequest())

	ae, ok := AsAnalysisError(err)
	require.True(t, ok, "err=%v", err)
	assert.Equal(t, KindEngine, ae.Kind)
	assert.Contains(t, err.Error(), "utf-8")
}

func TestBridge_Mine_EngineReportedError(t *testing.T) {
	b := NewBridge(fakeCommand(t, "engine-error"), 10*time.Second, 1, discardLogger())

	_, err := b.Mine(context.Background(), fixtureRequest())

	require.ErrorIs(t, err, ErrAnalysis)
	ae, _ := AsAnalysisError(err)
	assert.Equal(t, KindEngine, ae.Kind)
	assert.Contains(t, err.Error(), "min_support must be positive")
}

func TestBridge_Mine_NonZeroExit(t *testing.T) {
	b := NewBridge(fakeCommand(t, "exit"), 10*time.Second, 1, discardLogger())

	_, err := b.Mine(context.Background(), fixtureRequest())

	ae, ok := AsAnalysisError(err)
	require.True(t, ok, "err=%v", err)
	assert.Equal(t, KindExit, ae.Kind)
	assert.Equal(t, 3, ae.ExitCode)
	assert.Contains(t, ae.Stderr, "Traceback")
}

func TestBridge_Mine_MalformedOutput(t *testing.T) {
	for _, mode := range []string{"malformed", "null", "trailing"} {
		t.Run(mode, func(t *testing.T) {
			b := NewBridge(fakeCommand(t, mode), 10*time.Second, 1, discardLogger())

			_, err := b.Mine(context.Background(), fixtureRequest())

			ae, ok := AsAnalysisError(err)
			require.True(t, ok, "err=%v", err)
			assert.Equal(t, KindParse, ae.Kind)
			assert.NotEmpty(t, ae.RawOutput)
		})
	}
}

func TestBridge_Mine_MalformedKeepsRawOutput(t *testing.T) {
	b := NewBridge(fakeCommand(t, "malformed"), 10*time.Second, 1, discardLogger())

	_, err := b.Mine(context.Background(), fixtureRequest())

	ae, ok := AsAnalysisError(err)
	require.True(t, ok)
	assert.Contains(t, ae.RawOutput, "Processing 3 transactions")
	assert.Contains(t, err.Error(), "Processing 3 transactions")
}

func TestBridge_Mine_StartFailure(t *testing.T) {
	missing := Command{Path: filepath.Join(t.TempDir(), "no-such-python")}
	b := NewBridge(missing, 10*time.Second, 1, discardLogger())

	_, err := b.Mine(context.Background(), fixtureRequest())

	ae, ok := AsAnalysisError(err)
	require.True(t, ok, "err=%v", err)
	assert.Equal(t, KindStart, ae.Kind)
	assert.ErrorIs(t, err, ErrAnalysis)
}

func TestBridge_Mine_Timeout(t *testing.T) {
	b := NewBridge(fakeCommand(t, "sleep"), 300*time.Millisecond, 1, discardLogger())

	start := time.Now()
	_, err := b.Mine(context.Background(), fixtureRequest())

	ae, ok := AsAnalysisError(err)
	require.True(t, ok, "err=%v", err)
	assert.Equal(t, KindTimeout, ae.Kind)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "timeout")
	assert.Less(t, time.Since(start), 10*time.Second)
}

// 呼び出し元のキャンセルはタイムアウトとは区別する
func TestBridge_Mine_CallerCancel(t *testing.T) {
	b := NewBridge(fakeCommand(t, "sleep"), 10*time.Second, 1, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(200*time.Millisecond, cancel)

	_, err := b.Mine(ctx, fixtureRequest())

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, errors.Is(err, ErrAnalysis))
}

// 上限に達していたら待つ。待っている間もctxに従う
func TestBridge_Mine_ConcurrencyCap(t *testing.T) {
	b := NewBridge(fakeCommand(t, "apriori"), 10*time.Second, 1, discardLogger())
	require.True(t, b.sem.TryAcquire(1))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err := b.Mine(ctx, fixtureRequest())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, errors.Is(err, ErrAnalysis))

	b.sem.Release(1)
	_, err = b.Mine(context.Background(), fixtureRequest())
	assert.NoError(t, err)
}

func TestDecodeResult(t *testing.T) {
	res, err := decodeResult([]byte("  {\"frequentItemsets\": null}\n"))
	require.NoError(t, err)
	assert.NotNil(t, res.FrequentItemsets)
	assert.NotNil(t, res.AssociationRules)

	_, err = decodeResult([]byte(""))
	ae, ok := AsAnalysisError(err)
	require.True(t, ok)
	assert.Equal(t, KindParse, ae.Kind)

	_, err = decodeResult([]byte(`[1,2]`))
	ae, ok = AsAnalysisError(err)
	require.True(t, ok)
	assert.Equal(t, KindParse, ae.Kind)
}
