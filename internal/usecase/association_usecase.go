package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"restaurant/internal/domain/model"
	"restaurant/internal/metrics"

	"github.com/google/uuid"
)

var ErrEngineUnavailable = errors.New("analysis engine dependencies not available")

const engineRemediation = "install the engine libraries with `pip install pandas mlxtend` or run `api deps install`"

// エンジン実行環境のチェック（engine.Guard）
type DependencyGuard interface {
	Check(ctx context.Context) model.EngineAvailability
}

// アソシエーション分析の実行（engine.Bridge）
type Miner interface {
	Mine(ctx context.Context, req model.AnalysisRequest) (model.AnalysisResult, error)
}

// 履歴→トランザクション（TransactionAssembler）
type TransactionBuilder interface {
	BuildTransactions(ctx context.Context, start, end *time.Time) ([]model.Transaction, error)
}

type AssociationUsecase struct {
	guard   DependencyGuard
	builder TransactionBuilder
	miner   Miner
	logger  *slog.Logger
}

func NewAssociationUsecase(guard DependencyGuard, builder TransactionBuilder, miner Miner, logger *slog.Logger) *AssociationUsecase {
	if logger == nil {
		logger = slog.Default()
	}
	return &AssociationUsecase{guard: guard, builder: builder, miner: miner, logger: logger}
}

type AnalyzeInput struct {
	MinSupport    float64
	MinConfidence float64
	MinLift       float64
	Start         *time.Time
	End           *time.Time
}

type AnalyzeOutput struct {
	Transactions      []model.Transaction  `json:"transactions"`
	TotalTransactions int                  `json:"totalTransactions"`
	AprioriResults    model.AnalysisResult `json:"aprioriResults"`
}

// 順番: パラメータ検証 → 依存チェック → 履歴 → エンジン。
// 依存がなければ履歴は読まない。履歴が空ならエンジンは起動しない。
func (u *AssociationUsecase) Analyze(ctx context.Context, in AnalyzeInput) (AnalyzeOutput, error) {
	if err := validateAnalyzeInput(in); err != nil {
		return AnalyzeOutput{}, err
	}

	runID := uuid.NewString()
	log := u.logger.With(slog.String("run_id", runID))

	avail := u.guard.Check(ctx)
	if !avail.Available {
		metrics.RecordAnalysisRun(metrics.OutcomeUnavailable)
		return AnalyzeOutput{}, WrapError(KindDependencyUnavailable, "analysis engine unavailable",
			fmt.Errorf("%w: %s; %s", ErrEngineUnavailable, avail.Detail, engineRemediation))
	}

	txs, err := u.builder.BuildTransactions(ctx, in.Start, in.End)
	if err != nil {
		metrics.RecordAnalysisRun(metrics.OutcomeFailed)
		return AnalyzeOutput{}, err
	}

	out := AnalyzeOutput{
		Transactions:      txs,
		TotalTransactions: len(txs),
		AprioriResults: model.AnalysisResult{
			FrequentItemsets: []model.FrequentItemset{},
			AssociationRules: []model.AssociationRule{},
		},
	}
	if len(txs) == 0 {
		log.Info("no order history in range, skipping engine")
		metrics.RecordAnalysisRun(metrics.OutcomeEmpty)
		return out, nil
	}

	req := model.AnalysisRequest{
		Transactions:  make([][]string, 0, len(txs)),
		MinSupport:    in.MinSupport,
		MinConfidence: in.MinConfidence,
		MinLift:       in.MinLift,
	}
	for _, t := range txs {
		req.Transactions = append(req.Transactions, t.Items)
	}

	res, err := u.miner.Mine(ctx, req)
	if err != nil {
		metrics.RecordAnalysisRun(metrics.OutcomeFailed)
		log.Error("association analysis failed", slog.Any("error", err))
		return AnalyzeOutput{}, WrapError(KindAnalysis, "association analysis failed", err)
	}

	metrics.RecordAnalysisRun(metrics.OutcomeSuccess)
	log.Info("association analysis finished",
		slog.Int("transactions", len(txs)),
		slog.Int("itemsets", len(res.FrequentItemsets)),
		slog.Int("rules", len(res.AssociationRules)),
	)
	out.AprioriResults = res
	return out, nil
}

func validateAnalyzeInput(in AnalyzeInput) error {
	//NaNもここで弾く
	if !(in.MinSupport > 0 && in.MinSupport <= 1) {
		return NewError(KindValidation, "min_support must be in (0, 1]")
	}
	if !(in.MinConfidence > 0 && in.MinConfidence <= 1) {
		return NewError(KindValidation, "min_confidence must be in (0, 1]")
	}
	if !(in.MinLift >= 0) {
		return NewError(KindValidation, "min_lift must not be negative")
	}
	if in.Start != nil && in.End != nil && in.Start.After(*in.End) {
		return NewError(KindValidation, "start_date must not be after end_date")
	}
	return nil
}
