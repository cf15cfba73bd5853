package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"restaurant/internal/domain/model"
	repo "restaurant/internal/repository"
	"restaurant/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos mocks
// =====================

// TxManagerMock は WithinTx の中で渡す repos を固定して unit テストを回す
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	// 呼ばれた事実だけ記録（ctxの具体値は問わない）
	m.Called(ctx)
	return fn(m.Repos)
}

type TxReposMock struct {
	orders     repo.OrderRepository
	details    repo.OrderDetailRepository
	statusLogs repo.OrderStatusLogRepository
}

func (r *TxReposMock) Orders() repo.OrderRepository              { return r.orders }
func (r *TxReposMock) OrderDetails() repo.OrderDetailRepository  { return r.details }
func (r *TxReposMock) StatusLogs() repo.OrderStatusLogRepository { return r.statusLogs }

// =====================
// Repository mocks
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}
func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}
func (m *OrderRepoMock) List(ctx context.Context) ([]model.Order, error) {
	args := m.Called(ctx)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}
func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.Status) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

type OrderDetailRepoMock struct{ mock.Mock }

func (m *OrderDetailRepoMock) CreateBulk(ctx context.Context, orderID int64, details []model.OrderDetail) (int64, error) {
	args := m.Called(ctx, orderID, details)
	return args.Get(0).(int64), args.Error(1)
}
func (m *OrderDetailRepoMock) UpdateStatusByOrder(ctx context.Context, orderID int64, from model.Status, to model.Status) (int64, error) {
	args := m.Called(ctx, orderID, from, to)
	return args.Get(0).(int64), args.Error(1)
}
func (m *OrderDetailRepoMock) ListViewsByOrderID(ctx context.Context, orderID int64) ([]model.OrderLineView, error) {
	args := m.Called(ctx, orderID)
	lines, _ := args.Get(0).([]model.OrderLineView)
	return lines, args.Error(1)
}

type StatusLogRepoMock struct{ mock.Mock }

func (m *StatusLogRepoMock) Create(ctx context.Context, log model.OrderStatusLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

type MenuRepoMock struct{ mock.Mock }

func (m *MenuRepoMock) List(ctx context.Context) ([]model.Menu, error) {
	args := m.Called(ctx)
	menus, _ := args.Get(0).([]model.Menu)
	return menus, args.Error(1)
}
func (m *MenuRepoMock) FindByID(ctx context.Context, id int64) (model.Menu, error) {
	args := m.Called(ctx, id)
	menu, _ := args.Get(0).(model.Menu)
	return menu, args.Error(1)
}

type HistoryRepoMock struct{ mock.Mock }

func (m *HistoryRepoMock) ListItemRows(ctx context.Context, f repo.HistoryFilter) ([]model.HistoryRow, error) {
	args := m.Called(ctx, f)
	rows, _ := args.Get(0).([]model.HistoryRow)
	return rows, args.Error(1)
}

// =====================
// Collaborator mocks
// =====================

type NotifierMock struct{ mock.Mock }

func (m *NotifierMock) StaffCalled(ctx context.Context, ev model.StaffCallEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

type GuardMock struct{ mock.Mock }

func (m *GuardMock) Check(ctx context.Context) model.EngineAvailability {
	args := m.Called(ctx)
	return args.Get(0).(model.EngineAvailability)
}

type MinerMock struct{ mock.Mock }

func (m *MinerMock) Mine(ctx context.Context, req model.AnalysisRequest) (model.AnalysisResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(model.AnalysisResult)
	return res, args.Error(1)
}

// =====================
// Helpers
// =====================

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func assertErrContains(t *testing.T, err error, wantSubstr string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.True(t, strings.Contains(err.Error(), wantSubstr), "err=%q want contains %q", err.Error(), wantSubstr)
	}
}

func assertKind(t *testing.T, err error, want usecase.ErrorKind) {
	t.Helper()
	ue, ok := usecase.AsError(err)
	if assert.True(t, ok, "err=%v is not a usecase error", err) {
		assert.Equal(t, want, ue.Kind, "err=%v", err)
	}
}

func int64Ptr(v int64) *int64 { return &v }

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.Local)
	return &t
}
