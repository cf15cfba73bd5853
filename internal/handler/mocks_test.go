package handler_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	"restaurant/internal/domain/model"
	"restaurant/internal/handler"
	repo "restaurant/internal/repository"
	"restaurant/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
)

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
func (m *OrderDetailRepoMock) UpdateStatusByOrder(ctx context.Context, orderID int64, from, to model.Status) (int64, error) {
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
	return m.Called(ctx, log).Error(0)
}

type txRepos struct {
	orders  *OrderRepoMock
	details *OrderDetailRepoMock
	logs    *StatusLogRepoMock
}

func (r *txRepos) Orders() repo.OrderRepository              { return r.orders }
func (r *txRepos) OrderDetails() repo.OrderDetailRepository  { return r.details }
func (r *txRepos) StatusLogs() repo.OrderStatusLogRepository { return r.logs }

type TxManagerStub struct{ repos repo.TxRepos }

func (m *TxManagerStub) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(m.repos)
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

type GuardStub struct{ avail model.EngineAvailability }

func (g GuardStub) Check(ctx context.Context) model.EngineAvailability { return g.avail }

type MinerMock struct{ mock.Mock }

func (m *MinerMock) Mine(ctx context.Context, req model.AnalysisRequest) (model.AnalysisResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(model.AnalysisResult)
	return res, args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = handler.NewRequestValidator()
	return e
}

func doRequest(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

type orderEnv struct {
	e       *echo.Echo
	orders  *OrderRepoMock
	details *OrderDetailRepoMock
	logs    *StatusLogRepoMock
}

func newOrderEnv() *orderEnv {
	env := &orderEnv{
		e:       newEcho(),
		orders:  new(OrderRepoMock),
		details: new(OrderDetailRepoMock),
		logs:    new(StatusLogRepoMock),
	}
	tx := &TxManagerStub{repos: &txRepos{orders: env.orders, details: env.details, logs: env.logs}}
	uc := usecase.NewOrderUsecase(tx, env.orders, env.details, nil, "ก๋วยเตี๋ยว", discardLogger())
	handler.NewOrderHandler(uc).RegisterRoutes(env.e)
	return env
}
