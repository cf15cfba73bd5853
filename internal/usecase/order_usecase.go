package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"restaurant/internal/domain/model"
	"restaurant/internal/metrics"
	repo "restaurant/internal/repository"
)

// カート明細の種類
const (
	ItemTypeMenu   = "menu"
	ItemTypeNoodle = "noodle"
)

// コミット後の通知はこの時間で打ち切る（ブローカーが詰まってもレスポンスを返す）
const staffNotifyTimeout = 5 * time.Second

// スタッフ呼び出し後の通知先（RabbitMQ/noop）
type StaffNotifier interface {
	StaffCalled(ctx context.Context, ev model.StaffCallEvent) error
}

type OrderUsecase struct {
	tx           repo.TransactionManager
	orders       repo.OrderRepository
	details      repo.OrderDetailRepository
	notifier     StaffNotifier
	defaultLabel string
	logger       *slog.Logger
	now          func() time.Time

	notifyTimeout time.Duration
}

// DI
func NewOrderUsecase(
	tx repo.TransactionManager,
	orders repo.OrderRepository,
	details repo.OrderDetailRepository,
	notifier StaffNotifier,
	defaultLabel string,
	logger *slog.Logger,
) *OrderUsecase {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrderUsecase{
		tx:           tx,
		orders:       orders,
		details:      details,
		notifier:     notifier,
		defaultLabel: defaultLabel,
		logger:       logger,
		now:          time.Now,

		notifyTimeout: staffNotifyTimeout,
	}
}

// 麺の組み合わせ。どれもnil可（そのまま保存する）
type NoodleSelection struct {
	SoupID       *int64
	SizeID       *int64
	MeatID       *int64
	NoodleTypeID *int64
}

// カート1行分の入力
type CartItemInput struct {
	Type     string
	MenuID   *int64
	Quantity int64
	Price    float64
	TakeHome bool
	Note     string
	Noodle   *NoodleSelection
}

type OrderDetailOutput struct {
	Order  model.Order           `json:"order"`
	Status string                `json:"status"`
	Items  []model.OrderLineView `json:"items"`
}

// 注文を作る。itemsがあれば続けて明細も入れる。
// 明細の追加に失敗しても注文は残るので、idとエラーを両方返す。
func (u *OrderUsecase) CreateOrder(ctx context.Context, tableID int64, items []CartItemInput) (int64, error) {
	if tableID <= 0 {
		return 0, NewError(KindValidation, "invalid tableId")
	}

	//注文を作る前に明細の形をチェック（不正なカートで空の注文を残さない）
	var details []model.OrderDetail
	if len(items) > 0 {
		d, err := u.buildDetails(items)
		if err != nil {
			return 0, err
		}
		details = d
	}

	orderID, err := u.orders.Create(ctx, model.Order{
		TableID:   tableID,
		OrderedAt: u.now(),
		StatusID:  model.StatusPending,
	})
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return 0, WrapError(KindValidation, "unknown table", err)
		}
		return 0, WrapError(KindPersistence, "failed to create order", err)
	}

	if len(details) == 0 {
		return orderID, nil
	}
	if _, err := u.insertDetails(ctx, orderID, details); err != nil {
		u.logger.Warn("order created but items were not inserted",
			slog.Int64("order_id", orderID),
			slog.Any("error", err),
		)
		return orderID, err
	}
	return orderID, nil
}

// 既存の注文に明細を追加する。1文でまとめてINSERT。
func (u *OrderUsecase) AddItems(ctx context.Context, orderID int64, items []CartItemInput) (int64, error) {
	if orderID <= 0 {
		return 0, NewError(KindValidation, "invalid orderId")
	}
	if len(items) == 0 {
		return 0, NewError(KindValidation, "cart is empty")
	}
	details, err := u.buildDetails(items)
	if err != nil {
		return 0, err
	}
	return u.insertDetails(ctx, orderID, details)
}

// 追加注文。空なら何もしない
func (u *OrderUsecase) UpdateOrder(ctx context.Context, orderID int64, items []CartItemInput) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}
	return u.AddItems(ctx, orderID, items)
}

// スタッフ呼び出し（会計待ちへ）。
// 注文→明細(4だけ)→履歴 を1トランザクションで行い、明細の更新件数を返す。
func (u *OrderUsecase) AdvanceToAwaitingPayment(ctx context.Context, orderID int64) (int64, error) {
	if orderID <= 0 {
		return 0, NewError(KindValidation, "invalid orderId")
	}

	now := u.now()
	var updated int64

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Orders().UpdateStatus(ctx, orderID, model.StatusAwaitingPayment); err != nil {
			return err
		}

		n, err := r.OrderDetails().UpdateStatusByOrder(ctx, orderID, model.StatusInProgress, model.StatusAwaitingPayment)
		if err != nil {
			return err
		}
		updated = n

		return r.StatusLogs().Create(ctx, model.OrderStatusLog{
			OrderID:        orderID,
			ToStatus:       model.StatusAwaitingPayment,
			DetailsUpdated: n,
			ChangedBy:      "staff_call",
			CreatedAt:      now,
		})
	})
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return 0, WrapError(KindNotFound, "order not found", err)
		}
		u.logger.Error("call staff transaction failed",
			slog.Int64("order_id", orderID),
			slog.Any("error", err),
		)
		return 0, WrapError(KindInternal, "failed to call staff", err)
	}

	metrics.RecordStatusTransition(model.StatusAwaitingPayment.String())

	//通知はベストエフォート（失敗してもレスポンスは成功）
	if u.notifier != nil {
		ev := model.StaffCallEvent{
			OrderID:        orderID,
			Status:         model.StatusAwaitingPayment,
			UpdatedDetails: updated,
			CalledAt:       now,
		}
		nctx, cancel := context.WithTimeout(ctx, u.notifyTimeout)
		err := u.notifier.StaffCalled(nctx, ev)
		cancel()
		if err != nil {
			u.logger.Warn("staff notification failed",
				slog.Int64("order_id", orderID),
				slog.Any("error", err),
			)
		}
	}

	return updated, nil
}

// 注文一覧（新しい順）
func (u *OrderUsecase) ListOrders(ctx context.Context) ([]model.Order, error) {
	orders, err := u.orders.List(ctx)
	if err != nil {
		return nil, WrapError(KindPersistence, "failed to list orders", err)
	}
	if orders == nil {
		orders = []model.Order{}
	}
	return orders, nil
}

// 注文1件と明細（表示名つき）
func (u *OrderUsecase) GetOrderDetail(ctx context.Context, orderID int64) (OrderDetailOutput, error) {
	if orderID <= 0 {
		return OrderDetailOutput{}, NewError(KindValidation, "invalid orderId")
	}

	order, err := u.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return OrderDetailOutput{}, WrapError(KindNotFound, "order not found", err)
		}
		return OrderDetailOutput{}, WrapError(KindPersistence, "failed to load order", err)
	}

	lines, err := u.details.ListViewsByOrderID(ctx, orderID)
	if err != nil {
		return OrderDetailOutput{}, WrapError(KindPersistence, "failed to load order items", err)
	}
	if lines == nil {
		lines = []model.OrderLineView{}
	}
	for i := range lines {
		if strings.TrimSpace(lines[i].Name) == "" {
			lines[i].Name = u.defaultLabel
		}
	}

	return OrderDetailOutput{
		Order:  order,
		Status: order.StatusID.String(),
		Items:  lines,
	}, nil
}

// カート→明細。種類ごとに片方のフィールドだけ埋める
func (u *OrderUsecase) buildDetails(items []CartItemInput) ([]model.OrderDetail, error) {
	now := u.now()
	details := make([]model.OrderDetail, 0, len(items))

	for _, it := range items {
		if it.Quantity <= 0 {
			return nil, NewError(KindValidation, "quantity must be positive")
		}
		if it.Price < 0 {
			return nil, NewError(KindValidation, "price must not be negative")
		}

		d := model.OrderDetail{
			Quantity:  it.Quantity,
			Price:     it.Price,
			TakeHome:  it.TakeHome,
			StatusID:  model.StatusPending,
			CreatedAt: now,
		}
		if note := strings.TrimSpace(it.Note); note != "" {
			d.Additional = &note
		}

		switch it.Type {
		case ItemTypeMenu:
			if it.MenuID == nil {
				return nil, NewError(KindValidation, "menuId is required for menu items")
			}
			d.MenuID = it.MenuID
		case ItemTypeNoodle:
			if it.Noodle == nil {
				return nil, NewError(KindValidation, "noodleDetails is required for noodle items")
			}
			d.SoupID = it.Noodle.SoupID
			d.SizeID = it.Noodle.SizeID
			d.MeatID = it.Noodle.MeatID
			d.NoodleTypeID = it.Noodle.NoodleTypeID
		default:
			return nil, NewError(KindValidation, "unknown item type")
		}

		details = append(details, d)
	}
	return details, nil
}

func (u *OrderUsecase) insertDetails(ctx context.Context, orderID int64, details []model.OrderDetail) (int64, error) {
	n, err := u.details.CreateBulk(ctx, orderID, details)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return 0, WrapError(KindNotFound, "order or menu item not found", err)
		}
		return 0, WrapError(KindPersistence, "failed to insert order items", err)
	}
	metrics.RecordLinesInserted(n)
	return n, nil
}
