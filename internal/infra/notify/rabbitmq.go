package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"restaurant/internal/domain/model"

	amqp "github.com/rabbitmq/amqp091-go"
)

// スタッフ呼び出しのルーティングキー
const StaffCallKey = "staff.call"

var ErrNack = errors.New("publish NACK from broker")

// テストで差し替えるため、使うメソッドだけ
type publisher interface {
	GetNextPublishSeqNo() uint64
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// RabbitNotifier はスタッフ呼び出しを topic exchange に publish し、
// publisher confirm を待つ。
type RabbitNotifier struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	pub      publisher
	acks     <-chan amqp.Confirmation
	exchange string
	logger   *slog.Logger

	mu sync.Mutex // confirmを使うのでPublishは直列
}

func Dial(url, exchange string, logger *slog.Logger) (*RabbitNotifier, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	//publisher confirms
	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("enable confirms: %w", err)
	}
	//タイムアウトした分のconfirmが後から届いても読み手を詰まらせない
	acks := ch.NotifyPublish(make(chan amqp.Confirmation, 16))

	n := newRabbitNotifier(ch, acks, exchange, logger)
	n.conn = conn
	n.ch = ch
	return n, nil
}

func newRabbitNotifier(pub publisher, acks <-chan amqp.Confirmation, exchange string, logger *slog.Logger) *RabbitNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &RabbitNotifier{pub: pub, acks: acks, exchange: exchange, logger: logger}
}

func (n *RabbitNotifier) StaffCalled(ctx context.Context, ev model.StaffCallEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal staff call: %w", err)
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	orderID := strconv.FormatInt(ev.OrderID, 10)
	//このpublishに付くdelivery tag
	tag := n.pub.GetNextPublishSeqNo()
	if err := n.pub.PublishWithContext(ctx, n.exchange, StaffCallKey, false, false, amqp.Publishing{
		DeliveryMode:  amqp.Persistent,
		ContentType:   "application/json",
		CorrelationId: orderID,
		Timestamp:     time.Now().UTC(),
		Body:          body,
	}); err != nil {
		return fmt.Errorf("publish staff call: %w", err)
	}

	for {
		select {
		case conf, ok := <-n.acks:
			if !ok {
				return errors.New("confirm channel closed")
			}
			//前の呼び出しがタイムアウトした後に届いたconfirmは捨てる
			if conf.DeliveryTag < tag {
				n.logger.Debug("discard stale confirm",
					slog.Uint64("delivery_tag", conf.DeliveryTag),
					slog.Uint64("want", tag),
				)
				continue
			}
			if conf.DeliveryTag > tag {
				return fmt.Errorf("unexpected confirm tag %d (want %d)", conf.DeliveryTag, tag)
			}
			if !conf.Ack {
				return ErrNack
			}
			n.logger.Debug("staff call published", slog.String("order_id", orderID))
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (n *RabbitNotifier) Close() {
	if n.ch != nil {
		_ = n.ch.Close()
	}
	if n.conn != nil {
		_ = n.conn.Close()
	}
}

// Noop は AMQP_URL が空のとき用
type Noop struct {
	Logger *slog.Logger
}

func (n Noop) StaffCalled(_ context.Context, ev model.StaffCallEvent) error {
	if n.Logger != nil {
		n.Logger.Debug("staff call not published (notifier disabled)", slog.Int64("order_id", ev.OrderID))
	}
	return nil
}
