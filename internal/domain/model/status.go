package model

// 注文・注文明細で共通のステータスID（status_id）
type Status int

const (
	//注文直後
	StatusPending Status = 3
	//キッチンで調理中
	StatusInProgress Status = 4
	//スタッフ呼び出し済み（会計待ち）
	StatusAwaitingPayment Status = 5
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusInProgress:
		return "in_progress"
	case StatusAwaitingPayment:
		return "awaiting_payment"
	default:
		return "unknown"
	}
}
