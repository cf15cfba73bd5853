package usecase

import "time"

// テストで通知の打ち切り時間を短くする
func SetNotifyTimeout(u *OrderUsecase, d time.Duration) {
	u.notifyTimeout = d
}
