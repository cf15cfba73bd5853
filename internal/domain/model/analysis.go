package model

import "time"

// 明細1行を表示名に解決したもの（履歴クエリの1行）
type HistoryRow struct {
	OrderID   int64
	OrderedAt time.Time
	Item      string
}

// 注文1件分の品目リスト（永続化しない）
type Transaction struct {
	OrderID int64     `json:"orderId"`
	Date    time.Time `json:"date"`
	Items   []string  `json:"items"`
}

// エンジンのstdinに書くメッセージ
type AnalysisRequest struct {
	Transactions  [][]string `json:"transactions"`
	MinSupport    float64    `json:"minSupport"`
	MinConfidence float64    `json:"minConfidence"`
	MinLift       float64    `json:"minLift"`
}

type FrequentItemset struct {
	Items   []string `json:"items"`
	Support float64  `json:"support"`
}

type AssociationRule struct {
	Antecedent []string `json:"antecedent"`
	Consequent []string `json:"consequent"`
	Support    float64  `json:"support"`
	Confidence float64  `json:"confidence"`
	Lift       float64  `json:"lift"`
}

// エンジンのstdoutから読む結果
type AnalysisResult struct {
	FrequentItemsets []FrequentItemset `json:"frequentItemsets"`
	AssociationRules []AssociationRule `json:"associationRules"`
}

// エンジン実行環境のチェック結果。リクエストごとに作る。
type EngineAvailability struct {
	Available bool
	Detail    string
}

// スタッフ呼び出しの通知内容
type StaffCallEvent struct {
	OrderID        int64     `json:"orderId"`
	Status         Status    `json:"status"`
	UpdatedDetails int64     `json:"updatedDetails"`
	CalledAt       time.Time `json:"calledAt"`
}
