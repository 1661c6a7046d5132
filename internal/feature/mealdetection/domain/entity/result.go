package entity

import "time"

// DetectionPath は結果がどの経路で生成されたかを表す識別子です。
type DetectionPath string

const (
	// PathVisionOnly はプライマリのみで完結した primary-first の結果です。
	PathVisionOnly DetectionPath = "vision-only"
	// PathVisionFirst はプライマリの後にセカンダリも呼んだ primary-first の結果です。
	PathVisionFirst DetectionPath = "vision-first"
	// PathGPT は secondary-first でセカンダリが採用された結果です。
	PathGPT DetectionPath = "gpt"
	// PathVision は secondary-first でプライマリにフォールバックした結果です。
	PathVision DetectionPath = "vision"
	// PathHybrid は低信頼のセカンダリとフォールバックのプライマリを統合した結果です。
	PathHybrid DetectionPath = "hybrid"
)

// Mode はオーケストレーターの動作モードです。
type Mode string

const (
	ModePrimaryFirst   Mode = "primary-first"
	ModeSecondaryFirst Mode = "secondary-first"
)

// Gate は primary-first モードでセカンダリ呼び出しを判断したゲートです。
type Gate string

const (
	GateDisabled      Gate = "disabled"       // アンサンブル無効
	GateNotNeeded     Gate = "not-needed"     // プライマリで十分
	GateFewItems      Gate = "few-items"      // プライマリ件数が閾値未満
	GateLowConfidence Gate = "low-confidence" // 全件が信頼度閾値未満
)

// SecondaryOutcome は secondary-first モードでのセカンダリ呼び出しの分類です。
type SecondaryOutcome string

const (
	OutcomeSuccess       SecondaryOutcome = "success"
	OutcomeEmpty         SecondaryOutcome = "empty"
	OutcomeLowConfidence SecondaryOutcome = "low-confidence"
	OutcomeTimeout       SecondaryOutcome = "timeout"
	OutcomeError         SecondaryOutcome = "error"
)

// Portion は外部の推定器が返す分量推定です。
type Portion struct {
	Grams      float64 `json:"grams"`
	Confidence float32 `json:"confidence"`
}

// Diagnostics は1回の検出パイプラインの診断情報です。安定した契約ではありません。
type Diagnostics struct {
	Mode Mode

	// primary-first
	Gate           Gate
	PrimaryCount   int
	SecondaryCount int
	FusedCount     int

	// 両モード共通
	SecondaryCalled bool // コストの発生するセカンダリを呼んだか
	SecondaryError  string

	// secondary-first
	SecondaryOutcome SecondaryOutcome
	FallbackCalled   bool
	FallbackError    string
	PreFilterCount   int
	PostFilterCount  int
	DroppedNonFood   int
	DroppedCategory  int
	DroppedCondiment int

	Elapsed time.Duration
}

// DetectionResult は呼び出し元へ返す統一的な結果エンベロープです。
type DetectionResult struct {
	Items       []FusedFoodItem
	Portions    map[string]Portion
	Primary     *PrimaryDetection   // プライマリの生の応答（呼ばなかった場合は nil）
	Secondary   *SecondaryDetection // セカンダリの生の応答（呼ばなかった場合は nil）
	Path        DetectionPath
	Diagnostics Diagnostics
}
