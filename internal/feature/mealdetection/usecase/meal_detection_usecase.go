// Package usecase はmealdetectionフィーチャーのビジネスロジックを実装します。
//
// 1枚の食事画像に対して、高速なプライマリ検出器と高コストなセカンダリ検出器を
// どの順序で、どの条件で呼ぶかを決め、結果を統合した DetectionResult を返します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"meal_backend/internal/feature/mealdetection/domain/entity"
)

// PrimaryDetector は画像から物体とラベルを検出するインターフェースです。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type PrimaryDetector interface {
	DetectPrimary(ctx context.Context, imageData []byte) (*entity.PrimaryDetection, error)
}

// SecondaryDetector は画像から自由記述の食品名を列挙する生成系検出器のインターフェースです。
type SecondaryDetector interface {
	DetectSecondary(ctx context.Context, imageData []byte) (*entity.SecondaryDetection, error)
}

// PortionEstimator は検出済みアイテムの分量を推定する外部コンポーネントです。
// 戻り値のキーは CanonicalName です。
type PortionEstimator interface {
	EstimatePortions(ctx context.Context, imageData []byte, items []entity.FusedFoodItem, size *entity.ImageSize) (map[string]entity.Portion, error)
}

// Recorder は1回の検出結果と診断情報を受け取ります（ログ・メトリクス・監査ログ）。
// 失敗しても検出結果には影響させないため、エラーは返しません。
type Recorder interface {
	Record(ctx context.Context, res *entity.DetectionResult)
}

type nopRecorder struct{}

func (nopRecorder) Record(context.Context, *entity.DetectionResult) {}

// Option は mealDetectionUsecase の任意依存を設定します。
type Option func(*mealDetectionUsecase)

// WithPortionEstimator は分量推定器を設定します。未設定の場合 Portions は空になります。
func WithPortionEstimator(pe PortionEstimator) Option {
	return func(u *mealDetectionUsecase) { u.portions = pe }
}

// WithRecorder は診断情報の記録先を設定します。
func WithRecorder(r Recorder) Option {
	return func(u *mealDetectionUsecase) {
		if r != nil {
			u.recorder = r
		}
	}
}

// WithLogger はロガーを設定します。未設定の場合 slog.Default() を使います。
func WithLogger(l *slog.Logger) Option {
	return func(u *mealDetectionUsecase) {
		if l != nil {
			u.logger = l
		}
	}
}

// mealDetectionUsecase は食事画像の検出パイプラインを提供します。
type mealDetectionUsecase struct {
	primary   PrimaryDetector
	secondary SecondaryDetector
	portions  PortionEstimator
	recorder  Recorder
	cfg       Config
	logger    *slog.Logger
}

// NewMealDetectionUsecase はmealDetectionUsecaseの新しいインスタンスを生成します。
// cfg は呼び出し側で Validate 済みであることを前提とします。
func NewMealDetectionUsecase(primary PrimaryDetector, secondary SecondaryDetector, cfg Config, opts ...Option) *mealDetectionUsecase {
	u := &mealDetectionUsecase{
		primary:   primary,
		secondary: secondary,
		recorder:  nopRecorder{},
		cfg:       cfg,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Detect は画像から食品アイテムを検出します。
// mode が空の場合は設定の既定モードを使います。
//
// primary-first モードでのプライマリ検出器の失敗だけがエラーとして返ります。
// それ以外の検出器の失敗はすべて空の結果に縮退し、Diagnostics に記録されます。
func (u *mealDetectionUsecase) Detect(ctx context.Context, imageData []byte, mode entity.Mode) (*entity.DetectionResult, error) {
	if len(imageData) == 0 {
		return nil, ErrEmptyImage
	}
	if len(imageData) > u.cfg.MaxImageSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrImageTooLarge, len(imageData), u.cfg.MaxImageSize)
	}
	if mode == "" {
		mode = u.cfg.DefaultMode()
	}

	start := time.Now()

	var (
		res *entity.DetectionResult
		err error
	)
	switch mode {
	case entity.ModePrimaryFirst:
		res, err = u.detectPrimaryFirst(ctx, imageData)
	case entity.ModeSecondaryFirst:
		res = u.detectSecondaryFirst(ctx, imageData)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
	if err != nil {
		return nil, err
	}

	res.Portions = u.estimatePortions(ctx, imageData, res)
	res.Diagnostics.Elapsed = time.Since(start)

	u.recorder.Record(ctx, res)
	return res, nil
}

func (u *mealDetectionUsecase) estimatePortions(ctx context.Context, imageData []byte, res *entity.DetectionResult) map[string]entity.Portion {
	out := map[string]entity.Portion{}
	if u.portions == nil || len(res.Items) == 0 {
		return out
	}

	var size *entity.ImageSize
	if res.Primary != nil {
		size = res.Primary.ImageSize
	}

	portions, err := u.portions.EstimatePortions(ctx, imageData, res.Items, size)
	if err != nil {
		u.logger.WarnContext(ctx, "分量推定に失敗", "error", err, "items", len(res.Items))
		return out
	}
	for name, p := range portions {
		out[name] = p
	}
	return out
}
