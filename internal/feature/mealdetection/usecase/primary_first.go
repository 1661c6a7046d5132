package usecase

import (
	"context"
	"fmt"

	"meal_backend/internal/feature/mealdetection/domain/entity"
	"meal_backend/internal/feature/mealdetection/domain/fusion"
	"meal_backend/internal/feature/mealdetection/domain/lexicon"
)

// detectPrimaryFirst はプライマリを必ず呼び、コストゲートを通過した場合のみ
// セカンダリを呼んで統合します。
func (u *mealDetectionUsecase) detectPrimaryFirst(ctx context.Context, imageData []byte) (*entity.DetectionResult, error) {
	res := &entity.DetectionResult{
		Path:        entity.PathVisionOnly,
		Diagnostics: entity.Diagnostics{Mode: entity.ModePrimaryFirst},
	}

	primary, err := u.primary.DetectPrimary(ctx, imageData)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPrimaryDetection, err)
	}
	if primary == nil {
		primary = &entity.PrimaryDetection{}
	}
	res.Primary = primary

	seed := fusion.PreparePrimary(primary.All())
	res.Diagnostics.PrimaryCount = len(seed)
	res.Diagnostics.Gate = u.gate(seed)

	var names []string
	if res.Diagnostics.Gate == entity.GateFewItems || res.Diagnostics.Gate == entity.GateLowConfidence {
		res.Path = entity.PathVisionFirst
		res.Diagnostics.SecondaryCalled = true

		det, outcome, err := u.raceSecondary(ctx, imageData)
		res.Diagnostics.SecondaryOutcome = outcome
		res.Secondary = det
		if err != nil {
			u.logger.WarnContext(ctx, "セカンダリ検出に失敗、プライマリのみで続行", "error", err, "outcome", outcome)
			res.Diagnostics.SecondaryError = err.Error()
		} else {
			names = foodishNames(det.Names())
		}
		res.Diagnostics.SecondaryCount = len(names)
	}

	res.Items = fusion.FuseWithOptions(seed, names, u.cfg.fusionOptions())
	res.Diagnostics.FusedCount = len(res.Items)
	return res, nil
}

// gate はセカンダリ呼び出しの要否を判定します。
// 件数ゲートが信頼度ゲートより優先されます。
func (u *mealDetectionUsecase) gate(seed []entity.RawDetection) entity.Gate {
	if !u.cfg.EnsembleEnabled {
		return entity.GateDisabled
	}
	if len(seed) < u.cfg.GateMinItems {
		return entity.GateFewItems
	}
	for _, d := range seed {
		if d.Confidence >= u.cfg.GateConfidence {
			return entity.GateNotNeeded
		}
	}
	return entity.GateLowConfidence
}

func foodishNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if lexicon.IsFoodish(n) {
			out = append(out, n)
		}
	}
	return out
}
