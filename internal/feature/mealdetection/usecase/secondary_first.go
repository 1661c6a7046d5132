package usecase

import (
	"context"

	"meal_backend/internal/feature/mealdetection/domain/canonical"
	"meal_backend/internal/feature/mealdetection/domain/entity"
	"meal_backend/internal/feature/mealdetection/domain/fusion"
	"meal_backend/internal/feature/mealdetection/domain/lexicon"
)

// detectSecondaryFirst はセカンダリを先に呼び、成功以外の結果ではプライマリに
// 1回だけフォールバックします。どの経路でもエラーは返しません。
//
// 状態遷移: SecondaryPending → {Succeeded | TimedOut | Rejected | Failed}
// → [PrimaryFallback] → Filtered → Done
func (u *mealDetectionUsecase) detectSecondaryFirst(ctx context.Context, imageData []byte) *entity.DetectionResult {
	res := &entity.DetectionResult{
		Diagnostics: entity.Diagnostics{Mode: entity.ModeSecondaryFirst, SecondaryCalled: true},
	}

	det, outcome, err := u.raceSecondary(ctx, imageData)
	res.Secondary = det
	res.Diagnostics.SecondaryOutcome = outcome
	if err != nil {
		u.logger.WarnContext(ctx, "セカンダリ検出に失敗、プライマリにフォールバック", "error", err, "outcome", outcome)
		res.Diagnostics.SecondaryError = err.Error()
	}

	var items []entity.FusedFoodItem
	if outcome == entity.OutcomeSuccess {
		res.Path = entity.PathGPT
		items = secondaryItems(det)
		res.Diagnostics.SecondaryCount = len(items)
	} else {
		items = u.fallback(ctx, imageData, res, det, outcome)
	}

	filtered, stats := fusion.FilterMeal(items)
	res.Items = fusion.Dedupe(filtered, u.cfg.FusionCap)

	res.Diagnostics.PreFilterCount = stats.Before
	res.Diagnostics.PostFilterCount = stats.After
	res.Diagnostics.DroppedNonFood = stats.DroppedNonFood
	res.Diagnostics.DroppedCategory = stats.DroppedCategory
	res.Diagnostics.DroppedCondiment = stats.DroppedCondiment
	res.Diagnostics.FusedCount = len(res.Items)
	return res
}

// fallback はプライマリを呼び、失敗は空の結果に変換します。
// セカンダリが低信頼ながら名前を返し、プライマリも結果を返した場合は両方を統合します。
func (u *mealDetectionUsecase) fallback(ctx context.Context, imageData []byte, res *entity.DetectionResult, det *entity.SecondaryDetection, outcome entity.SecondaryOutcome) []entity.FusedFoodItem {
	res.Path = entity.PathVision
	res.Diagnostics.FallbackCalled = true

	primary, err := u.primary.DetectPrimary(ctx, imageData)
	if err != nil {
		u.logger.WarnContext(ctx, "フォールバックのプライマリ検出に失敗、空の結果を返します", "error", err)
		res.Diagnostics.FallbackError = err.Error()
		primary = nil
	}
	if primary == nil {
		primary = &entity.PrimaryDetection{}
	}
	res.Primary = primary

	seed := fusion.PreparePrimary(primary.All())
	res.Diagnostics.PrimaryCount = len(seed)

	opts := u.cfg.fusionOptions()
	if outcome == entity.OutcomeLowConfidence && len(seed) > 0 {
		res.Path = entity.PathHybrid
		names := det.Names()
		res.Diagnostics.SecondaryCount = len(names)
		// 上限はフィルタ後に適用する
		opts.Cap = len(seed) + len(names)
		return withCategories(fusion.FuseWithOptions(seed, names, opts), declaredCategories(det))
	}

	opts.Cap = len(seed)
	return withCategories(fusion.FuseWithOptions(seed, nil, opts), nil)
}

// secondaryItems はセカンダリのアイテムを統一形式に変換します。
// カテゴリ未申告のアイテムは other になります。
func secondaryItems(det *entity.SecondaryDetection) []entity.FusedFoodItem {
	if det == nil {
		return nil
	}
	out := make([]entity.FusedFoodItem, 0, len(det.Items))
	for _, it := range det.Items {
		cat := it.Category
		if cat == "" {
			cat = entity.CategoryOther
		}
		item := entity.FusedFoodItem{CanonicalName: canonical.Canonicalize(it.Name), Category: cat}
		item.OriginSet.Add(entity.SourceSecondary)
		out = append(out, item)
	}
	return out
}

func declaredCategories(det *entity.SecondaryDetection) map[string]entity.Category {
	if det == nil {
		return nil
	}
	out := make(map[string]entity.Category, len(det.Items))
	for _, it := range det.Items {
		if it.Category == "" {
			continue
		}
		name := canonical.Canonicalize(it.Name)
		if _, ok := out[name]; !ok {
			out[name] = it.Category
		}
	}
	return out
}

// withCategories は申告済みカテゴリを優先し、それ以外は名前から推定します。
func withCategories(items []entity.FusedFoodItem, declared map[string]entity.Category) []entity.FusedFoodItem {
	for i := range items {
		if cat, ok := declared[items[i].CanonicalName]; ok {
			items[i].Category = cat
			continue
		}
		items[i].Category = lexicon.CategoryOf(items[i].CanonicalName)
	}
	return items
}
