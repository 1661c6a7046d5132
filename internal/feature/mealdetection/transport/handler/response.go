package handler

import (
	"meal_backend/internal/api"
	"meal_backend/internal/feature/mealdetection/domain/entity"
)

// ToDetectResponse は検出結果をAPIのレスポンス形式に変換します。
func ToDetectResponse(res *entity.DetectionResult) api.DetectResponse {
	items := make([]api.FoodItem, 0, len(res.Items))
	for _, it := range res.Items {
		item := api.FoodItem{
			Name:        it.CanonicalName,
			Origin:      api.FoodItemOrigin(it.Origin()),
			Confidence:  it.Confidence,
			BoundingBox: toBox(it.BoundingBox),
		}
		if it.Category != "" {
			cat := string(it.Category)
			item.Category = &cat
		}
		items = append(items, item)
	}

	portions := make(map[string]api.Portion, len(res.Portions))
	for name, p := range res.Portions {
		portions[name] = api.Portion{Grams: p.Grams, Confidence: p.Confidence}
	}

	return api.DetectResponse{
		Items:       items,
		Portions:    portions,
		Source:      string(res.Path),
		Raw:         api.Raw{Primary: toPrimaryRaw(res.Primary), Secondary: toSecondaryRaw(res.Secondary)},
		Diagnostics: toDiagnostics(res.Diagnostics),
	}
}

func toBox(b *entity.BoundingBox) *api.BoundingBox {
	if b == nil {
		return nil
	}
	return &api.BoundingBox{X: b.X, Y: b.Y, Width: b.Width, Height: b.Height}
}

func toRawDetections(dets []entity.RawDetection) []api.RawDetection {
	out := make([]api.RawDetection, 0, len(dets))
	for _, d := range dets {
		out = append(out, api.RawDetection{
			Name:        d.Name,
			Kind:        api.RawDetectionKind(d.Kind),
			Confidence:  d.Confidence,
			BoundingBox: toBox(d.BoundingBox),
		})
	}
	return out
}

func toPrimaryRaw(p *entity.PrimaryDetection) *api.PrimaryRaw {
	if p == nil {
		return nil
	}
	out := &api.PrimaryRaw{
		Objects:      toRawDetections(p.Objects),
		Labels:       toRawDetections(p.Labels),
		ChosenSource: p.ChosenSource,
	}
	if p.ImageSize != nil {
		out.ImageWidth = &p.ImageSize.Width
		out.ImageHeight = &p.ImageSize.Height
	}
	return out
}

func toSecondaryRaw(s *entity.SecondaryDetection) *api.SecondaryRaw {
	if s == nil {
		return nil
	}
	out := &api.SecondaryRaw{Names: s.Names(), Model: s.Model}
	if s.Confidence > 0 {
		conf := s.Confidence
		out.Confidence = &conf
	}
	return out
}

func toDiagnostics(d entity.Diagnostics) api.Diagnostics {
	out := api.Diagnostics{
		Mode:            api.DetectMode(d.Mode),
		SecondaryCalled: d.SecondaryCalled,
		ElapsedMs:       d.Elapsed.Milliseconds(),
		SecondaryError:  optString(d.SecondaryError),
	}
	switch d.Mode {
	case entity.ModePrimaryFirst:
		out.Gate = optString(string(d.Gate))
		out.PrimaryCount = &d.PrimaryCount
		out.SecondaryCount = &d.SecondaryCount
		out.FusedCount = &d.FusedCount
	case entity.ModeSecondaryFirst:
		out.SecondaryOutcome = optString(string(d.SecondaryOutcome))
		out.FallbackCalled = &d.FallbackCalled
		out.FallbackError = optString(d.FallbackError)
		out.PreFilterCount = &d.PreFilterCount
		out.PostFilterCount = &d.PostFilterCount
		out.DroppedNonFood = &d.DroppedNonFood
		out.DroppedCategory = &d.DroppedCategory
		out.DroppedCondiment = &d.DroppedCondiment
	}
	return out
}

func toDetectionRunResponse(r *entity.DetectionRun) api.DetectionRunResponse {
	items := r.ItemNames
	if items == nil {
		items = []string{}
	}
	return api.DetectionRunResponse{
		Id:               r.ID,
		Mode:             string(r.Mode),
		Source:           string(r.Path),
		Gate:             optString(string(r.Gate)),
		SecondaryCalled:  r.SecondaryCalled,
		SecondaryOutcome: optString(string(r.SecondaryOutcome)),
		FallbackCalled:   r.FallbackCalled,
		Items:            items,
		ElapsedMs:        r.Elapsed.Milliseconds(),
		CreatedAt:        r.CreatedAt,
	}
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
