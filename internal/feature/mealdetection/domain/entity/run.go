package entity

import "time"

// DetectionRun は1回の検出パイプラインの監査記録です（食事内容そのものは保持しません）。
type DetectionRun struct {
	ID               string
	Mode             Mode
	Path             DetectionPath
	Gate             Gate
	SecondaryCalled  bool
	SecondaryOutcome SecondaryOutcome
	FallbackCalled   bool
	ItemNames        []string
	Elapsed          time.Duration
	CreatedAt        time.Time
}

// NewDetectionRun は結果から監査記録を組み立てます。ID と CreatedAt は保存時に設定されます。
func NewDetectionRun(res *DetectionResult) *DetectionRun {
	names := make([]string, 0, len(res.Items))
	for _, it := range res.Items {
		names = append(names, it.CanonicalName)
	}
	return &DetectionRun{
		Mode:             res.Diagnostics.Mode,
		Path:             res.Path,
		Gate:             res.Diagnostics.Gate,
		SecondaryCalled:  res.Diagnostics.SecondaryCalled,
		SecondaryOutcome: res.Diagnostics.SecondaryOutcome,
		FallbackCalled:   res.Diagnostics.FallbackCalled,
		ItemNames:        names,
		Elapsed:          res.Diagnostics.Elapsed,
	}
}
