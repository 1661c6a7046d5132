// Package entity はmealdetectionフィーチャーのドメインモデルを定義します。
package entity

// DetectionKind はプライマリ検出結果の種別（物体またはラベル）です。
type DetectionKind string

const (
	// KindObject はバウンディングボックス付きで位置特定された物体です。
	KindObject DetectionKind = "object"
	// KindLabel は画像全体に付与されたラベルです（ボックスなし）。
	KindLabel DetectionKind = "label"
)

// BoundingBox は画像サイズで正規化された矩形（0.0 ~ 1.0）です。
type BoundingBox struct {
	X      float32 `json:"x"`
	Y      float32 `json:"y"`
	Width  float32 `json:"width"`
	Height float32 `json:"height"`
}

// RawDetection はプライマリ検出器が返す1件の候補です。
type RawDetection struct {
	Name        string        // 検出器が返した名称（未正規化）
	Kind        DetectionKind // object または label
	BoundingBox *BoundingBox  // object の場合のみ
	Confidence  float32       // 信頼度スコア（0.0 ~ 1.0）
}

// ImageSize は検出器が把握している画像のピクセルサイズです。
type ImageSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// PrimaryDetection はプライマリ検出器1回分の生の応答です。
type PrimaryDetection struct {
	Objects      []RawDetection
	Labels       []RawDetection
	ImageSize    *ImageSize // 不明な場合は nil
	ChosenSource string     // 検出器側が採用したソースのタグ
}

// All は objects, labels の順に全候補を返します。
func (p *PrimaryDetection) All() []RawDetection {
	if p == nil {
		return nil
	}
	out := make([]RawDetection, 0, len(p.Objects)+len(p.Labels))
	out = append(out, p.Objects...)
	out = append(out, p.Labels...)
	return out
}

// SecondaryItem は生成系検出器が返す自由記述の食品名です。
// Category は検出器が申告した場合のみ設定されます。
type SecondaryItem struct {
	Name     string
	Category Category
}

// SecondaryDetection はセカンダリ検出器1回分の生の応答です。
type SecondaryDetection struct {
	Items      []SecondaryItem
	Confidence float32 // 自己申告の信頼度。0 は未申告
	Model      string
}

// Names はアイテム名だけを順序どおりに返します。
func (s *SecondaryDetection) Names() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.Items))
	for _, it := range s.Items {
		out = append(out, it.Name)
	}
	return out
}
