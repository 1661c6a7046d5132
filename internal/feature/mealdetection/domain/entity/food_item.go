package entity

// Source は検出結果の出所です。
type Source string

const (
	SourcePrimary   Source = "primary"
	SourceSecondary Source = "secondary"
)

// Origin は OriginSet から導出される出所タグです。
type Origin string

const (
	OriginPrimary   Origin = "primary"
	OriginSecondary Origin = "secondary"
	OriginBoth      Origin = "both"
)

// Category は食品の栄養カテゴリです。
type Category string

const (
	CategoryProtein   Category = "protein"
	CategoryVegetable Category = "vegetable"
	CategoryFruit     Category = "fruit"
	CategoryGrain     Category = "grain"
	CategoryDairy     Category = "dairy"
	CategoryFat       Category = "fat"
	CategoryOther     Category = "other"
)

// OriginSet はアイテムに寄与した検出器の集合です。
type OriginSet struct {
	Primary   bool `json:"primary"`
	Secondary bool `json:"secondary"`
}

// Add は src を集合に加えます。
func (s *OriginSet) Add(src Source) {
	switch src {
	case SourcePrimary:
		s.Primary = true
	case SourceSecondary:
		s.Secondary = true
	}
}

// Has は src が集合に含まれるかを返します。
func (s OriginSet) Has(src Source) bool {
	switch src {
	case SourcePrimary:
		return s.Primary
	case SourceSecondary:
		return s.Secondary
	}
	return false
}

// Origin は集合から出所タグを導出します。空集合は不正なので空文字を返します。
func (s OriginSet) Origin() Origin {
	switch {
	case s.Primary && s.Secondary:
		return OriginBoth
	case s.Primary:
		return OriginPrimary
	case s.Secondary:
		return OriginSecondary
	}
	return ""
}

// FusedFoodItem は両検出器の結果を統合した1件の食品です。
type FusedFoodItem struct {
	CanonicalName string
	OriginSet     OriginSet
	BoundingBox   *BoundingBox // プライマリ由来の場合のみ
	Confidence    *float32     // プライマリ由来の場合のみ
	Category      Category     // secondary-first モードでのみ設定
}

// Origin は OriginSet から導出した出所タグを返します。
func (f FusedFoodItem) Origin() Origin {
	return f.OriginSet.Origin()
}

// Score はソート用の信頼度です。未設定は 0 として扱います。
func (f FusedFoodItem) Score() float32 {
	if f.Confidence == nil {
		return 0
	}
	return *f.Confidence
}
