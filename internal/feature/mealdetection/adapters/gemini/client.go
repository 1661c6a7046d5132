// Package gemini はGoogle Gemini APIを使用したセカンダリ検出器を提供します。
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"meal_backend/internal/feature/mealdetection/domain/entity"
	"meal_backend/internal/feature/mealdetection/usecase"
)

const (
	// DefaultModel はGemini APIのデフォルトモデルです。
	DefaultModel = "gemini-2.5-flash"

	// DetectionPrompt は画像内の食品を列挙させるプロンプトです。
	DetectionPrompt = "List every distinct food visible in this meal photo. " +
		"Use short, common English names without brands or cooking instructions. " +
		"Skip plates, cutlery, packaging and garnish you cannot eat. " +
		"For each food give one category: protein, vegetable, fruit, grain, dairy, fat or other. " +
		"Also give your overall confidence between 0 and 1."
)

// responseSchema はモデルに返させるJSONの形です。
var responseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"items": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"name": {Type: genai.TypeString},
					"category": {
						Type: genai.TypeString,
						Enum: []string{"protein", "vegetable", "fruit", "grain", "dairy", "fat", "other"},
					},
				},
				Required: []string{"name"},
			},
		},
		"confidence": {Type: genai.TypeNumber},
	},
	Required: []string{"items"},
}

// GeminiDetector はGoogle Gemini APIで画像内の食品名を列挙します。
type GeminiDetector struct {
	client *genai.Client
	model  string
}

// GeminiDetectorがSecondaryDetectorを実装していることをコンパイル時に検証します。
var _ usecase.SecondaryDetector = (*GeminiDetector)(nil)

// NewGeminiDetector はADCを使用してGeminiDetectorの新しいインスタンスを生成します。
// 環境変数 GOOGLE_GENAI_USE_VERTEXAI, GOOGLE_CLOUD_PROJECT, GOOGLE_CLOUD_LOCATION
// （または GOOGLE_API_KEY）が必要です。httpClient が nil の場合はSDKの既定を使います。
func NewGeminiDetector(ctx context.Context, model string, httpClient *http.Client) (*GeminiDetector, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{HTTPClient: httpClient})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	if model == "" {
		model = DefaultModel
	}
	return &GeminiDetector{client: client, model: model}, nil
}

// DetectSecondary は画像を添付してモデルに食品名を列挙させます。
func (g *GeminiDetector) DetectSecondary(ctx context.Context, imageData []byte) (*entity.SecondaryDetection, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(DetectionPrompt),
			genai.NewPartFromBytes(imageData, http.DetectContentType(imageData)),
		}, genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0),
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema,
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini API request failed: %w", err)
	}

	return parseResponse(resp.Text(), g.model)
}

type detectionResponse struct {
	Items []struct {
		Name     string `json:"name"`
		Category string `json:"category"`
	} `json:"items"`
	Confidence float32 `json:"confidence"`
}

// parseResponse はモデルのJSON応答をドメインモデルに変換します。
// 名前が空のアイテムは捨て、未知のカテゴリは未申告として扱います。
func parseResponse(text, model string) (*entity.SecondaryDetection, error) {
	text = stripCodeFence(text)
	if text == "" {
		return &entity.SecondaryDetection{Model: model}, nil
	}

	var body detectionResponse
	if err := json.Unmarshal([]byte(text), &body); err != nil {
		return nil, fmt.Errorf("failed to decode gemini response: %w", err)
	}

	out := &entity.SecondaryDetection{
		Items:      make([]entity.SecondaryItem, 0, len(body.Items)),
		Confidence: clamp01(body.Confidence),
		Model:      model,
	}
	for _, it := range body.Items {
		name := strings.TrimSpace(it.Name)
		if name == "" {
			continue
		}
		out.Items = append(out.Items, entity.SecondaryItem{Name: name, Category: category(it.Category)})
	}
	return out, nil
}

// stripCodeFence は ```json ... ``` で囲まれた応答から中身を取り出します。
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[i+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), "```"))
}

func category(s string) entity.Category {
	switch c := entity.Category(strings.ToLower(strings.TrimSpace(s))); c {
	case entity.CategoryProtein, entity.CategoryVegetable, entity.CategoryFruit,
		entity.CategoryGrain, entity.CategoryDairy, entity.CategoryFat, entity.CategoryOther:
		return c
	}
	return ""
}

func clamp01(f float32) float32 {
	return min(max(f, 0), 1)
}
