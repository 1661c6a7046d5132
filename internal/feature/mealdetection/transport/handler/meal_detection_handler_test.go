package handler_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meal_backend/internal/feature/mealdetection/domain/entity"
	"meal_backend/internal/feature/mealdetection/transport/handler"
	"meal_backend/internal/feature/mealdetection/usecase"
)

// mockMealDetectionUsecase はMealDetectionUsecaseインターフェースのモック実装です。
type mockMealDetectionUsecase struct {
	DetectFunc  func(ctx context.Context, imageData []byte, mode entity.Mode) (*entity.DetectionResult, error)
	DetectCalls int
	LastMode    entity.Mode
}

func (m *mockMealDetectionUsecase) Detect(ctx context.Context, imageData []byte, mode entity.Mode) (*entity.DetectionResult, error) {
	m.DetectCalls++
	m.LastMode = mode
	return m.DetectFunc(ctx, imageData, mode)
}

// mockDetectionRunLister はDetectionRunListerインターフェースのモック実装です。
type mockDetectionRunLister struct {
	ListRecentFunc func(ctx context.Context, limit int) ([]*entity.DetectionRun, error)
	LastLimit      int
}

func (m *mockDetectionRunLister) ListRecent(ctx context.Context, limit int) ([]*entity.DetectionRun, error) {
	m.LastLimit = limit
	return m.ListRecentFunc(ctx, limit)
}

// createMultipartRequest はテスト用のマルチパートリクエストを生成するヘルパー関数です。
func createMultipartRequest(t *testing.T, target, fieldName, fileName string, content []byte) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile(fieldName, fileName)
	require.NoError(t, err, "failed to create form file")

	_, err = io.Copy(part, bytes.NewReader(content))
	require.NoError(t, err, "failed to copy content")
	require.NoError(t, writer.Close(), "failed to close writer")

	req, err := http.NewRequest(http.MethodPost, target, body)
	require.NoError(t, err, "failed to create request")
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return req
}

func f32(v float32) *float32 { return &v }

func salmonResult() *entity.DetectionResult {
	salmon := entity.FusedFoodItem{
		CanonicalName: "salmon",
		BoundingBox:   &entity.BoundingBox{X: 0.1, Y: 0.2, Width: 0.5, Height: 0.25},
		Confidence:    f32(0.75),
	}
	salmon.OriginSet.Add(entity.SourcePrimary)
	salmon.OriginSet.Add(entity.SourceSecondary)
	rice := entity.FusedFoodItem{CanonicalName: "rice"}
	rice.OriginSet.Add(entity.SourceSecondary)

	return &entity.DetectionResult{
		Items:    []entity.FusedFoodItem{salmon, rice},
		Portions: map[string]entity.Portion{"salmon": {Grams: 120, Confidence: 0.5}},
		Primary: &entity.PrimaryDetection{
			Objects: []entity.RawDetection{{
				Name: "Salmon", Kind: entity.KindObject, Confidence: 0.75,
				BoundingBox: &entity.BoundingBox{X: 0.1, Y: 0.2, Width: 0.5, Height: 0.25},
			}},
			ImageSize:    &entity.ImageSize{Width: 640, Height: 480},
			ChosenSource: "object_localization",
		},
		Secondary: &entity.SecondaryDetection{
			Items: []entity.SecondaryItem{{Name: "salmon"}, {Name: "rice"}},
			Model: "gemini-2.5-flash",
		},
		Path: entity.PathVisionFirst,
		Diagnostics: entity.Diagnostics{
			Mode:             entity.ModePrimaryFirst,
			Gate:             entity.GateFewItems,
			PrimaryCount:     1,
			SecondaryCount:   2,
			FusedCount:       2,
			SecondaryCalled:  true,
			SecondaryOutcome: entity.OutcomeSuccess,
			Elapsed:          1234 * time.Millisecond,
		},
	}
}

const salmonJSON = `{
	"items": [
		{"name":"salmon","origin":"both","confidence":0.75,"boundingBox":{"x":0.1,"y":0.2,"width":0.5,"height":0.25}},
		{"name":"rice","origin":"secondary"}
	],
	"portions": {"salmon":{"grams":120,"confidence":0.5}},
	"source": "vision-first",
	"raw": {
		"primary": {
			"objects":[{"name":"Salmon","kind":"object","confidence":0.75,"boundingBox":{"x":0.1,"y":0.2,"width":0.5,"height":0.25}}],
			"labels":[],
			"imageWidth":640,
			"imageHeight":480,
			"chosenSource":"object_localization"
		},
		"secondary": {"names":["salmon","rice"],"model":"gemini-2.5-flash"}
	},
	"diagnostics": {
		"mode":"primary-first",
		"gate":"few-items",
		"primaryCount":1,
		"secondaryCount":2,
		"fusedCount":2,
		"secondaryCalled":true,
		"elapsedMs":1234
	}
}`

func TestMealDetectionHandler_Detect(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		setupRequest   func(t *testing.T) *http.Request
		mockFunc       func(ctx context.Context, imageData []byte, mode entity.Mode) (*entity.DetectionResult, error)
		expectedStatus int
		expectedBody   string
		expectedMode   entity.Mode
		expectedCalls  int
	}{
		{
			name: "success: items detected",
			setupRequest: func(t *testing.T) *http.Request {
				return createMultipartRequest(t, "/meals/detect", "image", "meal.jpg", []byte("fake-image"))
			},
			mockFunc: func(ctx context.Context, imageData []byte, mode entity.Mode) (*entity.DetectionResult, error) {
				return salmonResult(), nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   salmonJSON,
			expectedCalls:  1,
		},
		{
			name: "success: mode override is passed through",
			setupRequest: func(t *testing.T) *http.Request {
				return createMultipartRequest(t, "/meals/detect?mode=secondary-first", "image", "meal.jpg", []byte("fake-image"))
			},
			mockFunc: func(ctx context.Context, imageData []byte, mode entity.Mode) (*entity.DetectionResult, error) {
				return &entity.DetectionResult{
					Path:     entity.PathVision,
					Portions: map[string]entity.Portion{},
					Diagnostics: entity.Diagnostics{
						Mode:             entity.ModeSecondaryFirst,
						SecondaryCalled:  true,
						SecondaryOutcome: entity.OutcomeTimeout,
						SecondaryError:   "timed out",
						FallbackCalled:   true,
					},
				}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody: `{
				"items":[],"portions":{},"source":"vision","raw":{},
				"diagnostics":{
					"mode":"secondary-first","secondaryCalled":true,"secondaryOutcome":"timeout",
					"secondaryError":"timed out","fallbackCalled":true,"preFilterCount":0,"postFilterCount":0,
					"droppedNonFood":0,"droppedCategory":0,"droppedCondiment":0,"elapsedMs":0
				}
			}`,
			expectedMode:  entity.ModeSecondaryFirst,
			expectedCalls: 1,
		},
		{
			name: "error: no image field",
			setupRequest: func(t *testing.T) *http.Request {
				req, _ := http.NewRequest(http.MethodPost, "/meals/detect", io.NopCloser(bytes.NewReader(nil)))
				return req
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"画像ファイルが必要です"}`,
		},
		{
			name: "error: empty image",
			setupRequest: func(t *testing.T) *http.Request {
				return createMultipartRequest(t, "/meals/detect", "image", "meal.jpg", nil)
			},
			mockFunc: func(ctx context.Context, imageData []byte, mode entity.Mode) (*entity.DetectionResult, error) {
				return nil, usecase.ErrEmptyImage
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"画像が空です"}`,
			expectedCalls:  1,
		},
		{
			name: "error: invalid mode",
			setupRequest: func(t *testing.T) *http.Request {
				return createMultipartRequest(t, "/meals/detect?mode=fast", "image", "meal.jpg", []byte("fake-image"))
			},
			mockFunc: func(ctx context.Context, imageData []byte, mode entity.Mode) (*entity.DetectionResult, error) {
				return nil, fmt.Errorf("%w: %q", usecase.ErrInvalidMode, mode)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"mode は primary-first または secondary-first を指定してください"}`,
			expectedMode:   entity.Mode("fast"),
			expectedCalls:  1,
		},
		{
			name: "error: primary detector failure",
			setupRequest: func(t *testing.T) *http.Request {
				return createMultipartRequest(t, "/meals/detect", "image", "meal.jpg", []byte("fake-image"))
			},
			mockFunc: func(ctx context.Context, imageData []byte, mode entity.Mode) (*entity.DetectionResult, error) {
				return nil, fmt.Errorf("%w: %w", usecase.ErrPrimaryDetection, errors.New("vision API error"))
			},
			expectedStatus: http.StatusBadGateway,
			expectedBody:   `{"error":"食事検出に失敗しました"}`,
			expectedCalls:  1,
		},
		{
			name: "error: unexpected failure",
			setupRequest: func(t *testing.T) *http.Request {
				return createMultipartRequest(t, "/meals/detect", "image", "meal.jpg", []byte("fake-image"))
			},
			mockFunc: func(ctx context.Context, imageData []byte, mode entity.Mode) (*entity.DetectionResult, error) {
				return nil, errors.New("boom")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"内部エラーが発生しました"}`,
			expectedCalls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUC := &mockMealDetectionUsecase{DetectFunc: tt.mockFunc}
			h := handler.NewMealDetectionHandler(mockUC, nil, 0)

			router := gin.New()
			router.POST("/meals/detect", h.Detect)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, tt.setupRequest(t))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			assert.Equal(t, tt.expectedCalls, mockUC.DetectCalls)
			assert.Equal(t, tt.expectedMode, mockUC.LastMode)
		})
	}
}

func TestMealDetectionHandler_Detect_BodyTooLarge(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockUC := &mockMealDetectionUsecase{}
	// 上限 1 バイト + multipart のオーバーヘッド 1MB を超える本文
	h := handler.NewMealDetectionHandler(mockUC, nil, 1)

	router := gin.New()
	router.POST("/meals/detect", h.Detect)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, createMultipartRequest(t, "/meals/detect", "image", "meal.jpg", bytes.Repeat([]byte("x"), 2<<20)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"画像サイズが上限を超えています"}`, w.Body.String())
	assert.Zero(t, mockUC.DetectCalls)
}

func TestMealDetectionHandler_ListDetections(t *testing.T) {
	gin.SetMode(gin.TestMode)

	created := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

	tests := []struct {
		name           string
		query          string
		mockFunc       func(ctx context.Context, limit int) ([]*entity.DetectionRun, error)
		expectedStatus int
		expectedBody   string
		expectedLimit  int
	}{
		{
			name:  "success: runs listed",
			query: "?limit=5",
			mockFunc: func(ctx context.Context, limit int) ([]*entity.DetectionRun, error) {
				return []*entity.DetectionRun{{
					ID:              "run-1",
					Mode:            entity.ModePrimaryFirst,
					Path:            entity.PathVisionOnly,
					Gate:            entity.GateNotNeeded,
					ItemNames:       []string{"salmon"},
					Elapsed:         250 * time.Millisecond,
					CreatedAt:       created,
					SecondaryCalled: false,
				}}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody: `[{
				"id":"run-1","mode":"primary-first","source":"vision-only","gate":"not-needed",
				"secondaryCalled":false,"fallbackCalled":false,"items":["salmon"],
				"elapsedMs":250,"createdAt":"2026-03-04T05:06:07Z"
			}]`,
			expectedLimit: 5,
		},
		{
			name:  "success: empty history",
			query: "",
			mockFunc: func(ctx context.Context, limit int) ([]*entity.DetectionRun, error) {
				return nil, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `[]`,
			expectedLimit:  0,
		},
		{
			name:           "error: invalid limit",
			query:          "?limit=abc",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"limit は整数で指定してください"}`,
		},
		{
			name:  "error: repository failure",
			query: "?limit=3",
			mockFunc: func(ctx context.Context, limit int) ([]*entity.DetectionRun, error) {
				return nil, errors.New("db down")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"検出履歴の取得に失敗しました"}`,
			expectedLimit:  3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lister := &mockDetectionRunLister{ListRecentFunc: tt.mockFunc}
			h := handler.NewMealDetectionHandler(&mockMealDetectionUsecase{}, lister, 0)

			router := gin.New()
			router.GET("/meals/detections", h.ListDetections)

			w := httptest.NewRecorder()
			req, err := http.NewRequest(http.MethodGet, "/meals/detections"+tt.query, nil)
			require.NoError(t, err)
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			assert.Equal(t, tt.expectedLimit, lister.LastLimit)
		})
	}
}

func TestMealDetectionHandler_ListDetections_Disabled(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := handler.NewMealDetectionHandler(&mockMealDetectionUsecase{}, nil, 0)

	router := gin.New()
	router.GET("/meals/detections", h.ListDetections)

	w := httptest.NewRecorder()
	req, err := http.NewRequest(http.MethodGet, "/meals/detections", nil)
	require.NoError(t, err)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"error":"検出履歴は無効です"}`, w.Body.String())
}
