// Package handler はmealdetectionフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"meal_backend/internal/api"
	"meal_backend/internal/feature/mealdetection/domain/entity"
	"meal_backend/internal/feature/mealdetection/usecase"
)

// multipartOverhead はフォームのヘッダー分としてボディ上限に上乗せするバイト数です。
const multipartOverhead = 1 << 20

// MealDetectionUsecase は食事検出のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type MealDetectionUsecase interface {
	Detect(ctx context.Context, imageData []byte, mode entity.Mode) (*entity.DetectionResult, error)
}

// DetectionRunLister は検出履歴の読み出しを行います。
type DetectionRunLister interface {
	ListRecent(ctx context.Context, limit int) ([]*entity.DetectionRun, error)
}

// MealDetectionHandler は食事検出のHTTPリクエストを処理します。
type MealDetectionHandler struct {
	uc           MealDetectionUsecase
	runs         DetectionRunLister
	maxImageSize int64
}

// NewMealDetectionHandler はMealDetectionHandlerの新しいインスタンスを生成します。
// runs が nil の場合、履歴エンドポイントは 503 を返します。
func NewMealDetectionHandler(uc MealDetectionUsecase, runs DetectionRunLister, maxImageSize int) *MealDetectionHandler {
	if maxImageSize <= 0 {
		maxImageSize = usecase.MaxImageSize
	}
	return &MealDetectionHandler{uc: uc, runs: runs, maxImageSize: int64(maxImageSize)}
}

// Detect は画像をアップロードして食品アイテムを検出します。
//
// エンドポイント: POST /v1/meals/detect?mode=primary-first|secondary-first
// Content-Type: multipart/form-data
// フィールド: image（画像ファイル、最大10MB）
func (h *MealDetectionHandler) Detect(c *gin.Context) {
	params, err := api.BindDetectMealParams(c.Request.URL.Query())
	if err != nil {
		slog.Warn("クエリパラメータの解析に失敗", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "クエリパラメータが不正です"})
		return
	}
	var mode entity.Mode
	if params.Mode != nil {
		mode = entity.Mode(*params.Mode)
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxImageSize+multipartOverhead)

	file, err := c.FormFile("image")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			slog.Warn("画像サイズが上限を超えています", "limit", maxErr.Limit, "remote_addr", c.ClientIP())
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "画像サイズが上限を超えています"})
			return
		}
		slog.Warn("画像ファイルの取得に失敗", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "画像ファイルが必要です"})
		return
	}

	f, err := file.Open()
	if err != nil {
		slog.Error("画像ファイルのオープンに失敗", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "画像の読み込みに失敗しました"})
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("画像ファイルのクローズに失敗", "error", err)
		}
	}()

	imageData, err := io.ReadAll(f)
	if err != nil {
		slog.Error("画像データの読み取りに失敗", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "画像の読み込みに失敗しました"})
		return
	}

	res, err := h.uc.Detect(c.Request.Context(), imageData, mode)
	if err != nil {
		status, msg := detectErrorStatus(err)
		slog.Error("食事検出に失敗", "error", err, "mode", mode, "status", status)
		c.JSON(status, api.ErrorResponse{Error: msg})
		return
	}

	c.JSON(http.StatusOK, ToDetectResponse(res))
}

// ListDetections は直近の検出履歴を新しい順に返します。
//
// エンドポイント: GET /v1/meals/detections?limit=N
func (h *MealDetectionHandler) ListDetections(c *gin.Context) {
	if h.runs == nil {
		c.JSON(http.StatusServiceUnavailable, api.ErrorResponse{Error: "検出履歴は無効です"})
		return
	}

	params, err := api.BindListDetectionsParams(c.Request.URL.Query())
	if err != nil {
		slog.Warn("クエリパラメータの解析に失敗", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "limit は整数で指定してください"})
		return
	}
	limit := 0
	if params.Limit != nil {
		limit = *params.Limit
	}

	runs, err := h.runs.ListRecent(c.Request.Context(), limit)
	if err != nil {
		slog.Error("検出履歴の取得に失敗", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "検出履歴の取得に失敗しました"})
		return
	}

	out := make([]api.DetectionRunResponse, 0, len(runs))
	for _, r := range runs {
		out = append(out, toDetectionRunResponse(r))
	}
	c.JSON(http.StatusOK, out)
}

// detectErrorStatus はユースケースのエラーをHTTPステータスとメッセージに変換します。
func detectErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, usecase.ErrEmptyImage):
		return http.StatusBadRequest, "画像が空です"
	case errors.Is(err, usecase.ErrImageTooLarge):
		return http.StatusBadRequest, "画像サイズが上限を超えています"
	case errors.Is(err, usecase.ErrInvalidMode):
		return http.StatusBadRequest, "mode は primary-first または secondary-first を指定してください"
	case errors.Is(err, usecase.ErrPrimaryDetection):
		return http.StatusBadGateway, "食事検出に失敗しました"
	default:
		return http.StatusInternalServerError, "内部エラーが発生しました"
	}
}
