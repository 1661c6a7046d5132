// Package vision はGoogle Cloud Vision APIを使用したプライマリ検出器を提供します。
package vision

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // DecodeConfig 用
	_ "image/jpeg" // DecodeConfig 用
	_ "image/png"  // DecodeConfig 用

	gvision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"

	"meal_backend/internal/feature/mealdetection/domain/entity"
	"meal_backend/internal/feature/mealdetection/usecase"
)

const (
	// DefaultMaxResults は物体・ラベルそれぞれの最大取得件数です。
	DefaultMaxResults = 20

	sourceObjects = "object_localization"
	sourceLabels  = "label_detection"
)

// VisionDetector はGoogle Cloud Vision APIで物体位置とラベルを検出します。
type VisionDetector struct {
	client     *gvision.ImageAnnotatorClient
	maxResults int32
}

// VisionDetectorがPrimaryDetectorを実装していることをコンパイル時に検証します。
var _ usecase.PrimaryDetector = (*VisionDetector)(nil)

// NewVisionDetector はADCを使用してVisionDetectorの新しいインスタンスを生成します。
// maxResults が0以下の場合は DefaultMaxResults を使います。
func NewVisionDetector(ctx context.Context, maxResults int) (*VisionDetector, error) {
	client, err := gvision.NewImageAnnotatorClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create vision client: %w", err)
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	return &VisionDetector{client: client, maxResults: int32(maxResults)}, nil
}

// Close はVision APIクライアントを解放します。
func (v *VisionDetector) Close() error {
	return v.client.Close()
}

// DetectPrimary は画像バイト列から物体（ボックス付き）とラベルを検出します。
func (v *VisionDetector) DetectPrimary(ctx context.Context, imageData []byte) (*entity.PrimaryDetection, error) {
	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: imageData},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_OBJECT_LOCALIZATION, MaxResults: v.maxResults},
					{Type: visionpb.Feature_LABEL_DETECTION, MaxResults: v.maxResults},
				},
			},
		},
	}

	resp, err := v.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("vision API request failed: %w", err)
	}

	if len(resp.Responses) == 0 {
		return &entity.PrimaryDetection{ImageSize: imageSize(imageData)}, nil
	}

	if resp.Responses[0].Error != nil {
		return nil, fmt.Errorf("vision API error: %s", resp.Responses[0].Error.Message)
	}

	return toPrimaryDetection(resp.Responses[0], imageSize(imageData)), nil
}

// toPrimaryDetection はVision APIの応答をドメインモデルに変換します。
func toPrimaryDetection(r *visionpb.AnnotateImageResponse, size *entity.ImageSize) *entity.PrimaryDetection {
	out := &entity.PrimaryDetection{ImageSize: size}

	objs := r.GetLocalizedObjectAnnotations()
	out.Objects = make([]entity.RawDetection, 0, len(objs))
	for _, o := range objs {
		out.Objects = append(out.Objects, entity.RawDetection{
			Name:        o.GetName(),
			Kind:        entity.KindObject,
			BoundingBox: boundingBox(o.GetBoundingPoly()),
			Confidence:  o.GetScore(),
		})
	}

	labels := r.GetLabelAnnotations()
	out.Labels = make([]entity.RawDetection, 0, len(labels))
	for _, l := range labels {
		out.Labels = append(out.Labels, entity.RawDetection{
			Name:       l.GetDescription(),
			Kind:       entity.KindLabel,
			Confidence: l.GetScore(),
		})
	}

	switch {
	case len(out.Objects) > 0:
		out.ChosenSource = sourceObjects
	case len(out.Labels) > 0:
		out.ChosenSource = sourceLabels
	}
	return out
}

// boundingBox は正規化頂点の外接矩形を返します。頂点がない場合は nil です。
func boundingBox(poly *visionpb.BoundingPoly) *entity.BoundingBox {
	verts := poly.GetNormalizedVertices()
	if len(verts) == 0 {
		return nil
	}
	minX, minY := verts[0].GetX(), verts[0].GetY()
	maxX, maxY := minX, minY
	for _, p := range verts[1:] {
		minX, maxX = min(minX, p.GetX()), max(maxX, p.GetX())
		minY, maxY = min(minY, p.GetY()), max(maxY, p.GetY())
	}
	return &entity.BoundingBox{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// imageSize は画像ヘッダーからピクセルサイズを読み取ります。未知の形式は nil です。
func imageSize(imageData []byte) *entity.ImageSize {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(imageData))
	if err != nil {
		return nil
	}
	return &entity.ImageSize{Width: cfg.Width, Height: cfg.Height}
}
