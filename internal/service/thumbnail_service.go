package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"mime"
	"net/http"
	"strings"

	"clipstream/internal/models"
	"clipstream/internal/storage"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	ThumbnailMaxSize       = 720
	ThumbnailJPEGQuality   = 82
	ThumbnailWebPQuality   = 70
	DefaultThumbnailSizeMB = 5
)

// UploadThumbnailInput is one raw thumbnail payload.
type UploadThumbnailInput struct {
	UserID      uint
	Filename    string
	ContentType string
	Content     []byte
}

// Thumbnail is the stored result. WebP is the canonical URL; the JPEG
// fallback is kept for clients that cannot decode WebP.
type Thumbnail struct {
	URL         string `json:"url"`
	FallbackURL string `json:"fallback_url"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
}

// ThumbnailService normalizes uploaded poster frames: decode, downscale to
// the ladder size, re-encode as WebP plus a JPEG fallback.
type ThumbnailService struct {
	store              storage.ObjectStore
	maxUploadSizeBytes int64
}

// NewThumbnailService creates a new thumbnail service. maxUploadSizeMB of
// zero falls back to the default.
func NewThumbnailService(store storage.ObjectStore, maxUploadSizeMB int) *ThumbnailService {
	if maxUploadSizeMB <= 0 {
		maxUploadSizeMB = DefaultThumbnailSizeMB
	}
	return &ThumbnailService{
		store:              store,
		maxUploadSizeBytes: int64(maxUploadSizeMB) * 1024 * 1024,
	}
}

func (s *ThumbnailService) Upload(ctx context.Context, in UploadThumbnailInput) (*Thumbnail, error) {
	if in.UserID == 0 {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	if len(in.Content) == 0 {
		return nil, models.NewValidationError("No file uploaded")
	}
	if int64(len(in.Content)) > s.maxUploadSizeBytes {
		return nil, models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxUploadSizeBytes/(1024*1024)))
	}

	detectedType := http.DetectContentType(in.Content)
	if !isAllowedThumbnailMIME(detectedType) {
		return nil, models.NewValidationError("Invalid image type")
	}

	decoded, _, err := image.Decode(bytes.NewReader(in.Content))
	if err != nil {
		return nil, models.NewValidationError("Invalid image file")
	}

	scaled := resizeToFit(decoded, ThumbnailMaxSize, ThumbnailMaxSize)

	encodedWebP, err := encodeWebP(scaled, ThumbnailWebPQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	encodedJPEG, err := encodeJPEG(scaled, ThumbnailJPEGQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	stored, err := s.store.Save(ctx, storage.ObjectInput{
		Filename:    "thumbnail.webp",
		ContentType: "image/webp",
		Content:     encodedWebP,
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	fallback, err := s.store.Save(ctx, storage.ObjectInput{
		Filename:    "thumbnail.jpg",
		ContentType: "image/jpeg",
		Content:     encodedJPEG,
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	b := scaled.Bounds()
	return &Thumbnail{
		URL:         stored.URL,
		FallbackURL: fallback.URL,
		Width:       b.Dx(),
		Height:      b.Dy(),
	}, nil
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scaleW := float64(maxWidth) / float64(w)
	scaleH := float64(maxHeight) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAllowedThumbnailMIME(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}
	switch strings.ToLower(mediaType) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}
