package server

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"clipstream/internal/models"
)

func TestCreateVideoMetadata(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	uploader := createServerTestUser(t, s.db, "uploader")

	app := newTestApp(uploader.ID)
	app.Post("/videos", s.CreateVideo)

	resp := postJSON(t, app, "/videos",
		`{"url":"/media/abc.mp4","title":"First clip","description":"hello","duration":12.5}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var created models.Video
	decodeJSONBody(t, resp, &created)
	if created.ID == 0 || created.UserID != uploader.ID {
		t.Fatalf("unexpected video: %+v", created)
	}
	if created.LikeCount != 0 {
		t.Fatalf("new video must start with zero likes, got %d", created.LikeCount)
	}

	// Metadata without a URL is rejected.
	resp = postJSON(t, app, "/videos", `{"title":"no url"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestGetVideo(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	owner := createServerTestUser(t, s.db, "owner")
	video := createServerTestVideo(t, s.db, owner.ID)

	app := newTestApp(0)
	app.Get("/videos/:id", s.GetVideo)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, fmt.Sprintf("/videos/%d", video.ID), nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var got models.Video
	decodeJSONBody(t, resp, &got)
	if got.ID != video.ID || got.Liked {
		t.Fatalf("unexpected video: %+v", got)
	}
	if got.User.Username != owner.Username {
		t.Fatalf("expected embedded owner, got %+v", got.User)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/videos/999", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestGetUserVideos(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	owner := createServerTestUser(t, s.db, "owner")
	other := createServerTestUser(t, s.db, "other")
	seedHandlerFeed(t, s.db, owner.ID, 4)
	createServerTestVideo(t, s.db, other.ID)

	app := newTestApp(0)
	app.Get("/users/:id/videos", s.GetUserVideos)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, fmt.Sprintf("/users/%d/videos", owner.ID), nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	var body struct {
		Videos []models.Video `json:"videos"`
	}
	decodeJSONBody(t, resp, &body)
	if len(body.Videos) != 4 {
		t.Fatalf("expected 4 videos, got %d", len(body.Videos))
	}
	for _, v := range body.Videos {
		if v.UserID != owner.ID {
			t.Fatalf("video %d belongs to user %d", v.ID, v.UserID)
		}
	}
}

// buildMultipart builds a single-file multipart body with an explicit part
// content type.
func buildMultipart(t *testing.T, field, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func TestUploadVideo(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	uploader := createServerTestUser(t, s.db, "uploader")

	app := newTestApp(uploader.ID)
	app.Post("/uploads/video", s.UploadVideo)

	body, contentType := buildMultipart(t, "file", "clip.mp4", "video/mp4", []byte("fake mp4 payload"))
	req := httptest.NewRequest(http.MethodPost, "/uploads/video", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var stored struct {
		Key string `json:"key"`
		URL string `json:"url"`
	}
	decodeJSONBody(t, resp, &stored)
	if stored.URL == "" || stored.Key == "" {
		t.Fatalf("expected stored object, got %+v", stored)
	}

	// A non-video payload is rejected before it reaches the store.
	body, contentType = buildMultipart(t, "file", "notes.txt", "text/plain", []byte("not a video"))
	req = httptest.NewRequest(http.MethodPost, "/uploads/video", body)
	req.Header.Set("Content-Type", contentType)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-video, got %d", resp.StatusCode)
	}

	// Missing file part.
	req = httptest.NewRequest(http.MethodPost, "/uploads/video", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 without file, got %d", resp.StatusCode)
	}
}

func TestUploadThumbnail(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	uploader := createServerTestUser(t, s.db, "uploader")

	app := newTestApp(uploader.ID)
	app.Post("/uploads/thumbnail", s.UploadThumbnail)

	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		img.Set(y, y, color.RGBA{R: 255, A: 255})
	}
	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}

	body, contentType := buildMultipart(t, "file", "poster.png", "image/png", pngBuf.Bytes())
	req := httptest.NewRequest(http.MethodPost, "/uploads/thumbnail", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var thumb struct {
		URL         string `json:"url"`
		FallbackURL string `json:"fallback_url"`
		Width       int    `json:"width"`
		Height      int    `json:"height"`
	}
	decodeJSONBody(t, resp, &thumb)
	if thumb.URL == "" || thumb.Width != 64 || thumb.Height != 64 {
		t.Fatalf("unexpected thumbnail: %+v", thumb)
	}

	// Junk content is rejected by the decoder.
	body, contentType = buildMultipart(t, "file", "poster.png", "image/png", []byte("junk"))
	req = httptest.NewRequest(http.MethodPost, "/uploads/thumbnail", body)
	req.Header.Set("Content-Type", contentType)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for junk image, got %d", resp.StatusCode)
	}
}
