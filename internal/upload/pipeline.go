// Package upload implements the two-phase media upload pipeline: a
// primary server-mediated path with a direct-to-storage fallback.
package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/sopworks/sopdb/internal/models"
	"github.com/sopworks/sopdb/internal/storage"
	"github.com/sopworks/sopdb/internal/types"
	"github.com/sopworks/sopdb/internal/utils"
)

// Request describes one file upload attempt. Content is buffered so the
// fallback path can re-read it after a primary failure.
type Request struct {
	SopID       string
	StepID      string
	Filename    string
	ContentType string
	Size        int64
	Content     []byte
	Credential  string
}

// Uploader performs a single attempt on one upload path.
type Uploader interface {
	Upload(ctx context.Context, req *Request) (*models.Media, error)
}

// Pipeline tries the primary path, then the fallback exactly once.
type Pipeline struct {
	Primary  Uploader
	Fallback Uploader
}

// MediaTypeFor maps a MIME type to a media type. Anything that is not
// image/* or video/* is rejected before any upload attempt.
func MediaTypeFor(contentType string) (string, error) {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return models.MediaTypeImage, nil
	case strings.HasPrefix(contentType, "video/"):
		return models.MediaTypeVideo, nil
	}
	return "", fmt.Errorf("%w: %s", types.ErrUnsupportedFileType, contentType)
}

// Run executes the pipeline for one file. The type check happens first and
// fails synchronously without touching either path.
func (p *Pipeline) Run(ctx context.Context, req *Request) (*models.Media, error) {
	if _, err := MediaTypeFor(req.ContentType); err != nil {
		return nil, err
	}

	var primaryErr error
	if p.Primary != nil {
		media, err := p.Primary.Upload(ctx, req)
		if err == nil {
			return media, nil
		}
		primaryErr = err
		log.Printf("[%s] primary upload failed, trying fallback: %v", utils.CorrelationID(), err)
	}

	if p.Fallback == nil {
		if primaryErr != nil {
			return nil, primaryErr
		}
		return nil, types.ErrStorageMisconfigured
	}

	media, err := p.Fallback.Upload(ctx, req)
	if err != nil {
		if primaryErr != nil {
			return nil, fmt.Errorf("fallback failed after primary error (%v): %w", primaryErr, err)
		}
		return nil, err
	}
	return media, nil
}

// ServerUploader posts the file to the legacy upload route as multipart
// form data.
type ServerUploader struct {
	URL    string
	Client *http.Client
}

// Upload sends one multipart request. The response body is read as raw
// text first to tolerate empty or non-JSON bodies; a 2xx response without
// a media field is treated as a failure.
func (u *ServerUploader) Upload(ctx context.Context, req *Request) (*models.Media, error) {
	mediaType, err := MediaTypeFor(req.ContentType)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", req.Filename)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(req.Content); err != nil {
		return nil, err
	}
	_ = w.WriteField("sopId", req.SopID)
	_ = w.WriteField("stepId", req.StepID)
	_ = w.WriteField("type", mediaType)
	if err := w.Close(); err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u.URL, &buf)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", w.FormDataContentType())
	if req.Credential != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.Credential)
	}

	client := u.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("upload route: %s", errorText(raw, resp.Status))
	}

	var body struct {
		Media *models.Media `json:"media"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || body.Media == nil {
		return nil, fmt.Errorf("%w: missing media in upload response", types.ErrInvalidServerResponse)
	}

	body.Media.Type = mediaType
	body.Media.StepID = req.StepID
	return body.Media, nil
}

// errorText pulls error/message fields out of a JSON error body, falling
// back to the HTTP status line.
func errorText(raw []byte, status string) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return status
}

// DirectUploader writes the file straight to object storage and fabricates
// the media record client-side (a synthetic record).
type DirectUploader struct {
	Store storage.ObjectStore
}

// Upload ensures the bucket (best effort), stores the object under
// {sopID}/{stepID}/{type}_{timestamp}.{ext} and returns a synthetic record
// pointing at the public URL.
func (u *DirectUploader) Upload(ctx context.Context, req *Request) (*models.Media, error) {
	if u.Store == nil {
		return nil, types.ErrStorageMisconfigured
	}

	mediaType, err := MediaTypeFor(req.ContentType)
	if err != nil {
		return nil, err
	}

	if err := u.Store.EnsureBucket(ctx); err != nil {
		// Bucket may already exist or be managed externally.
		log.Printf("ensure bucket: %v", err)
	}

	key := storage.ObjectKey(req.SopID, req.StepID, mediaType, req.Filename)
	url, err := u.Store.Put(ctx, key, req.ContentType, bytes.NewReader(req.Content), req.Size)
	if err != nil {
		return nil, err
	}

	return &models.Media{
		MediaID:     uuid.NewString(),
		StepID:      req.StepID,
		Type:        mediaType,
		URL:         url,
		Filename:    req.Filename,
		Size:        req.Size,
		DisplayMode: models.DisplayModeContain,
		Synthetic:   true,
	}, nil
}
