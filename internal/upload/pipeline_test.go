package upload_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sopworks/sopdb/internal/models"
	"github.com/sopworks/sopdb/internal/types"
	"github.com/sopworks/sopdb/internal/upload"
)

type fakeUploader struct {
	calls int
	media *models.Media
	err   error
}

func (f *fakeUploader) Upload(ctx context.Context, req *upload.Request) (*models.Media, error) {
	f.calls++
	return f.media, f.err
}

func imageRequest() *upload.Request {
	return &upload.Request{
		SopID:       "sop-1",
		StepID:      "step-1",
		Filename:    "photo.jpg",
		ContentType: "image/jpeg",
		Size:        4,
		Content:     []byte("data"),
	}
}

func TestMediaTypeFor(t *testing.T) {
	if mt, err := upload.MediaTypeFor("image/png"); err != nil || mt != models.MediaTypeImage {
		t.Errorf("image/png: got %q, %v", mt, err)
	}
	if mt, err := upload.MediaTypeFor("video/mp4"); err != nil || mt != models.MediaTypeVideo {
		t.Errorf("video/mp4: got %q, %v", mt, err)
	}
	if _, err := upload.MediaTypeFor("application/pdf"); !errors.Is(err, types.ErrUnsupportedFileType) {
		t.Errorf("application/pdf: expected ErrUnsupportedFileType, got %v", err)
	}
}

func TestPipelineRejectsUnsupportedTypeBeforeAnyAttempt(t *testing.T) {
	primary := &fakeUploader{err: errors.New("should not run")}
	fallback := &fakeUploader{err: errors.New("should not run")}
	p := &upload.Pipeline{Primary: primary, Fallback: fallback}

	req := imageRequest()
	req.ContentType = "application/pdf"
	_, err := p.Run(context.Background(), req)
	if !errors.Is(err, types.ErrUnsupportedFileType) {
		t.Fatalf("Expected ErrUnsupportedFileType, got %v", err)
	}
	if primary.calls != 0 || fallback.calls != 0 {
		t.Errorf("Expected no upload attempts, got primary=%d fallback=%d", primary.calls, fallback.calls)
	}
}

func TestPipelinePrimarySuccessSkipsFallback(t *testing.T) {
	primary := &fakeUploader{media: &models.Media{MediaID: "m-1"}}
	fallback := &fakeUploader{err: errors.New("should not run")}
	p := &upload.Pipeline{Primary: primary, Fallback: fallback}

	media, err := p.Run(context.Background(), imageRequest())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if media.MediaID != "m-1" {
		t.Errorf("Expected primary media, got %+v", media)
	}
	if fallback.calls != 0 {
		t.Errorf("Fallback ran %d times", fallback.calls)
	}
}

func TestPipelineFallbackRunsExactlyOnce(t *testing.T) {
	primary := &fakeUploader{err: errors.New("primary down")}
	fallback := &fakeUploader{media: &models.Media{MediaID: "m-2", Synthetic: true}}
	p := &upload.Pipeline{Primary: primary, Fallback: fallback}

	media, err := p.Run(context.Background(), imageRequest())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !media.Synthetic {
		t.Error("Expected a synthetic fallback record")
	}
	if primary.calls != 1 || fallback.calls != 1 {
		t.Errorf("Expected one attempt each, got primary=%d fallback=%d", primary.calls, fallback.calls)
	}
}

func TestPipelineBothPathsFail(t *testing.T) {
	primary := &fakeUploader{err: errors.New("primary down")}
	fallback := &fakeUploader{err: errors.New("storage down")}
	p := &upload.Pipeline{Primary: primary, Fallback: fallback}

	_, err := p.Run(context.Background(), imageRequest())
	if err == nil {
		t.Fatal("Expected an error")
	}
	if primary.calls != 1 || fallback.calls != 1 {
		t.Errorf("Expected one attempt each, got primary=%d fallback=%d", primary.calls, fallback.calls)
	}
}

func TestPipelineNoFallbackConfigured(t *testing.T) {
	primary := &fakeUploader{err: errors.New("primary down")}
	p := &upload.Pipeline{Primary: primary}

	_, err := p.Run(context.Background(), imageRequest())
	if err == nil {
		t.Fatal("Expected the primary error to surface")
	}
}

func TestServerUploaderParsesMedia(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("Bad multipart request: %v", err)
		}
		if r.FormValue("sopId") != "sop-1" || r.FormValue("stepId") != "step-1" {
			t.Errorf("Missing form fields: sopId=%q stepId=%q", r.FormValue("sopId"), r.FormValue("stepId"))
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"media":{"id":"m-3","url":"http://cdn/x.jpg","filename":"photo.jpg"}}`)
	}))
	defer server.Close()

	u := &upload.ServerUploader{URL: server.URL}
	media, err := u.Upload(context.Background(), imageRequest())
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if media.MediaID != "m-3" || media.Type != models.MediaTypeImage || media.StepID != "step-1" {
		t.Errorf("Unexpected media: %+v", media)
	}
}

func TestServerUploaderMissingMediaIsInvalidResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	u := &upload.ServerUploader{URL: server.URL}
	_, err := u.Upload(context.Background(), imageRequest())
	if !errors.Is(err, types.ErrInvalidServerResponse) {
		t.Fatalf("Expected ErrInvalidServerResponse, got %v", err)
	}
}

func TestServerUploaderEmptyBodyIsInvalidResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	u := &upload.ServerUploader{URL: server.URL}
	_, err := u.Upload(context.Background(), imageRequest())
	if !errors.Is(err, types.ErrInvalidServerResponse) {
		t.Fatalf("Expected ErrInvalidServerResponse, got %v", err)
	}
}

func TestServerUploaderSurfacesErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":"file too large"}`)
	}))
	defer server.Close()

	u := &upload.ServerUploader{URL: server.URL}
	_, err := u.Upload(context.Background(), imageRequest())
	if err == nil || !strings.Contains(err.Error(), "file too large") {
		t.Fatalf("Expected the error body in the message, got %v", err)
	}
}

type fakeStore struct {
	ensureErr error
	putErr    error
	putKey    string
}

func (f *fakeStore) EnsureBucket(ctx context.Context) error { return f.ensureErr }

func (f *fakeStore) Put(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error) {
	if f.putErr != nil {
		return "", f.putErr
	}
	f.putKey = key
	return "http://storage/bucket/" + key, nil
}

func TestDirectUploaderBuildsSyntheticRecord(t *testing.T) {
	store := &fakeStore{}
	u := &upload.DirectUploader{Store: store}

	media, err := u.Upload(context.Background(), imageRequest())
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if !media.Synthetic {
		t.Error("Expected a synthetic record")
	}
	if media.MediaID == "" {
		t.Error("Expected a generated media id")
	}
	if media.Type != models.MediaTypeImage || media.Filename != "photo.jpg" {
		t.Errorf("Unexpected media: %+v", media)
	}
	if !strings.HasPrefix(store.putKey, "sop-1/step-1/image_") || !strings.HasSuffix(store.putKey, ".jpg") {
		t.Errorf("Unexpected object key: %s", store.putKey)
	}
	if media.URL != "http://storage/bucket/"+store.putKey {
		t.Errorf("Unexpected URL: %s", media.URL)
	}
}

func TestDirectUploaderToleratesEnsureBucketFailure(t *testing.T) {
	store := &fakeStore{ensureErr: errors.New("bucket exists elsewhere")}
	u := &upload.DirectUploader{Store: store}

	if _, err := u.Upload(context.Background(), imageRequest()); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
}

func TestDirectUploaderWithoutStore(t *testing.T) {
	u := &upload.DirectUploader{}
	_, err := u.Upload(context.Background(), imageRequest())
	if !errors.Is(err, types.ErrStorageMisconfigured) {
		t.Fatalf("Expected ErrStorageMisconfigured, got %v", err)
	}
}
