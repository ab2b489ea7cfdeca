package blobstore

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakePresigner struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]bool
}

func (f *fakePresigner) PresignGetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	f.mu.Lock()
	f.calls = append(f.calls, *in.Key)
	f.mu.Unlock()

	if f.fail[*in.Key] {
		return nil, errors.New("signer unavailable")
	}
	return &v4.PresignedHTTPRequest{URL: "https://signed.example/" + *in.Key}, nil
}

type fakeUploader struct {
	inputs []*s3.PutObjectInput
	bodies []string
	err    error
}

func (f *fakeUploader) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.inputs = append(f.inputs, in)
	body, _ := io.ReadAll(in.Body)
	f.bodies = append(f.bodies, string(body))
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestResolveURLs_OrderPreserved(t *testing.T) {
	store := &Store{presigner: &fakePresigner{}, bucket: "crops"}

	keys := []string{"images/a.jpg", "images/b.jpg", "images/c.jpg"}
	urls := store.ResolveURLs(context.Background(), keys)

	if len(urls) != len(keys) {
		t.Fatalf("expected %d urls, got %d", len(keys), len(urls))
	}
	for i, key := range keys {
		expected := "https://signed.example/" + key
		if urls[i] != expected {
			t.Errorf("url %d: expected %q, got %q", i, expected, urls[i])
		}
	}
}

func TestResolveURLs_FailureIsolated(t *testing.T) {
	presigner := &fakePresigner{fail: map[string]bool{"images/c.jpg": true}}
	store := &Store{presigner: presigner, bucket: "crops"}

	keys := []string{"images/a.jpg", "images/b.jpg", "images/c.jpg", "images/d.jpg", "images/e.jpg"}
	urls := store.ResolveURLs(context.Background(), keys)

	if urls[2] != "" {
		t.Errorf("expected empty url for failed key, got %q", urls[2])
	}
	for _, i := range []int{0, 1, 3, 4} {
		if urls[i] == "" {
			t.Errorf("url %d: one key's failure must not affect its siblings", i)
		}
	}
}

func TestResolveURLs_EmptyKeysSkipped(t *testing.T) {
	presigner := &fakePresigner{}
	store := &Store{presigner: presigner, bucket: "crops"}

	urls := store.ResolveURLs(context.Background(), []string{"", "images/a.jpg", ""})

	if urls[0] != "" || urls[2] != "" {
		t.Errorf("expected empty urls for empty keys, got %q / %q", urls[0], urls[2])
	}
	if urls[1] == "" {
		t.Error("expected the non-empty key resolved")
	}
	if len(presigner.calls) != 1 {
		t.Errorf("empty keys must not reach the signer, got %d calls", len(presigner.calls))
	}
}

func TestResolveURLs_NoKeys(t *testing.T) {
	store := &Store{presigner: &fakePresigner{}, bucket: "crops"}
	if urls := store.ResolveURLs(context.Background(), nil); len(urls) != 0 {
		t.Errorf("expected no urls, got %d", len(urls))
	}
}

func TestUpload(t *testing.T) {
	uploader := &fakeUploader{}
	store := &Store{uploader: uploader, bucket: "crops"}

	err := store.Upload(context.Background(), "images/img-001-leaf.jpg", "image/jpeg", strings.NewReader("blobdata"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(uploader.inputs) != 1 {
		t.Fatalf("expected one put, got %d", len(uploader.inputs))
	}

	in := uploader.inputs[0]
	if *in.Bucket != "crops" || *in.Key != "images/img-001-leaf.jpg" {
		t.Errorf("unexpected destination: %s/%s", *in.Bucket, *in.Key)
	}
	if *in.ContentType != "image/jpeg" {
		t.Errorf("expected content type forwarded, got %q", *in.ContentType)
	}
	if uploader.bodies[0] != "blobdata" {
		t.Errorf("expected body forwarded, got %q", uploader.bodies[0])
	}
}

func TestUpload_ErrorWrapped(t *testing.T) {
	boom := errors.New("access denied")
	store := &Store{uploader: &fakeUploader{err: boom}, bucket: "crops"}

	err := store.Upload(context.Background(), "images/x.jpg", "image/jpeg", strings.NewReader(""))
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped store error, got %v", err)
	}
	if err == nil || !strings.Contains(err.Error(), "images/x.jpg") {
		t.Errorf("expected the key in the error, got %v", err)
	}
}
