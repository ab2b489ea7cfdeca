// Package blobstore wraps S3 object storage for image blobs: upload on
// ingest and batch presigned-URL resolution on read.
package blobstore

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

// urlTTL is how long a resolved access URL stays valid.
const urlTTL = time.Hour

// UploadAPI is the subset of the S3 client used for ingest.
type UploadAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// PresignAPI is the subset of the S3 presign client used for reads.
type PresignAPI interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Store handles image blob storage in a single S3 bucket.
type Store struct {
	uploader  UploadAPI
	presigner PresignAPI
	bucket    string
}

// New creates a Store backed by an S3 client.
func New(client *s3.Client, bucket string) *Store {
	return &Store{
		uploader:  client,
		presigner: s3.NewPresignClient(client),
		bucket:    bucket,
	}
}

// Upload stores one image blob under the given key.
func (s *Store) Upload(ctx context.Context, key, contentType string, body io.Reader) error {
	_, err := s.uploader.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}

// ResolveURLs resolves each storage key to a time-limited access URL.
// Resolutions run concurrently and are isolated: one key's failure is
// logged and yields an empty URL without affecting its siblings. Empty
// input keys resolve to empty URLs. Output order matches input order.
func (s *Store) ResolveURLs(ctx context.Context, keys []string) []string {
	urls := make([]string, len(keys))

	var wg sync.WaitGroup
	for i, key := range keys {
		if key == "" {
			continue
		}
		wg.Add(1)
		go func(i int, key string) {
			defer wg.Done()
			req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
				Bucket: aws.String(s.bucket),
				Key:    aws.String(key),
			}, func(o *s3.PresignOptions) {
				o.Expires = urlTTL
			})
			if err != nil {
				log.Error().Err(err).Str("key", key).Msg("Failed to sign object URL")
				return
			}
			urls[i] = req.URL
		}(i, key)
	}
	wg.Wait()

	return urls
}
