// Package images mirrors saved-recipe image URLs into an S3 bucket so saved
// recipes survive upstream images going away. Mirroring is best effort: on any
// failure the original URL is kept.
package images

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// maxImageBytes caps the size of a mirrored image.
const maxImageBytes = 10 << 20

// Archiver stores copies of recipe images.
type Archiver interface {
	// Mirror downloads the image at srcURL and stores it under the recipe ID.
	// Returns the archived URL, or srcURL unchanged on failure.
	Mirror(ctx context.Context, recipeID, srcURL string) string
}

// s3Archiver implements Archiver backed by an S3 bucket.
type s3Archiver struct {
	client *s3.Client
	bucket string
	region string
	prefix string
	http   *http.Client
	logger zerolog.Logger
}

// NewS3Archiver creates an S3-backed image archiver.
func NewS3Archiver(ctx context.Context, bucket, region, prefix string, logger zerolog.Logger) (Archiver, error) {
	logger = logger.With().Str("component", "s3-image-archiver").Logger()

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(cfg)

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Msg("S3 image archiver initialised")

	return &s3Archiver{
		client: client,
		bucket: bucket,
		region: region,
		prefix: prefix,
		http:   &http.Client{Timeout: 20 * time.Second},
		logger: logger,
	}, nil
}

// Mirror downloads the image and puts it into the bucket keyed by recipe ID.
func (a *s3Archiver) Mirror(ctx context.Context, recipeID, srcURL string) string {
	if srcURL == "" {
		return srcURL
	}

	data, contentType, err := a.download(ctx, srcURL)
	if err != nil {
		a.logger.Warn().Err(err).
			Str("recipe_id", recipeID).
			Str("url", srcURL).
			Msg("failed to download recipe image, keeping original URL")
		return srcURL
	}

	key := a.prefix + recipeID

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		a.logger.Warn().Err(err).
			Str("recipe_id", recipeID).
			Str("key", key).
			Msg("failed to put recipe image to S3, keeping original URL")
		return srcURL
	}

	archived := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", a.bucket, a.region, key)

	a.logger.Debug().
		Str("recipe_id", recipeID).
		Str("archived_url", archived).
		Msg("recipe image mirrored to S3")

	return archived
}

func (a *s3Archiver) download(ctx context.Context, srcURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srcURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, "", fmt.Errorf("read body: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return data, contentType, nil
}

// noopArchiver is used when S3 is disabled.
type noopArchiver struct{}

// NewNoopArchiver returns an archiver that keeps original URLs untouched.
func NewNoopArchiver() Archiver {
	return noopArchiver{}
}

func (noopArchiver) Mirror(_ context.Context, _, srcURL string) string {
	return srcURL
}
