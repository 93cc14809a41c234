// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// presignExpiry bounds how long a generated download link stays valid.
const presignExpiry = time.Hour

// S3Config holds explicit construction parameters for [NewS3].
type S3Config struct {
	Bucket   string
	Region   string
	Endpoint string // optional; R2, MinIO

	// Static credentials. Empty values fall back to the default AWS chain.
	AccessKeyID     string
	SecretAccessKey string

	PathStyle bool

	// PublicBaseURL serves objects through a CDN instead of presigned links.
	PublicBaseURL string

	// HTTPClient overrides the transport. Tests only.
	HTTPClient aws.HTTPClient
}

// S3Store implements [Store] against a single S3-compatible bucket.
type S3Store struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	baseURL string
}

// NewS3 creates an S3 blob store from cfg.
func NewS3(context context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("blob: S3_BUCKET is required for the s3 driver")
	}
	region := cfg.Region
	if region == "" {
		region = "auto"
	}

	loadOptions := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOptions = append(loadOptions, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsConfig, err := awsconfig.LoadDefaultConfig(context, loadOptions...)
	if err != nil {
		return nil, fmt.Errorf("blob: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig, func(options *s3.Options) {
		options.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			options.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		if cfg.HTTPClient != nil {
			options.HTTPClient = cfg.HTTPClient
		}
		// R2 and MinIO reject the default streaming checksum trailer.
		options.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	})

	return &S3Store{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
		baseURL: cfg.PublicBaseURL,
	}, nil
}

func (store *S3Store) Driver() Driver { return DriverS3 }

func (store *S3Store) Put(context context.Context, key string, body io.Reader, options PutOptions) (Info, error) {
	clean, err := CleanKey(key)
	if err != nil {
		return Info{}, err
	}

	// Uploads are capped by the HTTP layer, so buffering keeps the body seekable for signing.
	data, err := io.ReadAll(body)
	if err != nil {
		return Info{}, fmt.Errorf("blob: read body: %w", err)
	}

	input := &s3.PutObjectInput{
		Bucket:        aws.String(store.bucket),
		Key:           aws.String(clean),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	}
	if options.ContentType != "" {
		input.ContentType = aws.String(options.ContentType)
	}
	if len(options.Metadata) > 0 {
		input.Metadata = options.Metadata
	}
	if _, err := store.client.PutObject(context, input); err != nil {
		return Info{}, fmt.Errorf("blob: put %s: %w", clean, err)
	}

	url, err := store.URL(context, clean)
	if err != nil {
		return Info{}, err
	}
	return Info{Key: clean, Size: int64(len(data)), ContentType: options.ContentType, URL: url}, nil
}

func (store *S3Store) Get(context context.Context, key string) (Info, io.ReadCloser, error) {
	clean, err := CleanKey(key)
	if err != nil {
		return Info{}, nil, err
	}

	output, err := store.client.GetObject(context, &s3.GetObjectInput{
		Bucket: aws.String(store.bucket),
		Key:    aws.String(clean),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return Info{}, nil, ErrNotFound
		}
		return Info{}, nil, fmt.Errorf("blob: get %s: %w", clean, err)
	}

	info := Info{
		Key:         clean,
		Size:        aws.ToInt64(output.ContentLength),
		ContentType: aws.ToString(output.ContentType),
	}
	if info.URL, err = store.URL(context, clean); err != nil {
		_ = output.Body.Close()
		return Info{}, nil, err
	}
	return info, output.Body, nil
}

func (store *S3Store) Delete(context context.Context, key string) (bool, error) {
	clean, err := CleanKey(key)
	if err != nil {
		return false, err
	}

	// DeleteObject succeeds for missing keys, so probe first to report existence.
	_, err = store.client.HeadObject(context, &s3.HeadObjectInput{
		Bucket: aws.String(store.bucket),
		Key:    aws.String(clean),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("blob: head %s: %w", clean, err)
	}

	if _, err := store.client.DeleteObject(context, &s3.DeleteObjectInput{
		Bucket: aws.String(store.bucket),
		Key:    aws.String(clean),
	}); err != nil {
		return false, fmt.Errorf("blob: delete %s: %w", clean, err)
	}
	return true, nil
}

func (store *S3Store) URL(context context.Context, key string) (string, error) {
	clean, err := CleanKey(key)
	if err != nil {
		return "", err
	}
	if store.baseURL != "" {
		return joinURL(store.baseURL, clean), nil
	}

	request, err := store.presign.PresignGetObject(context, &s3.GetObjectInput{
		Bucket: aws.String(store.bucket),
		Key:    aws.String(clean),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", fmt.Errorf("blob: presign %s: %w", clean, err)
	}
	return request.URL, nil
}
