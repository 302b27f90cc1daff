// Package s3store хранит blob-объекты в S3-совместимом bucket,
// условная запись выражена через If-Match / If-None-Match.
package s3store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/m04kA/SMC-AvailabilityService/internal/infra/blobstore"
)

const contentTypeJSON = "application/json"

// Client подмножество API S3, которое использует хранилище
type Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// Config параметры подключения к S3
type Config struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
}

// NewClient создает S3-клиент со статическими ключами и path-style адресацией
func NewClient(cfg Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

// Store blob-хранилище поверх S3
type Store struct {
	client Client
	bucket string
}

func NewStore(client Client, bucket string) *Store {
	return &Store{client: client, bucket: bucket}
}

func (s *Store) Get(ctx context.Context, key string) (*blobstore.Object, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, blobstore.ErrNotFound
		}
		return nil, fmt.Errorf("%w: Get - get object: %v", blobstore.ErrUnavailable, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: Get - read body: %v", blobstore.ErrUnavailable, err)
	}

	obj := &blobstore.Object{
		Key:  key,
		Data: data,
		ETag: aws.ToString(out.ETag),
	}
	if out.LastModified != nil {
		obj.UpdatedAt = out.LastModified.UTC()
	}
	return obj, nil
}

func (s *Store) Put(ctx context.Context, key string, data []byte) (string, error) {
	if key == "" {
		return "", blobstore.ErrInvalidKey
	}

	out, err := s.client.PutObject(ctx, s.putInput(key, data))
	if err != nil {
		return "", fmt.Errorf("%w: Put - put object: %v", blobstore.ErrUnavailable, err)
	}
	return aws.ToString(out.ETag), nil
}

func (s *Store) PutIfMatch(ctx context.Context, key string, data []byte, etag string) (string, error) {
	if key == "" {
		return "", blobstore.ErrInvalidKey
	}

	input := s.putInput(key, data)
	if etag == "" {
		input.IfNoneMatch = aws.String("*")
	} else {
		input.IfMatch = aws.String(etag)
	}

	out, err := s.client.PutObject(ctx, input)
	if err != nil {
		if isPreconditionFailed(err) {
			return "", blobstore.ErrPreconditionFailed
		}
		return "", fmt.Errorf("%w: PutIfMatch - put object: %v", blobstore.ErrUnavailable, err)
	}
	return aws.ToString(out.ETag), nil
}

func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	keys := make([]string, 0)

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: List - list objects: %v", blobstore.ErrUnavailable, err)
		}
		for _, obj := range page.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
	}

	sort.Strings(keys)
	return keys, nil
}

func (s *Store) putInput(key string, data []byte) *s3.PutObjectInput {
	return &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String(contentTypeJSON),
		CacheControl: aws.String("no-store"),
	}
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == "NotFound" || apiErr.ErrorCode() == "NoSuchKey"
	}
	return false
}

func isPreconditionFailed(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "PreconditionFailed", "ConditionalRequestConflict", "NoSuchKey":
			return true
		}
	}
	var statusErr interface{ HTTPStatusCode() int }
	if errors.As(err, &statusErr) {
		code := statusErr.HTTPStatusCode()
		return code == http.StatusPreconditionFailed || code == http.StatusConflict
	}
	return strings.Contains(err.Error(), "PreconditionFailed")
}
