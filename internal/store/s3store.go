package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Store is a Store backed by an S3-compatible bucket, mirroring the
// original relay's object layout (metadata/<id>.json, file/<id>.<k>).
type S3Store struct {
	client *s3.Client
	bucket string
}

// NewS3Store loads AWS credentials and region from the process environment
// (the default credential chain) and returns a Store bound to bucket.
func NewS3Store(ctx context.Context, bucket string) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return &S3Store{client: s3.NewFromConfig(cfg), bucket: bucket}, nil
}

func isNoSuchKey(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var notFound *types.NotFound
	return errors.As(err, &notFound)
}

func (s *S3Store) get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	if isNoSuchKey(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", key, err)
	}
	return data, nil
}

func (s *S3Store) put(ctx context.Context, key string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}

func (s *S3Store) PutMetadata(ctx context.Context, id string, data []byte) error {
	return s.put(ctx, metadataKey(id), data)
}

func (s *S3Store) GetMetadata(ctx context.Context, id string) ([]byte, error) {
	return s.get(ctx, metadataKey(id))
}

func (s *S3Store) PutBlock(ctx context.Context, id string, seq int, data []byte) error {
	return s.put(ctx, blockKey(id, seq), data)
}

func (s *S3Store) GetBlock(ctx context.Context, id string, seq int) ([]byte, error) {
	return s.get(ctx, blockKey(id, seq))
}

func (s *S3Store) ListShares(ctx context.Context) ([]string, error) {
	var ids []string
	var token *string

	for {
		out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            &s.bucket,
			Prefix:            aws.String(metadataPrefix),
			ContinuationToken: token,
		})
		if err != nil {
			return nil, fmt.Errorf("list metadata objects: %w", err)
		}

		for _, obj := range out.Contents {
			name := strings.TrimPrefix(*obj.Key, metadataPrefix)
			name = strings.TrimSuffix(name, ".json")
			ids = append(ids, name)
		}

		if out.IsTruncated == nil || !*out.IsTruncated {
			break
		}
		token = out.NextContinuationToken
	}

	return ids, nil
}

func (s *S3Store) DeleteShare(ctx context.Context, id string) error {
	if err := s.deleteKey(ctx, metadataKey(id)); err != nil {
		return err
	}

	prefix := blockPrefix + id + "."
	var token *string
	for {
		out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            &s.bucket,
			Prefix:            &prefix,
			ContinuationToken: token,
		})
		if err != nil {
			return fmt.Errorf("list blocks for %s: %w", id, err)
		}

		for _, obj := range out.Contents {
			if err := s.deleteKey(ctx, *obj.Key); err != nil {
				return err
			}
		}

		if out.IsTruncated == nil || !*out.IsTruncated {
			break
		}
		token = out.NextContinuationToken
	}

	return nil
}

func (s *S3Store) deleteKey(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	if err != nil && !isNoSuchKey(err) {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}
