// Package store keeps the set of item URLs already announced.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// S3API is the part of the S3 client used here.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Store reads and writes a JSON array of URLs at one bucket/key.
type Store struct {
	client S3API
	bucket string
	key    string
}

func New(client S3API, bucket, key string) *Store {
	return &Store{client: client, bucket: bucket, key: key}
}

// Load returns the stored URLs. A missing object is an empty set.
func (s *Store) Load(ctx context.Context) ([]string, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		if isNoSuchKey(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("get object s3://%s/%s: %w", s.bucket, s.key, err)
	}
	defer out.Body.Close()

	urls := make([]string, 0)
	if err := json.NewDecoder(out.Body).Decode(&urls); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return urls, nil
}

// Save replaces the stored URLs.
func (s *Store) Save(ctx context.Context, urls []string) error {
	if urls == nil {
		urls = []string{}
	}
	body, err := json.Marshal(urls)
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}

	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	}); err != nil {
		return fmt.Errorf("put object s3://%s/%s: %w", s.bucket, s.key, err)
	}
	return nil
}

// Merge returns the sorted union of known and current.
func Merge(known, current []string) []string {
	set := make(map[string]struct{}, len(known)+len(current))
	for _, u := range known {
		set[u] = struct{}{}
	}
	for _, u := range current {
		set[u] = struct{}{}
	}

	merged := make([]string, 0, len(set))
	for u := range set {
		merged = append(merged, u)
	}
	sort.Strings(merged)
	return merged
}

func isNoSuchKey(err error) bool {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchKey"
}
