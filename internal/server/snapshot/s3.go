// Package snapshot persists the in-memory post store to S3-compatible object
// storage (MinIO in development) so posts survive restarts without a database.
package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	sc "github.com/dmitrijs2005/gophblog/internal/server/config"
	"github.com/dmitrijs2005/gophblog/internal/server/repositories/posts"
)

type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) objectAPI {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// Store reads and writes a single JSON object holding a posts.Snapshot.
type Store struct {
	client objectAPI
	bucket string
	key    string
}

// NewS3Store builds a client from the S3* settings of cfg. Path-style
// addressing is used so MinIO endpoints work unchanged.
func NewS3Store(ctx context.Context, cfg *sc.Config) (*Store, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(cfg.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3RootUser,     // MINIO_ROOT_USER
			cfg.S3RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("error loading aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return &Store{client: client, bucket: cfg.S3Bucket, key: cfg.S3SnapshotKey}, nil
}

func (s *Store) Save(ctx context.Context, snap posts.Snapshot) error {
	body, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("error uploading snapshot: %w", err)
	}
	return nil
}

// Load fetches the snapshot. ok is false when no snapshot has been saved yet.
func (s *Store) Load(ctx context.Context) (snap posts.Snapshot, ok bool, err error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return posts.Snapshot{}, false, nil
		}
		return posts.Snapshot{}, false, fmt.Errorf("error downloading snapshot: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return posts.Snapshot{}, false, err
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		return posts.Snapshot{}, false, fmt.Errorf("corrupt snapshot: %w", err)
	}
	return snap, true, nil
}
