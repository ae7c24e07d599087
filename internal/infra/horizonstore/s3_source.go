package horizonstore

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yanqian/skyplan/internal/domain/astro"
	"github.com/yanqian/skyplan/internal/domain/observer"
)

// maxHorizonBytes bounds how much of a horizon file is read.
const maxHorizonBytes = 1 << 20

// S3Options configures the S3-compatible bucket holding horizon files.
type S3Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	Region    string
	UseSSL    bool
}

// S3Source loads horizon files from an S3-compatible bucket (S3, R2, MinIO).
type S3Source struct {
	client *minio.Client
	bucket string
	prefix string
	logger *slog.Logger
}

// NewS3Source constructs the source adapter.
func NewS3Source(opts S3Options, logger *slog.Logger) (*S3Source, error) {
	if logger == nil {
		logger = slog.Default()
	}
	useSSL := opts.UseSSL
	if strings.HasPrefix(strings.ToLower(opts.Endpoint), "http://") {
		useSSL = false
	}
	client, err := minio.New(sanitizeEndpoint(opts.Endpoint), &minio.Options{
		Creds:        credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure:       useSSL,
		Region:       opts.Region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init horizon store client: %w", err)
	}
	return &S3Source{
		client: client,
		bucket: opts.Bucket,
		prefix: opts.Prefix,
		logger: logger.With("component", "horizonstore.s3"),
	}, nil
}

// Load implements observer.HorizonSource. A missing object is an error;
// unparseable lines inside an existing object are skipped.
func (s *S3Source) Load(ctx context.Context, key string) (astro.HorizonProfile, error) {
	name := objectKey(s.prefix, key)
	obj, err := s.client.GetObject(ctx, s.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get horizon %s: %w", name, err)
	}
	defer obj.Close()
	info, err := obj.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat horizon %s: %w", name, err)
	}
	if info.Size > maxHorizonBytes {
		s.logger.Warn("horizon file truncated", "key", name, "size", info.Size)
	}
	profile := astro.ParseHorizonProfile(io.LimitReader(obj, maxHorizonBytes))
	s.logger.Debug("horizon loaded", "key", name, "points", len(profile))
	return profile, nil
}

func objectKey(prefix, key string) string {
	key = strings.TrimLeft(key, "/")
	if prefix == "" {
		return key
	}
	return path.Join(prefix, key)
}

// sanitizeEndpoint removes schemes and paths to satisfy minio.New expectations.
func sanitizeEndpoint(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	if i := strings.Index(raw, "/"); i >= 0 {
		raw = raw[:i]
	}
	return raw
}

var _ observer.HorizonSource = (*S3Source)(nil)
