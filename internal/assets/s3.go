package assets

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const (
	s3PageSize       = int32(1000)
	defaultSignTTL   = time.Hour
	maxS3ListObjects = 100_000
)

// s3API is the slice of the SDK client the source needs; narrowed so tests
// can fake it.
type s3API interface {
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, opts ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

type s3Presigner interface {
	PresignGetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.PresignOptions)) (*v4PresignedRequest, error)
}

// v4PresignedRequest mirrors the field the agent reads off the SDK's
// presigned request type.
type v4PresignedRequest struct {
	URL string
}

// S3Source lists media objects under a bucket prefix and presigns GET URLs
// so the renderer can fetch them without credentials.
type S3Source struct {
	bucket  string
	prefix  string
	signTTL time.Duration
	client  s3API
	presign s3Presigner
	logger  *slog.Logger
}

// sdkPresigner adapts s3.PresignClient to the narrow interface.
type sdkPresigner struct {
	inner *s3.PresignClient
}

func (p *sdkPresigner) PresignGetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.PresignOptions)) (*v4PresignedRequest, error) {
	req, err := p.inner.PresignGetObject(ctx, in, opts...)
	if err != nil {
		return nil, err
	}
	return &v4PresignedRequest{URL: req.URL}, nil
}

// NewS3Source builds a source from the default AWS credential chain.
func NewS3Source(ctx context.Context, bucket, prefix, region string, signTTL time.Duration, logger *slog.Logger) (*S3Source, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)
	if signTTL <= 0 {
		signTTL = defaultSignTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &S3Source{
		bucket:  bucket,
		prefix:  prefix,
		signTTL: signTTL,
		client:  client,
		presign: &sdkPresigner{inner: s3.NewPresignClient(client)},
		logger:  logger,
	}, nil
}

// List pages through ListObjectsV2 and returns every media object under the
// prefix with a presigned GET URL.
func (s *S3Source) List(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	var continuation *string

	for {
		out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(s.prefix),
			MaxKeys:           aws.Int32(s3PageSize),
			ContinuationToken: continuation,
		})
		if err != nil {
			return nil, fmt.Errorf("list s3://%s/%s: %w", s.bucket, s.prefix, err)
		}

		for _, obj := range out.Contents {
			key := aws.ToString(obj.Key)
			name := path.Base(key)
			if !IsMediaFile(name) {
				continue
			}

			url, err := s.presignGet(ctx, key)
			if err != nil {
				s.logger.Warn("presign failed, listing without URL",
					"key", key, "error", err)
			}

			entries = append(entries, Entry{
				Key:         key,
				DisplayName: name,
				Kind:        KindForName(name),
				ContentType: ContentTypeForName(name),
				SizeBytes:   aws.ToInt64(obj.Size),
				URL:         url,
			})
			if len(entries) >= maxS3ListObjects {
				return entries, fmt.Errorf("s3://%s/%s: object count exceeds %d", s.bucket, s.prefix, maxS3ListObjects)
			}
		}

		if !aws.ToBool(out.IsTruncated) {
			break
		}
		continuation = out.NextContinuationToken
	}
	return entries, nil
}

// PresignGet mints a fresh time-limited GET URL for the key.
func (s *S3Source) PresignGet(ctx context.Context, key string) (string, error) {
	return s.presignGet(ctx, key)
}

func (s *S3Source) presignGet(ctx context.Context, key string) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(o *s3.PresignOptions) {
		o.Expires = s.signTTL
	})
	if err != nil {
		return "", err
	}
	return req.URL, nil
}
