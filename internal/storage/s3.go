package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"
)

// S3Configuration holds the settings of the S3 driver. Each logical bucket maps
// to the S3 bucket BucketPrefix+bucket.
type S3Configuration struct {
	Region          string
	BucketPrefix    string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
	PublicBaseURL   string
}

type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
}

// maxDeleteBatch is the per-request key limit of DeleteObjects.
const maxDeleteBatch = 1000

// S3 is the AWS S3 (or S3 compatible) driver.
type S3 struct {
	client s3API
	cfg    S3Configuration
	log    *zap.Logger
}

func NewS3(ctx context.Context, cfg S3Configuration, log *zap.Logger) (*S3, error) {
	if cfg.Region == "" {
		return nil, fmt.Errorf("S3 region must not be empty")
	}
	if log == nil {
		log = zap.NewNop()
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.EndpointResolver = s3.EndpointResolverFromURL(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	log.Debug("S3 storage enabled", zap.String("region", cfg.Region), zap.String("bucket_prefix", cfg.BucketPrefix))
	return &S3{client: client, cfg: cfg, log: log}, nil
}

func (s *S3) bucketName(bucket string) string {
	return s.cfg.BucketPrefix + bucket
}

func (s *S3) Upload(ctx context.Context, bucket, key string, body io.Reader, _ int64, contentType string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName(bucket)),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s/%s: %w", bucket, key, err)
	}
	return nil
}

func (s *S3) Remove(ctx context.Context, bucket string, keys ...string) error {
	var errs []error
	ids := make([]types.ObjectIdentifier, 0, len(keys))
	for _, key := range keys {
		if err := validateKey(key); err != nil {
			errs = append(errs, err)
			continue
		}
		ids = append(ids, types.ObjectIdentifier{Key: aws.String(key)})
	}

	for start := 0; start < len(ids); start += maxDeleteBatch {
		end := min(start+maxDeleteBatch, len(ids))
		out, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(s.bucketName(bucket)),
			Delete: &types.Delete{Objects: ids[start:end], Quiet: true},
		})
		if err != nil {
			s.log.Error("could not delete objects", zap.String("bucket", bucket), zap.Int("count", end-start), zap.Error(err))
			errs = append(errs, fmt.Errorf("failed to delete %d objects from %s: %w", end-start, bucket, err))
			continue
		}
		for _, e := range out.Errors {
			key := aws.ToString(e.Key)
			s.log.Error("could not delete object", zap.String("bucket", bucket), zap.String("key", key),
				zap.String("code", aws.ToString(e.Code)), zap.String("message", aws.ToString(e.Message)))
			errs = append(errs, fmt.Errorf("failed to delete %s/%s: %s", bucket, key, aws.ToString(e.Code)))
		}
	}
	return errors.Join(errs...)
}

func (s *S3) publicPrefix(bucket string) string {
	if s.cfg.PublicBaseURL != "" {
		return s.cfg.PublicBaseURL + "/" + s.bucketName(bucket) + "/"
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", s.bucketName(bucket), s.cfg.Region)
}

func (s *S3) PublicURL(bucket, key string) string {
	return s.publicPrefix(bucket) + key
}

func (s *S3) KeyFromURL(bucket, url string) (string, bool) {
	return keyFromPrefix(s.publicPrefix(bucket), url)
}
