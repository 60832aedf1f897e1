package repository

import (
	"context"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/debemdeboas/insights/internal/model"
)

// Environment variables holding the object store credentials. When unset,
// the default AWS credential chain applies.
const (
	EnvS3AccessKeyID     = "INSIGHTS_S3_ACCESS_KEY_ID"
	EnvS3SecretAccessKey = "INSIGHTS_S3_SECRET_ACCESS_KEY"
)

type objectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads the posts document from an S3-compatible bucket.
type S3Source struct { // implements Source
	client objectGetter
	bucket string
	key    string
}

func NewS3Source(ctx context.Context, bucket, key, region, endpoint string) (*S3Source, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}

	accessKeyID, secret := os.Getenv(EnvS3AccessKeyID), os.Getenv(EnvS3SecretAccessKey)
	if accessKeyID != "" && secret != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKeyID, secret, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3Source(client, bucket, key), nil
}

func newS3Source(client objectGetter, bucket, key string) *S3Source {
	return &S3Source{client: client, bucket: bucket, key: key}
}

func (s *S3Source) String() string {
	return "s3://" + s.bucket + "/" + s.key
}

func (s *S3Source) Fetch(ctx context.Context) (model.Collection, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, &TransportError{Source: s.String(), Err: err}
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, &TransportError{Source: s.String(), Err: err}
	}

	return decodeDocument(s.key, data)
}
