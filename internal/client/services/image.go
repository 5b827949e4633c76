package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/philosophies/internal/client/config"
	"github.com/dmitrijs2005/philosophies/internal/logging"
	"golang.org/x/crypto/blake2b"
)

const MaxImageSize = 5 << 20

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) ObjectPutter {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// ObjectPutter is the part of the S3 client the uploader needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ImageService turns an image file into a URL usable as an article image.
type ImageService interface {
	// Upload checks that data is an image of at most MaxImageSize bytes and
	// returns its URL. It fails with ErrNotImage or ErrImageTooLarge.
	Upload(ctx context.Context, data []byte) (string, error)
}

// NewImageService uploads to the configured bucket, or, when no bucket is
// configured, returns images inline as data: URLs.
func NewImageService(ctx context.Context, cfg config.StorageConfig, logger logging.Logger) (ImageService, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	if !cfg.Enabled() {
		return dataURLImages{}, nil
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load storage config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
			o.UsePathStyle = true
		}
	})
	return newS3Images(client, cfg, logger), nil
}

// sniffImage validates data and returns its content type.
func sniffImage(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrNotImage
	}
	if len(data) > MaxImageSize {
		return "", ErrImageTooLarge
	}
	ct := http.DetectContentType(data)
	if !strings.HasPrefix(ct, "image/") {
		return "", fmt.Errorf("%w: detected %s", ErrNotImage, ct)
	}
	return ct, nil
}

type dataURLImages struct{}

func (dataURLImages) Upload(_ context.Context, data []byte) (string, error) {
	ct, err := sniffImage(data)
	if err != nil {
		return "", err
	}
	return "data:" + ct + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

type s3Images struct {
	client     ObjectPutter
	bucket     string
	publicBase string
	logger     logging.Logger
}

func newS3Images(client ObjectPutter, cfg config.StorageConfig, logger logging.Logger) *s3Images {
	base := strings.TrimRight(cfg.PublicBaseURL, "/")
	if base == "" {
		base = strings.TrimRight(cfg.BaseEndpoint, "/") + "/" + cfg.Bucket
	}
	return &s3Images{client: client, bucket: cfg.Bucket, publicBase: base, logger: logger}
}

var imageExt = map[string]string{
	"image/png":                ".png",
	"image/jpeg":               ".jpg",
	"image/gif":                ".gif",
	"image/webp":               ".webp",
	"image/bmp":                ".bmp",
	"image/x-icon":             ".ico",
	"image/vnd.microsoft.icon": ".ico",
}

// objectKey names an image by its content, so uploading the same file
// twice yields the same object.
func objectKey(data []byte, contentType string) string {
	sum := blake2b.Sum256(data)
	return "images/" + hex.EncodeToString(sum[:16]) + imageExt[contentType]
}

func (s *s3Images) Upload(ctx context.Context, data []byte) (string, error) {
	ct, err := sniffImage(data)
	if err != nil {
		return "", err
	}

	key := objectKey(data, ct)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(ct),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}

	s.logger.Info(ctx, "image uploaded", "bucket", s.bucket, "key", key, "bytes", len(data))
	return s.publicBase + "/" + key, nil
}
