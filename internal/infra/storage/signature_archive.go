package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// MaxSignatureBytes bounds a decoded signature image.
const MaxSignatureBytes = 2 << 20

var ErrInvalidDataURL = errors.New("signature is not a base64 image data URL")

type Config struct {
	Bucket          string
	Region          string
	Prefix          string
	AccessKeyID     string
	SecretAccessKey string
	// Endpoint targets S3-compatible stores such as MinIO.
	Endpoint string
}

type putter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// SignatureArchive copies signature images to S3 next to the database row.
type SignatureArchive struct {
	client putter
	bucket string
	prefix string
}

func NewSignatureArchive(ctx context.Context, cfg Config) (*SignatureArchive, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newSignatureArchive(client, cfg.Bucket, cfg.Prefix), nil
}

func newSignatureArchive(client putter, bucket, prefix string) *SignatureArchive {
	if prefix == "" {
		prefix = "signatures"
	}
	return &SignatureArchive{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

// StoreSignature uploads the decoded image and returns its object key.
func (a *SignatureArchive) StoreSignature(ctx context.Context, signedProposalID, dataURL string) (string, error) {
	contentType, body, err := DecodeDataURL(dataURL)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s/%s%s", a.prefix, signedProposalID, extensionFor(contentType))
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:               aws.String(a.bucket),
		Key:                  aws.String(key),
		Body:                 bytes.NewReader(body),
		ContentType:          aws.String(contentType),
		ServerSideEncryption: types.ServerSideEncryptionAes256,
		Metadata:             map[string]string{"signed-proposal-id": signedProposalID},
	})
	if err != nil {
		return "", fmt.Errorf("upload signature: %w", err)
	}
	return key, nil
}

// DecodeDataURL parses "data:image/png;base64,...".
func DecodeDataURL(dataURL string) (string, []byte, error) {
	header, payload, ok := strings.Cut(dataURL, ",")
	if !ok || !strings.HasPrefix(header, "data:image/") || !strings.HasSuffix(header, ";base64") {
		return "", nil, ErrInvalidDataURL
	}
	contentType := strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")

	if base64.StdEncoding.DecodedLen(len(payload)) > MaxSignatureBytes {
		return "", nil, fmt.Errorf("%w: image too large", ErrInvalidDataURL)
	}
	body, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	if len(body) == 0 {
		return "", nil, ErrInvalidDataURL
	}
	return contentType, body, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/svg+xml":
		return ".svg"
	case "image/webp":
		return ".webp"
	}
	return ""
}
