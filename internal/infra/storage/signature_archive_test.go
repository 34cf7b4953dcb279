package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// 1x1 transparent png
const pixel = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="

type MockS3 struct {
	mock.Mock
}

func (m *MockS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func TestDecodeDataURL(t *testing.T) {
	contentType, body, err := DecodeDataURL(pixel)
	require.NoError(t, err)
	assert.Equal(t, "image/png", contentType)
	assert.Equal(t, []byte("\x89PNG"), body[:4])

	for _, bad := range []string{
		"",
		"iVBORw0KGgo=",
		"data:text/plain;base64,aGVsbG8=",
		"data:image/png,raw",
		"data:image/png;base64,!!!",
		"data:image/png;base64,",
	} {
		_, _, err := DecodeDataURL(bad)
		assert.ErrorIs(t, err, ErrInvalidDataURL, bad)
	}
}

func TestStoreSignatureUploadsDecodedImage(t *testing.T) {
	client := new(MockS3)
	client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		body, _ := io.ReadAll(in.Body)
		return aws.ToString(in.Bucket) == "agency-signatures" &&
			aws.ToString(in.Key) == "signatures/sp-1.png" &&
			aws.ToString(in.ContentType) == "image/png" &&
			len(body) > 0
	})).Return(&s3.PutObjectOutput{}, nil)

	key, err := newSignatureArchive(client, "agency-signatures", "").StoreSignature(context.Background(), "sp-1", pixel)

	require.NoError(t, err)
	assert.Equal(t, "signatures/sp-1.png", key)
	client.AssertExpectations(t)
}

func TestStoreSignatureWrapsUploadError(t *testing.T) {
	client := new(MockS3)
	client.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

	_, err := newSignatureArchive(client, "b", "/archive/").StoreSignature(context.Background(), "sp-1", pixel)

	assert.ErrorContains(t, err, "access denied")
}
