// Package s3 implements the object get/put helpers used to move invoice
// documents in and out of bucket storage.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"

	apperrors "ieutils/pkg/errors"
	"ieutils/pkg/observability"
)

// API is the subset of the S3 client used by the object store
type API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ObjectStore reads and writes whole objects by bucket and key
type ObjectStore struct {
	api    API
	logger *zap.Logger
}

// NewObjectStore creates an ObjectStore
func NewObjectStore(api API, logger *zap.Logger) *ObjectStore {
	return &ObjectStore{
		api:    api,
		logger: logger,
	}
}

// Get fetches the object body. A missing key surfaces as a typed
// not-found error, recognizable via errors.IsNotFound.
func (o *ObjectStore) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	var body []byte
	err := observability.Trace(ctx, "s3.get_object", func(ctx context.Context) error {
		result, err := o.api.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			if isNotFound(err) {
				return apperrors.NewNotFoundError(fmt.Sprintf("object s3://%s/%s", bucket, key))
			}
			return apperrors.NewExternalError("s3 get object", err)
		}
		defer result.Body.Close()

		body, err = io.ReadAll(result.Body)
		if err != nil {
			return apperrors.NewExternalError("s3 read object body", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	o.logger.Debug("Fetched object from s3",
		zap.String("bucket", bucket),
		zap.String("key", key),
		zap.Int("size", len(body)),
	)
	return body, nil
}

// Put stores body under the given bucket and key
func (o *ObjectStore) Put(ctx context.Context, bucket, key string, body []byte) error {
	err := observability.Trace(ctx, "s3.put_object", func(ctx context.Context) error {
		_, err := o.api.PutObject(ctx, &s3.PutObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
			Body:   bytes.NewReader(body),
		})
		if err != nil {
			return apperrors.NewExternalError("s3 put object", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	o.logger.Debug("Stored object to s3",
		zap.String("bucket", bucket),
		zap.String("key", key),
		zap.Int("size", len(body)),
	)
	return nil
}

// isNotFound classifies missing-object errors. NoSuchKey covers GetObject;
// the generic NotFound code covers responses without a modeled type.
func isNotFound(err error) bool {
	var noSuchKey *s3types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "NotFound"
}
