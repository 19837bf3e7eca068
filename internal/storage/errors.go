package storage

import (
	"errors"
	"fmt"

	"github.com/minio/minio-go/v7"
)

var (
	ErrBucketNotFound = errors.New("publish: bucket not found")
	ErrAccessDenied   = errors.New("publish: access denied")
	ErrStorageFull    = errors.New("publish: storage full")
	ErrPublishFailed  = errors.New("publish: upload failed")
)

// mapMinioErr turns S3 error codes into publish errors. Anything unknown is
// wrapped in ErrPublishFailed with the original message.
func mapMinioErr(err error) error {
	if err == nil {
		return nil
	}
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchBucket":
		return ErrBucketNotFound
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
		return ErrAccessDenied
	case "XMinioStorageFull", "EntityTooLarge":
		return ErrStorageFull
	default:
		return fmt.Errorf("%w: %v", ErrPublishFailed, err)
	}
}
