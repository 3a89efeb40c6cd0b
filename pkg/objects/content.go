package objects

import (
	"context"

	"go.uber.org/zap"

	"github.com/lakefront/bucketview/pkg/store"
)

// DownloadObject opens the content stream of one object version. The
// caller owns closing the returned body.
func (s *Service) DownloadObject(ctx context.Context, bucket string, req ObjectRequest) (*store.ObjectBody, error) {
	c, ok := s.content()
	if !ok {
		return nil, errUnsupported
	}
	return c.GetObjectBody(ctx, bucket, req.Key, req.VersionID)
}

// UploadObject stores the request body as the new current version of
// the key. In a versioning-enabled bucket prior versions stay intact.
func (s *Service) UploadObject(ctx context.Context, bucket string, req UploadObjectRequest) error {
	c, ok := s.content()
	if !ok {
		return errUnsupported
	}

	if err := c.PutObjectBody(ctx, bucket, req.Key, req.Body, req.Size, req.ContentType); err != nil {
		return err
	}

	s.log.Info("uploaded object",
		zap.String("bucket", bucket),
		zap.String("key", req.Key),
		zap.Int64("size", req.Size))

	return nil
}
