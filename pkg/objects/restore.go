package objects

import (
	"context"

	"go.uber.org/zap"

	"github.com/lakefront/bucketview/pkg/store"
)

// RestoreObject reinstates an object that was deleted or superseded.
//
// The key's version history is walked to find its delete markers; every
// marker is removed first, which un-hides the newest remaining version.
// The requested version (or the current one, when the version id is
// empty) is then copied onto the key as a new current version, carrying
// its metadata and tags.
//
// If the copy fails after markers were removed, the object is left live
// at whatever version the marker removal exposed: the failure is
// reported, but no compensating re-delete is attempted.
func (s *Service) RestoreObject(ctx context.Context, bucket string, req RestoreObjectRequest) error {
	history, err := s.ListObjectVersions(ctx, bucket, ListVersionsRequest{
		Prefix: req.Key,
		Strict: true,
	})
	if err != nil {
		return err
	}

	var markers []store.ObjectIdentifier
	for _, obj := range history {
		if obj.IsDeleted {
			markers = append(markers, store.ObjectIdentifier{
				Key:       obj.Key,
				VersionID: obj.VersionID,
			})
		}
	}

	if len(markers) > 0 {
		if _, err := s.DeleteObjects(ctx, bucket, markers); err != nil {
			return err
		}
		s.log.Debug("removed delete markers",
			zap.String("bucket", bucket),
			zap.String("key", req.Key),
			zap.Int("count", len(markers)))
	}

	src := store.ObjectIdentifier{Key: req.Key, VersionID: req.VersionID}
	if _, err := s.store.CopyObject(ctx, bucket, src, req.Key); err != nil {
		return err
	}

	s.log.Info("restored object",
		zap.String("bucket", bucket),
		zap.String("key", req.Key),
		zap.String("version_id", req.VersionID))

	return nil
}
