package objects

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/lakefront/bucketview/pkg/store"
)

// DeleteFailedError aggregates the per-item failures of a bulk delete.
// Items that were deleted before or alongside the failures stay deleted;
// the operation is best-effort, not transactional.
type DeleteFailedError struct {
	// Items are the failed identifiers in backend return order.
	Items []store.DeleteError
}

// Error lists every failed key with its backend-supplied code.
func (e *DeleteFailedError) Error() string {
	reasons := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		key := item.Key
		if key == "" {
			key = "n/a"
		}
		code := item.Code
		if code == "" {
			code = "n/a"
		}
		reasons = append(reasons, fmt.Sprintf("%s (%s)", key, code))
	}
	return "Could not delete object(s) " + strings.Join(reasons, ", ")
}

// DeleteObjects deletes the given object versions in batches of at most
// the backend's per-call cap, sequentially and in input order.
//
// The returned slice holds every successfully deleted item, even when
// the operation fails overall. Per-item failures are collected across
// all batches and reported as one DeleteFailedError; a transport failure
// aborts before later batches are attempted. Nothing is rolled back in
// either case.
func (s *Service) DeleteObjects(ctx context.Context, bucket string, objects []store.ObjectIdentifier) ([]store.DeletedObject, error) {
	deleted := []store.DeletedObject{}
	var failed []store.DeleteError

	for start := 0; start < len(objects); start += s.batchSize {
		end := start + s.batchSize
		if end > len(objects) {
			end = len(objects)
		}
		batch := objects[start:end]

		if err := s.waitForRateLimit(ctx); err != nil {
			return deleted, err
		}

		result, err := s.store.DeleteObjects(ctx, bucket, batch, false)
		if err != nil {
			// Already-issued batches are not undone.
			return deleted, err
		}

		deleted = append(deleted, result.Deleted...)
		failed = append(failed, result.Errors...)
	}

	if len(failed) > 0 {
		s.log.Warn("bulk delete completed with failures",
			zap.String("bucket", bucket),
			zap.Int("deleted", len(deleted)),
			zap.Int("failed", len(failed)))
		return deleted, &DeleteFailedError{Items: failed}
	}

	s.log.Debug("bulk delete completed",
		zap.String("bucket", bucket),
		zap.Int("deleted", len(deleted)))

	return deleted, nil
}

// DeleteObject deletes one key. With AllVersions set, the key's entire
// version history - every version and every delete marker - is removed;
// otherwise only the named version is, where an empty version id means
// the current version (which itself leaves a delete marker in a
// versioning-enabled bucket).
func (s *Service) DeleteObject(ctx context.Context, bucket string, req DeleteObjectRequest) ([]store.DeletedObject, error) {
	var objects []store.ObjectIdentifier

	if req.AllVersions {
		history, err := s.ListObjectVersions(ctx, bucket, ListVersionsRequest{
			Prefix: req.Key,
			Strict: true,
		})
		if err != nil {
			return nil, err
		}
		for _, obj := range history {
			if obj.Type != KindObject {
				continue
			}
			objects = append(objects, store.ObjectIdentifier{
				Key:       obj.Key,
				VersionID: obj.VersionID,
			})
		}
	} else {
		objects = []store.ObjectIdentifier{{Key: req.Key, VersionID: req.VersionID}}
	}

	return s.DeleteObjects(ctx, bucket, objects)
}

// DeleteByPrefix deletes every object under a prefix, descending into
// synthesized folders. In the default mode only current live versions
// are targeted (an unversioned delete per key, leaving markers in a
// versioned bucket); AllVersions additionally targets every historic
// version and delete marker by its own version id.
//
// A prefix matching nothing is not an error: the result is empty and no
// delete call is issued.
func (s *Service) DeleteByPrefix(ctx context.Context, bucket string, req DeleteByPrefixRequest) ([]store.DeletedObject, error) {
	delimiter := req.Delimiter
	if delimiter == "" {
		delimiter = KeyDelimiter
	}

	objects, err := s.collectByPrefix(ctx, bucket, req.Prefix, delimiter, req.AllVersions)
	if err != nil {
		return nil, err
	}

	s.log.Debug("prefix delete collected targets",
		zap.String("bucket", bucket),
		zap.String("prefix", req.Prefix),
		zap.Bool("all_versions", req.AllVersions),
		zap.Int("count", len(objects)))

	return s.DeleteObjects(ctx, bucket, objects)
}

// collectByPrefix enumerates the delete targets under one prefix,
// recursing into each folder row the listing synthesizes.
func (s *Service) collectByPrefix(ctx context.Context, bucket, prefix, delimiter string, allVersions bool) ([]store.ObjectIdentifier, error) {
	entries, err := s.ListObjectVersions(ctx, bucket, ListVersionsRequest{
		Prefix:    prefix,
		Delimiter: delimiter,
	})
	if err != nil {
		return nil, err
	}

	var objects []store.ObjectIdentifier
	for _, obj := range entries {
		if !(allVersions || (obj.IsLatest && !obj.IsDeleted)) {
			continue
		}
		if obj.Type == KindObject {
			versionID := ""
			if allVersions {
				versionID = obj.VersionID
			}
			objects = append(objects, store.ObjectIdentifier{Key: obj.Key, VersionID: versionID})
			continue
		}
		// Folder row: descend.
		sub, err := s.collectByPrefix(ctx, bucket, obj.Key+delimiter, delimiter, allVersions)
		if err != nil {
			return nil, err
		}
		objects = append(objects, sub...)
	}

	return objects, nil
}
