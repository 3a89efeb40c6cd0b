package objects

import (
	"context"
	"errors"
	"sync"

	"github.com/lakefront/bucketview/pkg/store"
)

// errUnsupported is returned when the configured store lacks an optional
// capability an endpoint needs.
var errUnsupported = errors.New("store does not support this operation")

// GetObject returns the view record for a single object version, built
// from its metadata.
func (s *Service) GetObject(ctx context.Context, bucket string, req ObjectRequest) (*Object, error) {
	h, ok := s.header()
	if !ok {
		return nil, errUnsupported
	}

	meta, err := h.HeadObject(ctx, bucket, req.Key, req.VersionID)
	if err != nil {
		return nil, err
	}

	size := meta.Size
	obj := &Object{
		Key:       req.Key,
		Name:      KeyName(req.Key),
		Type:      KindObject,
		VersionID: meta.VersionID,
		Size:      &size,
	}
	if meta.ETag != "" {
		etag := meta.ETag
		obj.ETag = &etag
	}
	if !meta.LastModified.IsZero() {
		t := meta.LastModified
		obj.LastModified = &t
	}
	if meta.ContentType != "" {
		ct := meta.ContentType
		obj.ContentType = &ct
	}
	if meta.LockMode != "" {
		mode := meta.LockMode
		obj.ObjectLockMode = &mode
	}
	if meta.LockRetainUntil != nil {
		t := *meta.LockRetainUntil
		obj.ObjectLockRetainUntilDate = &t
	}
	if meta.LegalHoldStatus != "" {
		status := meta.LegalHoldStatus
		obj.ObjectLockLegalHoldStatus = &status
	}

	return obj, nil
}

// ObjectExists reports whether the object version exists. Any failure
// other than not-found propagates unchanged.
func (s *Service) ObjectExists(ctx context.Context, bucket string, req ObjectRequest) (bool, error) {
	_, err := s.GetObject(ctx, bucket, req)
	if err != nil {
		if store.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// GetObjectTagging returns the object's tag set. A missing tag set is a
// valid empty state.
func (s *Service) GetObjectTagging(ctx context.Context, bucket string, req ObjectRequest) ([]store.Tag, error) {
	t, ok := s.tagger()
	if !ok {
		return nil, errUnsupported
	}
	return t.GetObjectTagging(ctx, bucket, req.Key, req.VersionID)
}

// SetObjectTagging replaces the object's tag set, reporting success.
func (s *Service) SetObjectTagging(ctx context.Context, bucket string, req SetObjectTaggingRequest) (bool, error) {
	t, ok := s.tagger()
	if !ok {
		return false, errUnsupported
	}
	if err := t.PutObjectTagging(ctx, bucket, req.Key, req.VersionID, req.TagSet); err != nil {
		return false, nil
	}
	return true, nil
}

// GetObjectRetention returns the object's retention lock, or nil when
// object lock is not configured for the bucket.
func (s *Service) GetObjectRetention(ctx context.Context, bucket string, req ObjectRequest) (*store.Retention, error) {
	lm, ok := s.lockManager()
	if !ok {
		return nil, errUnsupported
	}
	return lm.GetObjectRetention(ctx, bucket, req.Key, req.VersionID)
}

// GetObjectLegalHold returns the object's legal hold, or nil when object
// lock is not configured for the bucket.
func (s *Service) GetObjectLegalHold(ctx context.Context, bucket string, req ObjectRequest) (*store.LegalHold, error) {
	lm, ok := s.lockManager()
	if !ok {
		return nil, errUnsupported
	}
	return lm.GetObjectLegalHold(ctx, bucket, req.Key, req.VersionID)
}

// SetObjectLegalHold sets the object's legal hold, reporting success.
func (s *Service) SetObjectLegalHold(ctx context.Context, bucket string, req SetLegalHoldRequest) (bool, error) {
	lm, ok := s.lockManager()
	if !ok {
		return false, errUnsupported
	}
	if err := lm.PutObjectLegalHold(ctx, bucket, req.Key, req.VersionID, req.LegalHold); err != nil {
		return false, nil
	}
	return true, nil
}

// GetObjectAttributes aggregates the object's metadata and tag set. The
// two lookups run concurrently; either failure fails the aggregate.
func (s *Service) GetObjectAttributes(ctx context.Context, bucket string, req ObjectRequest) (*ObjectAttributes, error) {
	var (
		wg      sync.WaitGroup
		obj     *Object
		objErr  error
		tags    []store.Tag
		tagsErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		obj, objErr = s.GetObject(ctx, bucket, req)
	}()
	go func() {
		defer wg.Done()
		tags, tagsErr = s.GetObjectTagging(ctx, bucket, req)
	}()
	wg.Wait()

	if objErr != nil {
		return nil, objErr
	}
	if tagsErr != nil {
		return nil, tagsErr
	}

	return &ObjectAttributes{Object: *obj, TagSet: tags}, nil
}
