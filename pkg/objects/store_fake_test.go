package objects

import (
	"context"
	"io"
	"strings"

	"github.com/lakefront/bucketview/pkg/store"
)

// fakeStore scripts store behavior through function fields and records
// every call it receives.
type fakeStore struct {
	listFn     func(ctx context.Context, bucket string, opts store.ListOptions) (*store.ListPage, error)
	versionsFn func(ctx context.Context, bucket string, opts store.ListVersionsOptions) (*store.VersionsPage, error)
	deleteFn   func(ctx context.Context, bucket string, objects []store.ObjectIdentifier, quiet bool) (*store.DeleteResult, error)
	copyFn     func(ctx context.Context, bucket string, src store.ObjectIdentifier, destKey string) (*store.CopyResult, error)
	headFn     func(ctx context.Context, bucket, key, versionID string) (*store.ObjectMeta, error)
	getTagsFn  func(ctx context.Context, bucket, key, versionID string) ([]store.Tag, error)
	putTagsFn  func(ctx context.Context, bucket, key, versionID string, tags []store.Tag) error
	retFn      func(ctx context.Context, bucket, key, versionID string) (*store.Retention, error)
	holdFn     func(ctx context.Context, bucket, key, versionID string) (*store.LegalHold, error)
	putHoldFn  func(ctx context.Context, bucket, key, versionID string, hold store.LegalHold) error
	getBodyFn  func(ctx context.Context, bucket, key, versionID string) (*store.ObjectBody, error)
	putBodyFn  func(ctx context.Context, bucket, key string, body io.Reader, size int64, contentType string) error

	listCalls     []store.ListOptions
	versionsCalls []store.ListVersionsOptions
	deleteCalls   [][]store.ObjectIdentifier
	copyCalls     []fakeCopyCall
	putBodyCalls  []fakePutBodyCall
}

type fakeCopyCall struct {
	src     store.ObjectIdentifier
	destKey string
}

type fakePutBodyCall struct {
	key         string
	size        int64
	contentType string
}

var (
	_ store.Store         = (*fakeStore)(nil)
	_ store.ObjectHeader  = (*fakeStore)(nil)
	_ store.Tagger        = (*fakeStore)(nil)
	_ store.LockManager   = (*fakeStore)(nil)
	_ store.ObjectContent = (*fakeStore)(nil)
)

func (f *fakeStore) ListObjects(ctx context.Context, bucket string, opts store.ListOptions) (*store.ListPage, error) {
	f.listCalls = append(f.listCalls, opts)
	if f.listFn == nil {
		return &store.ListPage{}, nil
	}
	return f.listFn(ctx, bucket, opts)
}

func (f *fakeStore) ListVersions(ctx context.Context, bucket string, opts store.ListVersionsOptions) (*store.VersionsPage, error) {
	f.versionsCalls = append(f.versionsCalls, opts)
	if f.versionsFn == nil {
		return &store.VersionsPage{}, nil
	}
	return f.versionsFn(ctx, bucket, opts)
}

func (f *fakeStore) DeleteObjects(ctx context.Context, bucket string, objects []store.ObjectIdentifier, quiet bool) (*store.DeleteResult, error) {
	batch := make([]store.ObjectIdentifier, len(objects))
	copy(batch, objects)
	f.deleteCalls = append(f.deleteCalls, batch)
	if f.deleteFn == nil {
		return &store.DeleteResult{}, nil
	}
	return f.deleteFn(ctx, bucket, objects, quiet)
}

func (f *fakeStore) CopyObject(ctx context.Context, bucket string, src store.ObjectIdentifier, destKey string) (*store.CopyResult, error) {
	f.copyCalls = append(f.copyCalls, fakeCopyCall{src: src, destKey: destKey})
	if f.copyFn == nil {
		return &store.CopyResult{}, nil
	}
	return f.copyFn(ctx, bucket, src, destKey)
}

func (f *fakeStore) HeadObject(ctx context.Context, bucket, key, versionID string) (*store.ObjectMeta, error) {
	if f.headFn == nil {
		return &store.ObjectMeta{Key: key}, nil
	}
	return f.headFn(ctx, bucket, key, versionID)
}

func (f *fakeStore) GetObjectTagging(ctx context.Context, bucket, key, versionID string) ([]store.Tag, error) {
	if f.getTagsFn == nil {
		return []store.Tag{}, nil
	}
	return f.getTagsFn(ctx, bucket, key, versionID)
}

func (f *fakeStore) PutObjectTagging(ctx context.Context, bucket, key, versionID string, tags []store.Tag) error {
	if f.putTagsFn == nil {
		return nil
	}
	return f.putTagsFn(ctx, bucket, key, versionID, tags)
}

func (f *fakeStore) GetObjectRetention(ctx context.Context, bucket, key, versionID string) (*store.Retention, error) {
	if f.retFn == nil {
		return nil, nil
	}
	return f.retFn(ctx, bucket, key, versionID)
}

func (f *fakeStore) GetObjectLegalHold(ctx context.Context, bucket, key, versionID string) (*store.LegalHold, error) {
	if f.holdFn == nil {
		return nil, nil
	}
	return f.holdFn(ctx, bucket, key, versionID)
}

func (f *fakeStore) PutObjectLegalHold(ctx context.Context, bucket, key, versionID string, hold store.LegalHold) error {
	if f.putHoldFn == nil {
		return nil
	}
	return f.putHoldFn(ctx, bucket, key, versionID, hold)
}

func (f *fakeStore) GetObjectBody(ctx context.Context, bucket, key, versionID string) (*store.ObjectBody, error) {
	if f.getBodyFn == nil {
		return &store.ObjectBody{Body: io.NopCloser(strings.NewReader(""))}, nil
	}
	return f.getBodyFn(ctx, bucket, key, versionID)
}

func (f *fakeStore) PutObjectBody(ctx context.Context, bucket, key string, body io.Reader, size int64, contentType string) error {
	f.putBodyCalls = append(f.putBodyCalls, fakePutBodyCall{key: key, size: size, contentType: contentType})
	if f.putBodyFn == nil {
		return nil
	}
	return f.putBodyFn(ctx, bucket, key, body, size, contentType)
}

func (f *fakeStore) Close() error { return nil }

// minimalStore implements only the required Store interface, with every
// call failing. Used to exercise the capability checks.
type minimalStore struct{}

var _ store.Store = (*minimalStore)(nil)

func (*minimalStore) ListObjects(context.Context, string, store.ListOptions) (*store.ListPage, error) {
	return &store.ListPage{}, nil
}

func (*minimalStore) ListVersions(context.Context, string, store.ListVersionsOptions) (*store.VersionsPage, error) {
	return &store.VersionsPage{}, nil
}

func (*minimalStore) DeleteObjects(context.Context, string, []store.ObjectIdentifier, bool) (*store.DeleteResult, error) {
	return &store.DeleteResult{}, nil
}

func (*minimalStore) CopyObject(context.Context, string, store.ObjectIdentifier, string) (*store.CopyResult, error) {
	return &store.CopyResult{}, nil
}

func (*minimalStore) Close() error { return nil }
