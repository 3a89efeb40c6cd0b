package objects

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakefront/bucketview/pkg/store"
)

func TestGetObject_MapsMetadata(t *testing.T) {
	modified := time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC)
	retain := modified.AddDate(1, 0, 0)
	fs := &fakeStore{
		headFn: func(ctx context.Context, bucket, key, versionID string) (*store.ObjectMeta, error) {
			return &store.ObjectMeta{
				Key:             key,
				VersionID:       "v3",
				Size:            2048,
				ETag:            "etag3",
				ContentType:     "text/plain",
				LastModified:    modified,
				LockMode:        "COMPLIANCE",
				LockRetainUntil: &retain,
				LegalHoldStatus: "ON",
			}, nil
		},
	}

	svc := newTestService(fs)
	obj, err := svc.GetObject(context.Background(), "test01", ObjectRequest{Key: "a/b/file.txt"})
	require.NoError(t, err)

	assert.Equal(t, "a/b/file.txt", obj.Key)
	assert.Equal(t, "file.txt", obj.Name)
	assert.Equal(t, KindObject, obj.Type)
	assert.Equal(t, "v3", obj.VersionID)
	require.NotNil(t, obj.Size)
	assert.Equal(t, int64(2048), *obj.Size)
	require.NotNil(t, obj.ETag)
	assert.Equal(t, "etag3", *obj.ETag)
	require.NotNil(t, obj.ContentType)
	assert.Equal(t, "text/plain", *obj.ContentType)
	require.NotNil(t, obj.LastModified)
	assert.Equal(t, modified, *obj.LastModified)
	require.NotNil(t, obj.ObjectLockMode)
	assert.Equal(t, "COMPLIANCE", *obj.ObjectLockMode)
	require.NotNil(t, obj.ObjectLockRetainUntilDate)
	assert.Equal(t, retain, *obj.ObjectLockRetainUntilDate)
	require.NotNil(t, obj.ObjectLockLegalHoldStatus)
	assert.Equal(t, "ON", *obj.ObjectLockLegalHoldStatus)
}

func TestGetObject_SparseMetadata(t *testing.T) {
	fs := &fakeStore{
		headFn: func(ctx context.Context, bucket, key, versionID string) (*store.ObjectMeta, error) {
			return &store.ObjectMeta{Key: key, Size: 0}, nil
		},
	}

	svc := newTestService(fs)
	obj, err := svc.GetObject(context.Background(), "test01", ObjectRequest{Key: "empty.bin"})
	require.NoError(t, err)

	require.NotNil(t, obj.Size)
	assert.Zero(t, *obj.Size)
	assert.Nil(t, obj.ETag)
	assert.Nil(t, obj.LastModified)
	assert.Nil(t, obj.ContentType)
	assert.Nil(t, obj.ObjectLockMode)
	assert.Nil(t, obj.ObjectLockRetainUntilDate)
	assert.Nil(t, obj.ObjectLockLegalHoldStatus)
}

func TestObjectExists(t *testing.T) {
	notFound := &store.StoreError{Op: "HeadObject", Bucket: "test01", Key: "missing", Err: store.ErrNotFound}
	fs := &fakeStore{
		headFn: func(ctx context.Context, bucket, key, versionID string) (*store.ObjectMeta, error) {
			if key == "missing" {
				return nil, notFound
			}
			return &store.ObjectMeta{Key: key}, nil
		},
	}

	svc := newTestService(fs)

	exists, err := svc.ObjectExists(context.Background(), "test01", ObjectRequest{Key: "present"})
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = svc.ObjectExists(context.Background(), "test01", ObjectRequest{Key: "missing"})
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestObjectExists_OtherFailuresPropagate(t *testing.T) {
	denied := &store.StoreError{Op: "HeadObject", Bucket: "test01", Key: "k", Err: store.ErrAccessDenied}
	fs := &fakeStore{
		headFn: func(ctx context.Context, bucket, key, versionID string) (*store.ObjectMeta, error) {
			return nil, denied
		},
	}

	svc := newTestService(fs)
	_, err := svc.ObjectExists(context.Background(), "test01", ObjectRequest{Key: "k"})
	assert.True(t, store.IsAccessDenied(err))
}

func TestGetObjectTagging_EmptySetIsValid(t *testing.T) {
	fs := &fakeStore{}
	svc := newTestService(fs)

	tags, err := svc.GetObjectTagging(context.Background(), "test01", ObjectRequest{Key: "k"})
	require.NoError(t, err)
	assert.NotNil(t, tags)
	assert.Empty(t, tags)
}

func TestSetObjectTagging_ReportsSuccess(t *testing.T) {
	var got []store.Tag
	fs := &fakeStore{
		putTagsFn: func(ctx context.Context, bucket, key, versionID string, tags []store.Tag) error {
			got = tags
			return nil
		},
	}

	svc := newTestService(fs)
	ok, err := svc.SetObjectTagging(context.Background(), "test01", SetObjectTaggingRequest{
		Key:    "k",
		TagSet: []store.Tag{{Key: "env", Value: "prod"}},
	})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []store.Tag{{Key: "env", Value: "prod"}}, got)
}

func TestSetObjectTagging_BackendFailureIsFalse(t *testing.T) {
	fs := &fakeStore{
		putTagsFn: func(ctx context.Context, bucket, key, versionID string, tags []store.Tag) error {
			return &store.StoreError{Op: "PutObjectTagging", Bucket: "test01", Key: key, Err: store.ErrAccessDenied}
		},
	}

	svc := newTestService(fs)
	ok, err := svc.SetObjectTagging(context.Background(), "test01", SetObjectTaggingRequest{Key: "k"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetObjectRetention_NilWhenUnconfigured(t *testing.T) {
	svc := newTestService(&fakeStore{})

	ret, err := svc.GetObjectRetention(context.Background(), "test01", ObjectRequest{Key: "k"})
	require.NoError(t, err)
	assert.Nil(t, ret)
}

func TestGetObjectLegalHold_NilWhenUnconfigured(t *testing.T) {
	svc := newTestService(&fakeStore{})

	hold, err := svc.GetObjectLegalHold(context.Background(), "test01", ObjectRequest{Key: "k"})
	require.NoError(t, err)
	assert.Nil(t, hold)
}

func TestSetObjectLegalHold(t *testing.T) {
	var got store.LegalHold
	fs := &fakeStore{
		putHoldFn: func(ctx context.Context, bucket, key, versionID string, hold store.LegalHold) error {
			got = hold
			return nil
		},
	}

	svc := newTestService(fs)
	ok, err := svc.SetObjectLegalHold(context.Background(), "test01", SetLegalHoldRequest{
		Key:       "k",
		LegalHold: store.LegalHold{Status: "ON"},
	})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "ON", got.Status)
}

func TestGetObjectAttributes_Aggregates(t *testing.T) {
	fs := &fakeStore{
		headFn: func(ctx context.Context, bucket, key, versionID string) (*store.ObjectMeta, error) {
			return &store.ObjectMeta{Key: key, VersionID: "v1", Size: 10}, nil
		},
		getTagsFn: func(ctx context.Context, bucket, key, versionID string) ([]store.Tag, error) {
			return []store.Tag{{Key: "team", Value: "storage"}}, nil
		},
	}

	svc := newTestService(fs)
	attrs, err := svc.GetObjectAttributes(context.Background(), "test01", ObjectRequest{Key: "a/k.txt"})
	require.NoError(t, err)

	assert.Equal(t, "a/k.txt", attrs.Key)
	assert.Equal(t, "v1", attrs.VersionID)
	assert.Equal(t, []store.Tag{{Key: "team", Value: "storage"}}, attrs.TagSet)
}

func TestGetObjectAttributes_EitherFailureFails(t *testing.T) {
	storeErr := &store.StoreError{Op: "GetObjectTagging", Bucket: "test01", Key: "k", Err: store.ErrUnavailable}
	fs := &fakeStore{
		getTagsFn: func(ctx context.Context, bucket, key, versionID string) ([]store.Tag, error) {
			return nil, storeErr
		},
	}

	svc := newTestService(fs)
	_, err := svc.GetObjectAttributes(context.Background(), "test01", ObjectRequest{Key: "k"})
	assert.True(t, store.IsUnavailable(err))
}

func TestCapabilityChecks_MinimalStore(t *testing.T) {
	svc := newTestService(&minimalStore{})
	ctx := context.Background()
	req := ObjectRequest{Key: "k"}

	_, err := svc.GetObject(ctx, "test01", req)
	assert.ErrorIs(t, err, errUnsupported)

	_, err = svc.GetObjectTagging(ctx, "test01", req)
	assert.ErrorIs(t, err, errUnsupported)

	_, err = svc.SetObjectTagging(ctx, "test01", SetObjectTaggingRequest{Key: "k"})
	assert.ErrorIs(t, err, errUnsupported)

	_, err = svc.GetObjectRetention(ctx, "test01", req)
	assert.ErrorIs(t, err, errUnsupported)

	_, err = svc.GetObjectLegalHold(ctx, "test01", req)
	assert.ErrorIs(t, err, errUnsupported)

	_, err = svc.SetObjectLegalHold(ctx, "test01", SetLegalHoldRequest{Key: "k"})
	assert.ErrorIs(t, err, errUnsupported)
}
