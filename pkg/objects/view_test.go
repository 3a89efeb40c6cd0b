package objects

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakefront/bucketview/pkg/store"
)

func newTestService(st store.Store) *Service {
	return NewService(st, nil, Config{})
}

func TestListObjects_ObjectAndFolder(t *testing.T) {
	modified := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	fs := &fakeStore{
		listFn: func(ctx context.Context, bucket string, opts store.ListOptions) (*store.ListPage, error) {
			return &store.ListPage{
				Objects: []store.ObjectRecord{
					{Key: "file2.txt", Size: 514, ETag: "abc123", LastModified: modified},
				},
				CommonPrefixes: []string{"a/"},
			}, nil
		},
	}

	svc := newTestService(fs)
	res, err := svc.ListObjects(context.Background(), "test01", ListObjectsRequest{Delimiter: "/"})
	require.NoError(t, err)
	require.Len(t, res, 2)

	obj := res[0]
	assert.Equal(t, "file2.txt", obj.Key)
	assert.Equal(t, "file2.txt", obj.Name)
	assert.Equal(t, KindObject, obj.Type)
	require.NotNil(t, obj.Size)
	assert.Equal(t, int64(514), *obj.Size)
	require.NotNil(t, obj.ETag)
	assert.Equal(t, "abc123", *obj.ETag)

	folder := res[1]
	assert.Equal(t, "a", folder.Key)
	assert.Equal(t, "a", folder.Name)
	assert.Equal(t, KindFolder, folder.Type)
	assert.Nil(t, folder.Size)
	assert.Nil(t, folder.ETag)
	assert.Nil(t, folder.LastModified)
}

func TestListObjects_FollowsPagination(t *testing.T) {
	fs := &fakeStore{}
	fs.listFn = func(ctx context.Context, bucket string, opts store.ListOptions) (*store.ListPage, error) {
		switch opts.Cursor {
		case "":
			return &store.ListPage{
				Objects:   []store.ObjectRecord{{Key: "x/1.txt"}},
				Cursor:    "t2",
				Truncated: true,
			}, nil
		case "t2":
			return &store.ListPage{
				Objects: []store.ObjectRecord{{Key: "x/2.txt"}},
			}, nil
		default:
			return nil, errors.New("unexpected cursor")
		}
	}

	svc := newTestService(fs)
	res, err := svc.ListObjects(context.Background(), "test01", ListObjectsRequest{Prefix: "x/"})
	require.NoError(t, err)

	require.Len(t, res, 2)
	assert.Equal(t, "x/1.txt", res[0].Key)
	assert.Equal(t, "x/2.txt", res[1].Key)
	assert.Len(t, fs.listCalls, 2)
	assert.Equal(t, "x/", fs.listCalls[0].Prefix)
}

func TestListObjects_Empty(t *testing.T) {
	fs := &fakeStore{}
	svc := newTestService(fs)

	res, err := svc.ListObjects(context.Background(), "test01", ListObjectsRequest{})
	require.NoError(t, err)
	assert.NotNil(t, res)
	assert.Empty(t, res)
	assert.Len(t, fs.listCalls, 1)
}

func TestListObjects_TransportFailure(t *testing.T) {
	storeErr := &store.StoreError{Op: "ListObjects", Bucket: "test01", Err: store.ErrUnavailable}
	fs := &fakeStore{
		listFn: func(ctx context.Context, bucket string, opts store.ListOptions) (*store.ListPage, error) {
			return nil, storeErr
		},
	}

	svc := newTestService(fs)
	_, err := svc.ListObjects(context.Background(), "test01", ListObjectsRequest{})
	assert.True(t, store.IsUnavailable(err))
}

func TestListObjectVersions_MergesRecordClasses(t *testing.T) {
	modified := time.Date(2024, 3, 2, 9, 30, 0, 0, time.UTC)
	fs := &fakeStore{
		versionsFn: func(ctx context.Context, bucket string, opts store.ListVersionsOptions) (*store.VersionsPage, error) {
			return &store.VersionsPage{
				Versions: []store.VersionRecord{
					{Key: "doc.md", VersionID: "v2", Size: 100, ETag: "e2", LastModified: modified, IsLatest: true},
					{Key: "doc.md", VersionID: "v1", Size: 90, ETag: "e1", LastModified: modified.Add(-time.Hour)},
				},
				DeleteMarkers: []store.DeleteMarkerRecord{
					{Key: "gone.md", VersionID: "m1", LastModified: modified, IsLatest: true},
				},
				CommonPrefixes: []string{"sub/"},
			}, nil
		},
	}

	svc := newTestService(fs)
	res, err := svc.ListObjectVersions(context.Background(), "test01", ListVersionsRequest{Delimiter: "/"})
	require.NoError(t, err)
	require.Len(t, res, 4)

	// Versions first, in backend order; no dedup across versions of a key.
	assert.Equal(t, "v2", res[0].VersionID)
	assert.True(t, res[0].IsLatest)
	assert.False(t, res[0].IsDeleted)
	assert.Equal(t, "v1", res[1].VersionID)
	assert.False(t, res[1].IsLatest)

	// Folder row.
	folder := res[2]
	assert.Equal(t, KindFolder, folder.Type)
	assert.Equal(t, "sub", folder.Key)
	assert.True(t, folder.IsLatest)
	assert.False(t, folder.IsDeleted)

	// Delete marker: tombstone with zero size and no content tag.
	marker := res[3]
	assert.Equal(t, KindObject, marker.Type)
	assert.Equal(t, "gone.md", marker.Key)
	assert.True(t, marker.IsDeleted)
	assert.True(t, marker.IsLatest)
	require.NotNil(t, marker.Size)
	assert.Zero(t, *marker.Size)
	assert.Nil(t, marker.ETag)
}

func TestListObjectVersions_DualCursorPagination(t *testing.T) {
	fs := &fakeStore{}
	fs.versionsFn = func(ctx context.Context, bucket string, opts store.ListVersionsOptions) (*store.VersionsPage, error) {
		if opts.Cursor.IsZero() {
			return &store.VersionsPage{
				Versions:  []store.VersionRecord{{Key: "a.txt", VersionID: "v1", IsLatest: true}},
				Cursor:    store.VersionsCursor{KeyMarker: "a.txt", VersionIDMarker: "v1"},
				Truncated: true,
			}, nil
		}
		return &store.VersionsPage{
			Versions: []store.VersionRecord{{Key: "b.txt", VersionID: "v9", IsLatest: true}},
		}, nil
	}

	svc := newTestService(fs)
	res, err := svc.ListObjectVersions(context.Background(), "test01", ListVersionsRequest{})
	require.NoError(t, err)

	require.Len(t, res, 2)
	assert.Equal(t, "a.txt", res[0].Key)
	assert.Equal(t, "b.txt", res[1].Key)

	require.Len(t, fs.versionsCalls, 2)
	assert.Equal(t, store.VersionsCursor{KeyMarker: "a.txt", VersionIDMarker: "v1"}, fs.versionsCalls[1].Cursor)
}

func TestListObjectVersions_Strict(t *testing.T) {
	fs := &fakeStore{
		versionsFn: func(ctx context.Context, bucket string, opts store.ListVersionsOptions) (*store.VersionsPage, error) {
			return &store.VersionsPage{
				Versions: []store.VersionRecord{
					{Key: "a/b.txt", VersionID: "v1", IsLatest: true},
					{Key: "a/b.txt.bak", VersionID: "v1", IsLatest: true},
				},
				DeleteMarkers: []store.DeleteMarkerRecord{
					{Key: "a/b.txt", VersionID: "m1"},
				},
			}, nil
		},
	}

	svc := newTestService(fs)
	res, err := svc.ListObjectVersions(context.Background(), "test01", ListVersionsRequest{
		Prefix: "a/b.txt",
		Strict: true,
	})
	require.NoError(t, err)

	// Only the exact key survives, both its version and its marker.
	require.Len(t, res, 2)
	for _, obj := range res {
		assert.Equal(t, "a/b.txt", obj.Key)
	}
	assert.False(t, res[0].IsDeleted)
	assert.True(t, res[1].IsDeleted)
}
