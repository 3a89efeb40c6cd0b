package objects

import (
	"context"

	"github.com/lakefront/bucketview/pkg/store"
)

// listingEntry is one raw record of a listing pass: exactly one of the
// fields is set. Folders arrive as common-prefix strings; the other
// variants are backend records.
type listingEntry struct {
	object       *store.ObjectRecord
	version      *store.VersionRecord
	marker       *store.DeleteMarkerRecord
	commonPrefix string
	isFolder     bool
}

// ListObjects lists the bucket under a prefix and synthesizes the
// folder/object view: one OBJECT row per listed object, one FOLDER row
// per common prefix. All pages are followed; every record of the pass
// yields exactly one row, in backend order within each record class.
func (s *Service) ListObjects(ctx context.Context, bucket string, req ListObjectsRequest) ([]Object, error) {
	fetch := func(ctx context.Context, cursor string) (Page[listingEntry, string], error) {
		page, err := s.store.ListObjects(ctx, bucket, store.ListOptions{
			Prefix:    req.Prefix,
			Delimiter: req.Delimiter,
			Cursor:    cursor,
		})
		if err != nil {
			return Page[listingEntry, string]{}, err
		}

		entries := make([]listingEntry, 0, len(page.Objects)+len(page.CommonPrefixes))
		for i := range page.Objects {
			entries = append(entries, listingEntry{object: &page.Objects[i]})
		}
		for _, cp := range page.CommonPrefixes {
			entries = append(entries, listingEntry{commonPrefix: cp, isFolder: true})
		}

		return Page[listingEntry, string]{
			Items:     entries,
			Cursor:    page.Cursor,
			Truncated: page.Truncated,
		}, nil
	}

	res := []Object{}
	err := WalkPages(ctx, fetch, func(e listingEntry) error {
		if e.isFolder {
			res = append(res, folderEntry(e.commonPrefix))
			return nil
		}
		res = append(res, objectEntry(e.object))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ListObjectVersions lists the full version history under a prefix:
// one OBJECT row per version, one OBJECT row (IsDeleted) per delete
// marker, one FOLDER row per common prefix. Versions and markers keep
// the backend's latest-first order within a key; no deduplication is
// performed across rows.
//
// Strict narrows the result to rows whose key equals the prefix exactly,
// which scopes the history to a single object.
func (s *Service) ListObjectVersions(ctx context.Context, bucket string, req ListVersionsRequest) ([]ObjectVersion, error) {
	fetch := func(ctx context.Context, cursor store.VersionsCursor) (Page[listingEntry, store.VersionsCursor], error) {
		page, err := s.store.ListVersions(ctx, bucket, store.ListVersionsOptions{
			Prefix:    req.Prefix,
			Delimiter: req.Delimiter,
			Cursor:    cursor,
		})
		if err != nil {
			return Page[listingEntry, store.VersionsCursor]{}, err
		}

		entries := make([]listingEntry, 0, len(page.Versions)+len(page.CommonPrefixes)+len(page.DeleteMarkers))
		for i := range page.Versions {
			entries = append(entries, listingEntry{version: &page.Versions[i]})
		}
		for _, cp := range page.CommonPrefixes {
			entries = append(entries, listingEntry{commonPrefix: cp, isFolder: true})
		}
		for i := range page.DeleteMarkers {
			entries = append(entries, listingEntry{marker: &page.DeleteMarkers[i]})
		}

		return Page[listingEntry, store.VersionsCursor]{
			Items:     entries,
			Cursor:    page.Cursor,
			Truncated: page.Truncated,
		}, nil
	}

	res := []ObjectVersion{}
	err := WalkPages(ctx, fetch, func(e listingEntry) error {
		switch {
		case e.isFolder:
			res = append(res, ObjectVersion{
				Object:    folderEntry(e.commonPrefix),
				IsDeleted: false,
				IsLatest:  true,
			})
		case e.marker != nil:
			res = append(res, markerEntry(e.marker))
		default:
			res = append(res, versionEntry(e.version))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if req.Strict {
		strict := res[:0]
		for _, obj := range res {
			if obj.Key == req.Prefix {
				strict = append(strict, obj)
			}
		}
		res = strict
	}

	return res, nil
}

// folderEntry synthesizes a FOLDER row from a common prefix. Folders
// carry no content fields; their key is the normalized prefix.
func folderEntry(commonPrefix string) Object {
	return Object{
		Key:  BuildKey(commonPrefix),
		Name: KeyName(commonPrefix),
		Type: KindFolder,
	}
}

// objectEntry builds an OBJECT row from a plain listing record. A plain
// listing carries no version data, so the row is an implicit single
// live version.
func objectEntry(rec *store.ObjectRecord) Object {
	size := rec.Size
	obj := Object{
		Key:   rec.Key,
		Name:  KeyName(rec.Key),
		Type:  KindObject,
		Size:  &size,
		Owner: rec.Owner,
	}
	if rec.ETag != "" {
		etag := rec.ETag
		obj.ETag = &etag
	}
	if !rec.LastModified.IsZero() {
		t := rec.LastModified
		obj.LastModified = &t
	}
	return obj
}

// versionEntry builds an OBJECT row from one version record.
func versionEntry(rec *store.VersionRecord) ObjectVersion {
	size := rec.Size
	obj := Object{
		Key:       rec.Key,
		Name:      KeyName(rec.Key),
		Type:      KindObject,
		VersionID: rec.VersionID,
		Size:      &size,
		Owner:     rec.Owner,
	}
	if rec.ETag != "" {
		etag := rec.ETag
		obj.ETag = &etag
	}
	if !rec.LastModified.IsZero() {
		t := rec.LastModified
		obj.LastModified = &t
	}
	return ObjectVersion{
		Object:    obj,
		IsDeleted: false,
		IsLatest:  rec.IsLatest,
	}
}

// markerEntry builds an OBJECT row from a delete marker: a tombstone,
// so zero size and no content tag.
func markerEntry(rec *store.DeleteMarkerRecord) ObjectVersion {
	var size int64
	obj := Object{
		Key:       rec.Key,
		Name:      KeyName(rec.Key),
		Type:      KindObject,
		VersionID: rec.VersionID,
		Size:      &size,
		Owner:     rec.Owner,
	}
	if !rec.LastModified.IsZero() {
		t := rec.LastModified
		obj.LastModified = &t
	}
	return ObjectVersion{
		Object:    obj,
		IsDeleted: true,
		IsLatest:  rec.IsLatest,
	}
}
