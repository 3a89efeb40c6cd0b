// Package store defines abstractions for the object-storage backend the
// browser exposes.
//
// Stores implement a minimal surface area focused on listing objects and
// object versions, bulk deletion, and server-side copy. Authentication
// uses SDK default credential chains - stores should not implement custom
// auth logic.
package store

import (
	"context"
	"io"
	"time"
)

// Store abstracts the object-storage primitives the core logic consumes.
//
// Implementations should:
//   - Use SDK default credential chains
//   - Support pagination via the cursor fields on the option types
//   - Be safe for concurrent use
type Store interface {
	// ListObjects returns one page of a non-versioned listing.
	// Use the Cursor from ListPage for subsequent pages.
	ListObjects(ctx context.Context, bucket string, opts ListOptions) (*ListPage, error)

	// ListVersions returns one page of a versioned listing, including
	// delete markers. Use the Cursor from VersionsPage for subsequent pages.
	ListVersions(ctx context.Context, bucket string, opts ListVersionsOptions) (*VersionsPage, error)

	// DeleteObjects deletes up to MaxDeleteBatch objects in one call.
	// Per-item failures are reported in DeleteResult.Errors, not as an error.
	DeleteObjects(ctx context.Context, bucket string, objects []ObjectIdentifier, quiet bool) (*DeleteResult, error)

	// CopyObject copies a (possibly versioned) source object onto destKey
	// within the same bucket, propagating metadata and tags.
	CopyObject(ctx context.Context, bucket string, src ObjectIdentifier, destKey string) (*CopyResult, error)

	// Close releases any resources held by the store.
	Close() error
}

// ObjectHeader retrieves metadata for a single object version.
type ObjectHeader interface {
	// HeadObject returns metadata for one object version.
	// Returns ErrNotFound if the object does not exist.
	HeadObject(ctx context.Context, bucket, key, versionID string) (*ObjectMeta, error)
}

// Tagger reads and writes object tag sets.
//
// A missing tag set is a valid empty state: GetObjectTagging returns an
// empty slice, not an error, when the backend reports NoSuchTagSet.
type Tagger interface {
	GetObjectTagging(ctx context.Context, bucket, key, versionID string) ([]Tag, error)
	PutObjectTagging(ctx context.Context, bucket, key, versionID string, tags []Tag) error
}

// LockManager reads and writes object-lock state.
//
// An unconfigured lock is a valid empty state: the getters return nil,
// not an error, when the backend reports the lock configuration missing.
type LockManager interface {
	GetObjectRetention(ctx context.Context, bucket, key, versionID string) (*Retention, error)
	GetObjectLegalHold(ctx context.Context, bucket, key, versionID string) (*LegalHold, error)
	PutObjectLegalHold(ctx context.Context, bucket, key, versionID string, hold LegalHold) error
}

// ObjectContent streams object bodies.
type ObjectContent interface {
	// GetObjectBody opens an object version's content for reading,
	// together with the metadata needed to serve it. The caller must
	// close the returned body.
	GetObjectBody(ctx context.Context, bucket, key, versionID string) (*ObjectBody, error)

	// PutObjectBody uploads body as the new current version of key.
	PutObjectBody(ctx context.Context, bucket, key string, body io.Reader, size int64, contentType string) error
}

// MaxDeleteBatch is the backend's per-call item cap for DeleteObjects.
const MaxDeleteBatch = 1000

// ListOptions configures a non-versioned listing page.
type ListOptions struct {
	// Prefix filters results to keys starting with this value.
	Prefix string

	// Delimiter groups keys into common prefixes (typically "/").
	// Empty disables grouping.
	Delimiter string

	// Cursor resumes listing from a previous ListPage.
	// Empty string starts from the beginning.
	Cursor string

	// MaxKeys limits the number of keys returned per page.
	// Zero uses the backend default.
	MaxKeys int
}

// ListPage contains one page of a non-versioned listing.
type ListPage struct {
	// Objects are the object records for this page, in backend order.
	Objects []ObjectRecord

	// CommonPrefixes are the immediate child prefixes under Delimiter.
	CommonPrefixes []string

	// Cursor retrieves the next page. Empty when Truncated is false.
	Cursor string

	// Truncated indicates more results are available.
	Truncated bool
}

// VersionsCursor is the marker pair resuming a versioned listing.
type VersionsCursor struct {
	KeyMarker       string
	VersionIDMarker string
}

// IsZero reports whether the cursor resumes from the beginning.
func (c VersionsCursor) IsZero() bool {
	return c.KeyMarker == "" && c.VersionIDMarker == ""
}

// ListVersionsOptions configures a versioned listing page.
type ListVersionsOptions struct {
	Prefix    string
	Delimiter string

	// Cursor resumes listing from a previous VersionsPage.
	Cursor VersionsCursor

	// MaxKeys limits the number of keys returned per page.
	MaxKeys int
}

// VersionsPage contains one page of a versioned listing.
type VersionsPage struct {
	// Versions are the object version records, latest-first per key.
	Versions []VersionRecord

	// DeleteMarkers are the tombstone records.
	DeleteMarkers []DeleteMarkerRecord

	// CommonPrefixes are the immediate child prefixes under Delimiter.
	CommonPrefixes []string

	// Cursor retrieves the next page. Zero when Truncated is false.
	Cursor VersionsCursor

	// Truncated indicates more results are available.
	Truncated bool
}

// ObjectRecord is one entry of a non-versioned listing.
//
// Fields the backend omits for a given listing mode stay at their zero
// value; absence is not an error.
type ObjectRecord struct {
	Key          string
	Size         int64
	ETag         string
	LastModified time.Time
	Owner        *Owner
}

// VersionRecord is one physical version of an object. Immutable once
// read from the backend.
type VersionRecord struct {
	Key          string
	VersionID    string // empty denotes the null (unversioned) version
	Size         int64
	ETag         string
	LastModified time.Time
	IsLatest     bool
	Owner        *Owner
}

// DeleteMarkerRecord is a tombstone version hiding prior versions of a
// key in a versioning-enabled bucket. It carries no content.
type DeleteMarkerRecord struct {
	Key          string
	VersionID    string
	LastModified time.Time
	IsLatest     bool
	Owner        *Owner
}

// Owner identifies the owner of an object or version.
type Owner struct {
	ID          string `json:"ID"`
	DisplayName string `json:"DisplayName,omitempty"`
}

// ObjectIdentifier names one object version for deletion or copy.
// An empty VersionID addresses the current version; deleting it creates
// a delete marker in a versioning-enabled bucket.
type ObjectIdentifier struct {
	Key       string `json:"Key"`
	VersionID string `json:"VersionId,omitempty"`
}

// DeleteResult is the per-item outcome of one DeleteObjects call.
type DeleteResult struct {
	Deleted []DeletedObject
	Errors  []DeleteError
}

// DeletedObject reports one successfully deleted object version.
type DeletedObject struct {
	Key                   string `json:"Key"`
	VersionID             string `json:"VersionId,omitempty"`
	DeleteMarker          bool   `json:"DeleteMarker,omitempty"`
	DeleteMarkerVersionID string `json:"DeleteMarkerVersionId,omitempty"`
}

// DeleteError reports one object version that could not be deleted.
type DeleteError struct {
	Key       string
	VersionID string
	Code      string
	Message   string
}

// CopyResult reports the outcome of a server-side copy.
type CopyResult struct {
	ETag         string
	LastModified time.Time
	VersionID    string
}

// ObjectMeta contains metadata for a single object version, as returned
// by HeadObject.
type ObjectMeta struct {
	Key          string
	VersionID    string
	Size         int64
	ETag         string
	LastModified time.Time
	ContentType  string

	// Object-lock fields are empty/nil when the bucket has no lock
	// configuration.
	LockMode        string
	LockRetainUntil *time.Time
	LegalHoldStatus string
}

// ObjectBody is an open content stream for one object version.
type ObjectBody struct {
	// Body is the object content. The consumer owns closing it.
	Body io.ReadCloser

	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	VersionID    string
}

// Tag is one key/value pair of an object tag set.
type Tag struct {
	Key   string `json:"Key"`
	Value string `json:"Value"`
}

// Retention is an object's retention lock state.
type Retention struct {
	Mode            string     `json:"Mode"`
	RetainUntilDate *time.Time `json:"RetainUntilDate,omitempty"`
}

// LegalHold is an object's legal-hold state.
type LegalHold struct {
	Status string `json:"Status"`
}
