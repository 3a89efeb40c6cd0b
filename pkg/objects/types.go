package objects

import (
	"io"
	"time"

	"github.com/lakefront/bucketview/pkg/store"
)

// Entry kinds for the Type discriminator on view records.
const (
	KindObject = "OBJECT"
	KindFolder = "FOLDER"
)

// Object is one row of the browser's object listing: either a real
// object or a folder synthesized from a common prefix.
//
// Content fields are pointers because their presence depends on the
// listing mode and the entry kind; FOLDER rows carry none of them.
// Field names follow the S3 vocabulary the UI already speaks.
type Object struct {
	Key  string `json:"Key"`
	Name string `json:"Name"`
	Type string `json:"Type"`

	VersionID    string       `json:"VersionId,omitempty"`
	Size         *int64       `json:"Size,omitempty"`
	ETag         *string      `json:"ETag,omitempty"`
	LastModified *time.Time   `json:"LastModified,omitempty"`
	Owner        *store.Owner `json:"Owner,omitempty"`
	ContentType  *string      `json:"ContentType,omitempty"`

	ObjectLockMode            *string    `json:"ObjectLockMode,omitempty"`
	ObjectLockRetainUntilDate *time.Time `json:"ObjectLockRetainUntilDate,omitempty"`
	ObjectLockLegalHoldStatus *string    `json:"ObjectLockLegalHoldStatus,omitempty"`
}

// ObjectVersion is one row of a versioned listing: an object version, a
// delete marker, or a synthesized folder. A delete marker appears as an
// OBJECT row with IsDeleted set and no content fields.
type ObjectVersion struct {
	Object
	IsDeleted bool `json:"IsDeleted"`
	IsLatest  bool `json:"IsLatest"`
}

// ObjectAttributes aggregates an object's metadata with its tag set.
type ObjectAttributes struct {
	Object
	TagSet []store.Tag `json:"TagSet"`
}

// ListObjectsRequest scopes a plain listing.
type ListObjectsRequest struct {
	Prefix    string `json:"Prefix"`
	Delimiter string `json:"Delimiter"`
}

// ListVersionsRequest scopes a versioned listing. Strict keeps only the
// entries whose key exactly matches the prefix.
type ListVersionsRequest struct {
	Prefix    string `json:"Prefix"`
	Delimiter string `json:"Delimiter"`
	Strict    bool   `json:"Strict"`
}

// ObjectRequest names one object version.
type ObjectRequest struct {
	Key       string `json:"Key"`
	VersionID string `json:"VersionId"`
}

// DeleteObjectRequest deletes one key. AllVersions deletes the key's
// full version history (versions and delete markers) instead of only
// the named version.
type DeleteObjectRequest struct {
	Key         string `json:"Key"`
	VersionID   string `json:"VersionId"`
	AllVersions bool   `json:"AllVersions"`
}

// DeleteByPrefixRequest deletes every object under a prefix. A prefix
// like "a/b/" matches everything below that folder; "a/b" matches only
// that exact key.
type DeleteByPrefixRequest struct {
	Prefix      string `json:"Prefix"`
	Delimiter   string `json:"Delimiter"`
	AllVersions bool   `json:"AllVersions"`
}

// RestoreObjectRequest reinstates a (possibly deleted) object version
// as the key's current version.
type RestoreObjectRequest struct {
	Key       string `json:"Key"`
	VersionID string `json:"VersionId"`
}

// UploadObjectRequest stores new content under a key. Size must be the
// exact byte length of Body.
type UploadObjectRequest struct {
	Key         string
	Body        io.Reader
	Size        int64
	ContentType string
}

// SetObjectTaggingRequest replaces an object's tag set.
type SetObjectTaggingRequest struct {
	Key       string      `json:"Key"`
	VersionID string      `json:"VersionId"`
	TagSet    []store.Tag `json:"TagSet"`
}

// SetLegalHoldRequest sets an object's legal hold.
type SetLegalHoldRequest struct {
	Key       string          `json:"Key"`
	VersionID string          `json:"VersionId"`
	LegalHold store.LegalHold `json:"LegalHold"`
}
