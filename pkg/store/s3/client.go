package s3

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/lakefront/bucketview/pkg/store"
)

// Client implements the store interfaces for AWS S3 and S3-compatible
// storage.
type Client struct {
	client  *s3.Client
	maxKeys int
}

// Ensure Client implements the interfaces.
var (
	_ store.Store         = (*Client)(nil)
	_ store.ObjectHeader  = (*Client)(nil)
	_ store.Tagger        = (*Client)(nil)
	_ store.LockManager   = (*Client)(nil)
	_ store.ObjectContent = (*Client)(nil)
)

// New creates a new S3 client with the given configuration.
//
// The client uses AWS SDK v2's default credential chain unless explicit
// credentials are provided in the config.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	awsCfg, err := loadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, &store.StoreError{Op: "New", Backend: store.BackendS3, Err: err}
	}

	s3Opts := []func(*s3.Options){
		func(o *s3.Options) {
			if cfg.ForcePathStyle {
				o.UsePathStyle = true
			}
		},
	}

	// Custom endpoint for S3-compatible stores
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}

	maxKeys := cfg.MaxKeys
	if maxKeys <= 0 {
		maxKeys = DefaultMaxKeys
	}

	return &Client{
		client:  s3.NewFromConfig(awsCfg, s3Opts...),
		maxKeys: maxKeys,
	}, nil
}

// loadAWSConfig builds the AWS configuration with appropriate credentials.
func loadAWSConfig(ctx context.Context, cfg Config) (aws.Config, error) {
	var opts []func(*awsconfig.LoadOptions) error

	// Only apply explicit region if user set one in config.
	// Let SDK resolve from env/profile first.
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}

	if cfg.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}

	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		staticCreds := credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"", // session token (empty for long-term credentials)
		)
		opts = append(opts, awsconfig.WithCredentialsProvider(staticCreds))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, err
	}

	awsCfg.Region = resolveRegion(cfg.Endpoint, awsCfg.Region)

	return awsCfg, nil
}

// ListObjects returns one page of a non-versioned listing.
func (c *Client) ListObjects(ctx context.Context, bucket string, opts store.ListOptions) (*store.ListPage, error) {
	input := &s3.ListObjectsV2Input{
		Bucket:  aws.String(bucket),
		MaxKeys: aws.Int32(int32(clampMaxKeys(opts.MaxKeys, c.maxKeys))),
	}

	if opts.Prefix != "" {
		input.Prefix = aws.String(opts.Prefix)
	}
	if opts.Delimiter != "" {
		input.Delimiter = aws.String(opts.Delimiter)
	}
	if opts.Cursor != "" {
		input.ContinuationToken = aws.String(opts.Cursor)
	}

	output, err := c.client.ListObjectsV2(ctx, input)
	if err != nil {
		return nil, c.wrapError("ListObjects", bucket, "", err)
	}

	page := &store.ListPage{
		Objects:   make([]store.ObjectRecord, 0, len(output.Contents)),
		Truncated: aws.ToBool(output.IsTruncated),
	}

	for _, obj := range output.Contents {
		page.Objects = append(page.Objects, store.ObjectRecord{
			Key:          aws.ToString(obj.Key),
			Size:         aws.ToInt64(obj.Size),
			ETag:         cleanETag(aws.ToString(obj.ETag)),
			LastModified: aws.ToTime(obj.LastModified),
			Owner:        toOwner(obj.Owner),
		})
	}
	for _, cp := range output.CommonPrefixes {
		page.CommonPrefixes = append(page.CommonPrefixes, aws.ToString(cp.Prefix))
	}

	if output.NextContinuationToken != nil {
		page.Cursor = *output.NextContinuationToken
	}

	return page, nil
}

// ListVersions returns one page of a versioned listing.
func (c *Client) ListVersions(ctx context.Context, bucket string, opts store.ListVersionsOptions) (*store.VersionsPage, error) {
	input := &s3.ListObjectVersionsInput{
		Bucket:  aws.String(bucket),
		MaxKeys: aws.Int32(int32(clampMaxKeys(opts.MaxKeys, c.maxKeys))),
	}

	if opts.Prefix != "" {
		input.Prefix = aws.String(opts.Prefix)
	}
	if opts.Delimiter != "" {
		input.Delimiter = aws.String(opts.Delimiter)
	}
	if opts.Cursor.KeyMarker != "" {
		input.KeyMarker = aws.String(opts.Cursor.KeyMarker)
	}
	if opts.Cursor.VersionIDMarker != "" {
		input.VersionIdMarker = aws.String(opts.Cursor.VersionIDMarker)
	}

	output, err := c.client.ListObjectVersions(ctx, input)
	if err != nil {
		return nil, c.wrapError("ListVersions", bucket, "", err)
	}

	page := &store.VersionsPage{
		Versions:      make([]store.VersionRecord, 0, len(output.Versions)),
		DeleteMarkers: make([]store.DeleteMarkerRecord, 0, len(output.DeleteMarkers)),
		Truncated:     aws.ToBool(output.IsTruncated),
	}

	for _, v := range output.Versions {
		page.Versions = append(page.Versions, store.VersionRecord{
			Key:          aws.ToString(v.Key),
			VersionID:    cleanVersionID(aws.ToString(v.VersionId)),
			Size:         aws.ToInt64(v.Size),
			ETag:         cleanETag(aws.ToString(v.ETag)),
			LastModified: aws.ToTime(v.LastModified),
			IsLatest:     aws.ToBool(v.IsLatest),
			Owner:        toOwner(v.Owner),
		})
	}
	for _, dm := range output.DeleteMarkers {
		page.DeleteMarkers = append(page.DeleteMarkers, store.DeleteMarkerRecord{
			Key:          aws.ToString(dm.Key),
			VersionID:    cleanVersionID(aws.ToString(dm.VersionId)),
			LastModified: aws.ToTime(dm.LastModified),
			IsLatest:     aws.ToBool(dm.IsLatest),
			Owner:        toOwner(dm.Owner),
		})
	}
	for _, cp := range output.CommonPrefixes {
		page.CommonPrefixes = append(page.CommonPrefixes, aws.ToString(cp.Prefix))
	}

	if page.Truncated {
		page.Cursor = store.VersionsCursor{
			KeyMarker:       aws.ToString(output.NextKeyMarker),
			VersionIDMarker: aws.ToString(output.NextVersionIdMarker),
		}
	}

	return page, nil
}

// DeleteObjects deletes up to MaxDeleteBatch objects in one call.
func (c *Client) DeleteObjects(ctx context.Context, bucket string, objects []store.ObjectIdentifier, quiet bool) (*store.DeleteResult, error) {
	ids := make([]types.ObjectIdentifier, 0, len(objects))
	for _, obj := range objects {
		id := types.ObjectIdentifier{Key: aws.String(obj.Key)}
		if obj.VersionID != "" {
			id.VersionId = aws.String(obj.VersionID)
		}
		ids = append(ids, id)
	}

	output, err := c.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(bucket),
		Delete: &types.Delete{
			Objects: ids,
			Quiet:   aws.Bool(quiet),
		},
	})
	if err != nil {
		return nil, c.wrapError("DeleteObjects", bucket, "", err)
	}

	result := &store.DeleteResult{
		Deleted: make([]store.DeletedObject, 0, len(output.Deleted)),
		Errors:  make([]store.DeleteError, 0, len(output.Errors)),
	}

	for _, d := range output.Deleted {
		result.Deleted = append(result.Deleted, store.DeletedObject{
			Key:                   aws.ToString(d.Key),
			VersionID:             cleanVersionID(aws.ToString(d.VersionId)),
			DeleteMarker:          aws.ToBool(d.DeleteMarker),
			DeleteMarkerVersionID: aws.ToString(d.DeleteMarkerVersionId),
		})
	}
	for _, e := range output.Errors {
		result.Errors = append(result.Errors, store.DeleteError{
			Key:       aws.ToString(e.Key),
			VersionID: cleanVersionID(aws.ToString(e.VersionId)),
			Code:      aws.ToString(e.Code),
			Message:   aws.ToString(e.Message),
		})
	}

	return result, nil
}

// CopyObject copies a source object version onto destKey in the same
// bucket. Metadata and tags are carried over from the source.
func (c *Client) CopyObject(ctx context.Context, bucket string, src store.ObjectIdentifier, destKey string) (*store.CopyResult, error) {
	copySource := url.PathEscape(bucket + "/" + src.Key)
	if src.VersionID != "" {
		copySource += "?versionId=" + url.QueryEscape(src.VersionID)
	}

	output, err := c.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:            aws.String(bucket),
		Key:               aws.String(destKey),
		CopySource:        aws.String(copySource),
		MetadataDirective: types.MetadataDirectiveCopy,
		TaggingDirective:  types.TaggingDirectiveCopy,
	})
	if err != nil {
		return nil, c.wrapError("CopyObject", bucket, src.Key, err)
	}

	result := &store.CopyResult{
		VersionID: aws.ToString(output.VersionId),
	}
	if output.CopyObjectResult != nil {
		result.ETag = cleanETag(aws.ToString(output.CopyObjectResult.ETag))
		result.LastModified = aws.ToTime(output.CopyObjectResult.LastModified)
	}

	return result, nil
}

// HeadObject returns metadata for one object version.
func (c *Client) HeadObject(ctx context.Context, bucket, key, versionID string) (*store.ObjectMeta, error) {
	input := &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}
	if versionID != "" {
		input.VersionId = aws.String(versionID)
	}

	output, err := c.client.HeadObject(ctx, input)
	if err != nil {
		return nil, c.wrapError("HeadObject", bucket, key, err)
	}

	meta := &store.ObjectMeta{
		Key:             key,
		VersionID:       cleanVersionID(aws.ToString(output.VersionId)),
		Size:            aws.ToInt64(output.ContentLength),
		ETag:            cleanETag(aws.ToString(output.ETag)),
		LastModified:    aws.ToTime(output.LastModified),
		ContentType:     aws.ToString(output.ContentType),
		LockMode:        string(output.ObjectLockMode),
		LegalHoldStatus: string(output.ObjectLockLegalHoldStatus),
	}
	if output.ObjectLockRetainUntilDate != nil {
		t := *output.ObjectLockRetainUntilDate
		meta.LockRetainUntil = &t
	}

	return meta, nil
}

// GetObjectBody opens one object version's content for streaming. The
// caller must close the returned body.
func (c *Client) GetObjectBody(ctx context.Context, bucket, key, versionID string) (*store.ObjectBody, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}
	if versionID != "" {
		input.VersionId = aws.String(versionID)
	}

	output, err := c.client.GetObject(ctx, input)
	if err != nil {
		return nil, c.wrapError("GetObject", bucket, key, err)
	}

	return &store.ObjectBody{
		Body:         output.Body,
		Size:         aws.ToInt64(output.ContentLength),
		ETag:         cleanETag(aws.ToString(output.ETag)),
		ContentType:  aws.ToString(output.ContentType),
		LastModified: aws.ToTime(output.LastModified),
		VersionID:    cleanVersionID(aws.ToString(output.VersionId)),
	}, nil
}

// PutObjectBody uploads body as the new current version of key.
func (c *Client) PutObjectBody(ctx context.Context, bucket, key string, body io.Reader, size int64, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := c.client.PutObject(ctx, input); err != nil {
		return c.wrapError("PutObject", bucket, key, err)
	}
	return nil
}

// GetObjectTagging returns the object's tag set. A missing tag set is
// returned as an empty slice.
func (c *Client) GetObjectTagging(ctx context.Context, bucket, key, versionID string) ([]store.Tag, error) {
	input := &s3.GetObjectTaggingInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}
	if versionID != "" {
		input.VersionId = aws.String(versionID)
	}

	output, err := c.client.GetObjectTagging(ctx, input)
	if err != nil {
		if hasErrorCode(err, "NoSuchTagSet") {
			return []store.Tag{}, nil
		}
		return nil, c.wrapError("GetObjectTagging", bucket, key, err)
	}

	tags := make([]store.Tag, 0, len(output.TagSet))
	for _, t := range output.TagSet {
		tags = append(tags, store.Tag{
			Key:   aws.ToString(t.Key),
			Value: aws.ToString(t.Value),
		})
	}
	return tags, nil
}

// PutObjectTagging replaces the object's tag set.
func (c *Client) PutObjectTagging(ctx context.Context, bucket, key, versionID string, tags []store.Tag) error {
	tagSet := make([]types.Tag, 0, len(tags))
	for _, t := range tags {
		tagSet = append(tagSet, types.Tag{
			Key:   aws.String(t.Key),
			Value: aws.String(t.Value),
		})
	}

	input := &s3.PutObjectTaggingInput{
		Bucket:  aws.String(bucket),
		Key:     aws.String(key),
		Tagging: &types.Tagging{TagSet: tagSet},
	}
	if versionID != "" {
		input.VersionId = aws.String(versionID)
	}

	if _, err := c.client.PutObjectTagging(ctx, input); err != nil {
		return c.wrapError("PutObjectTagging", bucket, key, err)
	}
	return nil
}

// GetObjectRetention returns the object's retention lock, or nil when
// the bucket has no lock configuration.
func (c *Client) GetObjectRetention(ctx context.Context, bucket, key, versionID string) (*store.Retention, error) {
	input := &s3.GetObjectRetentionInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}
	if versionID != "" {
		input.VersionId = aws.String(versionID)
	}

	output, err := c.client.GetObjectRetention(ctx, input)
	if err != nil {
		if hasErrorCode(err, "ObjectLockConfigurationNotFoundError") {
			return nil, nil
		}
		return nil, c.wrapError("GetObjectRetention", bucket, key, err)
	}

	if output.Retention == nil {
		return nil, nil
	}
	ret := &store.Retention{Mode: string(output.Retention.Mode)}
	if output.Retention.RetainUntilDate != nil {
		t := *output.Retention.RetainUntilDate
		ret.RetainUntilDate = &t
	}
	return ret, nil
}

// GetObjectLegalHold returns the object's legal hold, or nil when the
// bucket has no lock configuration.
func (c *Client) GetObjectLegalHold(ctx context.Context, bucket, key, versionID string) (*store.LegalHold, error) {
	input := &s3.GetObjectLegalHoldInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}
	if versionID != "" {
		input.VersionId = aws.String(versionID)
	}

	output, err := c.client.GetObjectLegalHold(ctx, input)
	if err != nil {
		if hasErrorCode(err, "ObjectLockConfigurationNotFoundError") {
			return nil, nil
		}
		return nil, c.wrapError("GetObjectLegalHold", bucket, key, err)
	}

	if output.LegalHold == nil {
		return nil, nil
	}
	return &store.LegalHold{Status: string(output.LegalHold.Status)}, nil
}

// PutObjectLegalHold sets the object's legal hold.
func (c *Client) PutObjectLegalHold(ctx context.Context, bucket, key, versionID string, hold store.LegalHold) error {
	input := &s3.PutObjectLegalHoldInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		LegalHold: &types.ObjectLockLegalHold{
			Status: types.ObjectLockLegalHoldStatus(hold.Status),
		},
	}
	if versionID != "" {
		input.VersionId = aws.String(versionID)
	}

	if _, err := c.client.PutObjectLegalHold(ctx, input); err != nil {
		return c.wrapError("PutObjectLegalHold", bucket, key, err)
	}
	return nil
}

// Close releases any resources held by the client.
// The S3 client doesn't require explicit cleanup, but this satisfies the interface.
func (c *Client) Close() error {
	return nil
}

// wrapError converts S3 errors to store errors with appropriate sentinel errors.
func (c *Client) wrapError(op, bucket, key string, err error) error {
	wrapped := &store.StoreError{
		Op:      op,
		Backend: store.BackendS3,
		Bucket:  bucket,
		Key:     key,
		Err:     err,
	}

	// Check for specific S3 error types first
	var notFound *types.NotFound
	var noSuchKey *types.NoSuchKey
	var noSuchBucket *types.NoSuchBucket

	switch {
	case errors.As(err, &notFound), errors.As(err, &noSuchKey):
		wrapped.Err = store.ErrNotFound
		return wrapped
	case errors.As(err, &noSuchBucket):
		wrapped.Err = store.ErrBucketNotFound
		return wrapped
	}

	// Check smithy API errors for error codes
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound", "NoSuchVersion":
			wrapped.Err = store.ErrNotFound
		case "NoSuchBucket":
			wrapped.Err = store.ErrBucketNotFound
		case "AccessDenied", "Forbidden":
			wrapped.Err = store.ErrAccessDenied
		case "InvalidAccessKeyId", "SignatureDoesNotMatch":
			wrapped.Err = store.ErrInvalidCredentials
		case "SlowDown", "Throttling", "RequestLimitExceeded":
			wrapped.Err = store.ErrThrottled
		case "ServiceUnavailable", "InternalError":
			wrapped.Err = store.ErrUnavailable
		}
		return wrapped
	}

	// Fallback: check error message for common cases
	errMsg := err.Error()
	switch {
	case strings.Contains(errMsg, "NoSuchKey") || strings.Contains(errMsg, "NotFound") || strings.Contains(errMsg, "404"):
		wrapped.Err = store.ErrNotFound
	case strings.Contains(errMsg, "NoSuchBucket"):
		wrapped.Err = store.ErrBucketNotFound
	case strings.Contains(errMsg, "AccessDenied") || strings.Contains(errMsg, "Forbidden") || strings.Contains(errMsg, "403"):
		wrapped.Err = store.ErrAccessDenied
	case strings.Contains(errMsg, "InvalidAccessKeyId") || strings.Contains(errMsg, "SignatureDoesNotMatch"):
		wrapped.Err = store.ErrInvalidCredentials
	case strings.Contains(errMsg, "SlowDown") || strings.Contains(errMsg, "Throttling") || strings.Contains(errMsg, "429"):
		wrapped.Err = store.ErrThrottled
	case strings.Contains(errMsg, "ServiceUnavailable") || strings.Contains(errMsg, "503"):
		wrapped.Err = store.ErrUnavailable
	}

	return wrapped
}

// hasErrorCode reports whether err carries the given backend error code.
// These codes mark valid "not configured" states, not failures.
func hasErrorCode(err error, code string) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == code
	}
	return strings.Contains(err.Error(), code)
}

// toOwner converts the SDK owner record, preserving absence as nil.
func toOwner(o *types.Owner) *store.Owner {
	if o == nil {
		return nil
	}
	return &store.Owner{
		ID:          aws.ToString(o.ID),
		DisplayName: aws.ToString(o.DisplayName),
	}
}

// cleanETag removes surrounding quotes from an ETag value.
// S3 returns ETags with quotes, e.g., "d41d8cd98f00b204e9800998ecf8427e".
func cleanETag(etag string) string {
	return strings.Trim(etag, "\"")
}

// cleanVersionID maps the backend's "null" version sentinel to the empty
// string used throughout this codebase for the unversioned version.
func cleanVersionID(versionID string) string {
	if versionID == "null" {
		return ""
	}
	return versionID
}

// clampMaxKeys applies defaults and limits to maxKeys values.
// If requested is <= 0, uses clientDefault. Result is clamped to MaxAllowedKeys.
func clampMaxKeys(requested, clientDefault int) int {
	if requested <= 0 {
		requested = clientDefault
	}
	if requested > MaxAllowedKeys {
		return MaxAllowedKeys
	}
	return requested
}

// resolveRegion determines the final region after SDK config loading.
//
// The SDK has already applied explicit config, environment, and profile
// resolution. This only applies the fallback default: AWS S3 (no custom
// endpoint) defaults to us-east-1; S3-compatible stores get no default.
func resolveRegion(endpoint, sdkRegion string) string {
	if sdkRegion != "" {
		return sdkRegion
	}
	if endpoint == "" {
		return DefaultAWSRegion
	}
	return ""
}
