package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/lakefront/bucketview/pkg/objects"
)

// Objects serves the object-browsing and mutation endpoints.
//
// List-type endpoints take POST with a JSON body because prefixes can
// exceed URL length limits.
type Objects struct {
	svc *objects.Service
	log *zap.Logger
}

// NewObjects builds the objects handler set.
func NewObjects(svc *objects.Service, log *zap.Logger) *Objects {
	if log == nil {
		log = zap.NewNop()
	}
	return &Objects{svc: svc, log: log}
}

// Register mounts the endpoints under /api/objects/{bucket}.
func (h *Objects) Register(r chi.Router) {
	r.Route("/api/objects/{bucket}", func(r chi.Router) {
		r.Post("/", h.list)
		r.Post("/versions", h.listVersions)
		r.Post("/exists", h.exists)
		r.Post("/get", h.get)
		r.Post("/attributes", h.attributes)
		r.Post("/tags", h.getTags)
		r.Put("/tags", h.setTags)
		r.Post("/retention", h.getRetention)
		r.Post("/legal-hold", h.getLegalHold)
		r.Put("/legal-hold", h.setLegalHold)
		r.Post("/download", h.download)
		r.Post("/upload", h.upload)
		r.Put("/restore", h.restore)
		r.Delete("/delete", h.delete)
		r.Delete("/delete-by-prefix", h.deleteByPrefix)
	})
}

func bucketParam(r *http.Request) string {
	return chi.URLParam(r, "bucket")
}

func (h *Objects) list(w http.ResponseWriter, r *http.Request) {
	var req objects.ListObjectsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondValidationError(w, r, "invalid request body: "+err.Error())
		return
	}

	res, err := h.svc.ListObjects(r.Context(), bucketParam(r), req)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Objects) listVersions(w http.ResponseWriter, r *http.Request) {
	var req objects.ListVersionsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondValidationError(w, r, "invalid request body: "+err.Error())
		return
	}

	res, err := h.svc.ListObjectVersions(r.Context(), bucketParam(r), req)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Objects) exists(w http.ResponseWriter, r *http.Request) {
	var req objects.ObjectRequest
	if err := decodeJSON(r, &req); err != nil {
		respondValidationError(w, r, "invalid request body: "+err.Error())
		return
	}
	if req.Key == "" {
		respondValidationError(w, r, "Key is required")
		return
	}

	exists, err := h.svc.ObjectExists(r.Context(), bucketParam(r), req)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	if !exists {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Objects) get(w http.ResponseWriter, r *http.Request) {
	var req objects.ObjectRequest
	if err := decodeJSON(r, &req); err != nil {
		respondValidationError(w, r, "invalid request body: "+err.Error())
		return
	}
	if req.Key == "" {
		respondValidationError(w, r, "Key is required")
		return
	}

	obj, err := h.svc.GetObject(r.Context(), bucketParam(r), req)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, obj)
}

func (h *Objects) attributes(w http.ResponseWriter, r *http.Request) {
	var req objects.ObjectRequest
	if err := decodeJSON(r, &req); err != nil {
		respondValidationError(w, r, "invalid request body: "+err.Error())
		return
	}
	if req.Key == "" {
		respondValidationError(w, r, "Key is required")
		return
	}

	attrs, err := h.svc.GetObjectAttributes(r.Context(), bucketParam(r), req)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, attrs)
}

func (h *Objects) getTags(w http.ResponseWriter, r *http.Request) {
	var req objects.ObjectRequest
	if err := decodeJSON(r, &req); err != nil {
		respondValidationError(w, r, "invalid request body: "+err.Error())
		return
	}
	if req.Key == "" {
		respondValidationError(w, r, "Key is required")
		return
	}

	tags, err := h.svc.GetObjectTagging(r.Context(), bucketParam(r), req)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

func (h *Objects) setTags(w http.ResponseWriter, r *http.Request) {
	var req objects.SetObjectTaggingRequest
	if err := decodeJSON(r, &req); err != nil {
		respondValidationError(w, r, "invalid request body: "+err.Error())
		return
	}
	if req.Key == "" {
		respondValidationError(w, r, "Key is required")
		return
	}

	ok, err := h.svc.SetObjectTagging(r.Context(), bucketParam(r), req)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, ok)
}

func (h *Objects) getRetention(w http.ResponseWriter, r *http.Request) {
	var req objects.ObjectRequest
	if err := decodeJSON(r, &req); err != nil {
		respondValidationError(w, r, "invalid request body: "+err.Error())
		return
	}
	if req.Key == "" {
		respondValidationError(w, r, "Key is required")
		return
	}

	ret, err := h.svc.GetObjectRetention(r.Context(), bucketParam(r), req)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, ret)
}

func (h *Objects) getLegalHold(w http.ResponseWriter, r *http.Request) {
	var req objects.ObjectRequest
	if err := decodeJSON(r, &req); err != nil {
		respondValidationError(w, r, "invalid request body: "+err.Error())
		return
	}
	if req.Key == "" {
		respondValidationError(w, r, "Key is required")
		return
	}

	hold, err := h.svc.GetObjectLegalHold(r.Context(), bucketParam(r), req)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, hold)
}

func (h *Objects) setLegalHold(w http.ResponseWriter, r *http.Request) {
	var req objects.SetLegalHoldRequest
	if err := decodeJSON(r, &req); err != nil {
		respondValidationError(w, r, "invalid request body: "+err.Error())
		return
	}
	if req.Key == "" {
		respondValidationError(w, r, "Key is required")
		return
	}

	ok, err := h.svc.SetObjectLegalHold(r.Context(), bucketParam(r), req)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, ok)
}

// download streams the object content as an attachment. POST, like the
// list endpoints, so long keys fit in the body.
func (h *Objects) download(w http.ResponseWriter, r *http.Request) {
	var req objects.ObjectRequest
	if err := decodeJSON(r, &req); err != nil {
		respondValidationError(w, r, "invalid request body: "+err.Error())
		return
	}
	if req.Key == "" {
		respondValidationError(w, r, "Key is required")
		return
	}

	body, err := h.svc.DownloadObject(r.Context(), bucketParam(r), req)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	defer func() { _ = body.Body.Close() }()

	contentType := body.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.FormatInt(body.Size, 10))
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", objects.KeyName(req.Key)))
	if body.ETag != "" {
		w.Header().Set("ETag", body.ETag)
	}

	if _, err := io.Copy(w, body.Body); err != nil {
		// Headers are already sent; all we can do is log.
		h.log.Error("object download aborted",
			zap.String("bucket", bucketParam(r)),
			zap.String("key", req.Key),
			zap.Error(err))
	}
}

// upload stores a new object from a multipart form with a "key" field
// and a "file" part.
func (h *Objects) upload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		respondValidationError(w, r, "file is required: "+err.Error())
		return
	}
	defer func() { _ = file.Close() }()

	key := r.FormValue("key")
	if key == "" {
		respondValidationError(w, r, "key is required")
		return
	}

	err = h.svc.UploadObject(r.Context(), bucketParam(r), objects.UploadObjectRequest{
		Key:         key,
		Body:        file,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Objects) restore(w http.ResponseWriter, r *http.Request) {
	var req objects.RestoreObjectRequest
	if err := decodeJSON(r, &req); err != nil {
		respondValidationError(w, r, "invalid request body: "+err.Error())
		return
	}
	if req.Key == "" {
		respondValidationError(w, r, "Key is required")
		return
	}

	if err := h.svc.RestoreObject(r.Context(), bucketParam(r), req); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Objects) delete(w http.ResponseWriter, r *http.Request) {
	var req objects.DeleteObjectRequest
	if err := decodeJSON(r, &req); err != nil {
		respondValidationError(w, r, "invalid request body: "+err.Error())
		return
	}
	if req.Key == "" {
		respondValidationError(w, r, "Key is required")
		return
	}

	deleted, err := h.svc.DeleteObject(r.Context(), bucketParam(r), req)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, deleted)
}

func (h *Objects) deleteByPrefix(w http.ResponseWriter, r *http.Request) {
	var req objects.DeleteByPrefixRequest
	if err := decodeJSON(r, &req); err != nil {
		respondValidationError(w, r, "invalid request body: "+err.Error())
		return
	}
	if req.Prefix == "" {
		respondValidationError(w, r, "Prefix is required")
		return
	}

	deleted, err := h.svc.DeleteByPrefix(r.Context(), bucketParam(r), req)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, deleted)
}
