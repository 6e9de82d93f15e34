package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"strconv"

	"github.com/emicklei/go-restful/v3"
	"github.com/gabriel-vasile/mimetype"

	"github.com/KYD-04/Home-Files/internal/archive"
	apierrors "github.com/KYD-04/Home-Files/internal/common/errors"
	"github.com/KYD-04/Home-Files/internal/events"
	"github.com/KYD-04/Home-Files/internal/ingress"
	"github.com/KYD-04/Home-Files/internal/metrics"
	"github.com/KYD-04/Home-Files/internal/registry/service"
	"github.com/KYD-04/Home-Files/internal/version"
	"github.com/KYD-04/Home-Files/pkg/logger"
	"github.com/KYD-04/Home-Files/pkg/share"
)

var log = logger.New()

// multipart framing allowance on top of the upload size limit
const uploadOverhead = 1 << 20

// ShutdownRequester stops the process once the current response is sent
type ShutdownRequester interface {
	RequestShutdown(reason string)
}

// ShareHandler implements every HTTP operation once; each listener profile
// registers the subset it exposes
type ShareHandler struct {
	registry *service.RegistryService
	archives *archive.Builder
	uploads  *ingress.Service
	events   *events.Broadcaster
	stopper  ShutdownRequester
	pages    *pageRenderer
}

// NewShareHandler creates a new ShareHandler
func NewShareHandler(
	registry *service.RegistryService,
	archives *archive.Builder,
	uploads *ingress.Service,
	broadcaster *events.Broadcaster,
	stopper ShutdownRequester,
) *ShareHandler {
	return &ShareHandler{
		registry: registry,
		archives: archives,
		uploads:  uploads,
		events:   broadcaster,
		stopper:  stopper,
		pages:    newPageRenderer(uploads.Policy()),
	}
}

// AdminIndex renders every registered entry
func (h *ShareHandler) AdminIndex(req *restful.Request, resp *restful.Response) {
	h.renderIndex(req, resp, true)
}

// PublicIndex renders only entries that currently exist
func (h *ShareHandler) PublicIndex(req *restful.Request, resp *restful.Response) {
	h.renderIndex(req, resp, false)
}

func (h *ShareHandler) renderIndex(req *restful.Request, resp *restful.Response, admin bool) {
	entries, err := h.registry.List(req.Request.Context())
	if err != nil {
		writeError(resp, err)
		return
	}

	if !admin {
		existing := make([]share.Entry, 0, len(entries))
		for _, e := range entries {
			if e.Exists {
				existing = append(existing, e)
			}
		}
		entries = existing
	}

	resp.Header().Set("Content-Type", "text/html; charset=utf-8")
	resp.WriteHeader(http.StatusOK)
	if err := h.pages.render(resp, admin, entries); err != nil {
		log.Error("Error rendering page: %v", err)
	}
}

// ListFiles refreshes and returns the registry
func (h *ShareHandler) ListFiles(req *restful.Request, resp *restful.Response) {
	entries, err := h.registry.List(req.Request.Context())
	if err != nil {
		writeError(resp, err)
		return
	}
	resp.WriteHeaderAndJson(http.StatusOK, entries, restful.MIME_JSON)
}

// AddFile registers a filesystem path
func (h *ShareHandler) AddFile(req *restful.Request, resp *restful.Response) {
	var params share.AddParams
	if err := req.ReadEntity(&params); err != nil {
		writeError(resp, apierrors.New(http.StatusBadRequest, apierrors.CodeInvalidRequest,
			fmt.Sprintf("Error reading request body: %v", err)))
		return
	}

	entry, created, err := h.registry.Add(req.Request.Context(), params.Path)
	if err != nil {
		writeError(resp, err)
		return
	}

	if !created {
		resp.WriteHeaderAndJson(http.StatusOK, share.AddResult{
			Message: "File already shared",
			File:    entry,
		}, restful.MIME_JSON)
		return
	}
	resp.WriteHeaderAndJson(http.StatusCreated, share.AddResult{
		Message: "File added to shared list",
		File:    entry,
	}, restful.MIME_JSON)
}

// RemoveFile unregisters an entry by id
func (h *ShareHandler) RemoveFile(req *restful.Request, resp *restful.Response) {
	id, err := pathID(req)
	if err != nil {
		writeError(resp, err)
		return
	}

	if _, err := h.registry.Remove(req.Request.Context(), id); err != nil {
		writeError(resp, err)
		return
	}
	resp.WriteHeaderAndJson(http.StatusOK, share.MessageResult{Message: "File removed from shared list"}, restful.MIME_JSON)
}

// DownloadFile streams a shared file as an attachment
func (h *ShareHandler) DownloadFile(req *restful.Request, resp *restful.Response) {
	id, err := pathID(req)
	if err != nil {
		writeError(resp, err)
		return
	}

	entry, err := h.registry.FindDownloadable(req.Request.Context(), id)
	if err != nil {
		writeError(resp, err)
		return
	}

	n, err := sendFile(resp, entry.Path, entry.Name, detectMimeType(entry.Path))
	metrics.AddBytesDownloaded(string(share.KindFile), n)
	if err != nil {
		log.Error("Error sending %s: %v", entry.Path, err)
	}
}

// DownloadFolder streams a zip archive of a shared folder
func (h *ShareHandler) DownloadFolder(req *restful.Request, resp *restful.Response) {
	id, err := pathID(req)
	if err != nil {
		writeError(resp, err)
		return
	}

	entry, err := h.registry.FindDownloadableFolder(req.Request.Context(), id)
	if err != nil {
		writeError(resp, err)
		return
	}

	zipPath, err := h.archives.Build(req.Request.Context(), entry.Path)
	if err != nil {
		writeError(resp, err)
		return
	}
	defer func() {
		if err := os.Remove(zipPath); err != nil && !os.IsNotExist(err) {
			log.Error("Error removing archive %s: %v", zipPath, err)
		}
	}()

	n, err := sendFile(resp, zipPath, entry.Name+".zip", "application/zip")
	metrics.AddBytesDownloaded(string(share.KindFolder), n)
	if err != nil {
		log.Error("Error sending archive of %s: %v", entry.Path, err)
	}
}

// Upload stores the multipart "file" field in the upload directory
func (h *ShareHandler) Upload(req *restful.Request, resp *restful.Response) {
	if limit := h.uploads.MaxSize(); limit > 0 {
		req.Request.Body = http.MaxBytesReader(resp.ResponseWriter, req.Request.Body, limit+uploadOverhead)
	}

	part, err := filePart(req.Request)
	if err != nil {
		metrics.RecordUpload("rejected", 0)
		writeError(resp, err)
		return
	}
	defer part.Close()

	result, err := h.uploads.Accept(req.Request.Context(), part.FileName(), part)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			err = fmt.Errorf("%w: limit is %d bytes", ingress.ErrFileTooLarge, h.uploads.MaxSize())
		}
		metrics.RecordUpload("rejected", 0)
		writeError(resp, err)
		return
	}

	metrics.RecordUpload("stored", result.Size)
	h.events.Publish(events.Event{Type: events.EventUploaded, Name: result.Filename})
	resp.WriteHeaderAndJson(http.StatusCreated, result, restful.MIME_JSON)
}

// Shutdown acknowledges the request and then stops the whole process
func (h *ShareHandler) Shutdown(req *restful.Request, resp *restful.Response) {
	log.Info("Shutdown requested from %s", req.Request.RemoteAddr)
	resp.WriteHeaderAndJson(http.StatusOK, share.MessageResult{Message: "Server is shutting down..."}, restful.MIME_JSON)
	if f, ok := resp.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
	h.stopper.RequestShutdown("shutdown requested by " + req.Request.RemoteAddr)
}

// Events streams registry changes over a websocket
func (h *ShareHandler) Events(req *restful.Request, resp *restful.Response) {
	h.events.Serve(resp.ResponseWriter, req.Request)
}

// Version returns build information
func (h *ShareHandler) Version(req *restful.Request, resp *restful.Response) {
	resp.WriteHeaderAndJson(http.StatusOK, version.Get(), restful.MIME_JSON)
}

// Metrics serves the Prometheus scrape endpoint
func (h *ShareHandler) Metrics(req *restful.Request, resp *restful.Response) {
	metrics.Handler().ServeHTTP(resp, req.Request)
}

// RefreshRegistry runs a list pass outside of any request
func (h *ShareHandler) RefreshRegistry(ctx context.Context) (int, error) {
	entries, err := h.registry.List(ctx)
	return len(entries), err
}

// pathID parses the {id} path parameter; a malformed id is reported as not found
func pathID(req *restful.Request) (int, error) {
	raw := req.PathParameter("id")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id %q", service.ErrNotFound, raw)
	}
	return id, nil
}

// filePart returns the first multipart part named "file"
func filePart(r *http.Request) (*multipart.Part, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ingress.ErrNoFileSelected, err)
	}
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return nil, ingress.ErrNoFileSelected
		}
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				return nil, ingress.ErrFileTooLarge
			}
			return nil, fmt.Errorf("%w: %v", ingress.ErrNoFileSelected, err)
		}
		if part.FormName() == "file" {
			return part, nil
		}
		part.Close()
	}
}

// sendFile copies path to the response as an attachment named name
func sendFile(resp *restful.Response, path, name, contentType string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			err = fmt.Errorf("%w: %s no longer exists", service.ErrNotFound, path)
		}
		writeError(resp, err)
		return 0, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		writeError(resp, err)
		return 0, err
	}

	resp.Header().Set("Content-Type", contentType)
	resp.Header().Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	resp.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	resp.WriteHeader(http.StatusOK)

	return io.Copy(resp, f)
}

// detectMimeType determines the MIME type of a file
func detectMimeType(path string) string {
	m, err := mimetype.DetectFile(path)
	if err != nil {
		log.Error("Error detecting MIME type: %v", err)
		return restful.MIME_OCTET
	}
	return m.String()
}

// writeError writes a structured error response
func writeError(resp *restful.Response, err error) {
	apiErr := apierrors.From(err)
	if apiErr.Status >= http.StatusInternalServerError {
		log.Error("Internal error: %v", err)
	}
	resp.WriteHeaderAndJson(apiErr.Status, apiErr.Payload(), restful.MIME_JSON)
}
