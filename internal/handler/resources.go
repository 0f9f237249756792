package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"atlas/internal/domain"
	"atlas/internal/httputil"
	"atlas/internal/resource"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ResourceHandler serves the resource-tree REST endpoints over the secured
// store. Unauthorized resources surface as 404: they must appear absent,
// never forbidden.
type ResourceHandler struct {
	securer *resource.Securer
	logger  *slog.Logger
}

// NewResourceHandler creates a new resource handler
func NewResourceHandler(securer *resource.Securer, logger *slog.Logger) *ResourceHandler {
	return &ResourceHandler{
		securer: securer,
		logger:  logger,
	}
}

// resourceInfo is the JSON shape of a tree node in listings
type resourceInfo struct {
	Name         string    `json:"name"`
	Path         string    `json:"path"`
	Type         string    `json:"type"`
	LastModified time.Time `json:"last_modified,omitempty"`
}

type directoryListing struct {
	resourceInfo
	Children []resourceInfo `json:"children"`
}

// Get serves a resource: directory listings as JSON, file content as a
// stream.
// GET /rest/resource/{path...}
func (h *ResourceHandler) Get(w http.ResponseWriter, r *http.Request) {
	store := h.store(r)
	res := store.Get(r.PathValue("path"))

	switch res.Type() {
	case resource.TypeDirectory:
		httputil.RespondJSON(w, http.StatusOK, directoryListing{
			resourceInfo: info(res),
			Children:     listInfo(res),
		})
	case resource.TypeFile:
		in, err := res.In()
		if err != nil {
			h.respondError(w, r, err)
			return
		}
		defer in.Close()
		w.Header().Set("Content-Type", "application/octet-stream")
		if _, err := io.Copy(w, in); err != nil {
			h.logger.Error("resource read failed", "path", res.Path(), "error", err)
		}
	default:
		httputil.RespondError(w, http.StatusNotFound, "resource not found")
	}
}

// Put writes the request body as the resource content.
// PUT /rest/resource/{path...}
func (h *ResourceHandler) Put(w http.ResponseWriter, r *http.Request) {
	store := h.store(r)
	res := store.Get(r.PathValue("path"))
	created := res.Type() == resource.TypeUndefined

	out, err := res.Out()
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if _, err := io.Copy(out, r.Body); err != nil {
		out.Close()
		h.respondError(w, r, err)
		return
	}
	if err := out.Close(); err != nil {
		h.respondError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	httputil.RespondJSON(w, status, info(store.Get(res.Path())))
}

// Delete removes a resource.
// DELETE /rest/resource/{path...}
func (h *ResourceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	store := h.store(r)
	if !store.Remove(cleanRequestPath(r.PathValue("path"))) {
		// failed deletes are indistinguishable from missing resources
		httputil.RespondError(w, http.StatusNotFound, "resource not found")
		return
	}
	w.WriteHeader(http.StatusOK)
}

// renameRequest is the payload for move operations
type renameRequest struct {
	Target string `json:"target"`
}

func (req *renameRequest) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Target,
			validation.Required,
			validation.By(validTargetPath),
		),
	)
}

func validTargetPath(value interface{}) error {
	target, _ := value.(string)
	if strings.HasPrefix(target, "/") {
		return errors.New("must be relative to the store root")
	}
	for _, segment := range strings.Split(target, "/") {
		if segment == ".." {
			return errors.New("must not contain '..'")
		}
	}
	return nil
}

// Rename moves a resource to the target path from the request body.
// POST /rest/resource/{path...}
func (h *ResourceHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	store := h.store(r)
	source := cleanRequestPath(r.PathValue("path"))
	if !store.Move(source, req.Target) {
		httputil.RespondError(w, http.StatusNotFound, "resource not found")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, info(store.Get(req.Target)))
}

func (h *ResourceHandler) store(r *http.Request) resource.Store {
	return h.securer.Store(r.Context(), httputil.GetPrincipal(r))
}

func (h *ResourceHandler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) {
		httputil.RespondError(w, httpErr.StatusCode(), httpErr.Error())
		return
	}
	h.logger.Error("resource operation failed",
		"path", r.URL.Path,
		"method", r.Method,
		"error", err,
	)
	httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
}

func info(res resource.Resource) resourceInfo {
	return resourceInfo{
		Name:         res.Name(),
		Path:         res.Path(),
		Type:         res.Type().String(),
		LastModified: res.LastModified(),
	}
}

func listInfo(res resource.Resource) []resourceInfo {
	children := res.List()
	infos := make([]resourceInfo, 0, len(children))
	for _, child := range children {
		infos = append(infos, info(child))
	}
	return infos
}

func cleanRequestPath(p string) string {
	return strings.Trim(p, "/")
}
