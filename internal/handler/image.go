package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"nirvana-heritage/internal/filestore"
	"nirvana-heritage/internal/notify"
	"nirvana-heritage/internal/util"
	"nirvana-heritage/internal/vision"

	"github.com/gin-gonic/gin"
)

// ImageHandler serves upload, the two processing routes and download.
type ImageHandler struct {
	Files      filestore.Store
	Dispatcher *vision.Dispatcher
	Notifier   notify.Notifier
	MaxUpload  int64 // bytes
}

func NewImageHandler(files filestore.Store, dispatcher *vision.Dispatcher, notifier notify.Notifier, maxUploadBytes int64) *ImageHandler {
	return &ImageHandler{
		Files:      files,
		Dispatcher: dispatcher,
		Notifier:   notifier,
		MaxUpload:  maxUploadBytes,
	}
}

// Create accepts a multipart upload, stores the original and runs the
// default heritage treatment on it.
func (h *ImageHandler) Create(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUpload)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "No file selected.")
		return
	}
	defer file.Close()

	name, err := h.Files.Save(c.Request.Context(), header.Filename, file, header.Size)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Could not store the upload.")
		return
	}

	processed, err := h.Dispatcher.ApplyHeritage(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, vision.ErrUnreadableImage) {
			util.Error(c, http.StatusBadRequest, util.CodeUnreadable, "Artifact unreadable. Please try a different format.")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Processing failed.")
		}
		return
	}

	notify.Fire(h.Notifier, "Image Processed", fmt.Sprintf("New artifact processed: %s", processed))

	util.Success(c, util.Response{
		"processed": processed,
		"image_url": "/static/processed/" + processed,
	})
}

type processReq struct {
	Filename  string `json:"filename" binding:"required"`
	Operation string `json:"operation" binding:"required"`
}

// ProcessArtisan runs one artisan operation on a stored file.
func (h *ImageHandler) ProcessArtisan(c *gin.Context) {
	h.process(c, h.Dispatcher.ApplyArtisan)
}

// ProcessAdvanced runs one advanced (royal) operation on a stored file.
func (h *ImageHandler) ProcessAdvanced(c *gin.Context) {
	h.process(c, h.Dispatcher.ApplyRoyal)
}

func (h *ImageHandler) process(c *gin.Context, apply func(ctx context.Context, filename string, op vision.Operation) (string, error)) {
	var req processReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid request body.")
		return
	}

	filename := filestore.SanitizeName(req.Filename)
	if filename == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid filename.")
		return
	}

	derivative, err := apply(c.Request.Context(), filename, vision.Operation(req.Operation))
	if err != nil {
		switch {
		case errors.Is(err, filestore.ErrNotFound):
			util.Error(c, http.StatusNotFound, util.CodeNotFound, fmt.Sprintf("Artifact not found: %s", filename))
		case errors.Is(err, vision.ErrUnreadableImage):
			util.Error(c, http.StatusBadRequest, util.CodeUnreadable, "Could not read the image source. Ensure the file is not corrupt.")
		case errors.Is(err, vision.ErrUnknownOperation):
			util.Error(c, http.StatusBadRequest, util.CodeUnknownOp, fmt.Sprintf("Unknown operation: %s", req.Operation))
		default:
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Processing failed.")
		}
		return
	}

	util.Success(c, util.Response{
		"image_url": "/static/processed/" + derivative,
	})
}

// Download serves a processed derivative as an attachment.
func (h *ImageHandler) Download(c *gin.Context) {
	name := filestore.SanitizeName(c.Param("filename"))
	if name == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid filename.")
		return
	}

	r, err := h.Files.Open(c.Request.Context(), filestore.FolderProcessed, name)
	if err != nil {
		if errors.Is(err, filestore.ErrNotFound) {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "File not found.")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to open file.")
		}
		return
	}
	defer r.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Header("Content-Type", "application/octet-stream")
	_, _ = io.Copy(c.Writer, r)
}
