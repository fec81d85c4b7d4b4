package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/ankurdental/dentaldesk/internal/service/incident"
)

// FileHandler serves the attachments stored inline on incidents.
type FileHandler struct {
	svc incident.Service
}

func NewFileHandler(svc incident.Service) *FileHandler {
	return &FileHandler{svc: svc}
}

func fileIndex(c fiber.Ctx) (int, bool) {
	i, err := strconv.Atoi(c.Params("index"))
	return i, err == nil && i >= 0
}

// POST /incidents/:id/files  (multipart, field "file")
func (h *FileHandler) Upload(c fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "file is required")
	}

	f, err := fh.Open()
	if err != nil {
		return internalError(c, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return internalError(c, err)
	}

	mime := fh.Header.Get("Content-Type")
	if mime == "" || mime == "application/octet-stream" {
		mime = http.DetectContentType(data)
	}

	inc, err := h.svc.AddAttachment(c.Context(), c.Params("id"), fh.Filename, mime, data)
	if err != nil {
		return mapIncidentError(c, err)
	}
	return created(c, inc)
}

// GET /incidents/:id/files/:index
func (h *FileHandler) Download(c fiber.Ctx) error {
	idx, valid := fileIndex(c)
	if !valid {
		return badRequest(c, "invalid file index")
	}

	att, data, err := h.svc.Attachment(c.Context(), c.Params("id"), idx)
	if err != nil {
		return mapIncidentError(c, err)
	}

	c.Attachment(att.Name)
	if att.Type != "" {
		c.Set(fiber.HeaderContentType, att.Type)
	}
	return c.Send(data)
}

// DELETE /incidents/:id/files/:index
func (h *FileHandler) Remove(c fiber.Ctx) error {
	idx, valid := fileIndex(c)
	if !valid {
		return badRequest(c, "invalid file index")
	}

	inc, err := h.svc.RemoveAttachment(c.Context(), c.Params("id"), idx)
	if err != nil {
		return mapIncidentError(c, err)
	}
	return ok(c, inc)
}
