package http

import (
	"io"
	"log"
	"net/http"

	"classgroup-service/internal/app"
	"classgroup-service/internal/domain"
)

// maxUploadBytes bounds question files; classroom pools are small.
const maxUploadBytes = 10 << 20

// UploadHandler accepts one question file per request and swaps the
// classroom's pool when parsing succeeds. Parse failures and unsupported
// extensions are deliberately silent toward the client; the previous pool
// stays active.
type UploadHandler struct {
	service *app.ClassroomService
}

func NewUploadHandler(service *app.ClassroomService) *UploadHandler {
	return &UploadHandler{service: service}
}

// ServePoolUpload handles POST /classrooms/pool?classroomId=... with a
// multipart "file" field.
func (h *UploadHandler) ServePoolUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	classroomID := r.URL.Query().Get("classroomId")
	if classroomID == "" {
		http.Error(w, "missing classroomId", http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		log.Printf("pool upload read failed for classroom %s: %v", classroomID, err)
		http.Error(w, "unreadable file", http.StatusBadRequest)
		return
	}

	if err := h.service.ReplacePool(r.Context(), classroomID, header.Filename, data); err != nil {
		if err == domain.ErrClassroomNotFound {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
