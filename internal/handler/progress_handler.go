package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"path/filepath"

	"resultboard/internal/service"
)

type ProgressService interface {
	GetFileProgress(fileName string) *service.ProgressInfo
	GetAllFileProgress() []*service.ProgressInfo
	RegisterProgressListener(ch chan *service.ProgressInfo)
	UnregisterProgressListener(ch chan *service.ProgressInfo)
}

type ProgressHandler struct {
	progressService ProgressService
}

func NewProgressHandler(progressService ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// GetFileProgress returns the progress for one import, looked up by
// importId or, failing that, by fileName.
func (h *ProgressHandler) GetFileProgress(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("importId")
	if key == "" {
		key = filepath.Base(r.URL.Query().Get("fileName"))
	}
	if key == "" || key == "." {
		http.Error(w, "importId or fileName parameter is required", http.StatusBadRequest)
		return
	}

	progress := h.progressService.GetFileProgress(key)
	if progress == nil {
		http.Error(w, "File not found or not being processed", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, progress)
}

// GetAllProgress returns the progress for all files being processed
func (h *ProgressHandler) GetAllProgress(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.progressService.GetAllFileProgress())
}

// SSEProgress streams progress updates to the client using Server-Sent Events
func (h *ProgressHandler) SSEProgress(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	// buffered so a broadcast made while we write is not dropped
	progressChan := make(chan *service.ProgressInfo, 16)
	h.progressService.RegisterProgressListener(progressChan)
	defer h.progressService.UnregisterProgressListener(progressChan)

	for {
		select {
		case progress := <-progressChan:
			data, err := json.Marshal(progress)
			if err != nil {
				log.Println("Error marshaling progress:", err)
				continue
			}
			if _, err := w.Write([]byte("data: " + string(data) + "\n\n")); err != nil {
				log.Println("Error writing SSE data:", err)
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			log.Println("Client disconnected")
			return
		}
	}
}
