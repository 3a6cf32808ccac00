package handler

import (
	"context"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

type Importer interface {
	ProcessFile(ctx context.Context, importID, filePath string) (string, error)
}

type ImportHandler struct {
	importer    Importer
	uploadDir   string
	maxUploadMB int64

	// wg tracks background imports; tests wait on it.
	wg sync.WaitGroup
}

func NewImportHandler(importer Importer, uploadDir string, maxUploadMB int64) *ImportHandler {
	return &ImportHandler{importer: importer, uploadDir: uploadDir, maxUploadMB: maxUploadMB}
}

// ImportFiles stores every multipart "files" entry under its own import ID
// and imports them in the background. Progress is reported through the
// progress routes, by import ID or file name.
func (h *ImportHandler) ImportFiles(w http.ResponseWriter, r *http.Request) {
	if err := os.MkdirAll(h.uploadDir, 0755); err != nil {
		http.Error(w, "Failed to create uploads directory", http.StatusInternalServerError)
		return
	}

	if err := r.ParseMultipartForm(h.maxUploadMB << 20); err != nil {
		http.Error(w, "File too large or bad request", http.StatusRequestEntityTooLarge)
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		http.Error(w, "No files uploaded", http.StatusBadRequest)
		return
	}

	fileNames := make([]string, 0, len(files))
	imports := make([]map[string]string, 0, len(files))
	for _, header := range files {
		fileName := filepath.Base(header.Filename)
		importID := uuid.NewString()
		savePath := filepath.Join(h.uploadDir, importID, fileName)
		if err := saveUpload(header, savePath); err != nil {
			log.Printf("Error saving %s: %v", fileName, err)
			continue
		}
		fileNames = append(fileNames, fileName)
		imports = append(imports, map[string]string{"importId": importID, "fileName": fileName})

		h.wg.Add(1)
		go func(importID, filePath string) {
			defer h.wg.Done()
			if _, err := h.importer.ProcessFile(context.Background(), importID, filePath); err != nil {
				log.Printf("Error processing file %s: %v", filePath, err)
			}
		}(importID, savePath)
	}

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"message": "Files uploaded successfully and processing started",
		"files":   fileNames,
		"imports": imports,
	})
}

// Wait blocks until all background imports have finished.
func (h *ImportHandler) Wait() {
	h.wg.Wait()
}

func saveUpload(header *multipart.FileHeader, savePath string) error {
	file, err := header.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	if err := os.MkdirAll(filepath.Dir(savePath), 0755); err != nil {
		return err
	}
	outFile, err := os.Create(savePath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(outFile, file); err != nil {
		outFile.Close()
		return err
	}
	return outFile.Close()
}
