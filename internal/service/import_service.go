package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"resultboard/internal/model"
)

const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusError      = "error"

	resultBatchSize = 500
)

type ProgressInfo struct {
	ImportID     string    `json:"importId"`
	FileName     string    `json:"fileName"`
	ReportID     string    `json:"reportId,omitempty"`
	TotalRecords int       `json:"totalRecords"`
	Processed    int       `json:"processed"`
	Status       string    `json:"status"`
	Error        string    `json:"error,omitempty"`
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime"`
}

// ImportService stores uploaded result files in the background and tracks
// per-import progress for polling and SSE clients. Progress is keyed by
// import ID so uploads sharing a file name never share an entry.
type ImportService struct {
	db                *gorm.DB
	reports           *ReportService
	fileProgressMap   map[string]*ProgressInfo
	fileProgressLock  sync.RWMutex
	progressListeners map[chan *ProgressInfo]bool
	listenerLock      sync.RWMutex

	workerSemaphore      chan struct{} // limits workers across all files
	maxConcurrentWorkers int
}

func NewImportService(db *gorm.DB, reports *ReportService) *ImportService {
	maxWorkers := runtime.NumCPU() * 2

	return &ImportService{
		db:                   db,
		reports:              reports,
		fileProgressMap:      make(map[string]*ProgressInfo),
		progressListeners:    make(map[chan *ProgressInfo]bool),
		workerSemaphore:      make(chan struct{}, maxWorkers),
		maxConcurrentWorkers: maxWorkers,
	}
}

func (s *ImportService) RegisterProgressListener(ch chan *ProgressInfo) {
	s.listenerLock.Lock()
	defer s.listenerLock.Unlock()
	s.progressListeners[ch] = true
}

func (s *ImportService) UnregisterProgressListener(ch chan *ProgressInfo) {
	s.listenerLock.Lock()
	defer s.listenerLock.Unlock()
	delete(s.progressListeners, ch)
}

// BroadcastProgress sends a copy to every listener that is ready; slow
// listeners miss the update.
func (s *ImportService) BroadcastProgress(progress *ProgressInfo) {
	s.listenerLock.RLock()
	defer s.listenerLock.RUnlock()

	for listener := range s.progressListeners {
		update := *progress
		select {
		case listener <- &update:
		default:
		}
	}
}

func (s *ImportService) startProgress(importID, fileName string) {
	s.fileProgressLock.Lock()
	defer s.fileProgressLock.Unlock()

	progress := &ProgressInfo{
		ImportID:  importID,
		FileName:  fileName,
		Status:    StatusProcessing,
		StartTime: time.Now(),
	}
	s.fileProgressMap[importID] = progress
	s.BroadcastProgress(progress)
}

func (s *ImportService) setTotal(importID, reportID string, total int) {
	s.fileProgressLock.Lock()
	defer s.fileProgressLock.Unlock()

	if progress, exists := s.fileProgressMap[importID]; exists {
		progress.ReportID = reportID
		progress.TotalRecords = total
		s.BroadcastProgress(progress)
	}
}

func (s *ImportService) updateProgress(importID string, processed int) {
	s.fileProgressLock.Lock()
	defer s.fileProgressLock.Unlock()

	if progress, exists := s.fileProgressMap[importID]; exists {
		progress.Processed += processed
		if progress.Processed > progress.TotalRecords {
			progress.Processed = progress.TotalRecords
		}
		s.BroadcastProgress(progress)
	}
}

func (s *ImportService) updateProgressError(importID string, errorMsg string) {
	s.fileProgressLock.Lock()
	defer s.fileProgressLock.Unlock()

	if progress, exists := s.fileProgressMap[importID]; exists {
		progress.Status = StatusError
		progress.Error = errorMsg
		progress.EndTime = time.Now()
		s.BroadcastProgress(progress)
	}
}

func (s *ImportService) completeProgress(importID string) {
	s.fileProgressLock.Lock()
	defer s.fileProgressLock.Unlock()

	if progress, exists := s.fileProgressMap[importID]; exists {
		progress.Status = StatusCompleted
		progress.EndTime = time.Now()
		progress.Processed = progress.TotalRecords
		s.BroadcastProgress(progress)
	}
}

// GetFileProgress looks key up as an import ID first, then as a file name,
// in which case the most recently started import of that name wins.
func (s *ImportService) GetFileProgress(key string) *ProgressInfo {
	s.fileProgressLock.RLock()
	defer s.fileProgressLock.RUnlock()

	progress, exists := s.fileProgressMap[key]
	if !exists {
		for _, p := range s.fileProgressMap {
			if p.FileName == key && (progress == nil || p.StartTime.After(progress.StartTime)) {
				progress = p
			}
		}
	}
	if progress == nil {
		return nil
	}

	copyProgress := *progress
	return &copyProgress
}

func (s *ImportService) GetAllFileProgress() []*ProgressInfo {
	s.fileProgressLock.RLock()
	defer s.fileProgressLock.RUnlock()

	result := make([]*ProgressInfo, 0, len(s.fileProgressMap))
	for _, progress := range s.fileProgressMap {
		copyProgress := *progress
		result = append(result, &copyProgress)
	}

	return result
}

// ProcessFile extracts one stored upload and saves its results in batches,
// tracking progress under importID (a fresh one when empty). It returns the
// new report ID.
func (s *ImportService) ProcessFile(ctx context.Context, importID, filePath string) (string, error) {
	if importID == "" {
		importID = uuid.NewString()
	}
	fileName := filepath.Base(filePath)
	startTime := time.Now()
	s.startProgress(importID, fileName)

	data, err := os.ReadFile(filePath)
	if err != nil {
		s.updateProgressError(importID, "Failed to read file: "+err.Error())
		return "", err
	}

	table, format, err := s.reports.Extract(ctx, fileName, data)
	if err != nil {
		s.updateProgressError(importID, err.Error())
		return "", err
	}

	report := model.NewReport(uuid.NewString(), fileName, string(format), table)
	results := report.Results
	report.Results = nil
	if err := s.db.WithContext(ctx).Create(&report).Error; err != nil {
		s.updateProgressError(importID, "Failed to store report: "+err.Error())
		return "", err
	}
	s.setTotal(importID, report.ID, len(results))

	numWorkers := min(calculateWorkers(int64(len(data))), s.maxConcurrentWorkers)
	log.Printf("Using %d workers for file %s (%d records)", numWorkers, fileName, len(results))

	batches := make(chan []model.Result, numWorkers)
	errs := make(chan error, numWorkers)
	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go s.worker(ctx, importID, batches, errs, &wg)
	}

	for start := 0; start < len(results); start += resultBatchSize {
		end := min(start+resultBatchSize, len(results))
		batches <- results[start:end]
	}
	close(batches)
	wg.Wait()
	close(errs)

	if err := <-errs; err != nil {
		s.updateProgressError(importID, err.Error())
		return report.ID, err
	}

	s.completeProgress(importID)
	log.Printf("Processing completed for %s in %v", fileName, time.Since(startTime))

	return report.ID, nil
}

// calculateWorkers determines the number of workers based on file size
func calculateWorkers(fileSize int64) int {
	cpus := runtime.NumCPU()

	if fileSize < 1_000_000 {
		return min(2, cpus)
	}
	if fileSize < 10_000_000 {
		return min(4, cpus)
	}
	if fileSize < 100_000_000 {
		return min(8, cpus)
	}
	return min(16, cpus)
}

func (s *ImportService) worker(ctx context.Context, importID string, batches <-chan []model.Result, errs chan<- error, wg *sync.WaitGroup) {
	s.workerSemaphore <- struct{}{}
	defer func() {
		<-s.workerSemaphore
		wg.Done()
	}()

	failed := false
	for batch := range batches {
		if failed {
			continue
		}
		if err := s.saveBatch(ctx, batch); err != nil {
			log.Printf("Error inserting batch for import %s: %v", importID, err)
			errs <- err
			failed = true
			continue
		}
		s.updateProgress(importID, len(batch))
	}
}

func (s *ImportService) saveBatch(ctx context.Context, results []model.Result) error {
	if len(results) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Create(&results).Error; err != nil {
		return fmt.Errorf("failed to insert %d results: %w", len(results), err)
	}
	return nil
}
