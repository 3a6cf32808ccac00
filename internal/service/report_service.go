package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"

	"resultboard/internal/cache"
	"resultboard/internal/extract"
	"resultboard/internal/grading"
	"resultboard/internal/model"
)

var ErrReportNotFound = errors.New("report not found")

const noMatchesMessage = "No student records were found in the document."

// Analysis is the recomputed view of one report. Nothing in it is cached.
type Analysis struct {
	ReportID   string                `json:"reportId"`
	FileName   string                `json:"fileName"`
	Format     string                `json:"format"`
	Policy     string                `json:"policy"`
	Subjects   []string              `json:"subjects,omitempty"`
	Records    []model.StudentRecord `json:"records"`
	Stats      grading.SummaryStats  `json:"stats"`
	Bands      []null.String         `json:"bands"`
	BandCounts []grading.BandCount   `json:"bandCounts"`
	Statuses   []string              `json:"statuses"`
	Message    string                `json:"message,omitempty"`

	Table model.ReportTable `json:"-"`
}

type ReportService struct {
	db            *gorm.DB
	cache         cache.TableCache
	defaultPolicy string
}

func NewReportService(db *gorm.DB, c cache.TableCache, defaultPolicy string) *ReportService {
	if c == nil {
		c = cache.Noop{}
	}
	return &ReportService{db: db, cache: c, defaultPolicy: defaultPolicy}
}

// Policy resolves a policy name, falling back to the configured default.
func (s *ReportService) Policy(name string) (grading.Policy, error) {
	if name == "" {
		name = s.defaultPolicy
	}
	return grading.Lookup(name)
}

// Extract detects the format and extracts the table, consulting the cache
// first. Cache failures are logged and never fail the extraction.
func (s *ReportService) Extract(ctx context.Context, fileName string, data []byte) (model.ReportTable, extract.Format, error) {
	format, err := extract.DetectFormat(fileName)
	if err != nil {
		return model.ReportTable{}, "", err
	}

	key := cache.Key(string(format), data)
	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		log.Printf("Cache lookup failed for %s: %v", fileName, err)
	}
	if cached != nil {
		return *cached, format, nil
	}

	table, err := extract.Extract(format, data)
	if err != nil {
		return model.ReportTable{}, format, fmt.Errorf("%s: %w", fileName, err)
	}
	if err := s.cache.Set(ctx, key, table); err != nil {
		log.Printf("Cache store failed for %s: %v", fileName, err)
	}
	return table, format, nil
}

// Analyze extracts, persists and analyses one upload.
func (s *ReportService) Analyze(ctx context.Context, fileName string, data []byte, policyName string) (*Analysis, error) {
	policy, err := s.Policy(policyName)
	if err != nil {
		return nil, err
	}

	fileName = filepath.Base(fileName)
	table, format, err := s.Extract(ctx, fileName, data)
	if err != nil {
		return nil, err
	}

	report, err := s.Save(ctx, fileName, format, table)
	if err != nil {
		return nil, err
	}
	log.Printf("Stored report %s (%s, %d records)", report.ID, fileName, table.Len())

	return analyze(report, table, policy), nil
}

// Save persists a table as a new report with a fresh ID.
func (s *ReportService) Save(ctx context.Context, fileName string, format extract.Format, table model.ReportTable) (model.Report, error) {
	report := model.NewReport(uuid.NewString(), fileName, string(format), table)
	if err := s.db.WithContext(ctx).Create(&report).Error; err != nil {
		return model.Report{}, fmt.Errorf("failed to store report: %w", err)
	}
	return report, nil
}

// Load fetches a stored report with its results and marks.
func (s *ReportService) Load(ctx context.Context, id string) (model.Report, error) {
	var report model.Report
	err := s.db.WithContext(ctx).Preload("Results.Marks").First(&report, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Report{}, ErrReportNotFound
	}
	if err != nil {
		return model.Report{}, err
	}
	return report, nil
}

// Get recomputes the analysis of a stored report.
func (s *ReportService) Get(ctx context.Context, id, policyName string) (*Analysis, error) {
	policy, err := s.Policy(policyName)
	if err != nil {
		return nil, err
	}
	report, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	return analyze(report, report.Table(), policy), nil
}

func analyze(report model.Report, table model.ReportTable, policy grading.Policy) *Analysis {
	if table.Records == nil {
		table.Records = []model.StudentRecord{}
	}
	a := &Analysis{
		ReportID: report.ID,
		FileName: report.FileName,
		Format:   report.Format,
		Policy:   policy.Name,
		Subjects: table.Subjects,
		Records:  table.Records,
		Stats:    grading.Summarize(table),
		Bands:    grading.Classify(policy, table),
		Statuses: grading.Statuses(table),
		Table:    table,
	}
	a.BandCounts = grading.BandCounts(policy, a.Bands)
	if table.Len() == 0 {
		a.Message = noMatchesMessage
	}
	return a
}
