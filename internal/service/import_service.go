package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"flavoradmin/internal/model"
	"flavoradmin/internal/repository"
	ws "flavoradmin/internal/websocket"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// ErrInvalidEntityType rejects uploads targeting anything outside the
// closed entity set.
var ErrInvalidEntityType = errors.New("invalid entity type")

type ImportJobResponse struct {
	ID         uint     `json:"id"`
	EntityType string   `json:"entity_type"`
	Filename   string   `json:"filename"`
	Status     string   `json:"status"`
	Errors     []string `json:"errors"`
	CreatedAt  string   `json:"created_at"`
}

type ImportService interface {
	// CreateJob persists the uploaded file and queues a pending job for the
	// background sweep. It does not process the file itself.
	CreateJob(ctx context.Context, actorID uint, entityType, originalName string, content []byte) (*ImportJobResponse, error)
	GetJob(ctx context.Context, id uint) (*ImportJobResponse, error)
	ListJobs(ctx context.Context) ([]ImportJobResponse, error)
	GetErrors(ctx context.Context, id uint) ([]string, error)
	// ProcessPending handles every job currently marked pending. Called by
	// the sweep; processing a job that is no longer pending is a no-op.
	ProcessPending(ctx context.Context) error
}

type importService struct {
	jobs      repository.ImportJobRepository
	flavors   repository.FlavorRepository
	stocks    repository.StockRepository
	audit     auditWriter
	txManager repository.TransactionManager
	uploadDir string
}

func NewImportService(
	jobs repository.ImportJobRepository,
	flavors repository.FlavorRepository,
	stocks repository.StockRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
	uploadDir string,
) ImportService {
	return &importService{
		jobs:      jobs,
		flavors:   flavors,
		stocks:    stocks,
		audit:     newAuditWriter(auditRepo, hub),
		txManager: txManager,
		uploadDir: uploadDir,
	}
}

func toImportJobResponse(job model.ImportJob) ImportJobResponse {
	return ImportJobResponse{
		ID:         job.ID,
		EntityType: job.EntityType,
		Filename:   job.Filename,
		Status:     job.Status,
		Errors:     decodeJobErrors(job.Errors),
		CreatedAt:  job.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func decodeJobErrors(raw string) []string {
	errs := []string{}
	if raw != "" {
		_ = json.Unmarshal([]byte(raw), &errs)
	}
	return errs
}

func (s *importService) CreateJob(ctx context.Context, actorID uint, entityType, originalName string, content []byte) (*ImportJobResponse, error) {
	if entityType != model.ImportEntityFlavors && entityType != model.ImportEntityStocks {
		return nil, ErrInvalidEntityType
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	filename := uuid.NewString() + "_" + filepath.Base(originalName)
	if err := os.WriteFile(filepath.Join(s.uploadDir, filename), content, 0o644); err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	job := &model.ImportJob{
		EntityType:   entityType,
		Filename:     filename,
		Status:       model.ImportStatusPending,
		UploadedByID: &actorID,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create import job: %w", err)
	}

	resp := toImportJobResponse(*job)
	return &resp, nil
}

func (s *importService) GetJob(ctx context.Context, id uint) (*ImportJobResponse, error) {
	job, err := s.jobs.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("import job not found")
	}
	resp := toImportJobResponse(*job)
	return &resp, nil
}

func (s *importService) ListJobs(ctx context.Context) ([]ImportJobResponse, error) {
	jobs, err := s.jobs.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch import jobs: %w", err)
	}

	res := make([]ImportJobResponse, 0, len(jobs))
	for _, job := range jobs {
		res = append(res, toImportJobResponse(job))
	}
	return res, nil
}

func (s *importService) GetErrors(ctx context.Context, id uint) ([]string, error) {
	job, err := s.jobs.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("import job not found")
	}
	return decodeJobErrors(job.Errors), nil
}

func (s *importService) ProcessPending(ctx context.Context) error {
	jobs, err := s.jobs.FindPending(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch pending jobs: %w", err)
	}

	for _, job := range jobs {
		rowErrs := s.processJob(ctx, job)

		status := model.ImportStatusCompleted
		if len(rowErrs) > 0 {
			status = model.ImportStatusFailed
		}
		payload, _ := json.Marshal(rowErrs)

		// Conditional update: if another pass already finished this job the
		// update matches zero rows and the result is discarded.
		if _, err := s.jobs.Finish(ctx, job.ID, status, string(payload)); err != nil {
			return fmt.Errorf("failed to finish job %d: %w", job.ID, err)
		}
	}
	return nil
}

// processJob parses the stored file and upserts its rows. Row failures are
// collected, never fatal: partial success is the norm.
func (s *importService) processJob(ctx context.Context, job model.ImportJob) []string {
	rows, err := s.readRows(filepath.Join(s.uploadDir, job.Filename))
	if err != nil {
		return []string{err.Error()}
	}

	rowErrs := []string{}
	for i, row := range rows {
		var rowErr error
		switch job.EntityType {
		case model.ImportEntityFlavors:
			rowErr = s.upsertFlavorRow(ctx, job.UploadedByID, row)
		case model.ImportEntityStocks:
			rowErr = s.upsertStockRow(ctx, job.UploadedByID, row)
		default:
			rowErr = ErrInvalidEntityType
		}
		if rowErr != nil {
			rowErrs = append(rowErrs, fmt.Sprintf("row %d: %v", i+1, rowErr))
		}
	}
	return rowErrs
}

// readRows loads a CSV or XLSX file into header-keyed records
func (s *importService) readRows(path string) ([]map[string]string, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open upload: %v", err)
		}
		defer f.Close()
		return readCSVRows(f)
	}
	return readXLSXRows(path)
}

func readCSVRows(r io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %v", err)
	}
	if len(records) == 0 {
		return nil, errors.New("file has no header row")
	}

	return recordsToRows(records), nil
}

func readXLSXRows(path string) ([]map[string]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %v", err)
	}
	if len(records) == 0 {
		return nil, errors.New("sheet has no header row")
	}

	return recordsToRows(records), nil
}

func recordsToRows(records [][]string) []map[string]string {
	header := records[0]
	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(header))
		for i, key := range header {
			if i < len(record) {
				row[strings.TrimSpace(key)] = strings.TrimSpace(record[i])
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func (s *importService) upsertFlavorRow(ctx context.Context, actorID *uint, row map[string]string) error {
	id, err := parseOptionalUint(row["id"])
	if err != nil {
		return fmt.Errorf("invalid id %q", row["id"])
	}
	brandID, err := strconv.ParseUint(row["brandId"], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid brandId %q", row["brandId"])
	}
	if row["name"] == "" {
		return errors.New("missing required field name")
	}

	flavor := &model.Flavor{
		ID:          id,
		BrandID:     uint(brandID),
		Name:        row["name"],
		Description: row["description"],
		Profile:     row["profile"],
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.flavors.Upsert(txCtx, flavor); err != nil {
			return err
		}
		details := map[string]interface{}{
			"brandId": flavor.BrandID,
			"name":    flavor.Name,
		}
		return s.audit.record(txCtx, actorID, "Flavor", flavor.ID, model.AuditActionCreate, details)
	})
}

func (s *importService) upsertStockRow(ctx context.Context, actorID *uint, row map[string]string) error {
	id, err := parseOptionalUint(row["id"])
	if err != nil {
		return fmt.Errorf("invalid id %q", row["id"])
	}
	flavorID, err := strconv.ParseUint(row["flavorId"], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid flavorId %q", row["flavorId"])
	}
	quantity, err := strconv.Atoi(row["quantity"])
	if err != nil {
		return fmt.Errorf("invalid quantity %q", row["quantity"])
	}

	stock := &model.Stock{
		ID:       id,
		FlavorID: uint(flavorID),
		Quantity: quantity,
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.stocks.Upsert(txCtx, stock); err != nil {
			return err
		}
		details := map[string]interface{}{
			"flavorId": stock.FlavorID,
			"quantity": stock.Quantity,
		}
		return s.audit.record(txCtx, actorID, "Stock", stock.ID, model.AuditActionCreate, details)
	})
}

func parseOptionalUint(s string) (uint, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}
