package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"flavoradmin/internal/repository"

	"github.com/xuri/excelize/v2"
)

var (
	flavorExportHeader = []string{"id", "brandId", "name", "description", "profile"}
	stockExportHeader  = []string{"id", "flavorId", "quantity"}
)

// ExportService renders catalog data as downloadable files. Column layout
// mirrors the import format so an exported file can be re-imported as is.
type ExportService interface {
	FlavorsCSV(ctx context.Context) ([]byte, error)
	FlavorsXLSX(ctx context.Context) ([]byte, error)
	StocksCSV(ctx context.Context) ([]byte, error)
	StocksXLSX(ctx context.Context) ([]byte, error)
}

type exportService struct {
	flavors repository.FlavorRepository
	stocks  repository.StockRepository
}

func NewExportService(flavors repository.FlavorRepository, stocks repository.StockRepository) ExportService {
	return &exportService{flavors: flavors, stocks: stocks}
}

func (s *exportService) flavorRecords(ctx context.Context) ([][]string, error) {
	flavors, err := s.flavors.List(ctx, repository.FlavorFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch flavors: %w", err)
	}

	records := [][]string{flavorExportHeader}
	for _, f := range flavors {
		records = append(records, []string{
			strconv.FormatUint(uint64(f.ID), 10),
			strconv.FormatUint(uint64(f.BrandID), 10),
			f.Name,
			f.Description,
			f.Profile,
		})
	}
	return records, nil
}

func (s *exportService) stockRecords(ctx context.Context) ([][]string, error) {
	stocks, err := s.stocks.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stocks: %w", err)
	}

	records := [][]string{stockExportHeader}
	for _, st := range stocks {
		records = append(records, []string{
			strconv.FormatUint(uint64(st.ID), 10),
			strconv.FormatUint(uint64(st.FlavorID), 10),
			strconv.Itoa(st.Quantity),
		})
	}
	return records, nil
}

func (s *exportService) FlavorsCSV(ctx context.Context) ([]byte, error) {
	records, err := s.flavorRecords(ctx)
	if err != nil {
		return nil, err
	}
	return writeCSV(records)
}

func (s *exportService) FlavorsXLSX(ctx context.Context) ([]byte, error) {
	records, err := s.flavorRecords(ctx)
	if err != nil {
		return nil, err
	}
	return writeXLSX(records)
}

func (s *exportService) StocksCSV(ctx context.Context) ([]byte, error) {
	records, err := s.stockRecords(ctx)
	if err != nil {
		return nil, err
	}
	return writeCSV(records)
}

func (s *exportService) StocksXLSX(ctx context.Context) ([]byte, error) {
	records, err := s.stockRecords(ctx)
	if err != nil {
		return nil, err
	}
	return writeXLSX(records)
}

func writeCSV(records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}
	return buf.Bytes(), nil
}

func writeXLSX(records [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, record := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		row := make([]interface{}, len(record))
		for j, v := range record {
			row[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write sheet row: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}
	return buf.Bytes(), nil
}
