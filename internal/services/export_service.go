package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/pawhome/pawhome-api/internal/models"
	"github.com/pawhome/pawhome-api/internal/repository"
)

// ExportService renders the audit trail into downloadable documents
type ExportService struct {
	audits *AuditService
}

// NewExportService creates a new export service
func NewExportService(audits *AuditService) *ExportService {
	return &ExportService{audits: audits}
}

// exportLimit caps how many rows a single export pulls.
const exportLimit = 5000

var auditExportHeader = []string{
	"ID", "Time", "Action Type", "Actor", "Actor Email",
	"Target Type", "Target ID", "Action", "Previous Status", "New Status", "Reason",
}

func auditExportRow(log *models.AuditLog) []string {
	reason := ""
	if log.Reason != nil {
		reason = *log.Reason
	}
	return []string{
		strconv.FormatUint(uint64(log.ID), 10),
		log.CreatedAt.Format(time.RFC3339),
		log.ActionType,
		log.ActorName,
		log.ActorEmail,
		log.TargetType,
		strconv.FormatUint(uint64(log.TargetID), 10),
		log.Action,
		log.PreviousStatus,
		log.NewStatus,
		reason,
	}
}

// ExportCSV renders matching audit rows as CSV
func (s *ExportService) ExportCSV(ctx context.Context, filter repository.AuditFilter) ([]byte, error) {
	logs, err := s.audits.List(ctx, filter, exportLimit)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(auditExportHeader); err != nil {
		return nil, NewInternalError("無法匯出審核紀錄", err)
	}
	for i := range logs {
		if err := w.Write(auditExportRow(&logs[i])); err != nil {
			return nil, NewInternalError("無法匯出審核紀錄", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, NewInternalError("無法匯出審核紀錄", err)
	}
	return buf.Bytes(), nil
}

// ExportXLSX renders matching audit rows as a spreadsheet
func (s *ExportService) ExportXLSX(ctx context.Context, filter repository.AuditFilter) ([]byte, error) {
	logs, err := s.audits.List(ctx, filter, exportLimit)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Audit Log"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, NewInternalError("無法匯出審核紀錄", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for col, title := range auditExportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, title)
	}

	for i := range logs {
		for col, value := range auditExportRow(&logs[i]) {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, NewInternalError("無法匯出審核紀錄", err)
	}
	return buf.Bytes(), nil
}

// ExportPDF renders matching audit rows as a landscape PDF table
func (s *ExportService) ExportPDF(ctx context.Context, filter repository.AuditFilter) ([]byte, error) {
	logs, err := s.audits.List(ctx, filter, exportLimit)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 12)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 10, "Audit Log Export")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 8)
	pdf.Cell(0, 6, fmt.Sprintf("Generated %s, %d records", time.Now().Format("2006-01-02 15:04"), len(logs)))
	pdf.Ln(10)

	widths := []float64{12, 34, 36, 28, 42, 20, 16, 20, 26, 26, 0}

	pdf.SetFont("Helvetica", "B", 8)
	for i, title := range auditExportHeader {
		w := widths[i]
		if w == 0 {
			w = 28
		}
		pdf.CellFormat(w, 7, title, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 7)
	for i := range logs {
		for j, value := range auditExportRow(&logs[i]) {
			w := widths[j]
			if w == 0 {
				w = 28
			}
			pdf.CellFormat(w, 6, value, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, NewInternalError("無法匯出審核紀錄", err)
	}
	return buf.Bytes(), nil
}
