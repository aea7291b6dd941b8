package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/abonos-app/abonos-api/internal/models"
	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// ExportService renders reports as downloadable files
type ExportService struct {
	reportSvc *ReportService
}

func NewExportService(reportSvc *ReportService) *ExportService {
	return &ExportService{reportSvc: reportSvc}
}

// StatementPDF renders a client's account statement as a PDF
func (s *ExportService) StatementPDF(ctx context.Context, clientID uint) ([]byte, string, error) {
	statement, err := s.reportSvc.Statement(ctx, clientID)
	if err != nil {
		return nil, "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Estado de Cuenta")
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(40, 8, fmt.Sprintf("Cliente: %s", statement.ClientName))
	pdf.Ln(6)
	pdf.Cell(40, 8, fmt.Sprintf("Emitido: %s", time.Now().Format("2006-01-02")))
	pdf.Ln(10)

	// Table header
	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(22, 7, "Fecha", "1", 0, "C", false, 0, "")
	pdf.CellFormat(88, 7, "Concepto", "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 7, "Debe", "1", 0, "R", false, 0, "")
	pdf.CellFormat(25, 7, "Haber", "1", 0, "R", false, 0, "")
	pdf.CellFormat(25, 7, "Saldo", "1", 0, "R", false, 0, "")
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, event := range statement.Events {
		description := event.Description
		if len(description) > 52 {
			description = description[:52]
		}
		pdf.CellFormat(22, 6, event.Date.Format("2006-01-02"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(88, 6, description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, event.Debit.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, event.Credit.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, event.Balance.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(110, 7, "Totales", "1", 0, "R", false, 0, "")
	pdf.CellFormat(25, 7, statement.TotalDebit.StringFixed(2), "1", 0, "R", false, 0, "")
	pdf.CellFormat(25, 7, statement.TotalCredit.StringFixed(2), "1", 0, "R", false, 0, "")
	pdf.CellFormat(25, 7, statement.Balance.StringFixed(2), "1", 0, "R", false, 0, "")
	pdf.Ln(-1)

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("estado_cuenta_%d_%s.pdf", clientID, time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// CollectionsCSV renders a month's collections report as CSV
func (s *ExportService) CollectionsCSV(ctx context.Context, period models.Period) ([]byte, string, error) {
	report, err := s.reportSvc.Collections(ctx, period)
	if err != nil {
		return nil, "", err
	}

	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)

	_ = writer.Write([]string{"Reporte de Cobranzas", report.Period.String()})
	_ = writer.Write([]string{""})
	_ = writer.Write([]string{"Fecha", "Cliente", "Método", "Importe"})

	for _, row := range report.Rows {
		_ = writer.Write([]string{
			row.Date.Format("2006-01-02"),
			row.ClientName,
			row.Method,
			row.Amount.StringFixed(2),
		})
	}

	_ = writer.Write([]string{""})
	_ = writer.Write([]string{"", "", "Total", report.Total.StringFixed(2)})

	_ = writer.Write([]string{""})
	_ = writer.Write([]string{"Por Método"})
	for method, amount := range report.ByMethod {
		_ = writer.Write([]string{method, amount.StringFixed(2)})
	}

	writer.Flush()

	filename := fmt.Sprintf("cobranzas_%d_%02d.csv", period.Year, period.Month)
	return buf.Bytes(), filename, nil
}

// CollectionsXLSX renders a month's collections report as XLSX
func (s *ExportService) CollectionsXLSX(ctx context.Context, period models.Period) ([]byte, string, error) {
	report, err := s.reportSvc.Collections(ctx, period)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Cobranzas"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	_ = f.SetCellValue(sheet, "A1", fmt.Sprintf("Reporte de Cobranzas %s", report.Period))
	_ = f.SetCellStyle(sheet, "A1", "A1", headerStyle)

	_ = f.SetCellValue(sheet, "A3", "Fecha")
	_ = f.SetCellValue(sheet, "B3", "Cliente")
	_ = f.SetCellValue(sheet, "C3", "Método")
	_ = f.SetCellValue(sheet, "D3", "Importe")

	row := 4
	for _, r := range report.Rows {
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), r.Date.Format("2006-01-02"))
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), r.ClientName)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), r.Method)
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", row), r.Amount.InexactFloat64())
		row++
	}

	row++
	_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), "Total")
	_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", row), report.Total.InexactFloat64())

	row += 2
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Por Método")
	row++
	for method, amount := range report.ByMethod {
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), method)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), amount.InexactFloat64())
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("cobranzas_%d_%02d.xlsx", period.Year, period.Month)
	return buf.Bytes(), filename, nil
}
