// Package export renders daily consumption reports as XLSX or PDF.
package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/InsiderP/smart-energy/internal/energy"
)

// BuildDailyReportPDF renders one day's hourly buckets as a PDF.
func BuildDailyReportPDF(day time.Time, buckets []energy.HistoryBucket) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Energy Consumption Report")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Day: %s", day.Format("2006-01-02")))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", time.Now().UTC().Format(time.RFC3339)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Total (W): %.2f", totalConsumption(buckets)))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(40, 6, "Date", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Hour", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 6, "Consumption (W)", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, bucket := range buckets {
		pdf.CellFormat(40, 6, bucket.Date, "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%02d:00", bucket.Hour), "1", 0, "C", false, 0, "")
		pdf.CellFormat(50, 6, fmt.Sprintf("%.2f", bucket.Consumption), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildDailyReportXLSX renders one day's hourly buckets as an XLSX
// workbook with a summary and an hourly sheet.
func BuildDailyReportXLSX(day time.Time, buckets []energy.HistoryBucket) ([]byte, error) {
	f := excelize.NewFile()
	summarySheet := "summary"
	hourlySheet := "hourly"
	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(hourlySheet); err != nil {
		return nil, err
	}

	_ = f.SetCellValue(summarySheet, "A1", "Energy Consumption Report")
	_ = f.SetCellValue(summarySheet, "A3", "Day")
	_ = f.SetCellValue(summarySheet, "B3", day.Format("2006-01-02"))
	_ = f.SetCellValue(summarySheet, "A4", "Buckets")
	_ = f.SetCellValue(summarySheet, "B4", len(buckets))
	_ = f.SetCellValue(summarySheet, "A5", "Total (W)")
	_ = f.SetCellValue(summarySheet, "B5", totalConsumption(buckets))

	_ = f.SetCellValue(hourlySheet, "A1", "Date")
	_ = f.SetCellValue(hourlySheet, "B1", "Hour")
	_ = f.SetCellValue(hourlySheet, "C1", "Consumption (W)")
	for i, bucket := range buckets {
		row := i + 2
		_ = f.SetCellValue(hourlySheet, fmt.Sprintf("A%d", row), bucket.Date)
		_ = f.SetCellValue(hourlySheet, fmt.Sprintf("B%d", row), bucket.Hour)
		_ = f.SetCellValue(hourlySheet, fmt.Sprintf("C%d", row), bucket.Consumption)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func totalConsumption(buckets []energy.HistoryBucket) float64 {
	var total float64
	for _, bucket := range buckets {
		total += bucket.Consumption
	}
	return total
}
