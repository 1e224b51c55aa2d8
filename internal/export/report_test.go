package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/InsiderP/smart-energy/internal/energy"
)

var reportDay = time.Date(2026, time.August, 28, 0, 0, 0, 0, time.UTC)

var reportBuckets = []energy.HistoryBucket{
	{Date: "2026-08-28", Hour: 1, Consumption: 5.0},
	{Date: "2026-08-28", Hour: 5, Consumption: 4.25},
}

func TestBuildDailyReportPDF(t *testing.T) {
	payload, err := BuildDailyReportPDF(reportDay, reportBuckets)
	if err != nil {
		t.Fatalf("build pdf: %v", err)
	}
	if !bytes.HasPrefix(payload, []byte("%PDF")) {
		t.Error("output is not a PDF document")
	}
}

func TestBuildDailyReportPDFEmptyDay(t *testing.T) {
	payload, err := BuildDailyReportPDF(reportDay, nil)
	if err != nil {
		t.Fatalf("build pdf: %v", err)
	}
	if len(payload) == 0 {
		t.Error("empty day still produces a report")
	}
}

func TestBuildDailyReportXLSX(t *testing.T) {
	payload, err := BuildDailyReportXLSX(reportDay, reportBuckets)
	if err != nil {
		t.Fatalf("build xlsx: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	day, err := f.GetCellValue("summary", "B3")
	if err != nil || day != "2026-08-28" {
		t.Errorf("summary day = %q, %v", day, err)
	}
	total, err := f.GetCellValue("summary", "B5")
	if err != nil || total != "9.25" {
		t.Errorf("summary total = %q, %v", total, err)
	}
	hour, err := f.GetCellValue("hourly", "B3")
	if err != nil || hour != "5" {
		t.Errorf("hourly row 3 hour = %q, %v", hour, err)
	}
}

func TestTotalConsumption(t *testing.T) {
	if got := totalConsumption(reportBuckets); got != 9.25 {
		t.Errorf("total = %v, want 9.25", got)
	}
	if got := totalConsumption(nil); got != 0 {
		t.Errorf("total of nil = %v, want 0", got)
	}
}
