package report

import (
	"math"
	"testing"

	"github.com/voltsite/voltsitego/internal/models"
)

func TestBuildCostReport(t *testing.T) {
	entries := []models.CableEntry{
		{CableType: "SWA 4c 16mm", LengthM: 40},
		{CableType: "SWA 4c 16mm", LengthM: 25.5},
		{CableType: "2.5mm T&E", LengthM: 120},
		{CableType: "Cat6", LengthM: 300},
	}
	prices := []models.MaterialPrice{
		{Code: "SWA 4c 16mm", UnitPrice: 8.40, Currency: "EUR"},
		{Code: "2.5mm T&E", UnitPrice: 0.95, Currency: "EUR"},
	}

	report := BuildCostReport("Unit 7 Fit-Out", entries, prices)

	if len(report.Lines) != 3 {
		t.Fatalf("Expected 3 rolled-up lines, got %d", len(report.Lines))
	}

	// Lines are sorted by cable type.
	if report.Lines[0].CableType != "2.5mm T&E" || report.Lines[1].CableType != "Cat6" || report.Lines[2].CableType != "SWA 4c 16mm" {
		t.Errorf("Lines should sort by cable type, got %+v", report.Lines)
	}

	swa := report.Lines[2]
	if swa.Runs != 2 {
		t.Errorf("Expected 2 SWA runs, got %d", swa.Runs)
	}
	if math.Abs(swa.TotalLengthM-65.5) > 1e-9 {
		t.Errorf("Expected 65.5 m of SWA, got %f", swa.TotalLengthM)
	}
	if math.Abs(swa.Cost-65.5*8.40) > 1e-9 {
		t.Errorf("Expected SWA cost %.2f, got %f", 65.5*8.40, swa.Cost)
	}

	// Cat6 has no price: counted as unpriced, zero cost.
	if report.Unpriced != 1 {
		t.Errorf("Expected 1 unpriced type, got %d", report.Unpriced)
	}
	if report.Lines[1].Cost != 0 {
		t.Errorf("Unpriced line should carry zero cost, got %f", report.Lines[1].Cost)
	}

	wantTotal := 65.5*8.40 + 120*0.95
	if math.Abs(report.TotalCost-wantTotal) > 1e-9 {
		t.Errorf("Expected total %.2f, got %f", wantTotal, report.TotalCost)
	}
}

func TestBuildCostReport_Empty(t *testing.T) {
	report := BuildCostReport("Empty Project", nil, nil)
	if len(report.Lines) != 0 || report.TotalCost != 0 || report.Unpriced != 0 {
		t.Errorf("Empty schedule should produce an empty report, got %+v", report)
	}
}

func TestGenerateCostReportPDF(t *testing.T) {
	report := BuildCostReport("Unit 7 Fit-Out", []models.CableEntry{
		{CableType: "SWA 4c 16mm", LengthM: 40},
	}, []models.MaterialPrice{
		{Code: "SWA 4c 16mm", UnitPrice: 8.40},
	})

	pdfBytes, err := GenerateCostReportPDF(report)
	if err != nil {
		t.Fatalf("Failed to generate PDF: %v", err)
	}
	if len(pdfBytes) == 0 {
		t.Fatal("PDF output should not be empty")
	}
	if string(pdfBytes[:5]) != "%PDF-" {
		t.Errorf("Output should start with the PDF magic, got %q", pdfBytes[:5])
	}
}

func TestGenerateLabelSheetPDF(t *testing.T) {
	labels := []EquipmentLabel{
		{EquipmentID: "DB1-014", TypeCode: "DB"},
		{EquipmentID: "SO-201", TypeCode: "SO", Caption: "Socket ring 2"},
	}

	pdfBytes, err := GenerateLabelSheetPDF(DefaultLabelSheet(), labels)
	if err != nil {
		t.Fatalf("Failed to generate label sheet: %v", err)
	}
	if len(pdfBytes) == 0 || string(pdfBytes[:5]) != "%PDF-" {
		t.Error("Label sheet should be a non-empty PDF")
	}

	// Degenerate grid is rejected.
	if _, err := GenerateLabelSheetPDF(LabelSheetConfig{}, labels); err == nil {
		t.Error("Zero-size grid should be rejected")
	}
}
