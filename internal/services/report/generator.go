package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
	"github.com/voltsite/voltsitego/internal/utils"
)

// GenerateCostReportPDF renders the rolled-up cable cost report as an A4 PDF.
func GenerateCostReportPDF(report CostReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "Cable Cost Report", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 7, report.ProjectName, "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 6, "Generated "+time.Now().UTC().Format("2006-01-02 15:04 UTC"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// Table header
	colW := []float64{70.0, 18.0, 28.0, 30.0, 34.0}
	headers := []string{"Cable Type", "Runs", "Length (m)", "Unit Price", "Cost"}
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(colW[i], 8, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, line := range report.Lines {
		price := "-"
		cost := "-"
		if line.UnitPrice > 0 {
			price = fmt.Sprintf("%.2f %s/m", line.UnitPrice, report.Currency)
			cost = fmt.Sprintf("%.2f %s", line.Cost, report.Currency)
		}
		pdf.CellFormat(colW[0], 7, line.CableType, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW[1], 7, fmt.Sprintf("%d", line.Runs), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colW[2], 7, fmt.Sprintf("%.1f", line.TotalLengthM), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colW[3], 7, price, "1", 0, "R", false, 0, "")
		pdf.CellFormat(colW[4], 7, cost, "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	// Total row
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(colW[0]+colW[1]+colW[2]+colW[3], 8, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(colW[4], 8, fmt.Sprintf("%.2f %s", report.TotalCost, report.Currency), "1", 0, "R", false, 0, "")
	pdf.Ln(8)

	if report.Unpriced > 0 {
		pdf.Ln(4)
		pdf.SetFont("Arial", "I", 9)
		pdf.CellFormat(0, 6, fmt.Sprintf("%d cable type(s) without a unit price are excluded from the total.", report.Unpriced), "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}


// LabelSheetConfig holds the grid layout for equipment label sheets.
type LabelSheetConfig struct {
	Cols       int     `json:"cols"`
	Rows       int     `json:"rows"`
	MarginTop  float64 `json:"marginTop"`
	MarginLeft float64 `json:"marginLeft"`
	GapX       float64 `json:"gapX"`
	GapY       float64 `json:"gapY"`
}

// DefaultLabelSheet matches common 3x8 adhesive label stock.
func DefaultLabelSheet() LabelSheetConfig {
	return LabelSheetConfig{Cols: 3, Rows: 8, MarginTop: 10, MarginLeft: 7, GapX: 3, GapY: 0}
}

// EquipmentLabel is one label to print: a QR payload plus the human-readable
// line under it.
type EquipmentLabel struct {
	EquipmentID string `json:"equipmentId"`
	TypeCode    string `json:"typeCode"`
	Caption     string `json:"caption,omitempty"`
}

// GenerateLabelSheetPDF renders equipment QR labels onto A4 label stock.
func GenerateLabelSheetPDF(cfg LabelSheetConfig, labels []EquipmentLabel) ([]byte, error) {
	if cfg.Cols <= 0 || cfg.Rows <= 0 {
		return nil, fmt.Errorf("invalid label grid %dx%d", cfg.Cols, cfg.Rows)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont("Arial", "B", 10)

	pageWidth, pageHeight := 210.0, 297.0
	totalGapX := float64(cfg.Cols-1) * cfg.GapX
	totalGapY := float64(cfg.Rows-1) * cfg.GapY
	availW := pageWidth - (cfg.MarginLeft * 2)
	availH := pageHeight - (cfg.MarginTop * 2)
	labelW := (availW - totalGapX) / float64(cfg.Cols)
	labelH := (availH - totalGapY) / float64(cfg.Rows)

	labelsPerPage := cfg.Cols * cfg.Rows

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		indexOnPage := i % labelsPerPage
		col := indexOnPage % cfg.Cols
		row := indexOnPage / cfg.Cols

		x := cfg.MarginLeft + float64(col)*(labelW+cfg.GapX)
		y := cfg.MarginTop + float64(row)*(labelH+cfg.GapY)

		tagCode := utils.GenerateEquipmentTag(label.EquipmentID, label.TypeCode)
		qrContent := "VOLTSITE/" + tagCode

		qrPng, err := qrcode.Encode(qrContent, qrcode.Low, 256)
		if err != nil {
			return nil, err
		}

		imgName := fmt.Sprintf("qr_%d", i)
		imgOptions := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
		reader := bytes.NewReader(qrPng)
		_ = pdf.RegisterImageOptionsReader(imgName, imgOptions, reader)

		// QR centered, 70% of label height, shifted up for the caption
		qrSize := labelH * 0.7
		if qrSize > labelW {
			qrSize = labelW * 0.9
		}
		qrX := x + (labelW-qrSize)/2
		qrY := y + (labelH-qrSize)/2 - 2
		pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, imgOptions, 0, "")

		caption := label.Caption
		if caption == "" {
			caption = tagCode
		}
		pdf.SetXY(x, y+labelH-6)
		pdf.SetFontSize(8)
		pdf.CellFormat(labelW, 5, caption, "", 0, "C", false, 0, "")
		pdf.SetFontSize(10)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
