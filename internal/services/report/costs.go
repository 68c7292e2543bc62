package report

import (
	"sort"

	"github.com/voltsite/voltsitego/internal/models"
)

// CostLine is one cable type rolled up across the schedule.
type CostLine struct {
	CableType    string  `json:"cableType"`
	Runs         int     `json:"runs"`
	TotalLengthM float64 `json:"totalLengthM"`
	UnitPrice    float64 `json:"unitPrice"` // per metre; 0 when no price is known
	Cost         float64 `json:"cost"`
}

// CostReport is the rolled-up cable cost summary for one project.
type CostReport struct {
	ProjectName string     `json:"projectName"`
	Lines       []CostLine `json:"lines"`
	TotalCost   float64    `json:"totalCost"`
	Currency    string     `json:"currency"`
	Unpriced    int        `json:"unpriced"` // cable types missing a unit price
}

// BuildCostReport rolls the cable schedule up by cable type and prices each
// line from the material price list. Types without a price still appear with
// zero cost so the report shows what is missing.
func BuildCostReport(projectName string, entries []models.CableEntry, prices []models.MaterialPrice) CostReport {
	priceByCode := make(map[string]models.MaterialPrice, len(prices))
	for _, p := range prices {
		priceByCode[p.Code] = p
	}

	byType := make(map[string]*CostLine)
	for _, e := range entries {
		line, ok := byType[e.CableType]
		if !ok {
			line = &CostLine{CableType: e.CableType}
			byType[e.CableType] = line
		}
		line.Runs++
		line.TotalLengthM += e.LengthM
	}

	report := CostReport{ProjectName: projectName, Currency: "EUR"}
	for _, line := range byType {
		if p, ok := priceByCode[line.CableType]; ok {
			line.UnitPrice = p.UnitPrice
			line.Cost = line.TotalLengthM * p.UnitPrice
			if p.Currency != "" {
				report.Currency = p.Currency
			}
		} else {
			report.Unpriced++
		}
		report.TotalCost += line.Cost
		report.Lines = append(report.Lines, *line)
	}

	sort.Slice(report.Lines, func(i, j int) bool {
		return report.Lines[i].CableType < report.Lines[j].CableType
	})
	return report
}
