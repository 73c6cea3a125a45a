package services

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/wcharczuk/go-chart/v2"

	"loadestimator/internal/models"
)

// ReportService renders a range-results snapshot into a downloadable
// PDF: summary metrics, low/high range analysis, design rates, and a
// tonnage chart.
type ReportService struct{}

func NewReportService() *ReportService {
	return &ReportService{}
}

// BuildPDF produces the report byte stream. cmp is optional; when
// present a multi-type tonnage comparison chart is embedded instead of
// the single-type one.
func (s *ReportService) BuildPDF(rr models.RangeResults, cmp *models.Comparison) ([]byte, error) {
	png, err := tonnageChart(rr, cmp)
	if err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	line(pdf, "Cooling Load Estimator Report")
	pdf.SetFont("Arial", "", 10)
	line(pdf, "Generated: "+time.Now().UTC().Format("2006-01-02 15:04:05"))
	line(pdf, fmt.Sprintf("Building: %s, Area: %.0f sq ft", rr.BuildingType, rr.FloorAreaSqFt))
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 11)
	line(pdf, "Results Summary (Average Values)")
	pdf.SetFont("Arial", "", 10)
	line(pdf, fmt.Sprintf("Cooling Tonnage: %.2f tons", rr.Average.RefrigerationTons))
	line(pdf, fmt.Sprintf("Total Occupancy: %d people", rr.Average.OccupancyCount))
	line(pdf, fmt.Sprintf("Plug/Light Load: %.2f kW", rr.Average.ElectricalKW))
	if rr.Average.OutOfBounds {
		line(pdf, fmt.Sprintf("Warning: tons/sq ft %.5f is outside the expected range [%.5f, %.5f]",
			rr.Average.TonsPerSqFt, rr.Average.Rates.MinTonsPerArea, rr.Average.Rates.MaxTonsPerArea))
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 11)
	line(pdf, "Load Range Analysis")
	pdf.SetFont("Arial", "", 10)
	line(pdf, fmt.Sprintf("Tonnage Range: %.2f - %.2f tons",
		rr.Low.RefrigerationTons, rr.High.RefrigerationTons))
	line(pdf, fmt.Sprintf("Occupancy Range: %d - %d people",
		rr.Low.OccupancyCount, rr.High.OccupancyCount))
	line(pdf, fmt.Sprintf("Electrical Range: %.2f - %.2f kW",
		rr.Low.ElectricalKW, rr.High.ElectricalKW))
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 11)
	line(pdf, "Design Rates")
	pdf.SetFont("Arial", "", 10)
	for _, row := range []struct {
		label string
		res   models.Result
	}{
		{"Low", rr.Low},
		{"Average", rr.Average},
		{"High", rr.High},
	} {
		line(pdf, fmt.Sprintf("%s: refrigeration %.3f, occupancy %.4f /sq ft, plug/light %.2f W/sq ft",
			row.label, row.res.Rates.RefrigerationPerArea,
			row.res.Rates.OccupancyPerArea, row.res.Rates.ElectricalPerArea))
	}
	line(pdf, "Note: electrical values estimate lights and plug loads for HVAC heat gain, not total service size.")
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 11)
	line(pdf, "Tonnage Chart")
	opt := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("tonnage-chart", opt, bytes.NewReader(png))
	pdf.ImageOptions("tonnage-chart", 15, pdf.GetY(), 180, 0, true, opt, 0, "")

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return out.Bytes(), nil
}

func line(pdf *fpdf.Fpdf, txt string) {
	pdf.CellFormat(0, 7, txt, "", 1, "L", false, 0, "")
}

// tonnageChart renders a grouped bar chart: one bar per load level for
// the single-type report, one bar per (type, level) in comparison mode.
func tonnageChart(rr models.RangeResults, cmp *models.Comparison) ([]byte, error) {
	var bars []chart.Value
	title := fmt.Sprintf("Tonnage for %.0f sq ft", rr.FloorAreaSqFt)

	if cmp != nil && len(cmp.Results) > 1 {
		types := make([]string, 0, len(cmp.Results))
		for bt := range cmp.Results {
			types = append(types, bt)
		}
		sort.Strings(types)
		for _, bt := range types {
			r := cmp.Results[bt]
			bars = append(bars,
				chart.Value{Label: truncate(bt) + " Low", Value: r.Low.RefrigerationTons},
				chart.Value{Label: truncate(bt) + " Avg", Value: r.Average.RefrigerationTons},
				chart.Value{Label: truncate(bt) + " High", Value: r.High.RefrigerationTons},
			)
		}
	} else {
		bars = []chart.Value{
			{Label: "Low", Value: rr.Low.RefrigerationTons},
			{Label: "Average", Value: rr.Average.RefrigerationTons},
			{Label: "High", Value: rr.High.RefrigerationTons},
		}
	}

	graph := chart.BarChart{
		Title:    title,
		Width:    900,
		Height:   450,
		BarWidth: 40,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		YAxis: chart.YAxis{
			Name: "Tonnage (tons)",
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func truncate(s string) string {
	if len(s) > 14 {
		return s[:12] + ".."
	}
	return s
}
