package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loadestimator/internal/refdata"
)

const reportCSV = `building_type,load_level,refrigeration_per_area,occupancy_per_area,electrical_per_area,min_tons_per_area,max_tons_per_area
Office,Low,28,0.004,1.2,0.002,0.004
Office,Average,34,0.005,1.8,0.002,0.004
Office,High,42,0.0067,2.5,0.002,0.004
Retail,Low,30,0.006,1.5,0.0022,0.0042
Retail,Average,38,0.008,2.2,0.0022,0.0042
Retail,High,48,0.011,3.0,0.0022,0.0042
`

func TestBuildPDF(t *testing.T) {
	table, err := refdata.Parse(strings.NewReader(reportCSV))
	require.NoError(t, err)

	est := NewEstimateService(table)
	rr, err := est.Estimate("Office", 7500)
	require.NoError(t, err)

	pdf, err := NewReportService().BuildPDF(rr, nil)
	require.NoError(t, err)

	assert.True(t, len(pdf) > 1000)
	assert.True(t, strings.HasPrefix(string(pdf[:5]), "%PDF-"))
}

func TestBuildPDFWithComparison(t *testing.T) {
	table, err := refdata.Parse(strings.NewReader(reportCSV))
	require.NoError(t, err)

	est := NewEstimateService(table)
	rr, err := est.Estimate("Office", 7500)
	require.NoError(t, err)
	cmp, err := est.Compare([]string{"Office", "Retail"}, 7500)
	require.NoError(t, err)

	pdf, err := NewReportService().BuildPDF(rr, &cmp)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(string(pdf[:5]), "%PDF-"))
}
