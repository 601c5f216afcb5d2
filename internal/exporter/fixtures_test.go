package exporter

import (
	apperrors "esccli/internal/errors"
	"esccli/pkg/contracts/domain"
)

// sampleResult builds a two-log result where B13's LNA table is undefined
// and diversity bands carry no sweep data
func sampleResult() *domain.AnalysisResult {
	result := &domain.AnalysisResult{
		RunID:  "run-1",
		LogIDs: []string{"a.xml", "b.xml"},
		Corrupt: []domain.CorruptLog{
			{LogID: "b.xml", Bands: []domain.BandID{domain.BandB13}},
		},
		MissingSegments: []domain.SegmentFailure{
			{LogID: "b.xml", Band: domain.BandB17Diversity, Err: apperrors.NewMissingMarker("b.xml", domain.BandB17Diversity, "Run_RSB_Pcell_Tx_LO_Cal")},
		},
		SweepAnomalies: []domain.SweepAnomaly{
			{LogID: "a.xml", Band: domain.BandB4, Limit: domain.PowerLimitMin, Found: 3},
		},
	}

	for _, band := range domain.AllBands() {
		spec := band.Spec()
		br := domain.BandResult{
			Band:  band,
			Sweep: make(map[domain.SweepMetric]domain.SummaryResult),
			LNA: domain.LNATable{
				Band:         band,
				Offsets:      make(map[domain.LNACell]int),
				Contributors: make(map[domain.LNACell]int),
			},
		}
		for _, metric := range domain.SweepMetrics() {
			if band.Family() == domain.BandFamilyDiversity {
				br.Sweep[metric] = domain.SummaryResult{Err: apperrors.NewEmptySample(band, metric.String())}
				continue
			}
			br.Sweep[metric] = domain.SummaryResult{
				Summary: domain.StatSummary{Min: 1, Max: 3, Mean: 2, Median: 2, StdDev: 1},
				Samples: 2,
			}
		}
		if band == domain.BandB13 {
			br.LNA.Err = apperrors.NewAllCorrupt(band, 2)
		} else {
			for _, device := range spec.Devices {
				for _, level := range spec.RxLevels {
					cell := domain.LNACell{Device: device, Level: level.Index}
					br.LNA.Offsets[cell] = level.DBm
					br.LNA.Contributors[cell] = 2
				}
			}
		}
		result.Bands = append(result.Bands, br)
	}
	return result
}
