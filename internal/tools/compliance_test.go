package tools

import (
	"testing"
	"time"

	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/models"
)

func complianceSeries(closes []float64, volumes []int64) models.PriceSeries {
	candles := generateTestCandles(len(closes), func(i int) models.Candle {
		return models.Candle{
			Timestamp: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			Open:      closes[i],
			High:      closes[i] + 1,
			Low:       closes[i] - 1,
			Close:     closes[i],
			Volume:    volumes[i],
		}
	})
	return models.PriceSeries{Symbol: "TEST", Candles: candles}
}

func TestRegulationM(t *testing.T) {
	tests := []struct {
		name           string
		closes         []float64
		volumes        []int64
		status         models.ComplianceStatus
		recommendation string
		confidence     float64
		violations     int
	}{
		{
			name:           "Clean window",
			closes:         []float64{100, 101, 100, 102, 101},
			volumes:        []int64{1000, 1000, 1000, 1000, 1000},
			status:         models.ComplianceCompliant,
			recommendation: "APPROVED",
			confidence:     0.85,
			violations:     0,
		},
		{
			name:           "Volume spike over 3x average",
			closes:         []float64{100, 101, 100, 102, 101},
			volumes:        []int64{1000, 1000, 1000, 1000, 10000},
			status:         models.ComplianceViolation,
			recommendation: "BLOCK_TRADES",
			confidence:     0.90,
			violations:     1,
		},
		{
			name:           "Two high-volatility days",
			closes:         []float64{100, 110, 95, 105, 104},
			volumes:        []int64{1000, 1000, 1000, 1000, 1000},
			status:         models.ComplianceReviewRequired,
			recommendation: "PROCEED_WITH_CAUTION",
			confidence:     0.70,
			violations:     1,
		},
		{
			name:           "Spike and volatility together",
			closes:         []float64{100, 110, 95, 105, 104},
			volumes:        []int64{1000, 1000, 1000, 1000, 10000},
			status:         models.ComplianceViolation,
			recommendation: "BLOCK_TRADES",
			confidence:     0.90,
			violations:     2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := RegulationM(complianceSeries(tt.closes, tt.volumes))
			if err != nil {
				t.Fatalf("RegulationM() error = %v", err)
			}
			if result.Status != tt.status {
				t.Errorf("Status = %v, want %v", result.Status, tt.status)
			}
			if result.Recommendation != tt.recommendation {
				t.Errorf("Recommendation = %v, want %v", result.Recommendation, tt.recommendation)
			}
			if result.Confidence != tt.confidence {
				t.Errorf("Confidence = %v, want %v", result.Confidence, tt.confidence)
			}
			if len(result.Violations) != tt.violations {
				t.Errorf("Violations = %v, want %d entries", result.Violations, tt.violations)
			}
		})
	}
}

func TestRegulationMUsesLastFiveDays(t *testing.T) {
	// Ten days where only day 2 is wildly volatile; the five-day window must
	// not see it.
	closes := []float64{100, 200, 100, 100, 100, 100, 101, 100, 102, 101}
	volumes := []int64{1000, 1000, 1000, 1000, 1000, 1000, 1000, 1000, 1000, 1000}

	result, err := RegulationM(complianceSeries(closes, volumes))
	if err != nil {
		t.Fatalf("RegulationM() error = %v", err)
	}
	if result.Status != models.ComplianceCompliant {
		t.Errorf("Status = %v, want %v", result.Status, models.ComplianceCompliant)
	}
}

func TestRegulationMInsufficientData(t *testing.T) {
	series := complianceSeries([]float64{100}, []int64{1000})
	if _, err := RegulationM(series); err == nil {
		t.Error("RegulationM() on a single candle returned no error")
	}
}
