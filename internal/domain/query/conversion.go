package query

import (
	"math"
	"strconv"

	"github.com/okian/leadboard/internal/domain/model"
)

// SourceConversionRow is the per-channel conversion estimate.
type SourceConversionRow struct {
	Source      model.Source `json:"source"`
	Leads       int          `json:"leads"`
	Conversions int          `json:"conversions"`
	Rate        string       `json:"rate"`
}

// SourceConversion estimates conversions per source from the overall rate:
// conversions is floor(count*rate/100) and Rate is conversions/count*100 with
// one decimal, "0.0" when count is zero. Halves round away from zero, so
// 1 of 16 reads "6.3".
func SourceConversion(top []model.SourceCount, ratePercent float64) []SourceConversionRow {
	out := make([]SourceConversionRow, 0, len(top))
	for _, sc := range top {
		conv := int(math.Floor(float64(sc.Count) * ratePercent / 100))
		rate := 0.0
		if sc.Count != 0 {
			rate = float64(conv) / float64(sc.Count) * 100
		}
		rate = math.Round(rate*10) / 10
		out = append(out, SourceConversionRow{
			Source:      sc.Source,
			Leads:       sc.Count,
			Conversions: conv,
			Rate:        strconv.FormatFloat(rate, 'f', 1, 64),
		})
	}
	return out
}
