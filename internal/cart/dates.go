package cart

import (
	"time"

	"github.com/shopfront/backend/internal/models"
)

const dateLayout = "2006-01-02"

// Multi-date modes
const (
	ModeFirst = "first"
	ModeAll   = "all"
)

// DatePolicy controls how line dates are normalized before a cart is saved
type DatePolicy struct {
	// Mode is ModeFirst (keep only the first date) or ModeAll
	Mode string
	// UTCOffset shifts full timestamps into the shop's local day
	UTCOffset time.Duration
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// NormalizeDates converts every entry to a YYYY-MM-DD day and applies the multi-date mode.
//
// Plain days are kept as they are. Timestamps are shifted by UTCOffset before
// the day is taken.
func NormalizeDates(dates models.DateList, policy DatePolicy) (models.DateList, error) {
	out := make(models.DateList, 0, len(dates))
	for _, raw := range dates {
		day, err := normalizeDate(raw, policy.UTCOffset)
		if err != nil {
			return nil, err
		}
		out = append(out, day)
	}

	if policy.Mode != ModeAll && len(out) > 1 {
		out = out[:1]
	}
	return out, nil
}

// NormalizeLines runs NormalizeDates over every line
func NormalizeLines(lines []models.CartLine, policy DatePolicy) ([]models.CartLine, error) {
	out := make([]models.CartLine, len(lines))
	for i, line := range lines {
		dates, err := NormalizeDates(line.Dates, policy)
		if err != nil {
			return nil, err
		}
		line.Dates = dates
		out[i] = line
	}
	return out, nil
}

func normalizeDate(raw string, offset time.Duration) (string, error) {
	if day, err := time.Parse(dateLayout, raw); err == nil {
		return day.Format(dateLayout), nil
	}

	for _, layout := range timestampLayouts {
		ts, err := time.Parse(layout, raw)
		if err == nil {
			return ts.UTC().Add(offset).Format(dateLayout), nil
		}
	}

	return "", models.NewValidationError("date", "cart item date is invalid")
}
