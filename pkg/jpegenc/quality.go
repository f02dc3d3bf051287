package jpegenc

import (
	"fmt"
	"strings"
)

// Quality selects the quantization tables used for an image.
type Quality int

const (
	// QualityLow uses the reference quantization matrices unscaled.
	QualityLow Quality = 1
	// QualityMedium divides the reference matrices by 10.
	QualityMedium Quality = 2
	// QualityHigh quantizes every coefficient with a divisor of 1.
	QualityHigh Quality = 3
)

// MaxDimension is the largest width or height a baseline frame header can carry.
const MaxDimension = 0xffff

// Valid reports whether q is one of the supported levels.
func (q Quality) Valid() bool {
	return q >= QualityLow && q <= QualityHigh
}

// String returns the preset name of the quality level.
func (q Quality) String() string {
	switch q {
	case QualityLow:
		return "low"
	case QualityMedium:
		return "medium"
	case QualityHigh:
		return "high"
	default:
		return fmt.Sprintf("Quality(%d)", int(q))
	}
}

// ParseQuality parses a preset name (low, medium, high) or level (1, 2, 3).
func ParseQuality(s string) (Quality, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "1":
		return QualityLow, nil
	case "medium", "2":
		return QualityMedium, nil
	case "high", "3":
		return QualityHigh, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidQuality, s)
	}
}
