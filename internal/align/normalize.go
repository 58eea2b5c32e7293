package align

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// featureIDNamespace seeds the deterministic synthetic feature IDs
// generated for rows the vendor feed left unidentified (spec.md §4.1,
// §5 "Deterministic").
var featureIDNamespace = uuid.MustParse("d9428888-122b-11e1-b85c-61cd3cbb3210")

// DefaultWallThicknessIn is substituted when a row's wall thickness is
// missing (spec.md §4.1).
const DefaultWallThicknessIn = 0.375

// featureTypeKeywords maps lower-cased substrings to the canonical type
// they imply. Entries are tried in order; the first match wins, so more
// specific patterns (e.g. "external" + metal-loss words) must precede
// their generic fallbacks (bare "corrosion").
var featureTypeKeywords = []struct {
	substrings []string
	t          CanonicalType
}{
	{[]string{"girth"}, TypeGirthWeld},
	{[]string{"seam"}, TypeSeamWeld},
	{[]string{"external"}, TypeExternalMetalLoss},
	{[]string{"internal"}, TypeInternalMetalLoss},
	{[]string{"valve"}, TypeValve},
	{[]string{"fitting"}, TypeFitting},
	{[]string{"casing"}, TypeCasing},
	{[]string{"dent"}, TypeDent},
	{[]string{"crack"}, TypeCrack},
	{[]string{"gouge"}, TypeGouge},
	{[]string{"lamination"}, TypeLamination},
	{[]string{"manufactur"}, TypeManufacturingDefect},
	{[]string{"corrosion"}, TypeMetalLoss},
	{[]string{"metal loss"}, TypeMetalLoss},
	{[]string{"weld"}, TypeGirthWeld}, // unqualified weld defaults to girth
}

// classifyFeatureType maps a raw vendor string onto the canonical enum
// via substring containment (spec.md §4.1). Unknown or empty input maps
// to TypeUnknown.
func classifyFeatureType(raw string) CanonicalType {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return TypeUnknown
	}
	for _, entry := range featureTypeKeywords {
		for _, sub := range entry.substrings {
			if strings.Contains(s, sub) {
				return entry.t
			}
		}
	}
	return TypeUnknown
}

// normalizeClock converts a clock position value (an "H:MM" string,
// decimal hours, or degrees) to degrees in [0, 360). Missing input
// (nil or empty string) yields 0 and ok=false.
func normalizeClock(v any) (degrees float64, ok bool) {
	switch val := v.(type) {
	case nil:
		return 0, false
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return 0, false
		}
		if strings.Contains(s, ":") {
			parts := strings.SplitN(s, ":", 2)
			hours, herr := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
			minutes, merr := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
			if herr != nil || merr != nil {
				return 0, false
			}
			return clockHoursMinutesToDegrees(hours, minutes), true
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return clockValueToDegrees(f), true
	case float64:
		return clockValueToDegrees(val), true
	case float32:
		return clockValueToDegrees(float64(val)), true
	case int:
		return clockValueToDegrees(float64(val)), true
	default:
		return 0, false
	}
}

// clockValueToDegrees interprets a bare numeric clock value: values
// <= 12 are decimal hours, values > 12 are already degrees.
func clockValueToDegrees(f float64) float64 {
	if f <= 12 {
		return clockHoursMinutesToDegrees(f, 0)
	}
	return math.Mod(f, 360)
}

// clockHoursMinutesToDegrees implements spec.md §4.1's conversion:
// degrees = ((hours mod 12) * 30 + minutes * 0.5) mod 360.
func clockHoursMinutesToDegrees(hours, minutes float64) float64 {
	h := math.Mod(hours, 12)
	if h < 0 {
		h += 12
	}
	d := math.Mod(h*30+minutes*0.5, 360)
	if d < 0 {
		d += 360
	}
	return d
}

// Normalize turns one run's raw rows into canonical Anomaly records,
// sorted by raw distance ascending (spec.md §4.1). Normalization never
// fails: rows with no recoverable data are still emitted, flagged.
func Normalize(runIndex int, rows []RawRow) []*Anomaly {
	out := make([]*Anomaly, len(rows))
	for i, row := range rows {
		out[i] = normalizeRow(runIndex, i, row)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RawDistance < out[j].RawDistance
	})
	return out
}

func normalizeRow(runIndex, rowIndex int, row RawRow) *Anomaly {
	missing := false

	distance := row.Distance
	if distance == 0 {
		missing = true
	}

	odometer := row.Odometer
	if odometer == 0 {
		odometer = distance
	}

	wallThickness := row.WallThickness
	if wallThickness <= 0 {
		wallThickness = DefaultWallThicknessIn
	}

	depth := row.DepthPercent
	if depth == 0 {
		missing = true
	}
	depth = clamp(depth, 0, 100)

	length := math.Abs(row.Length)
	width := math.Abs(row.Width)

	featureTypeRaw := row.FeatureType
	if strings.TrimSpace(featureTypeRaw) == "" {
		missing = true
	}
	canonical := classifyFeatureType(featureTypeRaw)

	clockDegrees, clockOK := normalizeClock(row.ClockPosition)
	if !clockOK {
		missing = true
	}

	joint := row.JointNumber
	if joint < 0 {
		joint = 0
	}

	featureID := strings.TrimSpace(row.FeatureID)
	if featureID == "" {
		featureID = syntheticFeatureID(runIndex, rowIndex, distance)
	}

	return &Anomaly{
		RunIndex:          runIndex,
		RowIndex:          rowIndex,
		FeatureID:         featureID,
		RawDistance:       distance,
		Odometer:          odometer,
		CorrectedDistance: distance,
		JointNumber:       joint,
		ClockDegrees:      clockDegrees,
		CanonicalType:     canonical,
		DepthPercent:      depth,
		Length:            length,
		Width:             width,
		WallThickness:     wallThickness,
		IsReferencePoint:  isReferenceType(canonical),
		CleaningFlags:     nil,
		HasMissingData:    missing,
		Extras:            row.Extras,
	}
}

// syntheticFeatureID deterministically fills in for a vendor feed that
// omitted feature_id, so identical input always yields identical IDs
// (spec.md §5 "Deterministic").
func syntheticFeatureID(runIndex, rowIndex int, distance float64) string {
	name := fmt.Sprintf("run=%d/row=%d/distance=%.4f", runIndex, rowIndex, distance)
	return uuid.NewSHA1(featureIDNamespace, []byte(name)).String()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
