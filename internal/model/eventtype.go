package model

// AnomalyTypes is the closed vocabulary of feature types considered
// corrosion or defect anomalies. Only these types participate in cross-run
// matching and growth analysis; structural features are excluded.
var AnomalyTypes = map[string]bool{
	"Metal Loss":                  true,
	"Cluster":                     true,
	"Metal Loss Manufacturing":    true,
	"Dent":                        true,
	"Seam Weld Manufacturing":     true,
	"Seam Weld Anomaly":           true,
	"Seam Weld Dent":              true,
	"Girth Weld Anomaly":          true,
}

// ReferenceTypes is the closed vocabulary of feature types that anchor
// cross-run coordinate alignment.
var ReferenceTypes = map[string]bool{
	"Girth Weld": true,
}

// CompatibleTypes maps each event type to the set of types it may be
// matched against across runs, accounting for vendor reporting differences.
var CompatibleTypes = map[string]map[string]bool{
	"Metal Loss":                {"Metal Loss": true, "Cluster": true},
	"Cluster":                   {"Metal Loss": true, "Cluster": true},
	"Metal Loss Manufacturing":  {"Metal Loss Manufacturing": true, "Seam Weld Manufacturing": true},
	"Seam Weld Manufacturing":   {"Metal Loss Manufacturing": true, "Seam Weld Manufacturing": true},
	"Dent":                      {"Dent": true, "Seam Weld Dent": true},
	"Seam Weld Dent":            {"Dent": true, "Seam Weld Dent": true},
	"Seam Weld Anomaly":         {"Seam Weld Anomaly": true},
	"Girth Weld Anomaly":        {"Girth Weld Anomaly": true},
}

// TypesCompatible reports whether two event types may be matched across
// runs. Exact matches always pass; otherwise the CompatibleTypes table is
// consulted. A type absent from the table is only compatible with itself.
func TypesCompatible(a, b string) bool {
	if a == b {
		return true
	}
	compatA, ok := CompatibleTypes[a]
	if !ok {
		return false
	}
	return compatA[b]
}

// IDOD2007 maps the 2007 Rosen YES/NO internal flag to the unified
// Internal/External/Unknown vocabulary used by later vendor reports.
var IDOD2007 = map[string]IDODSide{
	"YES": Internal,
	"NO":  External,
	"N/A": Unknown,
}

// IsAnomalyEventType reports whether eventType belongs to the anomaly
// vocabulary. An event type outside the closed vocabulary is conservatively
// treated as not an anomaly.
func IsAnomalyEventType(eventType string) bool {
	return AnomalyTypes[eventType]
}

// IsGirthWeldEventType reports whether eventType belongs to the reference
// vocabulary. An event type outside the closed vocabulary is conservatively
// treated as not a girth weld.
func IsGirthWeldEventType(eventType string) bool {
	return ReferenceTypes[eventType]
}

// NormalizeIDOD maps a raw vendor IDOD string to the unified vocabulary,
// consulting IDOD2007 for the 2007 Rosen YES/NO/N-A convention before
// falling back to the direct Internal/External spelling later vendors use.
// An unrecognized value yields Unknown.
func NormalizeIDOD(raw string) IDODSide {
	if side, ok := IDOD2007[raw]; ok {
		return side
	}
	switch IDODSide(raw) {
	case Internal:
		return Internal
	case External:
		return External
	default:
		return Unknown
	}
}

// DeriveFlags sets IsAnomaly and IsGirthWeld on row from its EventType,
// overriding whatever the raw source data claimed, and normalizes IDOD
// through NormalizeIDOD. This is the single point where the closed event-
// type vocabulary is enforced, per the conservative unknown-type rule:
// a type outside AnomalyTypes/ReferenceTypes is neither.
func DeriveFlags(row FeatureRow, rawIDOD string) FeatureRow {
	row.IsAnomaly = IsAnomalyEventType(row.EventType)
	row.IsGirthWeld = IsGirthWeldEventType(row.EventType)
	row.IDOD = NormalizeIDOD(rawIDOD)
	return row
}
