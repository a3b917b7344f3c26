// Package apiversion holds the ordered ladder of SDMX-REST protocol revisions
// and the table of features gated on them.
package apiversion

import (
	"strings"

	"github.com/r9s-ai/sdmxrest/pkg/sdmxerr"
)

// ApiVersion is one SDMX-REST revision. Ordering uses the ordinal only; labels
// such as "V1.5.0" and "V2.0.0" are for display and parsing.
type ApiVersion struct {
	label   string
	ordinal int
}

var (
	V1_0_0 = ApiVersion{label: "V1.0.0", ordinal: 100}
	V1_0_1 = ApiVersion{label: "V1.0.1", ordinal: 101}
	V1_0_2 = ApiVersion{label: "V1.0.2", ordinal: 102}
	V1_1_0 = ApiVersion{label: "V1.1.0", ordinal: 110}
	V1_2_0 = ApiVersion{label: "V1.2.0", ordinal: 120}
	V1_3_0 = ApiVersion{label: "V1.3.0", ordinal: 130}
	V1_4_0 = ApiVersion{label: "V1.4.0", ordinal: 140}
	V1_5_0 = ApiVersion{label: "V1.5.0", ordinal: 150}
	V2_0_0 = ApiVersion{label: "V2.0.0", ordinal: 200}
	V2_1_0 = ApiVersion{label: "V2.1.0", ordinal: 210}
	V2_2_0 = ApiVersion{label: "V2.2.0", ordinal: 220}
)

var ladder = []ApiVersion{
	V1_0_0, V1_0_1, V1_0_2, V1_1_0, V1_2_0, V1_3_0, V1_4_0, V1_5_0,
	V2_0_0, V2_1_0, V2_2_0,
}

// All returns every known revision in release order.
func All() []ApiVersion {
	return append([]ApiVersion(nil), ladder...)
}

// Latest returns the most recent known revision.
func Latest() ApiVersion {
	return ladder[len(ladder)-1]
}

func (v ApiVersion) Label() string { return v.label }
func (v ApiVersion) Ordinal() int  { return v.ordinal }
func (v ApiVersion) String() string {
	if v.label == "" {
		return "<unset>"
	}
	return v.label
}

// Number returns the label without the leading "V" (e.g. "2.1.0").
func (v ApiVersion) Number() string { return strings.TrimPrefix(v.label, "V") }

// IsZero reports whether v is the unset zero value.
func (v ApiVersion) IsZero() bool { return v.ordinal == 0 }

// Major returns 1 or 2.
func (v ApiVersion) Major() int { return v.ordinal / 100 }

func (v ApiVersion) Less(o ApiVersion) bool      { return v.ordinal < o.ordinal }
func (v ApiVersion) LessEq(o ApiVersion) bool    { return v.ordinal <= o.ordinal }
func (v ApiVersion) Greater(o ApiVersion) bool   { return v.ordinal > o.ordinal }
func (v ApiVersion) GreaterEq(o ApiVersion) bool { return v.ordinal >= o.ordinal }

// Compare returns -1, 0 or +1.
func Compare(a, b ApiVersion) int {
	switch {
	case a.ordinal < b.ordinal:
		return -1
	case a.ordinal > b.ordinal:
		return 1
	default:
		return 0
	}
}

// Parse accepts "V2.1.0", "2.1.0", "v2_1_0" and "V2_1_0".
func Parse(label string) (ApiVersion, error) {
	s := strings.ToUpper(strings.TrimSpace(label))
	s = strings.ReplaceAll(s, "_", ".")
	if s != "" && !strings.HasPrefix(s, "V") {
		s = "V" + s
	}
	for _, v := range ladder {
		if v.label == s {
			return v, nil
		}
	}
	return ApiVersion{}, sdmxerr.Invalid("Unknown API version", "%q is not a known SDMX-REST version", label).WithField("api_version")
}
