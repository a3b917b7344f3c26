package apiversion

import "github.com/r9s-ai/sdmxrest/pkg/sdmxerr"

// Feature names one capability of the protocol that appeared at a given
// revision.
type Feature string

const (
	MultipleItems         Feature = "multiple_items"
	ItemQueries           Feature = "item_queries"
	IncludeHistory        Feature = "include_history"
	VTLStructures         Feature = "vtl_structures"
	CompleteStubs         Feature = "complete_stubs"
	ReferencePartial      Feature = "reference_partial"
	RawDetail             Feature = "raw_detail"
	AncestorsReferences   Feature = "ancestors_references"
	StructureJSON         Feature = "structure_json"
	DataCSV               Feature = "data_csv"
	V2Paths               Feature = "v2_paths"
	AttributesMeasures    Feature = "attributes_measures"
	ComponentFilters      Feature = "component_filters"
	ReferenceMetadata     Feature = "reference_metadata"
	Registrations         Feature = "registrations"
	UpdatedBeforeAfter    Feature = "updated_before_after"
	Limit                 Feature = "limit"
	Offset                Feature = "offset"
	Sort                  Feature = "sort"
	AsOf                  Feature = "as_of"
	ReportingYearStartDay Feature = "reporting_year_start_day"
)

// minVersions is the compatibility matrix of the protocol. Every version gate
// in the query builder goes through this table.
var minVersions = map[Feature]ApiVersion{
	MultipleItems:         V1_3_0,
	ItemQueries:           V1_1_0,
	IncludeHistory:        V2_0_0,
	VTLStructures:         V1_5_0,
	CompleteStubs:         V1_3_0,
	ReferencePartial:      V1_3_0,
	RawDetail:             V2_0_0,
	AncestorsReferences:   V2_0_0,
	StructureJSON:         V1_3_0,
	DataCSV:               V1_2_0,
	V2Paths:               V2_0_0,
	AttributesMeasures:    V2_0_0,
	ComponentFilters:      V2_0_0,
	ReferenceMetadata:     V2_0_0,
	Registrations:         V2_1_0,
	UpdatedBeforeAfter:    V2_1_0,
	Limit:                 V2_2_0,
	Offset:                V2_2_0,
	Sort:                  V2_2_0,
	AsOf:                  V2_2_0,
	ReportingYearStartDay: V2_2_0,
}

// MinVersion returns the first revision supporting f. Unknown features map to
// V1_0_0.
func MinVersion(f Feature) ApiVersion {
	if v, ok := minVersions[f]; ok {
		return v
	}
	return V1_0_0
}

func Supports(f Feature, v ApiVersion) bool {
	return v.GreaterEq(MinVersion(f))
}

// Require returns an Invalid error naming field when v predates f.
func Require(f Feature, v ApiVersion, field string) error {
	if Supports(f, v) {
		return nil
	}
	return sdmxerr.Invalid(
		"Unsupported parameter",
		"%s is not supported in SDMX-REST %s (requires %s or later)",
		field, v, MinVersion(f),
	).WithField(field)
}

// Features returns the gated features with their minimum version, in no
// particular order.
func Features() map[Feature]ApiVersion {
	out := make(map[Feature]ApiVersion, len(minVersions))
	for k, v := range minVersions {
		out[k] = v
	}
	return out
}
