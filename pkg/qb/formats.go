package qb

import (
	"sort"
	"strings"

	"github.com/r9s-ai/sdmxrest/pkg/apiversion"
	"github.com/r9s-ai/sdmxrest/pkg/sdmxerr"
)

// Format is a representation of one resource family. The Accept header it
// maps to depends on the API version.
type Format interface {
	Family() string
	Name() string
}

type (
	StructureFormat    string
	DataFormat         string
	RefMetaFormat      string
	AvailabilityFormat string
	SchemaFormat       string
	RegistrationFormat string
)

func (f StructureFormat) Family() string    { return "structure" }
func (f DataFormat) Family() string         { return "data" }
func (f RefMetaFormat) Family() string      { return "metadata" }
func (f AvailabilityFormat) Family() string { return "availability" }
func (f SchemaFormat) Family() string       { return "schema" }
func (f RegistrationFormat) Family() string { return "registration" }

func (f StructureFormat) Name() string    { return string(f) }
func (f DataFormat) Name() string         { return string(f) }
func (f RefMetaFormat) Name() string      { return string(f) }
func (f AvailabilityFormat) Name() string { return string(f) }
func (f SchemaFormat) Name() string       { return string(f) }
func (f RegistrationFormat) Name() string { return string(f) }

const (
	StructureSDMXML21   StructureFormat = "sdmx-ml-2.1"
	StructureSDMXML30   StructureFormat = "sdmx-ml-3.0"
	StructureSDMXML31   StructureFormat = "sdmx-ml-3.1"
	StructureSDMXJSON   StructureFormat = "sdmx-json"
	StructureFusionJSON StructureFormat = "fusion-json"

	DataSDMXMLGeneric21    DataFormat = "sdmx-ml-2.1-generic"
	DataSDMXMLStructured21 DataFormat = "sdmx-ml-2.1-structurespecific"
	DataSDMXML30           DataFormat = "sdmx-ml-3.0"
	DataSDMXML31           DataFormat = "sdmx-ml-3.1"
	DataSDMXJSON           DataFormat = "sdmx-json"
	DataSDMXCSV            DataFormat = "sdmx-csv"
	DataFusionJSON         DataFormat = "fusion-json"

	RefMetaSDMXML30   RefMetaFormat = "sdmx-ml-3.0"
	RefMetaSDMXJSON   RefMetaFormat = "sdmx-json"
	RefMetaSDMXCSV    RefMetaFormat = "sdmx-csv"
	RefMetaFusionJSON RefMetaFormat = "fusion-json"

	AvailabilitySDMXML21   AvailabilityFormat = "sdmx-ml-2.1"
	AvailabilitySDMXML30   AvailabilityFormat = "sdmx-ml-3.0"
	AvailabilitySDMXJSON   AvailabilityFormat = "sdmx-json"
	AvailabilityFusionJSON AvailabilityFormat = "fusion-json"

	SchemaXSD21    SchemaFormat = "xsd-2.1"
	SchemaSDMXML30 SchemaFormat = "sdmx-ml-3.0"
	SchemaSDMXJSON SchemaFormat = "sdmx-json"

	RegistrationSDMXML30 RegistrationFormat = "sdmx-ml-3.0"
	RegistrationSDMXJSON RegistrationFormat = "sdmx-json"
)

// mediaType is one row of the Accept table, valid in [since, until).
type mediaType struct {
	since  apiversion.ApiVersion
	until  apiversion.ApiVersion
	accept string
}

const fusionJSON = "application/vnd.fusion.json"

var (
	v12 = apiversion.V1_2_0
	v13 = apiversion.V1_3_0
	v21 = apiversion.V2_1_0
	v22 = apiversion.V2_2_0
)

var mediaTypes = map[string]map[string][]mediaType{
	"structure": {
		"sdmx-ml-2.1": {{since: v10, accept: "application/vnd.sdmx.structure+xml;version=2.1"}},
		"sdmx-ml-3.0": {{since: v20, accept: "application/vnd.sdmx.structure+xml;version=3.0.0"}},
		"sdmx-ml-3.1": {{since: v22, accept: "application/vnd.sdmx.structure+xml;version=3.1.0"}},
		"sdmx-json": {
			{since: v13, until: v20, accept: "application/vnd.sdmx.structure+json;version=1.0.0"},
			{since: v20, until: v22, accept: "application/vnd.sdmx.structure+json;version=2.0.0"},
			{since: v22, accept: "application/vnd.sdmx.structure+json;version=2.1.0"},
		},
		"fusion-json": {{since: v10, accept: fusionJSON}},
	},
	"data": {
		"sdmx-ml-2.1-generic":           {{since: v10, accept: "application/vnd.sdmx.genericdata+xml;version=2.1"}},
		"sdmx-ml-2.1-structurespecific": {{since: v10, accept: "application/vnd.sdmx.structurespecificdata+xml;version=2.1"}},
		"sdmx-ml-3.0":                   {{since: v20, accept: "application/vnd.sdmx.data+xml;version=3.0.0"}},
		"sdmx-ml-3.1":                   {{since: v22, accept: "application/vnd.sdmx.data+xml;version=3.1.0"}},
		"sdmx-json": {
			{since: v10, until: v20, accept: "application/vnd.sdmx.data+json;version=1.0.0"},
			{since: v20, until: v22, accept: "application/vnd.sdmx.data+json;version=2.0.0"},
			{since: v22, accept: "application/vnd.sdmx.data+json;version=2.1.0"},
		},
		"sdmx-csv": {
			{since: v12, until: v20, accept: "application/vnd.sdmx.data+csv;version=1.0.0"},
			{since: v20, until: v22, accept: "application/vnd.sdmx.data+csv;version=2.0.0"},
			{since: v22, accept: "application/vnd.sdmx.data+csv;version=2.1.0"},
		},
		"fusion-json": {{since: v10, accept: fusionJSON}},
	},
	"metadata": {
		"sdmx-ml-3.0": {{since: v20, accept: "application/vnd.sdmx.metadata+xml;version=3.0.0"}},
		"sdmx-json":   {{since: v20, accept: "application/vnd.sdmx.metadata+json;version=2.0.0"}},
		"sdmx-csv":    {{since: v20, accept: "application/vnd.sdmx.metadata+csv;version=2.0.0"}},
		"fusion-json": {{since: v20, accept: fusionJSON}},
	},
	"availability": {
		"sdmx-ml-2.1": {{since: v10, accept: "application/vnd.sdmx.structure+xml;version=2.1"}},
		"sdmx-ml-3.0": {{since: v20, accept: "application/vnd.sdmx.structure+xml;version=3.0.0"}},
		"sdmx-json": {
			{since: v13, until: v20, accept: "application/vnd.sdmx.structure+json;version=1.0.0"},
			{since: v20, accept: "application/vnd.sdmx.structure+json;version=2.0.0"},
		},
		"fusion-json": {{since: v10, accept: fusionJSON}},
	},
	"schema": {
		"xsd-2.1":     {{since: v10, accept: "application/vnd.sdmx.schema+xml;version=2.1"}},
		"sdmx-ml-3.0": {{since: v20, accept: "application/vnd.sdmx.structure+xml;version=3.0.0"}},
		"sdmx-json":   {{since: v20, accept: "application/vnd.sdmx.structure+json;version=2.0.0"}},
	},
	"registration": {
		"sdmx-ml-3.0": {{since: v21, accept: "application/vnd.sdmx.registry+xml;version=3.0.0"}},
		"sdmx-json":   {{since: v21, accept: "application/vnd.sdmx.registry+json;version=2.0.0"}},
	},
}

// defaultFormats is used when a caller does not pick a representation.
var defaultFormats = map[string]string{
	"structure":    "sdmx-ml-2.1",
	"data":         "sdmx-json",
	"metadata":     "sdmx-json",
	"availability": "sdmx-ml-2.1",
	"schema":       "xsd-2.1",
	"registration": "sdmx-json",
}

// AcceptHeader returns the Accept value of f at v. An unknown representation
// is a ClientError; a known one that v cannot serve is Invalid.
func AcceptHeader(f Format, v apiversion.ApiVersion) (string, error) {
	return AcceptFor(f.Family(), f.Name(), v)
}

// AcceptFor looks a representation up by family and name. An empty name
// selects the family default, falling back to the first representation
// available at v.
func AcceptFor(family, name string, v apiversion.ApiVersion) (string, error) {
	rows, ok := mediaTypes[family]
	if !ok {
		return "", sdmxerr.ClientError("Unknown resource", "no formats are defined for %q", family).WithField("format")
	}
	if name == "" {
		if accept, err := AcceptFor(family, defaultFormats[family], v); err == nil {
			return accept, nil
		}
		for _, n := range FormatNames(family) {
			if accept, err := AcceptFor(family, n, v); err == nil {
				return accept, nil
			}
		}
		return "", sdmxerr.Invalid("Unsupported format", "no %s format is available in SDMX-REST %s", family, v).WithField("format")
	}
	media, ok := rows[name]
	if !ok {
		return "", sdmxerr.ClientError("Unknown format", "%q is not a %s format (known: %s)", name, family, strings.Join(FormatNames(family), ", ")).WithField("format")
	}
	for _, m := range media {
		if v.GreaterEq(m.since) && (m.until.IsZero() || v.Less(m.until)) {
			return m.accept, nil
		}
	}
	return "", sdmxerr.Invalid("Unsupported format", "%s format %s is not available in SDMX-REST %s", family, name, v).WithField("format")
}

// FormatNames lists the representation names of a family, sorted.
func FormatNames(family string) []string {
	out := make([]string, 0, len(mediaTypes[family]))
	for n := range mediaTypes[family] {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
