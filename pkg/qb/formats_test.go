package qb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/r9s-ai/sdmxrest/pkg/apiversion"
	"github.com/r9s-ai/sdmxrest/pkg/sdmxerr"
)

func TestAcceptHeaderFollowsVersion(t *testing.T) {
	tests := []struct {
		f    Format
		v    apiversion.ApiVersion
		want string
	}{
		{f: DataSDMXJSON, v: apiversion.V1_5_0, want: "application/vnd.sdmx.data+json;version=1.0.0"},
		{f: DataSDMXJSON, v: apiversion.V2_0_0, want: "application/vnd.sdmx.data+json;version=2.0.0"},
		{f: DataSDMXJSON, v: apiversion.V2_2_0, want: "application/vnd.sdmx.data+json;version=2.1.0"},
		{f: DataSDMXCSV, v: apiversion.V1_2_0, want: "application/vnd.sdmx.data+csv;version=1.0.0"},
		{f: StructureSDMXML21, v: apiversion.V1_0_0, want: "application/vnd.sdmx.structure+xml;version=2.1"},
		{f: StructureSDMXML30, v: apiversion.V2_1_0, want: "application/vnd.sdmx.structure+xml;version=3.0.0"},
		{f: RefMetaSDMXJSON, v: apiversion.V2_0_0, want: "application/vnd.sdmx.metadata+json;version=2.0.0"},
		{f: RegistrationSDMXML30, v: apiversion.V2_1_0, want: "application/vnd.sdmx.registry+xml;version=3.0.0"},
		{f: AvailabilityFusionJSON, v: apiversion.V1_3_0, want: "application/vnd.fusion.json"},
		{f: SchemaXSD21, v: apiversion.V1_0_0, want: "application/vnd.sdmx.schema+xml;version=2.1"},
	}
	for _, tt := range tests {
		got, err := AcceptHeader(tt.f, tt.v)
		require.NoError(t, err, "%s/%s at %s", tt.f.Family(), tt.f.Name(), tt.v)
		assert.Equal(t, tt.want, got)
	}
}

func TestAcceptHeaderErrors(t *testing.T) {
	_, err := AcceptHeader(DataSDMXCSV, apiversion.V1_1_0)
	assert.True(t, sdmxerr.IsInvalid(err), "%v", err)

	_, err = AcceptHeader(StructureSDMXML30, apiversion.V1_5_0)
	assert.True(t, sdmxerr.IsInvalid(err), "%v", err)

	_, err = AcceptFor("data", "sdmx-yaml", apiversion.V2_0_0)
	assert.True(t, sdmxerr.IsClientError(err), "%v", err)

	_, err = AcceptFor("cubes", "", apiversion.V2_0_0)
	assert.True(t, sdmxerr.IsClientError(err), "%v", err)
}

func TestAcceptForDefaults(t *testing.T) {
	got, err := AcceptFor("registration", "", apiversion.V2_1_0)
	require.NoError(t, err)
	assert.Equal(t, "application/vnd.sdmx.registry+json;version=2.0.0", got)

	_, err = AcceptFor("registration", "", apiversion.V1_5_0)
	assert.True(t, sdmxerr.IsInvalid(err), "%v", err)

	// sdmx-json is only available from V2.0.0 for schemas, so the default is used.
	got, err = AcceptFor("schema", "", apiversion.V1_0_0)
	require.NoError(t, err)
	assert.Equal(t, "application/vnd.sdmx.schema+xml;version=2.1", got)
}

func TestMediaTypeWindowsDoNotOverlap(t *testing.T) {
	for family, names := range mediaTypes {
		for name := range names {
			for _, v := range apiversion.All() {
				matches := 0
				for _, m := range names[name] {
					if v.GreaterEq(m.since) && (m.until.IsZero() || v.Less(m.until)) {
						matches++
					}
				}
				require.LessOrEqual(t, matches, 1, "%s/%s at %s", family, name, v)
			}
		}
		require.Contains(t, names, defaultFormats[family], "default format of %s", family)
	}
}
