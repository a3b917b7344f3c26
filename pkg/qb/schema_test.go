package qb

import (
	"testing"

	"github.com/r9s-ai/sdmxrest/pkg/apiversion"
	"github.com/r9s-ai/sdmxrest/pkg/sdmxerr"
)

func TestSchemaQueryShapes(t *testing.T) {
	exr := SchemaQuery{Context: SchemaDataflow, AgencyID: ID("ECB"), ResourceID: ID("EXR")}
	tests := []struct {
		name  string
		q     SchemaQuery
		v     apiversion.ApiVersion
		short bool
		want  string
	}{
		{name: "v1_full", q: exr, v: apiversion.V1_5_0, want: "/schema/dataflow/ECB/EXR/latest?explicitMeasure=false"},
		{name: "v2_full", q: exr, v: apiversion.V2_0_0, want: "/schema/dataflow/ECB/EXR/~"},
		{name: "v2_short", q: exr, v: apiversion.V2_2_0, short: true, want: "/schema/dataflow/ECB/EXR"},
		{name: "defaults_short", q: SchemaQuery{}, v: apiversion.V2_0_0, short: true, want: "/schema/datastructure"},
		{
			name:  "explicit_measure_v1",
			q:     SchemaQuery{Context: SchemaDataflow, AgencyID: ID("ECB"), ResourceID: ID("EXR"), ExplicitMeasure: true},
			v:     apiversion.V1_5_0,
			short: true,
			want:  "/schema/dataflow/ECB/EXR?explicitMeasure=true",
		},
		{
			name:  "version_and_obs_dimension",
			q:     SchemaQuery{Context: SchemaDataStructure, AgencyID: ID("ECB"), ResourceID: ID("ECB_EXR1"), Version: ID("1.0"), ObsDimension: "CURRENCY"},
			v:     apiversion.V2_0_0,
			short: true,
			want:  "/schema/datastructure/ECB/ECB_EXR1/1.0?dimensionAtObservation=CURRENCY",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.q.URL(tt.v, tt.short)
			if err != nil {
				t.Fatalf("URL err=%v", err)
			}
			if got != tt.want {
				t.Fatalf("URL=%q want %q", got, tt.want)
			}
		})
	}
}

func TestSchemaQueryRejectsAllVersions(t *testing.T) {
	q := SchemaQuery{Context: SchemaDataflow, AgencyID: ID("ECB"), ResourceID: ID("EXR"), Version: All()}
	for _, v := range apiversion.All() {
		if _, err := q.URL(v, false); !sdmxerr.IsClientError(err) {
			t.Fatalf("URL(%s) err=%v, want ClientError", v, err)
		}
	}
	if err := (SchemaQuery{Version: ID("*")}).Validate(); !sdmxerr.IsClientError(err) {
		t.Fatalf("\"*\" should be read as all versions: %v", err)
	}
	listed := SchemaQuery{AgencyID: ID("BIS"), ResourceID: ID("CBS"), Version: IDs("*")}
	for _, v := range apiversion.All() {
		if _, err := listed.URL(v, false); !sdmxerr.IsClientError(err) {
			t.Fatalf("IDs(\"*\") at %s: err=%v, want ClientError", v, err)
		}
	}
}

func TestSchemaQueryErrors(t *testing.T) {
	if err := (SchemaQuery{Context: "codelist"}).Validate(); !sdmxerr.IsClientError(err) {
		t.Fatalf("context: err=%v", err)
	}
	if err := (SchemaQuery{AgencyID: IDs("ECB", "BIS")}).Validate(); !sdmxerr.IsClientError(err) {
		t.Fatalf("multiple agencies: err=%v", err)
	}
	if _, err := (SchemaQuery{ExplicitMeasure: true}).URL(apiversion.V2_0_0, false); !sdmxerr.IsInvalid(err) {
		t.Fatalf("explicitMeasure at V2: err=%v", err)
	}
	if _, err := (SchemaQuery{Context: SchemaMetadataProvisionAgreement}).URL(apiversion.V1_5_0, false); !sdmxerr.IsInvalid(err) {
		t.Fatalf("v2-only context: err=%v", err)
	}
}
