package qb

import (
	"testing"

	"github.com/r9s-ai/sdmxrest/pkg/sdmxerr"
)

func TestGdsQueryPaths(t *testing.T) {
	tests := []struct {
		name string
		q    GdsQuery
		want string
	}{
		{name: "agencies", q: GdsQuery{Type: GdsAgency}, want: "/agency"},
		{name: "agency", q: GdsQuery{Type: GdsAgency, ID: "BIS"}, want: "/agency/BIS"},
		{name: "catalog_defaults", q: GdsQuery{Type: GdsCatalog}, want: "/catalog/*/*/~/"},
		{
			name: "catalog_filtered",
			q: GdsQuery{
				Type: GdsCatalog, AgencyID: ID("BIS"), ResourceID: ID("CBS"), Version: ID("1.0"),
				ResourceType: "data", MessageFormat: "json", APIVersion: "2.0.0",
			},
			want: "/catalog/BIS/CBS/1.0/?resource_type=data&message_format=json&api_version=2.0.0",
		},
		{name: "services", q: GdsQuery{Type: GdsService}, want: "/service"},
		{name: "service_by_agency", q: GdsQuery{Type: GdsService, AgencyID: ID("BIS")}, want: "/service/BIS/*/~"},
		{name: "sdmxapi", q: GdsQuery{Type: GdsSdmxAPI}, want: "/sdmxapi"},
		{name: "sdmxapi_version", q: GdsQuery{Type: GdsSdmxAPI, ID: "V2.0.0"}, want: "/sdmxapi/2.0.0"},
		{
			name: "urn",
			q:    GdsQuery{Type: GdsURNResolver, URN: "urn:sdmx:org.sdmx.infomodel.codelist.Codelist=BIS:CL_FREQ(1.0)"},
			want: "/urn_resolver/urn:sdmx:org.sdmx.infomodel.codelist.Codelist=BIS:CL_FREQ(1.0)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.q.Path()
			if err != nil {
				t.Fatalf("Path err=%v", err)
			}
			if got != tt.want {
				t.Fatalf("Path=%q want %q", got, tt.want)
			}
		})
	}
}

func TestGdsQueryAllowLists(t *testing.T) {
	bad := []GdsQuery{
		{Type: "registry"},
		{Type: GdsCatalog, ResourceType: "codelists"},
		{Type: GdsCatalog, MessageFormat: "yaml"},
		{Type: GdsCatalog, Detail: "partial"},
		{Type: GdsCatalog, References: "cousins"},
		{Type: GdsCatalog, APIVersion: "9.9.9"},
		{Type: GdsSdmxAPI, ID: "3.0"},
		{Type: GdsURNResolver, URN: "BIS:CL_FREQ(1.0)"},
		{Type: GdsAgency, ID: "BIS/ECB"},
	}
	for _, q := range bad {
		if _, err := q.Path(); !sdmxerr.IsClientError(err) {
			t.Fatalf("Path(%+v) err=%v, want ClientError", q, err)
		}
	}
}
