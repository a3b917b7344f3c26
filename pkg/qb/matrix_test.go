package qb

import (
	"strings"
	"testing"

	"github.com/r9s-ai/sdmxrest/pkg/apiversion"
)

func TestMatrixCoversEveryVersion(t *testing.T) {
	rows := Matrix(DataQuery{Limit: Int(800)}, false)
	if len(rows) != len(apiversion.All()) {
		t.Fatalf("len(rows)=%d", len(rows))
	}
	for _, r := range rows {
		if r.OK() != (r.Version == apiversion.V2_2_0) {
			t.Fatalf("%s: ok=%v err=%v", r.Version, r.OK(), r.Err)
		}
	}
	v, ok := FirstSupported(DataQuery{Limit: Int(800)})
	if !ok || v != apiversion.V2_2_0 {
		t.Fatalf("FirstSupported=(%s,%v)", v, ok)
	}
	if _, ok := FirstSupported(RegistrationByIDQuery{ID: IDs("A", "B")}); ok {
		t.Fatalf("multiple registration ids must never be supported")
	}
}

// Every short URL keeps a prefix of the full path and a subset of its
// parameters.
func TestShortFormIsSuffixTrim(t *testing.T) {
	queries := []Query{
		DataQuery{},
		DataQuery{AgencyID: ID("ECB"), ResourceID: ID("EXR"), Key: ID("M.USD.EUR"), FirstNObs: Int(2)},
		StructureQuery{Type: Codelist, AgencyID: ID("BIS")},
		AvailabilityQuery{ResourceID: ID("CBS"), Mode: ModeAvailable},
		SchemaQuery{Context: SchemaDataflow, AgencyID: ID("ECB"), ResourceID: ID("EXR")},
		RegistrationByContextQuery{Context: RegContextDataflow},
		RefMetaByMetadataflowQuery{AgencyID: ID("BIS")},
	}
	for _, q := range queries {
		full := Matrix(q, false)
		short := Matrix(q, true)
		for i := range full {
			if full[i].OK() != short[i].OK() {
				t.Fatalf("%T at %s: full/short disagree on validity", q, full[i].Version)
			}
			if !full[i].OK() {
				continue
			}
			fullPath, fullQuery, _ := strings.Cut(full[i].URL, "?")
			shortPath, shortQuery, _ := strings.Cut(short[i].URL, "?")
			if !strings.HasPrefix(fullPath, shortPath) {
				t.Fatalf("%T at %s: %q is not a prefix of %q", q, full[i].Version, shortPath, fullPath)
			}
			params := map[string]bool{}
			for _, p := range strings.Split(fullQuery, "&") {
				params[p] = true
			}
			for _, p := range strings.Split(shortQuery, "&") {
				if p != "" && !params[p] {
					t.Fatalf("%T at %s: short parameter %q missing from full form", q, full[i].Version, p)
				}
			}
		}
	}
}
