package qb

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/r9s-ai/sdmxrest/pkg/apiversion"
	"github.com/r9s-ai/sdmxrest/pkg/sdmxerr"
)

var noonUTC = time.Date(2024, 1, 1, 14, 0, 0, 0, time.FixedZone("CET", 2*3600))

func TestDataQueryDefaults(t *testing.T) {
	u, err := DataQuery{}.URL(apiversion.V2_0_0, false)
	require.NoError(t, err)
	assert.Equal(t, "/data/*/*/*/*/*?attributes=dsd&measures=all&includeHistory=false", u)

	u, err = DataQuery{}.URL(apiversion.V2_2_0, false)
	require.NoError(t, err)
	assert.Equal(t, "/data/*/*/*/*/*?attributes=dsd&measures=all&includeHistory=false&offset=0", u)

	for _, v := range []apiversion.ApiVersion{apiversion.V2_0_0, apiversion.V2_1_0, apiversion.V2_2_0} {
		u, err = DataQuery{}.URL(v, true)
		require.NoError(t, err)
		assert.Equal(t, "/data", u, "short form at %s", v)
	}
}

func TestDataQueryLimitGate(t *testing.T) {
	q := DataQuery{Limit: Int(800)}
	for _, v := range apiversion.All() {
		u, err := q.URL(v, false)
		if v.Less(apiversion.V2_2_0) {
			assert.True(t, sdmxerr.IsInvalid(err), "limit at %s: %v", v, err)
			assert.Empty(t, u)
			continue
		}
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(u, "&limit=800"), u)
	}
}

func TestDataQueryV2Shapes(t *testing.T) {
	tests := []struct {
		name  string
		q     DataQuery
		v     apiversion.ApiVersion
		short bool
		want  string
	}{
		{
			name:  "key_only",
			q:     DataQuery{ResourceID: ID("EXR"), Key: ID("M.USD.EUR")},
			v:     apiversion.V2_0_0,
			short: true,
			want:  "/data/*/*/EXR/*/M.USD.EUR",
		},
		{
			name:  "trailing_defaults_trimmed",
			q:     DataQuery{Context: DataContextDataflow, AgencyID: ID("ECB")},
			v:     apiversion.V2_1_0,
			short: true,
			want:  "/data/dataflow/ECB",
		},
		{
			name:  "multiple_keys",
			q:     DataQuery{Key: IDs("M.USD.EUR", "A.GBP.EUR")},
			v:     apiversion.V2_0_0,
			short: true,
			want:  "/data/*/*/*/*/M.USD.EUR,A.GBP.EUR",
		},
		{
			name: "component_filters",
			q: DataQuery{Components: []ComponentFilter{
				{Component: "FREQ", Values: []string{"A", "M"}},
				{Component: TimePeriod, Operator: Ge, Values: []string{"2020"}},
				{Component: TimePeriod, Operator: Le, Values: []string{"2021"}},
			}},
			v:     apiversion.V2_0_0,
			short: true,
			want:  "/data?c[FREQ]=A,M&c[TIME_PERIOD]=ge:2020+le:2021",
		},
		{
			name:  "sort",
			q:     DataQuery{Sort: []SortBy{{Component: TimePeriod, Order: Desc}, {Component: "FREQ"}}},
			v:     apiversion.V2_2_0,
			short: true,
			want:  "/data?sort=TIME_PERIOD:desc+FREQ:asc",
		},
		{
			name:  "updated_after_in_utc",
			q:     DataQuery{UpdatedAfter: Time(noonUTC)},
			v:     apiversion.V2_0_0,
			short: true,
			want:  "/data?updatedAfter=2024-01-01T12:00:00%2B00:00",
		},
		{
			name:  "observation_counts",
			q:     DataQuery{FirstNObs: Int(1), LastNObs: Int(0), ObsDimension: "AllDimensions"},
			v:     apiversion.V2_0_0,
			short: true,
			want:  "/data?firstNObservations=1&lastNObservations=0&dimensionAtObservation=AllDimensions",
		},
		{
			name:  "attributes_and_history",
			q:     DataQuery{Attributes: AttributesNone, IncludeHistory: true},
			v:     apiversion.V2_0_0,
			short: true,
			want:  "/data?attributes=none&includeHistory=true",
		},
		{
			name:  "paging",
			q:     DataQuery{Offset: 100, Limit: Int(50), ReportingYearStartDay: "--07-01"},
			v:     apiversion.V2_2_0,
			short: true,
			want:  "/data?offset=100&limit=50&reportingYearStartDay=--07-01",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.q.URL(tt.v, tt.short)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDataQueryLegacyShapes(t *testing.T) {
	tests := []struct {
		name  string
		q     DataQuery
		v     apiversion.ApiVersion
		short bool
		want  string
	}{
		{
			name: "defaults_v1_0",
			q:    DataQuery{},
			v:    apiversion.V1_0_0,
			want: "/data/all,all,latest/all/all?detail=full",
		},
		{
			name:  "defaults_short",
			q:     DataQuery{},
			v:     apiversion.V1_5_0,
			short: true,
			want:  "/data/all,all,latest",
		},
		{
			name: "flow_and_key",
			q:    DataQuery{AgencyID: ID("ECB"), ResourceID: ID("EXR"), Key: ID("M.USD+GBP.EUR")},
			v:    apiversion.V1_5_0,
			want: "/data/ECB,EXR,latest/M.USD+GBP.EUR/all?detail=full",
		},
		{
			name:  "latest_from_list",
			q:     DataQuery{ResourceID: ID("EXR"), Version: IDs("~")},
			v:     apiversion.V1_5_0,
			short: true,
			want:  "/data/all,EXR,latest",
		},
		{
			name:  "explicit_version",
			q:     DataQuery{ResourceID: ID("EXR"), Version: ID("1.0")},
			v:     apiversion.V1_2_0,
			short: true,
			want:  "/data/all,EXR,1.0",
		},
		{
			name:  "series_keys_only",
			q:     DataQuery{Attributes: AttributesNone, Measures: MeasuresNone},
			v:     apiversion.V1_4_0,
			short: true,
			want:  "/data/all,all,latest?detail=serieskeysonly",
		},
		{
			name:  "time_period_range",
			q:     DataQuery{Components: []ComponentFilter{{Component: TimePeriod, Operator: Ge, Values: []string{"2020"}}, {Component: TimePeriod, Operator: Le, Values: []string{"2021-06"}}}},
			v:     apiversion.V1_5_0,
			short: true,
			want:  "/data/all,all,latest?startPeriod=2020&endPeriod=2021-06",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.q.URL(tt.v, tt.short)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDataQueryErrors(t *testing.T) {
	tests := []struct {
		name   string
		q      DataQuery
		v      apiversion.ApiVersion
		client bool
	}{
		{name: "unknown_context", q: DataQuery{Context: "cube"}, v: apiversion.V2_0_0, client: true},
		{name: "empty_agency_list", q: DataQuery{AgencyID: IDs()}, v: apiversion.V2_0_0, client: true},
		{name: "empty_filter", q: DataQuery{Components: []ComponentFilter{{Component: "FREQ"}}}, v: apiversion.V2_0_0, client: true},
		{name: "negative_first_n", q: DataQuery{FirstNObs: Int(-1)}, v: apiversion.V2_0_0},
		{name: "negative_offset", q: DataQuery{Offset: -5}, v: apiversion.V2_2_0},
		{name: "negative_limit", q: DataQuery{Limit: Int(-1)}, v: apiversion.V2_2_0},
		{name: "bad_sort_order", q: DataQuery{Sort: []SortBy{{Component: "FREQ", Order: "up"}}}, v: apiversion.V2_2_0},
		{name: "sort_before_v2_2", q: DataQuery{Sort: []SortBy{{Component: "FREQ"}}}, v: apiversion.V2_1_0},
		{name: "offset_before_v2_2", q: DataQuery{Offset: 10}, v: apiversion.V2_1_0},
		{name: "as_of_before_v2_2", q: DataQuery{AsOf: Time(noonUTC)}, v: apiversion.V2_0_0},
		{name: "bad_year_start", q: DataQuery{ReportingYearStartDay: "07-01"}, v: apiversion.V2_2_0},
		{name: "history_before_v2", q: DataQuery{IncludeHistory: true}, v: apiversion.V1_5_0},
		{name: "legacy_context", q: DataQuery{Context: DataContextDataStructure}, v: apiversion.V1_5_0},
		{name: "legacy_attributes", q: DataQuery{Attributes: AttributesMsg}, v: apiversion.V1_5_0},
		{name: "legacy_filter", q: DataQuery{Components: []ComponentFilter{{Component: "FREQ", Values: []string{"A"}}}}, v: apiversion.V1_5_0},
		{name: "legacy_multiple_keys", q: DataQuery{Key: IDs("A.B", "C.D")}, v: apiversion.V1_5_0},
		{name: "multiple_agencies_v1_2", q: DataQuery{AgencyID: IDs("ECB", "BIS")}, v: apiversion.V1_2_0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := tt.q.URL(tt.v, false)
			require.Error(t, err)
			assert.Empty(t, u)
			if tt.client {
				assert.True(t, sdmxerr.IsClientError(err), "want ClientError, got %v", err)
			} else {
				assert.True(t, sdmxerr.IsInvalid(err), "want Invalid, got %v", err)
			}
		})
	}
}

func TestDataQueryValidateMatchesURL(t *testing.T) {
	q := DataQuery{LastNObs: Int(-3)}
	err := q.Validate()
	require.Error(t, err)
	_, urlErr := q.URL(apiversion.V2_0_0, false)
	assert.Equal(t, err.Error(), urlErr.Error())

	var e *sdmxerr.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "lastNObservations", e.Field)
}

func TestDataQueryRequiresVersion(t *testing.T) {
	_, err := DataQuery{}.URL(apiversion.ApiVersion{}, false)
	assert.True(t, sdmxerr.IsClientError(err), "%v", err)
}

func TestDataQueryIsDeterministic(t *testing.T) {
	q := DataQuery{
		AgencyID:     IDs("ECB", "BIS"),
		Components:   []ComponentFilter{{Component: "B", Values: []string{"1"}}, {Component: "A", Operator: Ne, Values: []string{"x y"}}},
		UpdatedAfter: Time(noonUTC),
		Sort:         []SortBy{{Component: "A", Order: Asc}},
	}
	first, err := q.URL(apiversion.V2_2_0, false)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := q.URL(apiversion.V2_2_0, false)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
	assert.Contains(t, first, "c[B]=1&c[A]=ne:x%20y")
}
