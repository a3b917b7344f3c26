package qb

import (
	"strconv"
	"time"

	"github.com/r9s-ai/sdmxrest/pkg/apiversion"
	"github.com/r9s-ai/sdmxrest/pkg/sdmxerr"
)

// DataQuery addresses statistical data.
//
// Defaults: Context all, AgencyID/ResourceID/Version/Key All, Attributes
// "dsd", Measures "all", IncludeHistory false, Offset 0. Pointer fields are
// unset when nil.
type DataQuery struct {
	Context    DataContext
	AgencyID   Locator
	ResourceID Locator
	Version    Locator
	// Key is a series key such as "M.USD+GBP.EUR". Several keys are OR-ed.
	Key        Locator
	Components []ComponentFilter

	UpdatedAfter          *time.Time
	FirstNObs             *int
	LastNObs              *int
	ObsDimension          string
	Attributes            string
	Measures              string
	IncludeHistory        bool
	Offset                int
	Limit                 *int
	Sort                  []SortBy
	AsOf                  *time.Time
	ReportingYearStartDay string
}

func (q DataQuery) Resource() string { return "data" }

func (q DataQuery) attributes() string {
	if q.Attributes == "" {
		return defaultAttribute
	}
	return q.Attributes
}

func (q DataQuery) measures() string {
	if q.Measures == "" {
		return defaultMeasure
	}
	return q.Measures
}

func (q DataQuery) Validate() error {
	if err := firstErr(
		q.Context.validate(),
		validateLocator("agency_id", q.AgencyID),
		validateLocator("resource_id", q.ResourceID),
		validateLocator("version", q.Version),
		validateLocator("key", q.Key),
		validateFilters(q.Components),
		validateTime("updatedAfter", q.UpdatedAfter),
		validateTime("asOf", q.AsOf),
		validateCount("firstNObservations", q.FirstNObs),
		validateCount("lastNObservations", q.LastNObs),
		validateCount("limit", q.Limit),
		validateSort(q.Sort),
		validateYearStartDay(q.ReportingYearStartDay),
		validateName("dimensionAtObservation", q.ObsDimension),
		validateName("attributes", q.Attributes),
		validateName("measures", q.Measures),
	); err != nil {
		return err
	}
	if q.Offset < 0 {
		return sdmxerr.Invalid("Negative count", "offset must be non-negative, got %d", q.Offset).WithField("offset")
	}
	return nil
}

func (q DataQuery) URL(v apiversion.ApiVersion, short bool) (string, error) {
	if err := firstErr(requireVersion(v), q.Validate()); err != nil {
		return "", err
	}
	if err := firstErr(
		checkMultiple("agency_id", q.AgencyID, v),
		checkMultiple("resource_id", q.ResourceID, v),
		checkMultiple("version", q.Version, v),
		gateIf(q.IncludeHistory, apiversion.IncludeHistory, v, "includeHistory"),
		gateIf(q.Offset != 0, apiversion.Offset, v, "offset"),
		gateIf(q.Limit != nil, apiversion.Limit, v, "limit"),
		gateIf(len(q.Sort) > 0, apiversion.Sort, v, "sort"),
		gateIf(q.AsOf != nil, apiversion.AsOf, v, "asOf"),
		gateIf(q.ReportingYearStartDay != "", apiversion.ReportingYearStartDay, v, "reportingYearStartDay"),
	); err != nil {
		return "", err
	}
	if v.Less(apiversion.V2_0_0) {
		return q.legacyURL(v, short)
	}

	p := newPath("data").
		add(string(q.Context.orDefault()), RestAll).
		add(q.AgencyID.or(All()).token(v), RestAll).
		add(q.ResourceID.or(All()).token(v), RestAll).
		add(q.Version.or(All()).versionToken(v), RestAll).
		add(q.Key.or(All()).plusToken(v), RestAll)

	var qs queryBuilder
	addFilters(&qs, q.Components)
	qs.set("updatedAfter", formatTime(q.UpdatedAfter))
	qs.set("firstNObservations", formatCount(q.FirstNObs))
	qs.set("lastNObservations", formatCount(q.LastNObs))
	qs.set("dimensionAtObservation", q.ObsDimension)
	qs.add("attributes", escapeValue(q.attributes()), q.attributes() == defaultAttribute)
	qs.add("measures", escapeValue(q.measures()), q.measures() == defaultMeasure)
	qs.add("includeHistory", strconv.FormatBool(q.IncludeHistory), !q.IncludeHistory)
	if apiversion.Supports(apiversion.Offset, v) {
		qs.add("offset", strconv.Itoa(q.Offset), q.Offset == 0)
	}
	qs.set("limit", formatCount(q.Limit))
	if len(q.Sort) > 0 {
		qs.set("sort", renderSort(q.Sort))
	}
	qs.set("asOf", formatTime(q.AsOf))
	qs.set("reportingYearStartDay", q.ReportingYearStartDay)
	return joinURL(p.render(short), qs.render(short)), nil
}

// legacyURL renders /data/{agency},{id},{version}/{key}/{provider}. The
// legacy protocol has no attributes/measures parameters; their supported
// combinations are expressed through detail.
func (q DataQuery) legacyURL(v apiversion.ApiVersion, short bool) (string, error) {
	if err := q.Context.legacy(v); err != nil {
		return "", err
	}
	if q.Key.IsSet() && len(q.Key.Values()) > 1 {
		return "", apiversion.Require(apiversion.V2Paths, v, "key")
	}
	detail, err := legacyDetail(q.attributes(), q.measures(), v)
	if err != nil {
		return "", err
	}
	start, end, err := legacyPeriods(q.Components, v)
	if err != nil {
		return "", err
	}

	flow := q.AgencyID.or(All()).token(v) + "," +
		q.ResourceID.or(All()).token(v) + "," +
		q.Version.or(All()).versionToken(v)
	p := newPath("data").
		fixed(flow).
		add(q.Key.or(All()).token(v), legacyAll).
		add(legacyAll, legacyAll)

	var qs queryBuilder
	qs.set("startPeriod", start)
	qs.set("endPeriod", end)
	qs.set("updatedAfter", formatTime(q.UpdatedAfter))
	qs.set("firstNObservations", formatCount(q.FirstNObs))
	qs.set("lastNObservations", formatCount(q.LastNObs))
	qs.set("dimensionAtObservation", q.ObsDimension)
	qs.add("detail", detail, detail == "full")
	return joinURL(p.render(short), qs.render(short)), nil
}

func legacyDetail(attributes, measures string, v apiversion.ApiVersion) (string, error) {
	switch {
	case attributes == AttributesDSD && measures == MeasuresAll:
		return "full", nil
	case attributes == AttributesNone && measures == MeasuresNone:
		return "serieskeysonly", nil
	case attributes == AttributesDSD && measures == MeasuresNone:
		return "nodata", nil
	case attributes == AttributesNone && measures == MeasuresAll:
		return "dataonly", nil
	}
	return "", apiversion.Require(apiversion.AttributesMeasures, v, "attributes="+attributes+"&measures="+measures)
}
