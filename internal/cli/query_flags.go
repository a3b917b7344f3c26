package cli

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/r9s-ai/sdmxrest/internal/queryspec"
)

// bindQueryFlags registers one flag per descriptor field. Names match the
// preview API query parameters.
func bindQueryFlags(fs *pflag.FlagSet, p *queryspec.Params) {
	fs.StringVar(&p.By, "by", "", "metadata: structure|metadataflow|metadataset; registration: id|provider|context")
	fs.StringVar(&p.Type, "type", "", "structure type or GDS resource (agency, catalog, service, sdmxapi, urn_resolver)")
	fs.StringVar(&p.Context, "context", "", "data/availability/schema/registration context")

	fs.StringVar(&p.Agency, "agency", "", "agency id(s), comma separated")
	fs.StringVar(&p.ID, "id", "", "resource id(s), comma separated")
	fs.StringVar(&p.Version, "version", "", "artefact version(s); * for all, ~ for latest")
	fs.StringVar(&p.Key, "key", "", "series key(s), comma separated; GDS: agency or sdmxapi id")
	fs.StringVar(&p.Item, "item", "", "item id(s) of an item scheme")
	fs.StringVar(&p.Provider, "provider", "", "data or metadata provider id(s)")
	fs.StringVar(&p.Component, "component", "", "availability component id")

	fs.StringVar(&p.Detail, "detail", "", "detail level")
	fs.StringVar(&p.References, "references", "", "references to resolve")
	fs.StringVar(&p.Mode, "mode", "", "availability mode: exact|available")
	fs.StringVar(&p.Attributes, "attributes", "", "data attributes to return")
	fs.StringVar(&p.Measures, "measures", "", "data measures to return")
	fs.StringVar(&p.ObsDimension, "dimension-at-observation", "", "dimension at the observation level")

	fs.StringVar(&p.UpdatedAfter, "updated-after", "", "RFC 3339 datetime")
	fs.StringVar(&p.UpdatedBefore, "updated-before", "", "RFC 3339 datetime")
	fs.StringVar(&p.AsOf, "as-of", "", "RFC 3339 datetime")

	fs.StringVar(&p.FirstN, "first-n", "", "first N observations")
	fs.StringVar(&p.LastN, "last-n", "", "last N observations")
	fs.StringVar(&p.Offset, "offset", "", "result offset")
	fs.StringVar(&p.Limit, "limit", "", "result limit")
	fs.StringVar(&p.Sort, "sort", "", "sort order")

	fs.StringArrayVar(&p.Filters, "filter", nil, "component filter COMP=[op:]v1,v2 (repeatable)")
	fs.StringVar(&p.ReportingYearStartDay, "reporting-year-start-day", "", "reporting year start day, e.g. --07-01")
	fs.BoolVar(&p.IncludeHistory, "include-history", false, "include history")
	fs.BoolVar(&p.ExplicitMeasure, "explicit-measure", false, "schema: explicit measure (V1 only)")

	fs.StringVar(&p.URN, "urn", "", "GDS urn_resolver urn")
	fs.StringVar(&p.ResourceType, "resource-type", "", "GDS catalog resource type")
	fs.StringVar(&p.MessageFormat, "message-format", "", "GDS catalog message format")
	fs.StringVar(&p.GdsAPIVersion, "gds-api-version", "", "GDS catalog api version")
}

func familyArg(args []string) string {
	return strings.ToLower(strings.TrimSpace(args[0]))
}
