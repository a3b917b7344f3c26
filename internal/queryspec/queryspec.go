// Package queryspec turns flat string parameters, as given on the command
// line or in a preview API query string, into query-builder descriptors.
package queryspec

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/r9s-ai/sdmxrest/pkg/qb"
	"github.com/r9s-ai/sdmxrest/pkg/sdmxerr"
)

const (
	FamilyStructure    = "structure"
	FamilyData         = "data"
	FamilyAvailability = "availability"
	FamilySchema       = "schema"
	FamilyMetadata     = "metadata"
	FamilyRegistration = "registration"
	FamilyGDS          = "gds"
)

// Families lists the resource families Build understands, GDS excluded.
func Families() []string {
	return []string{FamilyStructure, FamilyData, FamilyAvailability, FamilySchema, FamilyMetadata, FamilyRegistration}
}

// Params is the union of every descriptor field, as strings. Comma
// separated values select several artefacts; "*" and "~" select all and
// latest.
type Params struct {
	// By picks the metadata (structure, metadataflow, metadataset) or
	// registration (id, provider, context) variant.
	By      string
	Type    string
	Context string

	Agency    string
	ID        string
	Version   string
	Key       string
	Item      string
	Provider  string
	Component string

	Detail       string
	References   string
	Mode         string
	Attributes   string
	Measures     string
	ObsDimension string

	UpdatedAfter  string
	UpdatedBefore string
	AsOf          string

	FirstN string
	LastN  string
	Offset string
	Limit  string
	Sort   string

	Filters               []string
	ReportingYearStartDay string
	IncludeHistory        bool
	ExplicitMeasure       bool

	URN           string
	ResourceType  string
	MessageFormat string
	GdsAPIVersion string
}

// FromValues reads Params from a query string using the CLI flag names.
func FromValues(v url.Values) Params {
	return Params{
		By:                    v.Get("by"),
		Type:                  v.Get("type"),
		Context:               v.Get("context"),
		Agency:                v.Get("agency"),
		ID:                    v.Get("id"),
		Version:               v.Get("version"),
		Key:                   v.Get("key"),
		Item:                  v.Get("item"),
		Provider:              v.Get("provider"),
		Component:             v.Get("component"),
		Detail:                v.Get("detail"),
		References:            v.Get("references"),
		Mode:                  v.Get("mode"),
		Attributes:            v.Get("attributes"),
		Measures:              v.Get("measures"),
		ObsDimension:          v.Get("dimension-at-observation"),
		UpdatedAfter:          v.Get("updated-after"),
		UpdatedBefore:         v.Get("updated-before"),
		AsOf:                  v.Get("as-of"),
		FirstN:                v.Get("first-n"),
		LastN:                 v.Get("last-n"),
		Offset:                v.Get("offset"),
		Limit:                 v.Get("limit"),
		Sort:                  v.Get("sort"),
		Filters:               v["filter"],
		ReportingYearStartDay: v.Get("reporting-year-start-day"),
		IncludeHistory:        truthy(v.Get("include-history")),
		ExplicitMeasure:       truthy(v.Get("explicit-measure")),
		URN:                   v.Get("urn"),
		ResourceType:          v.Get("resource-type"),
		MessageFormat:         v.Get("message-format"),
		GdsAPIVersion:         v.Get("gds-api-version"),
	}
}

func truthy(s string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	return err == nil && b
}

// Build returns the descriptor of family. Malformed numbers, filters and
// datetimes are reported with the same error kinds the builder uses.
func (p Params) Build(family string) (qb.Query, error) {
	switch strings.ToLower(strings.TrimSpace(family)) {
	case FamilyStructure:
		return p.structure()
	case FamilyData:
		return p.data()
	case FamilyAvailability:
		return p.availability()
	case FamilySchema:
		return p.schema(), nil
	case FamilyMetadata:
		return p.metadata()
	case FamilyRegistration:
		return p.registration()
	}
	return nil, sdmxerr.ClientError("Unknown resource", "%q is not one of %s", family, strings.Join(Families(), ", ")).WithField("resource")
}

func (p Params) structure() (qb.Query, error) {
	q := qb.StructureQuery{
		AgencyID:   locator(p.Agency),
		ResourceID: locator(p.ID),
		Version:    locator(p.Version),
		ItemID:     locator(p.Item),
		Detail:     qb.StructureDetail(strings.TrimSpace(p.Detail)),
		References: qb.StructureReferences(strings.TrimSpace(p.References)),
	}
	if s := strings.TrimSpace(p.Type); s != "" {
		t, err := qb.ParseStructureType(s)
		if err != nil {
			return nil, err
		}
		q.Type = t
	}
	asOf, err := optTime("asOf", p.AsOf)
	if err != nil {
		return nil, err
	}
	q.AsOf = asOf
	return q, nil
}

func (p Params) data() (qb.Query, error) {
	q := qb.DataQuery{
		Context:               qb.DataContext(strings.TrimSpace(p.Context)),
		AgencyID:              locator(p.Agency),
		ResourceID:            locator(p.ID),
		Version:               locator(p.Version),
		Key:                   locator(p.Key),
		ObsDimension:          strings.TrimSpace(p.ObsDimension),
		Attributes:            strings.TrimSpace(p.Attributes),
		Measures:              strings.TrimSpace(p.Measures),
		IncludeHistory:        p.IncludeHistory,
		ReportingYearStartDay: strings.TrimSpace(p.ReportingYearStartDay),
	}
	var err error
	if q.Components, err = parseFilters(p.Filters); err != nil {
		return nil, err
	}
	if q.UpdatedAfter, err = optTime("updatedAfter", p.UpdatedAfter); err != nil {
		return nil, err
	}
	if q.AsOf, err = optTime("asOf", p.AsOf); err != nil {
		return nil, err
	}
	if q.FirstNObs, err = optInt("firstNObservations", p.FirstN); err != nil {
		return nil, err
	}
	if q.LastNObs, err = optInt("lastNObservations", p.LastN); err != nil {
		return nil, err
	}
	if q.Limit, err = optInt("limit", p.Limit); err != nil {
		return nil, err
	}
	offset, err := optInt("offset", p.Offset)
	if err != nil {
		return nil, err
	}
	if offset != nil {
		q.Offset = *offset
	}
	if q.Sort, err = qb.ParseSort(p.Sort); err != nil {
		return nil, err
	}
	return q, nil
}

func (p Params) availability() (qb.Query, error) {
	q := qb.AvailabilityQuery{
		Context:     qb.DataContext(strings.TrimSpace(p.Context)),
		AgencyID:    locator(p.Agency),
		ResourceID:  locator(p.ID),
		Version:     locator(p.Version),
		Key:         locator(p.Key),
		ComponentID: locator(p.Component),
		Mode:        qb.AvailabilityMode(strings.TrimSpace(p.Mode)),
		References:  qb.AvailabilityReferences(strings.TrimSpace(p.References)),
	}
	var err error
	if q.Components, err = parseFilters(p.Filters); err != nil {
		return nil, err
	}
	if q.UpdatedAfter, err = optTime("updatedAfter", p.UpdatedAfter); err != nil {
		return nil, err
	}
	if q.AsOf, err = optTime("asOf", p.AsOf); err != nil {
		return nil, err
	}
	return q, nil
}

func (p Params) schema() qb.Query {
	return qb.SchemaQuery{
		Context:         qb.SchemaContext(strings.TrimSpace(p.Context)),
		AgencyID:        locator(p.Agency),
		ResourceID:      locator(p.ID),
		Version:         locator(p.Version),
		ObsDimension:    strings.TrimSpace(p.ObsDimension),
		ExplicitMeasure: p.ExplicitMeasure,
	}
}

func (p Params) metadata() (qb.Query, error) {
	asOf, err := optTime("asOf", p.AsOf)
	if err != nil {
		return nil, err
	}
	detail := qb.MetadataDetail(strings.TrimSpace(p.Detail))
	switch by := strings.ToLower(strings.TrimSpace(p.By)); by {
	case "", "structure":
		q := qb.RefMetaByStructureQuery{
			AgencyID:   locator(p.Agency),
			ResourceID: locator(p.ID),
			Version:    locator(p.Version),
			Detail:     detail,
			AsOf:       asOf,
		}
		if s := strings.TrimSpace(p.Type); s != "" {
			t, err := qb.ParseStructureType(s)
			if err != nil {
				return nil, err
			}
			q.ArtefactType = t
		}
		return q, nil
	case "metadataflow":
		return qb.RefMetaByMetadataflowQuery{
			AgencyID:   locator(p.Agency),
			ResourceID: locator(p.ID),
			Version:    locator(p.Version),
			ProviderID: locator(p.Provider),
			Detail:     detail,
			AsOf:       asOf,
		}, nil
	case "metadataset":
		return qb.RefMetaByMetadatasetQuery{
			ProviderID: locator(p.Provider),
			ID:         locator(p.ID),
			Version:    locator(p.Version),
			Detail:     detail,
			AsOf:       asOf,
		}, nil
	default:
		return nil, sdmxerr.ClientError("Unknown metadata query", "by=%q is not structure, metadataflow or metadataset", by).WithField("by")
	}
}

func (p Params) registration() (qb.Query, error) {
	after, err := optTime("updatedAfter", p.UpdatedAfter)
	if err != nil {
		return nil, err
	}
	before, err := optTime("updatedBefore", p.UpdatedBefore)
	if err != nil {
		return nil, err
	}
	switch by := strings.ToLower(strings.TrimSpace(p.By)); by {
	case "id":
		return qb.RegistrationByIDQuery{ID: locator(p.ID)}, nil
	case "provider":
		return qb.RegistrationByProviderQuery{
			AgencyID:      locator(p.Agency),
			ProviderID:    locator(p.Provider),
			UpdatedAfter:  after,
			UpdatedBefore: before,
		}, nil
	case "", "context":
		return qb.RegistrationByContextQuery{
			Context:       qb.RegistrationContext(strings.TrimSpace(p.Context)),
			AgencyID:      locator(p.Agency),
			ResourceID:    locator(p.ID),
			Version:       locator(p.Version),
			UpdatedAfter:  after,
			UpdatedBefore: before,
		}, nil
	default:
		return nil, sdmxerr.ClientError("Unknown registration query", "by=%q is not id, provider or context", by).WithField("by")
	}
}

// BuildGds returns the discovery descriptor; Type selects the resource.
func (p Params) BuildGds() qb.GdsQuery {
	return qb.GdsQuery{
		Type:          qb.GdsType(strings.ToLower(strings.TrimSpace(p.Type))),
		AgencyID:      locator(p.Agency),
		ResourceID:    locator(p.ID),
		Version:       locator(p.Version),
		ID:            strings.TrimSpace(p.Key),
		URN:           strings.TrimSpace(p.URN),
		ResourceType:  strings.TrimSpace(p.ResourceType),
		MessageFormat: strings.TrimSpace(p.MessageFormat),
		APIVersion:    strings.TrimSpace(p.GdsAPIVersion),
		Detail:        strings.TrimSpace(p.Detail),
		References:    strings.TrimSpace(p.References),
	}
}

// locator reads "" as unset, "a,b" as a list and anything else through qb.ID.
func locator(s string) qb.Locator {
	s = strings.TrimSpace(s)
	if s == "" {
		return qb.Locator{}
	}
	if !strings.Contains(s, ",") {
		return qb.ID(s)
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return qb.IDs(parts...)
}

func optInt(field, s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, sdmxerr.Invalid("Invalid number", "%s=%q is not an integer", field, s).WithField(field)
	}
	return &n, nil
}

func optTime(field, s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := qb.ParseDateTime(field, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

var filterOperators = map[string]qb.Operator{
	"eq": qb.Eq, "ne": qb.Ne, "lt": qb.Lt, "le": qb.Le, "gt": qb.Gt, "ge": qb.Ge,
	"co": qb.Contains, "nc": qb.NotContain, "sw": qb.StartsWith, "ew": qb.EndsWith,
}

// parseFilters reads COMPONENT=[op:]v1,v2 entries.
func parseFilters(raw []string) ([]qb.ComponentFilter, error) {
	var out []qb.ComponentFilter
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		comp, rest, ok := strings.Cut(r, "=")
		if !ok || strings.TrimSpace(comp) == "" {
			return nil, sdmxerr.ClientError("Invalid component filter", "%q is not COMPONENT=[op:]values", r).WithField("c")
		}
		f := qb.ComponentFilter{Component: strings.TrimSpace(comp)}
		if prefix, values, ok := strings.Cut(rest, ":"); ok {
			if op, known := filterOperators[strings.ToLower(prefix)]; known {
				f.Operator = op
				rest = values
			}
		}
		for _, v := range strings.Split(rest, ",") {
			f.Values = append(f.Values, strings.TrimSpace(v))
		}
		out = append(out, f)
	}
	return out, nil
}
