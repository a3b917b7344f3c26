package qb

import (
	"sort"
	"strings"

	"github.com/r9s-ai/sdmxrest/pkg/apiversion"
	"github.com/r9s-ai/sdmxrest/pkg/sdmxerr"
)

// GdsType selects a resource of the Global Discovery Service.
type GdsType string

const (
	GdsAgency      GdsType = "agency"
	GdsCatalog     GdsType = "catalog"
	GdsService     GdsType = "service"
	GdsSdmxAPI     GdsType = "sdmxapi"
	GdsURNResolver GdsType = "urn_resolver"
)

var gdsResourceTypes = map[string]bool{
	"data": true, "metadata": true, "structure": true, "availability": true,
	"schema": true, "registration": true,
}

var gdsMessageFormats = map[string]bool{
	"json": true, "xml": true, "csv": true,
}

var gdsDetails = map[string]bool{
	"full": true, "allstubs": true, "referencestubs": true, "allcompletestubs": true,
	"referencecompletestubs": true, "referencepartial": true, "raw": true,
}

var gdsReferences = map[string]bool{
	"none": true, "parents": true, "parentsandsiblings": true, "ancestors": true,
	"children": true, "descendants": true, "all": true,
}

// GdsQuery addresses the discovery service. Its paths do not depend on an
// SDMX-REST version; APIVersion is a filter on the catalogued services.
type GdsQuery struct {
	Type GdsType

	AgencyID   Locator
	ResourceID Locator
	Version    Locator
	// ID is the agency id for agency queries and the version number for
	// sdmxapi queries.
	ID  string
	URN string

	ResourceType  string
	MessageFormat string
	APIVersion    string
	Detail        string
	References    string
}

func (q GdsQuery) Resource() string { return "gds/" + string(q.Type) }

func (q GdsQuery) Validate() error {
	switch q.Type {
	case GdsAgency, GdsCatalog, GdsService, GdsSdmxAPI, GdsURNResolver:
	default:
		return sdmxerr.ClientError("Unknown GDS resource", "type=%q is not a discovery resource", q.Type).WithField("type")
	}
	if err := firstErr(
		validateLocator("agency_id", q.AgencyID),
		validateLocator("resource_id", q.ResourceID),
		validateLocator("version", q.Version),
		validateName("id", q.ID),
		allowed("resource_type", q.ResourceType, gdsResourceTypes),
		allowed("message_format", q.MessageFormat, gdsMessageFormats),
		allowed("detail", q.Detail, gdsDetails),
		allowed("references", q.References, gdsReferences),
	); err != nil {
		return err
	}
	if q.APIVersion != "" {
		if _, err := apiversion.Parse(q.APIVersion); err != nil {
			return sdmxerr.ClientError("Unknown api_version", "api_version=%q is not a known SDMX-REST version", q.APIVersion).WithField("api_version")
		}
	}
	switch q.Type {
	case GdsSdmxAPI:
		if q.ID != "" {
			if _, err := apiversion.Parse(q.ID); err != nil {
				return sdmxerr.ClientError("Unknown SDMX-REST version", "id=%q is not a known SDMX-REST version", q.ID).WithField("id")
			}
		}
	case GdsURNResolver:
		if !strings.HasPrefix(q.URN, "urn:sdmx:") {
			return sdmxerr.ClientError("Invalid URN", "urn=%q is not an SDMX URN", q.URN).WithField("urn")
		}
	}
	return nil
}

// Path renders the discovery path and query string.
func (q GdsQuery) Path() (string, error) {
	if err := q.Validate(); err != nil {
		return "", err
	}
	v := apiversion.Latest()
	switch q.Type {
	case GdsAgency:
		return optionalTail("/agency", q.ID), nil
	case GdsSdmxAPI:
		id := q.ID
		if id != "" {
			parsed, _ := apiversion.Parse(id)
			id = parsed.Number()
		}
		return optionalTail("/sdmxapi", id), nil
	case GdsURNResolver:
		return "/urn_resolver/" + q.URN, nil
	case GdsService:
		if !q.AgencyID.IsSet() && !q.ResourceID.IsSet() && !q.Version.IsSet() {
			return "/service", nil
		}
		return "/service/" + q.locators(v), nil
	default:
		var qs queryBuilder
		qs.set("resource_type", q.ResourceType)
		qs.set("message_format", q.MessageFormat)
		qs.set("api_version", q.APIVersion)
		qs.set("detail", q.Detail)
		qs.set("references", q.References)
		return joinURL("/catalog/"+q.locators(v)+"/", qs.render(false)), nil
	}
}

func (q GdsQuery) locators(v apiversion.ApiVersion) string {
	return q.AgencyID.or(All()).token(v) + "/" +
		q.ResourceID.or(All()).token(v) + "/" +
		q.Version.or(Latest()).versionToken(v)
}

func optionalTail(base, tail string) string {
	if tail == "" {
		return base
	}
	return base + "/" + tail
}

func allowed(field, value string, set map[string]bool) error {
	if value == "" || set[value] {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return sdmxerr.ClientError("Unsupported option", "%s=%q is not one of %s", field, value, strings.Join(keys, ", ")).WithField(field)
}
