package qb

import (
	"strconv"

	"github.com/r9s-ai/sdmxrest/pkg/apiversion"
	"github.com/r9s-ai/sdmxrest/pkg/sdmxerr"
)

// SchemaContext is the artefact a schema is generated for.
type SchemaContext string

const (
	SchemaDataStructure              SchemaContext = "datastructure"
	SchemaMetadataStructure          SchemaContext = "metadatastructure"
	SchemaDataflow                   SchemaContext = "dataflow"
	SchemaMetadataflow               SchemaContext = "metadataflow"
	SchemaProvisionAgreement         SchemaContext = "provisionagreement"
	SchemaMetadataProvisionAgreement SchemaContext = "metadataprovisionagreement"
)

func (c SchemaContext) orDefault() SchemaContext {
	if c == "" {
		return SchemaDataStructure
	}
	return c
}

// SchemaQuery asks for the schema of a structure, flow or agreement.
//
// Defaults: Context datastructure, AgencyID and ResourceID All, Version
// Latest. All is never a valid Version: a schema describes one version.
type SchemaQuery struct {
	Context         SchemaContext
	AgencyID        Locator
	ResourceID      Locator
	Version         Locator
	ObsDimension    string
	ExplicitMeasure bool
}

func (q SchemaQuery) Resource() string { return "schema" }

func (q SchemaQuery) Validate() error {
	switch q.Context.orDefault() {
	case SchemaDataStructure, SchemaMetadataStructure, SchemaDataflow, SchemaMetadataflow,
		SchemaProvisionAgreement, SchemaMetadataProvisionAgreement:
	default:
		return sdmxerr.ClientError("Unknown context", "context=%q is not a schema context", q.Context).WithField("context")
	}
	if q.Version.IsAll() {
		return sdmxerr.ClientError("Invalid schema version", "a schema cannot be requested for all versions").WithField("version")
	}
	if err := firstErr(
		validateLocator("agency_id", q.AgencyID),
		validateLocator("resource_id", q.ResourceID),
		validateLocator("version", q.Version),
		validateName("dimensionAtObservation", q.ObsDimension),
	); err != nil {
		return err
	}
	targets := []struct {
		field string
		loc   Locator
	}{
		{"agency_id", q.AgencyID},
		{"resource_id", q.ResourceID},
		{"version", q.Version},
	}
	for _, t := range targets {
		if t.loc.multiple() {
			return sdmxerr.ClientError("Multiple schema targets", "%s must name a single artefact", t.field).WithField(t.field)
		}
	}
	return nil
}

func (q SchemaQuery) URL(v apiversion.ApiVersion, short bool) (string, error) {
	if err := firstErr(requireVersion(v), q.Validate()); err != nil {
		return "", err
	}
	ctx := q.Context.orDefault()
	if ctx == SchemaMetadataProvisionAgreement {
		if err := apiversion.Require(apiversion.V2Paths, v, "context="+string(ctx)); err != nil {
			return "", err
		}
	}
	legacy := v.Less(apiversion.V2_0_0)
	if q.ExplicitMeasure && !legacy {
		return "", sdmxerr.Invalid("Unsupported parameter", "explicitMeasure was removed in SDMX-REST %s", apiversion.V2_0_0).WithField("explicitMeasure")
	}

	all, latest := All().token(v), Latest().token(v)
	p := newPath("schema").
		fixed(string(ctx)).
		add(q.AgencyID.or(All()).token(v), all).
		add(q.ResourceID.or(All()).token(v), all).
		add(q.Version.or(Latest()).versionToken(v), latest)

	var qs queryBuilder
	qs.set("dimensionAtObservation", q.ObsDimension)
	if legacy {
		qs.add("explicitMeasure", strconv.FormatBool(q.ExplicitMeasure), !q.ExplicitMeasure)
	}
	return joinURL(p.render(short), qs.render(short)), nil
}
