package qb

import (
	"time"

	"github.com/r9s-ai/sdmxrest/pkg/apiversion"
)

// Reference metadata queries exist from V2.0.0 on. All three share the
// detail and asOf parameters.

// RefMetaByStructureQuery finds metadata sets attached to structures.
type RefMetaByStructureQuery struct {
	ArtefactType StructureType
	AgencyID     Locator
	ResourceID   Locator
	Version      Locator
	Detail       MetadataDetail
	AsOf         *time.Time
}

func (q RefMetaByStructureQuery) Resource() string { return "metadata" }

func (q RefMetaByStructureQuery) Validate() error {
	return firstErr(
		q.ArtefactType.orDefault().validate("artefact_type"),
		validateLocator("agency_id", q.AgencyID),
		validateLocator("resource_id", q.ResourceID),
		validateLocator("version", q.Version),
		q.Detail.validate(),
		validateTime("asOf", q.AsOf),
	)
}

func (q RefMetaByStructureQuery) URL(v apiversion.ApiVersion, short bool) (string, error) {
	if err := firstErr(requireVersion(v), q.Validate()); err != nil {
		return "", err
	}
	t := q.ArtefactType.orDefault()
	if err := firstErr(
		metadataGates(v, q.AsOf),
		t.gate("artefact_type", v),
	); err != nil {
		return "", err
	}
	p := newPath("metadata", "structure").
		add(t.token(v), RestAll).
		add(q.AgencyID.or(All()).token(v), RestAll).
		add(q.ResourceID.or(All()).token(v), RestAll).
		add(q.Version.or(Latest()).versionToken(v), RestLatest)
	return joinURL(p.render(short), metadataParams(q.Detail, q.AsOf, short)), nil
}

// RefMetaByMetadataflowQuery finds metadata sets reported against a
// metadataflow.
type RefMetaByMetadataflowQuery struct {
	AgencyID   Locator
	ResourceID Locator
	Version    Locator
	ProviderID Locator
	Detail     MetadataDetail
	AsOf       *time.Time
}

func (q RefMetaByMetadataflowQuery) Resource() string { return "metadata" }

func (q RefMetaByMetadataflowQuery) Validate() error {
	return firstErr(
		validateLocator("agency_id", q.AgencyID),
		validateLocator("resource_id", q.ResourceID),
		validateLocator("version", q.Version),
		validateLocator("provider_id", q.ProviderID),
		q.Detail.validate(),
		validateTime("asOf", q.AsOf),
	)
}

func (q RefMetaByMetadataflowQuery) URL(v apiversion.ApiVersion, short bool) (string, error) {
	if err := firstErr(requireVersion(v), q.Validate(), metadataGates(v, q.AsOf)); err != nil {
		return "", err
	}
	p := newPath("metadata", "metadataflow").
		add(q.AgencyID.or(All()).token(v), RestAll).
		add(q.ResourceID.or(All()).token(v), RestAll).
		add(q.Version.or(Latest()).versionToken(v), RestLatest).
		add(q.ProviderID.or(All()).token(v), RestAll)
	return joinURL(p.render(short), metadataParams(q.Detail, q.AsOf, short)), nil
}

// RefMetaByMetadatasetQuery addresses metadata sets directly.
type RefMetaByMetadatasetQuery struct {
	ProviderID Locator
	ID         Locator
	Version    Locator
	Detail     MetadataDetail
	AsOf       *time.Time
}

func (q RefMetaByMetadatasetQuery) Resource() string { return "metadata" }

func (q RefMetaByMetadatasetQuery) Validate() error {
	return firstErr(
		validateLocator("provider_id", q.ProviderID),
		validateLocator("metadataset_id", q.ID),
		validateLocator("version", q.Version),
		q.Detail.validate(),
		validateTime("asOf", q.AsOf),
	)
}

func (q RefMetaByMetadatasetQuery) URL(v apiversion.ApiVersion, short bool) (string, error) {
	if err := firstErr(requireVersion(v), q.Validate(), metadataGates(v, q.AsOf)); err != nil {
		return "", err
	}
	p := newPath("metadata", "metadataset").
		add(q.ProviderID.or(All()).token(v), RestAll).
		add(q.ID.or(All()).token(v), RestAll).
		add(q.Version.or(Latest()).versionToken(v), RestLatest)
	return joinURL(p.render(short), metadataParams(q.Detail, q.AsOf, short)), nil
}

func metadataGates(v apiversion.ApiVersion, asOf *time.Time) error {
	return firstErr(
		apiversion.Require(apiversion.ReferenceMetadata, v, "metadata"),
		gateIf(asOf != nil, apiversion.AsOf, v, "asOf"),
	)
}

func metadataParams(d MetadataDetail, asOf *time.Time, short bool) string {
	var qs queryBuilder
	d = d.orDefault()
	qs.add("detail", string(d), d == MetadataDetailFull)
	qs.set("asOf", formatTime(asOf))
	return qs.render(short)
}
