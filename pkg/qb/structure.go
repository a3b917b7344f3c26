package qb

import (
	"time"

	"github.com/r9s-ai/sdmxrest/pkg/apiversion"
	"github.com/r9s-ai/sdmxrest/pkg/sdmxerr"
)

// StructureQuery addresses structural metadata.
//
// Defaults: Type any structure, AgencyID and ResourceID All, Version Latest,
// ItemID All, Detail full, References none.
type StructureQuery struct {
	Type       StructureType
	AgencyID   Locator
	ResourceID Locator
	Version    Locator
	// ItemID selects items of an item scheme (codes of a codelist, concepts
	// of a concept scheme...).
	ItemID     Locator
	Detail     StructureDetail
	References StructureReferences
	AsOf       *time.Time
}

func (q StructureQuery) Resource() string { return "structure" }

func (q StructureQuery) Validate() error {
	t := q.Type.orDefault()
	if err := firstErr(
		t.validate("type"),
		validateLocator("agency_id", q.AgencyID),
		validateLocator("resource_id", q.ResourceID),
		validateLocator("version", q.Version),
		validateLocator("item_id", q.ItemID),
		q.Detail.validate(),
		q.References.validate(),
		validateTime("asOf", q.AsOf),
	); err != nil {
		return err
	}
	if q.itemSelected() && !t.ItemScheme() {
		return sdmxerr.ClientError("Item query on non item scheme", "item_id is only meaningful for item schemes, not %s", t).WithField("item_id")
	}
	return nil
}

func (q StructureQuery) itemSelected() bool {
	return q.ItemID.IsSet() && !q.ItemID.IsAll()
}

func (q StructureQuery) URL(v apiversion.ApiVersion, short bool) (string, error) {
	if err := firstErr(requireVersion(v), q.Validate()); err != nil {
		return "", err
	}
	t := q.Type.orDefault()
	if err := firstErr(
		t.gate("type", v),
		q.Detail.gate(v),
		q.References.gate(v),
		checkMultiple("agency_id", q.AgencyID, v),
		checkMultiple("resource_id", q.ResourceID, v),
		checkMultiple("version", q.Version, v),
		checkMultiple("item_id", q.ItemID, v),
		gateIf(q.itemSelected(), apiversion.ItemQueries, v, "item_id"),
		gateIf(q.AsOf != nil, apiversion.AsOf, v, "asOf"),
	); err != nil {
		return "", err
	}

	all, latest := All().token(v), Latest().token(v)
	var p *pathBuilder
	if v.Less(apiversion.V2_0_0) {
		p = newPath(t.token(v))
	} else {
		p = newPath("structure").add(t.token(v), RestAll)
	}
	p.add(q.AgencyID.or(All()).token(v), all).
		add(q.ResourceID.or(All()).token(v), all).
		add(q.Version.or(Latest()).plusToken(v), latest)
	if t.ItemScheme() && apiversion.Supports(apiversion.ItemQueries, v) {
		p.add(q.ItemID.or(All()).token(v), all)
	}

	var qs queryBuilder
	detail, refs := q.Detail.orDefault(), q.References.orDefault()
	qs.add("detail", string(detail), detail == DetailFull)
	qs.add("references", string(refs), refs == RefNone)
	qs.set("asOf", formatTime(q.AsOf))
	return joinURL(p.render(short), qs.render(short)), nil
}
