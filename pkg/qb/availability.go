package qb

import (
	"time"

	"github.com/r9s-ai/sdmxrest/pkg/apiversion"
	"github.com/r9s-ai/sdmxrest/pkg/sdmxerr"
)

// AvailabilityQuery asks which data exists for a selection. It shares the
// locator shape of DataQuery and adds the component to report on.
//
// Defaults: ComponentID All, Mode exact, References none.
type AvailabilityQuery struct {
	Context     DataContext
	AgencyID    Locator
	ResourceID  Locator
	Version     Locator
	Key         Locator
	ComponentID Locator
	Components  []ComponentFilter

	Mode         AvailabilityMode
	References   AvailabilityReferences
	UpdatedAfter *time.Time
	AsOf         *time.Time
}

func (q AvailabilityQuery) Resource() string { return "availability" }

func (q AvailabilityQuery) Validate() error {
	if err := firstErr(
		q.Context.validate(),
		validateLocator("agency_id", q.AgencyID),
		validateLocator("resource_id", q.ResourceID),
		validateLocator("version", q.Version),
		validateLocator("key", q.Key),
		validateLocator("component_id", q.ComponentID),
		validateFilters(q.Components),
		validateTime("updatedAfter", q.UpdatedAfter),
		validateTime("asOf", q.AsOf),
	); err != nil {
		return err
	}
	switch q.Mode.orDefault() {
	case ModeExact, ModeAvailable:
	default:
		return sdmxerr.ClientError("Unknown mode", "mode=%q is neither exact nor available", q.Mode).WithField("mode")
	}
	switch q.References.orDefault() {
	case AvailRefNone, AvailRefAll, AvailRefDataStructure, AvailRefConceptScheme,
		AvailRefCodelist, AvailRefDataProviderScheme, AvailRefDataflow:
	default:
		return sdmxerr.ClientError("Unknown references", "references=%q is not supported for availability", q.References).WithField("references")
	}
	return nil
}

func (q AvailabilityQuery) URL(v apiversion.ApiVersion, short bool) (string, error) {
	if err := firstErr(requireVersion(v), q.Validate()); err != nil {
		return "", err
	}
	if err := firstErr(
		checkMultiple("agency_id", q.AgencyID, v),
		checkMultiple("resource_id", q.ResourceID, v),
		checkMultiple("version", q.Version, v),
		checkMultiple("component_id", q.ComponentID, v),
		gateIf(q.AsOf != nil, apiversion.AsOf, v, "asOf"),
	); err != nil {
		return "", err
	}
	if v.Less(apiversion.V2_0_0) {
		return q.legacyURL(v, short)
	}

	p := newPath("availability").
		add(string(q.Context.orDefault()), RestAll).
		add(q.AgencyID.or(All()).token(v), RestAll).
		add(q.ResourceID.or(All()).token(v), RestAll).
		add(q.Version.or(All()).versionToken(v), RestAll).
		add(q.Key.or(All()).plusToken(v), RestAll).
		add(q.ComponentID.or(All()).token(v), RestAll)

	var qs queryBuilder
	addFilters(&qs, q.Components)
	qs.set("updatedAfter", formatTime(q.UpdatedAfter))
	q.addModeAndReferences(&qs)
	qs.set("asOf", formatTime(q.AsOf))
	return joinURL(p.render(short), qs.render(short)), nil
}

func (q AvailabilityQuery) addModeAndReferences(qs *queryBuilder) {
	refs, mode := q.References.orDefault(), q.Mode.orDefault()
	qs.add("references", string(refs), refs == AvailRefNone)
	qs.add("mode", string(mode), mode == ModeExact)
}

// legacyURL renders /availableconstraint/{flow}/{key}/{provider}[/{component}].
// The component segment is only written when one is selected.
func (q AvailabilityQuery) legacyURL(v apiversion.ApiVersion, short bool) (string, error) {
	if err := q.Context.legacy(v); err != nil {
		return "", err
	}
	start, end, err := legacyPeriods(q.Components, v)
	if err != nil {
		return "", err
	}
	flow := q.AgencyID.or(All()).token(v) + "," +
		q.ResourceID.or(All()).token(v) + "," +
		q.Version.or(All()).versionToken(v)
	p := newPath("availableconstraint").
		fixed(flow).
		add(q.Key.or(All()).token(v), legacyAll).
		add(legacyAll, legacyAll)
	if q.ComponentID.IsSet() && !q.ComponentID.IsAll() {
		p.add(q.ComponentID.token(v), legacyAll)
	}

	var qs queryBuilder
	qs.set("startPeriod", start)
	qs.set("endPeriod", end)
	qs.set("updatedAfter", formatTime(q.UpdatedAfter))
	q.addModeAndReferences(&qs)
	return joinURL(p.render(short), qs.render(short)), nil
}
