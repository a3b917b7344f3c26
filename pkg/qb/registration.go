package qb

import (
	"time"

	"github.com/r9s-ai/sdmxrest/pkg/apiversion"
	"github.com/r9s-ai/sdmxrest/pkg/sdmxerr"
)

// RegistrationContext is the kind of artefact registrations are listed for.
type RegistrationContext string

const (
	RegContextAll                        RegistrationContext = "*"
	RegContextDataStructure              RegistrationContext = "datastructure"
	RegContextMetadataStructure          RegistrationContext = "metadatastructure"
	RegContextDataflow                   RegistrationContext = "dataflow"
	RegContextMetadataflow               RegistrationContext = "metadataflow"
	RegContextProvisionAgreement         RegistrationContext = "provisionagreement"
	RegContextMetadataProvisionAgreement RegistrationContext = "metadataprovisionagreement"
)

func (c RegistrationContext) orDefault() RegistrationContext {
	if c == "" {
		return RegContextAll
	}
	return c
}

func (c RegistrationContext) validate() error {
	switch c.orDefault() {
	case RegContextAll, RegContextDataStructure, RegContextMetadataStructure, RegContextDataflow,
		RegContextMetadataflow, RegContextProvisionAgreement, RegContextMetadataProvisionAgreement:
		return nil
	}
	return sdmxerr.ClientError("Unknown context", "context=%q is not a registration context", c).WithField("context")
}

func validateWindow(after, before *time.Time) error {
	if err := firstErr(validateTime("updatedAfter", after), validateTime("updatedBefore", before)); err != nil {
		return err
	}
	if after != nil && before != nil && before.Before(*after) {
		return sdmxerr.Invalid("Inconsistent window", "updatedBefore %s is earlier than updatedAfter %s",
			before.UTC().Format(time.RFC3339), after.UTC().Format(time.RFC3339)).WithField("updatedBefore")
	}
	return nil
}

func registrationGates(v apiversion.ApiVersion, after, before *time.Time) error {
	return firstErr(
		apiversion.Require(apiversion.Registrations, v, "registration"),
		gateIf(after != nil, apiversion.UpdatedBeforeAfter, v, "updatedAfter"),
		gateIf(before != nil, apiversion.UpdatedBeforeAfter, v, "updatedBefore"),
	)
}

func windowParams(after, before *time.Time, short bool) string {
	var qs queryBuilder
	qs.set("updatedAfter", formatTime(after))
	qs.set("updatedBefore", formatTime(before))
	return qs.render(short)
}

// RegistrationByIDQuery fetches one registration. ID must be a single
// explicit identifier at every version.
type RegistrationByIDQuery struct {
	ID Locator
}

func (q RegistrationByIDQuery) Resource() string { return "registration" }

func (q RegistrationByIDQuery) Validate() error {
	if err := validateLocator("registration_id", q.ID); err != nil {
		return err
	}
	if !q.ID.single() {
		return sdmxerr.ClientError("Invalid registration id", "exactly one registration id is required, got %q", q.ID.String()).WithField("registration_id")
	}
	return nil
}

func (q RegistrationByIDQuery) URL(v apiversion.ApiVersion, short bool) (string, error) {
	if err := firstErr(requireVersion(v), q.Validate(), registrationGates(v, nil, nil)); err != nil {
		return "", err
	}
	return newPath("registration", "id").fixed(q.ID.token(v)).render(short), nil
}

// RegistrationByProviderQuery lists the registrations of a data provider.
type RegistrationByProviderQuery struct {
	AgencyID      Locator
	ProviderID    Locator
	UpdatedAfter  *time.Time
	UpdatedBefore *time.Time
}

func (q RegistrationByProviderQuery) Resource() string { return "registration" }

func (q RegistrationByProviderQuery) Validate() error {
	return firstErr(
		validateLocator("agency_id", q.AgencyID),
		validateLocator("provider_id", q.ProviderID),
		validateWindow(q.UpdatedAfter, q.UpdatedBefore),
	)
}

func (q RegistrationByProviderQuery) URL(v apiversion.ApiVersion, short bool) (string, error) {
	if err := firstErr(requireVersion(v), q.Validate(), registrationGates(v, q.UpdatedAfter, q.UpdatedBefore)); err != nil {
		return "", err
	}
	p := newPath("registration", "provider").
		add(q.AgencyID.or(All()).token(v), RestAll).
		add(q.ProviderID.or(All()).token(v), RestAll)
	return joinURL(p.render(short), windowParams(q.UpdatedAfter, q.UpdatedBefore, short)), nil
}

// RegistrationByContextQuery lists registrations for structures, flows or
// provision agreements. Its short form always keeps the context and agency
// segments.
type RegistrationByContextQuery struct {
	Context       RegistrationContext
	AgencyID      Locator
	ResourceID    Locator
	Version       Locator
	UpdatedAfter  *time.Time
	UpdatedBefore *time.Time
}

func (q RegistrationByContextQuery) Resource() string { return "registration" }

func (q RegistrationByContextQuery) Validate() error {
	return firstErr(
		q.Context.validate(),
		validateLocator("agency_id", q.AgencyID),
		validateLocator("resource_id", q.ResourceID),
		validateLocator("version", q.Version),
		validateWindow(q.UpdatedAfter, q.UpdatedBefore),
	)
}

func (q RegistrationByContextQuery) URL(v apiversion.ApiVersion, short bool) (string, error) {
	if err := firstErr(requireVersion(v), q.Validate(), registrationGates(v, q.UpdatedAfter, q.UpdatedBefore)); err != nil {
		return "", err
	}
	p := newPath("registration").
		add(string(q.Context.orDefault()), RestAll).
		add(q.AgencyID.or(All()).token(v), RestAll).
		add(q.ResourceID.or(All()).token(v), RestAll).
		add(q.Version.or(Latest()).versionToken(v), RestLatest).
		minimum(2)
	return joinURL(p.render(short), windowParams(q.UpdatedAfter, q.UpdatedBefore, short)), nil
}
