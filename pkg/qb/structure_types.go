package qb

import (
	"sort"

	"github.com/r9s-ai/sdmxrest/pkg/apiversion"
	"github.com/r9s-ai/sdmxrest/pkg/sdmxerr"
)

// StructureType names a kind of structural artefact.
type StructureType string

const (
	AnyStructure               StructureType = "structure"
	DataStructure              StructureType = "datastructure"
	MetadataStructure          StructureType = "metadatastructure"
	CategoryScheme             StructureType = "categoryscheme"
	ConceptScheme              StructureType = "conceptscheme"
	Codelist                   StructureType = "codelist"
	HierarchicalCodelist       StructureType = "hierarchicalcodelist"
	Hierarchy                  StructureType = "hierarchy"
	HierarchyAssociation       StructureType = "hierarchyassociation"
	ValueList                  StructureType = "valuelist"
	OrganisationScheme         StructureType = "organisationscheme"
	AgencyScheme               StructureType = "agencyscheme"
	DataProviderScheme         StructureType = "dataproviderscheme"
	DataConsumerScheme         StructureType = "dataconsumerscheme"
	MetadataProviderScheme     StructureType = "metadataproviderscheme"
	OrganisationUnitScheme     StructureType = "organisationunitscheme"
	Dataflow                   StructureType = "dataflow"
	Metadataflow               StructureType = "metadataflow"
	ReportingTaxonomy          StructureType = "reportingtaxonomy"
	ProvisionAgreement         StructureType = "provisionagreement"
	MetadataProvisionAgreement StructureType = "metadataprovisionagreement"
	StructureSet               StructureType = "structureset"
	StructureMap               StructureType = "structuremap"
	RepresentationMap          StructureType = "representationmap"
	ConceptSchemeMap           StructureType = "conceptschememap"
	CategorySchemeMap          StructureType = "categoryschememap"
	OrganisationSchemeMap      StructureType = "organisationschememap"
	ReportingTaxonomyMap       StructureType = "reportingtaxonomymap"
	Process                    StructureType = "process"
	Categorisation             StructureType = "categorisation"
	ContentConstraint          StructureType = "contentconstraint"
	ActualConstraint           StructureType = "actualconstraint"
	AllowedConstraint          StructureType = "allowedconstraint"
	AttachmentConstraint       StructureType = "attachmentconstraint"
	DataConstraint             StructureType = "dataconstraint"
	MetadataConstraint         StructureType = "metadataconstraint"
	TransformationScheme       StructureType = "transformationscheme"
	RulesetScheme              StructureType = "rulesetscheme"
	UserDefinedOperatorScheme  StructureType = "userdefinedoperatorscheme"
	CustomTypeScheme           StructureType = "customtypescheme"
	NamePersonalisationScheme  StructureType = "namepersonalisationscheme"
	VtlMappingScheme           StructureType = "vtlmappingscheme"
)

// typeWindow is the half-open range [since, until) of revisions knowing a
// type. A zero until means "still current".
type typeWindow struct {
	since      apiversion.ApiVersion
	until      apiversion.ApiVersion
	itemScheme bool
}

var (
	v10 = apiversion.V1_0_0
	v15 = apiversion.V1_5_0
	v20 = apiversion.V2_0_0
)

var structureTypes = map[StructureType]typeWindow{
	AnyStructure:               {since: v10},
	DataStructure:              {since: v10},
	MetadataStructure:          {since: v10},
	CategoryScheme:             {since: v10, itemScheme: true},
	ConceptScheme:              {since: v10, itemScheme: true},
	Codelist:                   {since: v10, itemScheme: true},
	HierarchicalCodelist:       {since: v10, until: v20},
	Hierarchy:                  {since: v20},
	HierarchyAssociation:       {since: v20},
	ValueList:                  {since: v20, itemScheme: true},
	OrganisationScheme:         {since: v10, until: v20, itemScheme: true},
	AgencyScheme:               {since: v10, itemScheme: true},
	DataProviderScheme:         {since: v10, itemScheme: true},
	DataConsumerScheme:         {since: v10, itemScheme: true},
	MetadataProviderScheme:     {since: v20, itemScheme: true},
	OrganisationUnitScheme:     {since: v10, itemScheme: true},
	Dataflow:                   {since: v10},
	Metadataflow:               {since: v10},
	ReportingTaxonomy:          {since: v10, itemScheme: true},
	ProvisionAgreement:         {since: v10},
	MetadataProvisionAgreement: {since: v20},
	StructureSet:               {since: v10, until: v20},
	StructureMap:               {since: v20},
	RepresentationMap:          {since: v20},
	ConceptSchemeMap:           {since: v20},
	CategorySchemeMap:          {since: v20},
	OrganisationSchemeMap:      {since: v20},
	ReportingTaxonomyMap:       {since: v20},
	Process:                    {since: v10},
	Categorisation:             {since: v10},
	ContentConstraint:          {since: v10, until: v20},
	ActualConstraint:           {since: v10, until: v20},
	AllowedConstraint:          {since: v10, until: v20},
	AttachmentConstraint:       {since: v10, until: v20},
	DataConstraint:             {since: v20},
	MetadataConstraint:         {since: v20},
	TransformationScheme:       {since: v15, itemScheme: true},
	RulesetScheme:              {since: v15, itemScheme: true},
	UserDefinedOperatorScheme:  {since: v15, itemScheme: true},
	CustomTypeScheme:           {since: v15, itemScheme: true},
	NamePersonalisationScheme:  {since: v15, itemScheme: true},
	VtlMappingScheme:           {since: v15, itemScheme: true},
}

// StructureTypes lists the known types in alphabetical order.
func StructureTypes() []StructureType {
	out := make([]StructureType, 0, len(structureTypes))
	for t := range structureTypes {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ItemScheme reports whether t has addressable items.
func (t StructureType) ItemScheme() bool { return structureTypes[t].itemScheme }

// Known reports whether t is a recognised type at some revision.
func (t StructureType) Known() bool {
	_, ok := structureTypes[t]
	return ok
}

// SupportedAt reports whether the revision v knows t.
func (t StructureType) SupportedAt(v apiversion.ApiVersion) bool {
	w, ok := structureTypes[t]
	if !ok {
		return false
	}
	if v.Less(w.since) {
		return false
	}
	return w.until.IsZero() || v.Less(w.until)
}

func (t StructureType) orDefault() StructureType {
	if t == "" || t == RestAll {
		return AnyStructure
	}
	return t
}

func (t StructureType) validate(field string) error {
	if !t.Known() {
		return sdmxerr.ClientError("Unknown structure type", "%s=%q is not a structure type", field, t).WithField(field)
	}
	return nil
}

func (t StructureType) gate(field string, v apiversion.ApiVersion) error {
	if t.SupportedAt(v) {
		return nil
	}
	w := structureTypes[t]
	if v.Less(w.since) {
		return sdmxerr.Invalid("Unsupported structure type", "%s=%s requires SDMX-REST %s or later, got %s", field, t, w.since, v).WithField(field)
	}
	return sdmxerr.Invalid("Unsupported structure type", "%s=%s was removed in SDMX-REST %s, got %s", field, t, w.until, v).WithField(field)
}

// token renders t; "any structure" is `*` from V2.0.0.
func (t StructureType) token(v apiversion.ApiVersion) string {
	if t == AnyStructure && v.GreaterEq(v20) {
		return RestAll
	}
	return string(t)
}

// ParseStructureType accepts a type name or "*".
func ParseStructureType(s string) (StructureType, error) {
	t := StructureType(s).orDefault()
	if err := t.validate("type"); err != nil {
		return "", err
	}
	return t, nil
}
