package qb

import (
	"github.com/r9s-ai/sdmxrest/pkg/apiversion"
	"github.com/r9s-ai/sdmxrest/pkg/sdmxerr"
)

// StructureDetail controls how much of each artefact is returned.
type StructureDetail string

const (
	DetailFull                   StructureDetail = "full"
	DetailAllStubs               StructureDetail = "allstubs"
	DetailReferenceStubs         StructureDetail = "referencestubs"
	DetailAllCompleteStubs       StructureDetail = "allcompletestubs"
	DetailReferenceCompleteStubs StructureDetail = "referencecompletestubs"
	DetailReferencePartial       StructureDetail = "referencepartial"
	DetailRaw                    StructureDetail = "raw"
)

var structureDetails = map[StructureDetail]apiversion.Feature{
	DetailFull:                   "",
	DetailAllStubs:               "",
	DetailReferenceStubs:         "",
	DetailAllCompleteStubs:       apiversion.CompleteStubs,
	DetailReferenceCompleteStubs: apiversion.CompleteStubs,
	DetailReferencePartial:       apiversion.ReferencePartial,
	DetailRaw:                    apiversion.RawDetail,
}

func (d StructureDetail) orDefault() StructureDetail {
	if d == "" {
		return DetailFull
	}
	return d
}

func (d StructureDetail) validate() error {
	if _, ok := structureDetails[d.orDefault()]; !ok {
		return sdmxerr.ClientError("Unknown detail", "detail=%q is not supported", d).WithField("detail")
	}
	return nil
}

func (d StructureDetail) gate(v apiversion.ApiVersion) error {
	if f := structureDetails[d.orDefault()]; f != "" {
		return apiversion.Require(f, v, "detail="+string(d))
	}
	return nil
}

// StructureReferences selects referenced artefacts to include. Besides the
// keywords below, any StructureType is accepted.
type StructureReferences string

const (
	RefNone               StructureReferences = "none"
	RefParents            StructureReferences = "parents"
	RefParentsAndSiblings StructureReferences = "parentsandsiblings"
	RefAncestors          StructureReferences = "ancestors"
	RefChildren           StructureReferences = "children"
	RefDescendants        StructureReferences = "descendants"
	RefAll                StructureReferences = "all"
)

var referenceKeywords = map[StructureReferences]apiversion.Feature{
	RefNone:               "",
	RefParents:            "",
	RefParentsAndSiblings: "",
	RefAncestors:          apiversion.AncestorsReferences,
	RefChildren:           "",
	RefDescendants:        "",
	RefAll:                "",
}

func (r StructureReferences) orDefault() StructureReferences {
	if r == "" {
		return RefNone
	}
	return r
}

func (r StructureReferences) validate() error {
	r = r.orDefault()
	if _, ok := referenceKeywords[r]; ok {
		return nil
	}
	if StructureType(r).Known() && StructureType(r) != AnyStructure {
		return nil
	}
	return sdmxerr.ClientError("Unknown references", "references=%q is not supported", r).WithField("references")
}

func (r StructureReferences) gate(v apiversion.ApiVersion) error {
	r = r.orDefault()
	if f, ok := referenceKeywords[r]; ok {
		if f == "" {
			return nil
		}
		return apiversion.Require(f, v, "references="+string(r))
	}
	return StructureType(r).gate("references", v)
}

// DataContext is the kind of artefact a data or availability query is
// scoped to.
type DataContext string

const (
	DataContextAll                DataContext = "*"
	DataContextDataStructure      DataContext = "datastructure"
	DataContextDataflow           DataContext = "dataflow"
	DataContextProvisionAgreement DataContext = "provisionagreement"
)

func (c DataContext) orDefault() DataContext {
	if c == "" {
		return DataContextAll
	}
	return c
}

func (c DataContext) validate() error {
	switch c.orDefault() {
	case DataContextAll, DataContextDataStructure, DataContextDataflow, DataContextProvisionAgreement:
		return nil
	}
	return sdmxerr.ClientError("Unknown context", "context=%q is not a data context", c).WithField("context")
}

// legacy checks that the context can be expressed by the single flow
// reference of the legacy path.
func (c DataContext) legacy(v apiversion.ApiVersion) error {
	switch c.orDefault() {
	case DataContextAll, DataContextDataflow:
		return nil
	}
	return apiversion.Require(apiversion.V2Paths, v, "context="+string(c))
}

// AvailabilityMode selects how availability is computed.
type AvailabilityMode string

const (
	ModeExact     AvailabilityMode = "exact"
	ModeAvailable AvailabilityMode = "available"
)

func (m AvailabilityMode) orDefault() AvailabilityMode {
	if m == "" {
		return ModeExact
	}
	return m
}

// AvailabilityReferences selects the artefacts returned alongside the
// availability constraint.
type AvailabilityReferences string

const (
	AvailRefNone               AvailabilityReferences = "none"
	AvailRefAll                AvailabilityReferences = "all"
	AvailRefDataStructure      AvailabilityReferences = "datastructure"
	AvailRefConceptScheme      AvailabilityReferences = "conceptscheme"
	AvailRefCodelist           AvailabilityReferences = "codelist"
	AvailRefDataProviderScheme AvailabilityReferences = "dataproviderscheme"
	AvailRefDataflow           AvailabilityReferences = "dataflow"
)

func (r AvailabilityReferences) orDefault() AvailabilityReferences {
	if r == "" {
		return AvailRefNone
	}
	return r
}

// MetadataDetail controls the detail of reference metadata responses.
type MetadataDetail string

const (
	MetadataDetailFull     MetadataDetail = "full"
	MetadataDetailAllStubs MetadataDetail = "allstubs"
)

func (d MetadataDetail) orDefault() MetadataDetail {
	if d == "" {
		return MetadataDetailFull
	}
	return d
}

func (d MetadataDetail) validate() error {
	switch d.orDefault() {
	case MetadataDetailFull, MetadataDetailAllStubs:
		return nil
	}
	return sdmxerr.ClientError("Unknown detail", "detail=%q is not supported for metadata", d).WithField("detail")
}

// Attribute and measure selectors for data queries.
const (
	AttributesDSD    = "dsd"
	AttributesMsg    = "msg"
	AttributesAll    = "all"
	AttributesNone   = "none"
	MeasuresAll      = "all"
	MeasuresNone     = "none"
	defaultAttribute = AttributesDSD
	defaultMeasure   = MeasuresAll
)
