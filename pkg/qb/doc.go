// Package qb builds and validates SDMX-REST request URLs.
//
// Each resource family has a descriptor (StructureQuery, DataQuery,
// AvailabilityQuery, the RefMeta*, Registration* queries, SchemaQuery and
// GdsQuery). A descriptor is a plain value whose zero value is a valid
// "everything at its default" request. URL renders it for one API version:
//
//	u, err := qb.DataQuery{ResourceID: qb.ID("EXR"), Key: qb.ID("M.USD.EUR")}.URL(apiversion.V2_0_0, true)
//	// u == "/data/*/*/EXR/*/M.USD.EUR"
//
// Failures are *sdmxerr.Error values of kind ClientError (the request is
// malformed whatever the version) or Invalid (it cannot be expressed at the
// requested version). Nothing in this package performs I/O.
package qb
