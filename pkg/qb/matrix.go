package qb

import (
	"github.com/r9s-ai/sdmxrest/pkg/apiversion"
)

// MatrixRow is the rendering of one query at one API version.
type MatrixRow struct {
	Version apiversion.ApiVersion
	URL     string
	Err     error
}

// OK reports whether the query is expressible at Version.
func (r MatrixRow) OK() bool { return r.Err == nil }

// Matrix renders q against every known API version, oldest first.
func Matrix(q Query, short bool) []MatrixRow {
	versions := apiversion.All()
	rows := make([]MatrixRow, 0, len(versions))
	for _, v := range versions {
		u, err := q.URL(v, short)
		rows = append(rows, MatrixRow{Version: v, URL: u, Err: err})
	}
	return rows
}

// FirstSupported returns the oldest version at which q renders, and false
// when none does.
func FirstSupported(q Query) (apiversion.ApiVersion, bool) {
	for _, r := range Matrix(q, false) {
		if r.OK() {
			return r.Version, true
		}
	}
	return apiversion.ApiVersion{}, false
}
