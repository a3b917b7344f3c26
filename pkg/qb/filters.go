package qb

import (
	"strings"

	"github.com/r9s-ai/sdmxrest/pkg/apiversion"
	"github.com/r9s-ai/sdmxrest/pkg/sdmxerr"
)

// TimePeriod is the conventional time dimension id.
const TimePeriod = "TIME_PERIOD"

type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// SortBy orders data by one component.
type SortBy struct {
	Component string
	Order     SortOrder
}

func validateSort(sort []SortBy) error {
	for i, s := range sort {
		if strings.TrimSpace(s.Component) == "" {
			return sdmxerr.Invalid("Invalid sort", "sort entry %d has no component", i).WithField("sort")
		}
		if err := validateName("sort", s.Component); err != nil {
			return err
		}
		switch s.Order {
		case Asc, Desc, "":
		default:
			return sdmxerr.Invalid("Invalid sort", "sort order %q for %s is neither asc nor desc", s.Order, s.Component).WithField("sort")
		}
	}
	return nil
}

func renderSort(sort []SortBy) string {
	parts := make([]string, 0, len(sort))
	for _, s := range sort {
		order := s.Order
		if order == "" {
			order = Asc
		}
		parts = append(parts, s.Component+":"+string(order))
	}
	return strings.Join(parts, "+")
}

// ParseSort reads "A:asc,B:desc" (or "+"-joined) into sort entries.
func ParseSort(s string) ([]SortBy, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '+' })
	out := make([]SortBy, 0, len(fields))
	for _, f := range fields {
		comp, order, ok := strings.Cut(strings.TrimSpace(f), ":")
		if !ok {
			return nil, sdmxerr.Invalid("Invalid sort", "%q is not a component:order pair", f).WithField("sort")
		}
		out = append(out, SortBy{Component: comp, Order: SortOrder(strings.ToLower(order))})
	}
	if err := validateSort(out); err != nil {
		return nil, err
	}
	return out, nil
}

type Operator string

const (
	Eq         Operator = "eq"
	Ne         Operator = "ne"
	Lt         Operator = "lt"
	Le         Operator = "le"
	Gt         Operator = "gt"
	Ge         Operator = "ge"
	Contains   Operator = "co"
	NotContain Operator = "nc"
	StartsWith Operator = "sw"
	EndsWith   Operator = "ew"
)

var operators = map[Operator]bool{
	Eq: true, Ne: true, Lt: true, Le: true, Gt: true, Ge: true,
	Contains: true, NotContain: true, StartsWith: true, EndsWith: true,
}

// ComponentFilter restricts a component to values. Several values of one
// filter are OR-ed; several filters on one component are AND-ed.
type ComponentFilter struct {
	Component string
	Operator  Operator
	Values    []string
}

func (f ComponentFilter) op() Operator {
	if f.Operator == "" {
		return Eq
	}
	return f.Operator
}

func validateFilters(filters []ComponentFilter) error {
	for _, f := range filters {
		if strings.TrimSpace(f.Component) == "" {
			return sdmxerr.ClientError("Invalid component filter", "component filter has no component id").WithField("c")
		}
		if err := validateName("c", f.Component); err != nil {
			return err
		}
		if !operators[f.op()] {
			return sdmxerr.ClientError("Invalid component filter", "unknown operator %q on %s", f.Operator, f.Component).WithField("c")
		}
		if len(f.Values) == 0 {
			return sdmxerr.ClientError("Invalid component filter", "filter on %s has no values", f.Component).WithField("c")
		}
		for _, v := range f.Values {
			if v == "" {
				return sdmxerr.ClientError("Invalid component filter", "filter on %s has an empty value", f.Component).WithField("c")
			}
		}
	}
	return nil
}

// addFilters renders component filters as c[ID]=... parameters. Filters are
// grouped by component in order of first appearance.
func addFilters(q *queryBuilder, filters []ComponentFilter) {
	var order []string
	groups := map[string][]string{}
	for _, f := range filters {
		vals := make([]string, 0, len(f.Values))
		for _, v := range f.Values {
			if f.op() == Eq {
				vals = append(vals, escapeValue(v))
			} else {
				vals = append(vals, string(f.op())+":"+escapeValue(v))
			}
		}
		if _, ok := groups[f.Component]; !ok {
			order = append(order, f.Component)
		}
		groups[f.Component] = append(groups[f.Component], strings.Join(vals, ","))
	}
	for _, c := range order {
		q.set("c["+c+"]", strings.Join(groups[c], "+"))
	}
}

// legacyPeriods maps TIME_PERIOD range filters onto startPeriod/endPeriod,
// which is all the filtering the legacy protocol can express.
func legacyPeriods(filters []ComponentFilter, v apiversion.ApiVersion) (start, end string, err error) {
	for _, f := range filters {
		if f.Component != TimePeriod || len(f.Values) != 1 {
			return "", "", apiversion.Require(apiversion.ComponentFilters, v, "c["+f.Component+"]")
		}
		switch f.op() {
		case Ge, Gt:
			start = escapeValue(f.Values[0])
		case Le, Lt:
			end = escapeValue(f.Values[0])
		default:
			return "", "", apiversion.Require(apiversion.ComponentFilters, v, "c["+f.Component+"]")
		}
	}
	return start, end, nil
}
