package qb

import (
	"strings"

	"github.com/r9s-ai/sdmxrest/pkg/apiversion"
	"github.com/r9s-ai/sdmxrest/pkg/sdmxerr"
)

// Wildcard sentinels as written at V2.0.0 and later.
const (
	RestAll    = "*"
	RestLatest = "~"
)

// Legacy spellings of the sentinels, used before V2.0.0.
const (
	legacyAll    = "all"
	legacyLatest = "latest"
)

type locatorKind uint8

const (
	locatorUnset locatorKind = iota
	locatorAll
	locatorLatest
	locatorIDs
)

// Locator selects one, several or all artefacts for a path segment. The zero
// value means "not supplied" and resolves to the field default.
type Locator struct {
	kind locatorKind
	ids  []string
}

// All selects every artefact (`*`, or `all` before V2.0.0).
func All() Locator { return Locator{kind: locatorAll} }

// Latest selects the latest version (`~`, or `latest` before V2.0.0).
func Latest() Locator { return Locator{kind: locatorLatest} }

// ID selects a single identifier. The sentinel strings "*" and "~" map to All
// and Latest.
func ID(id string) Locator {
	switch id {
	case RestAll:
		return All()
	case RestLatest:
		return Latest()
	}
	return Locator{kind: locatorIDs, ids: []string{id}}
}

// IDs selects an ordered list of identifiers. An empty list is rejected by
// validation rather than read as "all"; a lone "*" or "~" is read as ID does.
func IDs(ids ...string) Locator {
	if len(ids) == 1 {
		return ID(ids[0])
	}
	return Locator{kind: locatorIDs, ids: append([]string{}, ids...)}
}

func (l Locator) IsSet() bool    { return l.kind != locatorUnset }
func (l Locator) IsAll() bool    { return l.kind == locatorAll }
func (l Locator) IsLatest() bool { return l.kind == locatorLatest }

// Values returns the explicit identifiers, or nil for sentinels.
func (l Locator) Values() []string {
	if l.kind != locatorIDs {
		return nil
	}
	return append([]string(nil), l.ids...)
}

// String renders l with the V2 tokens. Unset locators render as "".
func (l Locator) String() string {
	switch l.kind {
	case locatorAll:
		return RestAll
	case locatorLatest:
		return RestLatest
	case locatorIDs:
		return strings.Join(l.ids, ",")
	default:
		return ""
	}
}

// or returns l, or def when l is unset.
func (l Locator) or(def Locator) Locator {
	if l.kind == locatorUnset {
		return def
	}
	return l
}

// multiple reports whether l names more than one artefact, either as a list
// or as a single pre-joined value.
func (l Locator) multiple() bool {
	if l.kind != locatorIDs {
		return false
	}
	if len(l.ids) > 1 {
		return true
	}
	return len(l.ids) == 1 && strings.ContainsAny(l.ids[0], ",+")
}

// single reports whether l is exactly one explicit identifier.
func (l Locator) single() bool {
	return l.kind == locatorIDs && len(l.ids) == 1 && !strings.Contains(l.ids[0], ",")
}

// token renders the wire form of l for v. Lists join with "," from V2.0.0 and
// with "+" before.
func (l Locator) token(v apiversion.ApiVersion) string {
	legacy := v.Less(apiversion.V2_0_0)
	switch l.kind {
	case locatorAll:
		if legacy {
			return legacyAll
		}
		return RestAll
	case locatorLatest:
		if legacy {
			return legacyLatest
		}
		return RestLatest
	case locatorIDs:
		if legacy {
			return strings.ReplaceAll(strings.Join(l.ids, "+"), ",", "+")
		}
		return strings.ReplaceAll(strings.Join(l.ids, ","), "+", ",")
	default:
		return ""
	}
}

// plusToken renders series keys and versions, where a "+" inside a value is
// meaningful from V2.0.0 (a dimension OR, a semantic version wildcard) and
// only whole values are separated by ",".
func (l Locator) plusToken(v apiversion.ApiVersion) string {
	if l.kind == locatorIDs && !v.Less(apiversion.V2_0_0) {
		return strings.Join(l.ids, ",")
	}
	return l.token(v)
}

// versionToken renders a version locator. Before V2.0.0 there is no "all
// versions" keyword, so both sentinels collapse to `latest`. From V2.0.0 a
// "+" is a semantic version wildcard and is kept.
func (l Locator) versionToken(v apiversion.ApiVersion) string {
	if v.Less(apiversion.V2_0_0) && (l.IsAll() || l.IsLatest()) {
		return legacyLatest
	}
	return l.plusToken(v)
}

// validateLocator checks the structural shape of an explicitly supplied list.
func validateLocator(field string, l Locator) error {
	if l.kind != locatorIDs {
		return nil
	}
	if len(l.ids) == 0 {
		return sdmxerr.ClientError("Empty identifier list", "%s must not be an empty list", field).WithField(field)
	}
	for _, id := range l.ids {
		s := strings.TrimSpace(id)
		if s == "" {
			return sdmxerr.ClientError("Empty identifier", "%s contains an empty identifier", field).WithField(field)
		}
		if s == RestAll || s == RestLatest {
			return sdmxerr.ClientError("Wildcard in list", "%s cannot mix %q with other identifiers", field, s).WithField(field)
		}
		if strings.ContainsAny(s, "/?&# ") {
			return sdmxerr.ClientError("Malformed identifier", "%s value %q contains a reserved character", field, id).WithField(field)
		}
	}
	return nil
}

// CheckMultipleItems fails with Invalid when item selects more than one
// artefact and v predates multiple-item support.
func CheckMultipleItems(item Locator, v apiversion.ApiVersion) error {
	return checkMultiple("item", item, v)
}

func checkMultiple(field string, l Locator, v apiversion.ApiVersion) error {
	if !l.multiple() {
		return nil
	}
	return apiversion.Require(apiversion.MultipleItems, v, field)
}
