package qb

import (
	"strings"
)

type segment struct {
	value string
	def   string
}

// pathBuilder accumulates the positional segments of a path. The short form
// pops trailing segments equal to their default until a non-default one is
// found, never dropping below keep segments.
type pathBuilder struct {
	prefix []string
	segs   []segment
	keep   int
}

func newPath(prefix ...string) *pathBuilder {
	return &pathBuilder{prefix: prefix}
}

func (p *pathBuilder) add(value, def string) *pathBuilder {
	p.segs = append(p.segs, segment{value: value, def: def})
	return p
}

// fixed adds a segment that is never trimmed.
func (p *pathBuilder) fixed(value string) *pathBuilder {
	p.segs = append(p.segs, segment{value: value, def: "\x00"})
	return p
}

func (p *pathBuilder) minimum(n int) *pathBuilder {
	p.keep = n
	return p
}

func (p *pathBuilder) render(short bool) string {
	segs := p.segs
	if short {
		for len(segs) > p.keep && segs[len(segs)-1].value == segs[len(segs)-1].def {
			segs = segs[:len(segs)-1]
		}
	}
	var b strings.Builder
	for _, s := range p.prefix {
		b.WriteByte('/')
		b.WriteString(s)
	}
	for _, s := range segs {
		b.WriteByte('/')
		b.WriteString(s.value)
	}
	return b.String()
}

type param struct {
	key       string
	value     string
	isDefault bool
}

// queryBuilder keeps parameters in insertion order. Empty values are never
// rendered; values at their default are only rendered in the full form.
type queryBuilder struct {
	params []param
}

func (q *queryBuilder) add(key, value string, isDefault bool) {
	if value == "" {
		return
	}
	q.params = append(q.params, param{key: key, value: value, isDefault: isDefault})
}

// set adds a parameter that has no default.
func (q *queryBuilder) set(key, value string) {
	q.add(key, value, false)
}

func (q *queryBuilder) render(short bool) string {
	parts := make([]string, 0, len(q.params))
	for _, p := range q.params {
		if short && p.isDefault {
			continue
		}
		parts = append(parts, p.key+"="+p.value)
	}
	return strings.Join(parts, "&")
}

var queryEscaper = strings.NewReplacer(
	"%", "%25",
	"&", "%26",
	"#", "%23",
	" ", "%20",
)

func escapeValue(s string) string {
	return queryEscaper.Replace(s)
}

func joinURL(path, query string) string {
	if query == "" {
		return path
	}
	return path + "?" + query
}
