// Package requestid generates correlation ids for registry calls and carries
// them through a context.
package requestid

import (
	"context"
	crand "crypto/rand"
	"math/big"
	"strings"
	"time"
)

const DefaultHeaderKey = "X-Request-Id"

type ctxKey struct{}

// ResolveHeaderKey returns headerKey when non-empty, otherwise the default.
func ResolveHeaderKey(headerKey string) string {
	if v := strings.TrimSpace(headerKey); v != "" {
		return v
	}
	return DefaultHeaderKey
}

// Gen returns a 28 digit id: the UTC time as yyyymmddHHMMSSuuuuuu followed by
// 8 random digits.
func Gen() string {
	return timeString(time.Now()) + randomDigits(8)
}

// NewContext returns a copy of ctx carrying id.
func NewContext(ctx context.Context, id string) context.Context {
	id = strings.TrimSpace(id)
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the id stored by NewContext.
func FromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}

// Ensure returns the id carried by ctx, generating one when absent.
func Ensure(ctx context.Context) string {
	if id, ok := FromContext(ctx); ok {
		return id
	}
	return Gen()
}

func timeString(t time.Time) string {
	return strings.ReplaceAll(t.UTC().Format("20060102150405.000000"), ".", "")
}

// randomDigits returns n zero-padded decimal digits drawn in one call to
// crypto/rand.
func randomDigits(n int) string {
	if n <= 0 {
		return ""
	}
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
	v, err := crand.Int(crand.Reader, limit)
	if err != nil {
		v = new(big.Int).Mod(big.NewInt(time.Now().UnixNano()), limit)
	}
	s := v.String()
	return strings.Repeat("0", n-len(s)) + s
}
