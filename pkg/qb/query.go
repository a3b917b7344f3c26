package qb

import (
	"github.com/r9s-ai/sdmxrest/pkg/apiversion"
	"github.com/r9s-ai/sdmxrest/pkg/sdmxerr"
)

// Query is implemented by every descriptor of a versioned resource family.
type Query interface {
	// Validate checks the version-independent shape of the request.
	Validate() error
	// URL renders path and query string for v. The short form omits
	// trailing path segments and parameters that are at their default.
	URL(v apiversion.ApiVersion, short bool) (string, error)
	// Resource names the family, e.g. "data" or "structure".
	Resource() string
}

var (
	_ Query = StructureQuery{}
	_ Query = DataQuery{}
	_ Query = AvailabilityQuery{}
	_ Query = RefMetaByStructureQuery{}
	_ Query = RefMetaByMetadataflowQuery{}
	_ Query = RefMetaByMetadatasetQuery{}
	_ Query = RegistrationByIDQuery{}
	_ Query = RegistrationByProviderQuery{}
	_ Query = RegistrationByContextQuery{}
	_ Query = SchemaQuery{}
)

func requireVersion(v apiversion.ApiVersion) error {
	if v.IsZero() {
		return sdmxerr.ClientError("Missing API version", "an SDMX-REST version is required").WithField("api_version")
	}
	return nil
}

// firstErr returns the first non-nil error, in argument order.
func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// gateIf applies the feature gate only when the field is set.
func gateIf(set bool, f apiversion.Feature, v apiversion.ApiVersion, field string) error {
	if !set {
		return nil
	}
	return apiversion.Require(f, v, field)
}
