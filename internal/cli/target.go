package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/r9s-ai/sdmxrest/pkg/apiversion"
	"github.com/r9s-ai/sdmxrest/pkg/config"
)

type targetOptions struct {
	endpoint   string
	baseURL    string
	apiVersion string
	format     string
}

func bindTargetFlags(fs *pflag.FlagSet, o *targetOptions) {
	fs.StringVarP(&o.endpoint, "endpoint", "e", "", "configured endpoint name (default: default_endpoint)")
	fs.StringVar(&o.baseURL, "base-url", "", "service base URL (overrides the endpoint url)")
	fs.StringVar(&o.apiVersion, "api-version", "", "SDMX-REST version label, e.g. V2.1.0 (default: endpoint api_version, else latest)")
	fs.StringVarP(&o.format, "format", "f", "", "representation name, e.g. sdmx-json, sdmx-csv (default: endpoint formats, else family default)")
}

// target is where a query is rendered: a base URL and an API version.
type target struct {
	endpoint config.Endpoint
	baseURL  string
	version  apiversion.ApiVersion
}

// resolveTarget picks the endpoint of the wanted kind. An explicitly named
// endpoint of another kind is an error; when the default is of another kind
// the first endpoint of the wanted kind is used.
func resolveTarget(cfg *config.Config, o targetOptions, kind string) (target, error) {
	var t target
	explicit := strings.TrimSpace(o.endpoint) != ""
	if explicit || cfg.DefaultEndpoint != "" {
		e, err := cfg.Endpoint(o.endpoint)
		if err != nil {
			return target{}, err
		}
		switch {
		case e.Kind == kind:
			t.endpoint = e
		case explicit:
			return target{}, fmt.Errorf("endpoint %q is a %s endpoint, not %s", e.Name, e.Kind, kind)
		default:
			t.endpoint, _ = cfg.FirstOfKind(kind)
		}
	} else {
		t.endpoint, _ = cfg.FirstOfKind(kind)
	}

	t.baseURL = strings.TrimRight(strings.TrimSpace(o.baseURL), "/")
	if t.baseURL == "" {
		t.baseURL = t.endpoint.URL
	}
	if kind == config.KindGDS {
		return t, nil
	}

	switch {
	case strings.TrimSpace(o.apiVersion) != "":
		v, err := apiversion.Parse(o.apiVersion)
		if err != nil {
			return target{}, err
		}
		t.version = v
	case t.endpoint.APIVersion != "":
		v, err := t.endpoint.Version()
		if err != nil {
			return target{}, err
		}
		t.version = v
	default:
		t.version = apiversion.Latest()
	}
	return t, nil
}

// formatFor returns the flag value, else the endpoint's configured format.
func (t target) formatFor(o targetOptions, family string) string {
	if f := strings.TrimSpace(o.format); f != "" {
		return f
	}
	return t.endpoint.Format(family)
}
