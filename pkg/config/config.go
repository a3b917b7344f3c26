package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/r9s-ai/sdmxrest/pkg/apiversion"
	"github.com/r9s-ai/sdmxrest/pkg/httpclient"
	"github.com/r9s-ai/sdmxrest/pkg/qb"
)

const (
	KindRegistry = "registry"
	KindGDS      = "gds"

	defaultListen     = "127.0.0.1:3380"
	defaultTimeoutMs  = 30000
	defaultDebounceMs = 300
	defaultAPIVersion = "V2.1.0"
)

type ProxyConfig struct {
	HTTP    string `yaml:"http"`
	HTTPS   string `yaml:"https"`
	NoProxy string `yaml:"no_proxy"`
}

// Endpoint is one named registry or discovery service.
type Endpoint struct {
	Name       string `yaml:"name"`
	URL        string `yaml:"url"`
	Kind       string `yaml:"kind"`
	APIVersion string `yaml:"api_version"`
	TimeoutMs  int    `yaml:"timeout_ms"`
	// Formats selects the representation per resource family, e.g.
	// {data: sdmx-csv}. Families left out use the built-in default.
	Formats map[string]string `yaml:"formats"`
	Proxy   ProxyConfig       `yaml:"proxy"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	// Pretty is auto, true or false. auto enables console output on a tty.
	Pretty string `yaml:"pretty"`
	Caller bool   `yaml:"caller"`
}

type Config struct {
	Endpoints       []Endpoint `yaml:"endpoints"`
	DefaultEndpoint string     `yaml:"default_endpoint"`
	RequestIDHeader string     `yaml:"request_id_header"`
	UserAgent       string     `yaml:"user_agent"`

	Server struct {
		Listen         string `yaml:"listen"`
		ReadTimeoutMs  int    `yaml:"read_timeout_ms"`
		WriteTimeoutMs int    `yaml:"write_timeout_ms"`
		// AutoReload watches the config file and swaps endpoints at runtime.
		AutoReload struct {
			Enabled    bool `yaml:"enabled"`
			DebounceMs int  `yaml:"debounce_ms"`
		} `yaml:"auto_reload"`
	} `yaml:"server"`

	Logging LoggingConfig `yaml:"logging"`
}

func Load(path string) (*Config, error) {
	// #nosec G304 -- path is provided by trusted config/flag.
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

// Parse decodes a YAML document and runs the same pipeline as Load.
func Parse(b []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return finish(&cfg)
}

// Default returns a config with no endpoints, environment overrides applied.
func Default() (*Config, error) {
	return finish(&Config{})
}

func finish(cfg *Config) (*Config, error) {
	applyDefaults(cfg)
	applyEnvOverrides(cfg)
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	for i := range cfg.Endpoints {
		applyEndpointDefaults(&cfg.Endpoints[i])
	}
	if strings.TrimSpace(cfg.DefaultEndpoint) == "" && len(cfg.Endpoints) == 1 {
		cfg.DefaultEndpoint = cfg.Endpoints[0].Name
	}
	cfg.DefaultEndpoint = normalizeName(cfg.DefaultEndpoint)
	if strings.TrimSpace(cfg.Server.Listen) == "" {
		cfg.Server.Listen = defaultListen
	}
	if cfg.Server.ReadTimeoutMs <= 0 {
		cfg.Server.ReadTimeoutMs = 10000
	}
	if cfg.Server.WriteTimeoutMs <= 0 {
		cfg.Server.WriteTimeoutMs = 10000
	}
	if cfg.Server.AutoReload.DebounceMs <= 0 {
		cfg.Server.AutoReload.DebounceMs = defaultDebounceMs
	}
	if strings.TrimSpace(cfg.Logging.Level) == "" {
		cfg.Logging.Level = "info"
	}
	if strings.TrimSpace(cfg.Logging.Pretty) == "" {
		cfg.Logging.Pretty = "auto"
	}
}

func applyEndpointDefaults(e *Endpoint) {
	e.Name = normalizeName(e.Name)
	e.URL = strings.TrimSuffix(strings.TrimSpace(e.URL), "/")
	e.Kind = strings.ToLower(strings.TrimSpace(e.Kind))
	if e.Kind == "" {
		e.Kind = KindRegistry
	}
	if strings.TrimSpace(e.APIVersion) == "" && e.Kind == KindRegistry {
		e.APIVersion = defaultAPIVersion
	}
	if e.TimeoutMs == 0 {
		e.TimeoutMs = defaultTimeoutMs
	}
	e.Formats = normalizeStringMap(e.Formats)
}

func applyEnvOverrides(cfg *Config) {
	applyEnvServerOverrides(cfg)
	applyEnvLoggingOverrides(cfg)
	applyEndpointEnvOverrides(cfg)
}

func applyEnvServerOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("SDMXREST_LISTEN")); v != "" {
		cfg.Server.Listen = v
	}
	cfg.Server.AutoReload.Enabled = envBool("SDMXREST_AUTO_RELOAD_ENABLED", cfg.Server.AutoReload.Enabled)
	if n, ok := envInt("SDMXREST_AUTO_RELOAD_DEBOUNCE_MS"); ok {
		cfg.Server.AutoReload.DebounceMs = n
	}
	if v := strings.TrimSpace(os.Getenv("SDMXREST_DEFAULT_ENDPOINT")); v != "" {
		cfg.DefaultEndpoint = normalizeName(v)
	}
	if v := strings.TrimSpace(os.Getenv("SDMXREST_REQUEST_ID_HEADER")); v != "" {
		cfg.RequestIDHeader = v
	}
	if v := strings.TrimSpace(os.Getenv("SDMXREST_USER_AGENT")); v != "" {
		cfg.UserAgent = v
	}
}

func applyEnvLoggingOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("SDMXREST_LOG_LEVEL")); v != "" {
		cfg.Logging.Level = v
	}
	if v := strings.TrimSpace(os.Getenv("SDMXREST_LOG_PRETTY")); v != "" {
		cfg.Logging.Pretty = v
	}
	cfg.Logging.Caller = envBool("SDMXREST_LOG_CALLER", cfg.Logging.Caller)
}

var envEndpointPattern = regexp.MustCompile(`^SDMXREST_ENDPOINT_([A-Z0-9_]+?)_(URL|API_VERSION|KIND|PROXY|TIMEOUT_MS)$`)

// applyEndpointEnvOverrides handles SDMXREST_ENDPOINT_<NAME>_<FIELD>. An URL
// for an unknown name adds an endpoint; underscores in NAME match dashes.
func applyEndpointEnvOverrides(cfg *Config) {
	type override struct{ name, field, value string }
	var urls, rest []override
	env := os.Environ()
	sort.Strings(env)
	for _, kv := range env {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		m := envEndpointPattern.FindStringSubmatch(strings.TrimSpace(k))
		if m == nil {
			continue
		}
		o := override{name: m[1], field: m[2], value: strings.TrimSpace(v)}
		if o.field == "URL" {
			urls = append(urls, o)
		} else {
			rest = append(rest, o)
		}
	}
	// URLs first so that the other fields of a new endpoint find it.
	for _, o := range append(urls, rest...) {
		v := o.value
		e := cfg.endpointByEnvName(o.name)
		if e == nil {
			if o.field != "URL" || v == "" {
				continue
			}
			cfg.Endpoints = append(cfg.Endpoints, Endpoint{Name: strings.ReplaceAll(strings.ToLower(o.name), "_", "-")})
			e = &cfg.Endpoints[len(cfg.Endpoints)-1]
		}
		switch o.field {
		case "URL":
			e.URL = v
		case "API_VERSION":
			e.APIVersion = v
		case "KIND":
			e.Kind = v
		case "PROXY":
			// Empty clears the proxy.
			e.Proxy.HTTP = v
			e.Proxy.HTTPS = v
		case "TIMEOUT_MS":
			if n, err := strconv.Atoi(v); err == nil {
				e.TimeoutMs = n
			}
		}
		applyEndpointDefaults(e)
	}
}

func (c *Config) endpointByEnvName(envName string) *Endpoint {
	for i := range c.Endpoints {
		if envKey(c.Endpoints[i].Name) == envName {
			return &c.Endpoints[i]
		}
	}
	return nil
}

func envKey(name string) string {
	return strings.ToUpper(strings.NewReplacer("-", "_", ".", "_").Replace(name))
}

func envInt(name string) (int, bool) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func envBool(name string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func validate(cfg *Config) error {
	seen := make(map[string]bool, len(cfg.Endpoints))
	for i := range cfg.Endpoints {
		e := &cfg.Endpoints[i]
		if e.Name == "" {
			return fmt.Errorf("endpoints[%d].name is required", i)
		}
		if seen[e.Name] {
			return fmt.Errorf("endpoints[%d].name %q is duplicated", i, e.Name)
		}
		seen[e.Name] = true
		if err := validateEndpoint(e); err != nil {
			return fmt.Errorf("endpoint %q: %w", e.Name, err)
		}
	}
	if cfg.DefaultEndpoint != "" && !seen[cfg.DefaultEndpoint] {
		return fmt.Errorf("default_endpoint %q does not name an endpoint", cfg.DefaultEndpoint)
	}
	if cfg.Server.AutoReload.Enabled && cfg.Server.AutoReload.DebounceMs <= 0 {
		return errors.New("server.auto_reload.debounce_ms must be > 0 when server.auto_reload.enabled=true")
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Logging.Pretty)) {
	case "auto", "true", "false", "yes", "no", "on", "off":
	default:
		return errors.New("logging.pretty must be auto, true or false")
	}
	return nil
}

func validateEndpoint(e *Endpoint) error {
	u, err := url.Parse(e.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("url must be an absolute http(s) URL")
	}
	if e.TimeoutMs < 0 {
		return errors.New("timeout_ms must be >= 0")
	}
	for _, p := range []string{e.Proxy.HTTP, e.Proxy.HTTPS} {
		if p = strings.TrimSpace(p); p != "" && !strings.Contains(p, "://") {
			return errors.New("proxy must be a URL (e.g. http://127.0.0.1:3128)")
		}
	}
	switch e.Kind {
	case KindGDS:
		if len(e.Formats) > 0 {
			return errors.New("formats is not supported for gds endpoints")
		}
		return nil
	case KindRegistry:
	default:
		return fmt.Errorf("kind must be %s or %s", KindRegistry, KindGDS)
	}
	v, err := apiversion.Parse(e.APIVersion)
	if err != nil {
		return fmt.Errorf("api_version: %w", err)
	}
	families := make([]string, 0, len(e.Formats))
	for family := range e.Formats {
		families = append(families, family)
	}
	sort.Strings(families)
	for _, family := range families {
		if _, err := qb.AcceptFor(family, e.Formats[family], v); err != nil {
			return fmt.Errorf("formats.%s: %w", family, err)
		}
	}
	return nil
}

// Endpoint returns the named endpoint, or the default one when name is
// empty.
func (c *Config) Endpoint(name string) (Endpoint, error) {
	n := normalizeName(name)
	if n == "" {
		n = c.DefaultEndpoint
	}
	if n == "" {
		return Endpoint{}, errors.New("no endpoint selected and default_endpoint is not set")
	}
	for _, e := range c.Endpoints {
		if e.Name == n {
			return e, nil
		}
	}
	return Endpoint{}, fmt.Errorf("unknown endpoint %q", n)
}

// FirstOfKind returns the first configured endpoint of kind.
func (c *Config) FirstOfKind(kind string) (Endpoint, bool) {
	for _, e := range c.Endpoints {
		if e.Kind == kind {
			return e, true
		}
	}
	return Endpoint{}, false
}

// EndpointNames lists the configured endpoints in file order.
func (c *Config) EndpointNames() []string {
	out := make([]string, 0, len(c.Endpoints))
	for _, e := range c.Endpoints {
		out = append(out, e.Name)
	}
	return out
}

// Version parses APIVersion. Discovery endpoints have none.
func (e Endpoint) Version() (apiversion.ApiVersion, error) {
	return apiversion.Parse(e.APIVersion)
}

func (e Endpoint) Timeout() time.Duration {
	return time.Duration(e.TimeoutMs) * time.Millisecond
}

func (e Endpoint) HTTPProxy() httpclient.ProxyConfig {
	return httpclient.ProxyConfig{HTTP: e.Proxy.HTTP, HTTPS: e.Proxy.HTTPS, NoProxy: e.Proxy.NoProxy}
}

// Format returns the configured representation of a family, or "" for the
// built-in default.
func (e Endpoint) Format(family string) string {
	return e.Formats[strings.ToLower(family)]
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func normalizeStringMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		key := strings.ToLower(strings.TrimSpace(k))
		val := strings.TrimSpace(v)
		if key == "" || val == "" {
			continue
		}
		out[key] = val
	}
	return out
}
