package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

const testConfig = `
endpoints:
  - name: ecb
    url: https://data-api.ecb.europa.eu/service/
    api_version: V1.5.0
    formats:
      data: sdmx-csv
  - name: gds
    kind: gds
    url: https://gds.sdmx.io
default_endpoint: ecb
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sdmxrest.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// execute runs a fresh root command and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}
