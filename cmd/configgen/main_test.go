package main

import "testing"

func TestFormatFor(t *testing.T) {
	cases := map[string]string{
		"viscactl.toml":     "toml",
		"conf/viscactl.YML": "yaml",
		"viscactl.yaml":     "yaml",
		"viscactl":          "toml",
	}
	for path, want := range cases {
		if got := formatFor(path); got != want {
			t.Fatalf("formatFor(%q) = %q want %q", path, got, want)
		}
	}
}
