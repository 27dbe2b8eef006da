package main

import (
	"flag"
	"log"
	"path/filepath"
	"strings"

	"github.com/danmuck/viscactl/internal/config"
)

const defaultTarget = "viscactl.toml"

func main() {
	format := flag.String("format", "", "config format: toml|yaml (defaults to the output extension)")
	output := flag.String("output", defaultTarget, "output path for config template")
	validate := flag.Bool("validate", false, "validate an existing config file")
	input := flag.String("input", defaultTarget, "config path for validation")
	force := flag.Bool("force", false, "overwrite existing config file")
	flag.Parse()

	if *validate {
		cfg, err := config.Load(*input)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("Validated config at %s (link=%s camera=%d)", *input, cfg.Link.Kind, cfg.Camera)
		return
	}

	kind := *format
	if kind == "" {
		kind = formatFor(*output)
	}
	if err := config.WriteTemplate(*output, kind, *force); err != nil {
		log.Fatal(err)
	}
	log.Printf("Wrote %s config template to %s", kind, *output)
}

func formatFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "toml"
	}
}
