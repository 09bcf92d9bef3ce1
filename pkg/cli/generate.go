package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/platinummonkey/snippetgen/pkg/generator"
	"github.com/platinummonkey/snippetgen/pkg/schema"
	"github.com/platinummonkey/snippetgen/pkg/snippet"
	"github.com/platinummonkey/snippetgen/pkg/storage"
)

// generateOptions holds the parsed generate flags
type generateOptions struct {
	configPath string
	configDir  string
	protoFiles string
	protoPaths string
	apiVersion string
	outDir     string
	variant    string
}

func (o *generateOptions) register(fs *flag.FlagSet) {
	fs.StringVar(&o.configPath, "config", "", "Path to a snippet configuration file")
	fs.StringVar(&o.configDir, "config-dir", "", "Directory of snippet configuration files")
	fs.StringVar(&o.protoFiles, "proto", "", "Comma-separated .proto files to cross-check configs against")
	fs.StringVar(&o.protoPaths, "proto-path", "", "Comma-separated import directories for proto resolution")
	fs.StringVar(&o.apiVersion, "api-version", "", "API version the snippets target (required)")
	fs.StringVar(&o.outDir, "out", "snippets", "Output directory for generated snippets")
	fs.StringVar(&o.variant, "variant", "all", "Variant to generate: sync, async or all")
}

func (o *generateOptions) validate() error {
	if o.configPath == "" && o.configDir == "" {
		return fmt.Errorf("either -config or -config-dir is required")
	}
	if o.configPath != "" && o.configDir != "" {
		return fmt.Errorf("-config and -config-dir are mutually exclusive")
	}
	if o.apiVersion == "" {
		return fmt.Errorf("-api-version is required")
	}
	switch o.variant {
	case "sync", "async", "all":
	default:
		return fmt.Errorf("invalid -variant: %s (must be sync, async or all)", o.variant)
	}
	return nil
}

// loadConfigs loads the configured snippet configuration files
func (o *generateOptions) loadConfigs() ([]*snippet.Config, error) {
	if o.configPath != "" {
		cfg, err := snippet.LoadConfig(o.configPath)
		if err != nil {
			return nil, err
		}
		return []*snippet.Config{cfg}, nil
	}
	configs, err := snippet.LoadConfigDir(o.configDir)
	if err != nil {
		return nil, err
	}
	if len(configs) == 0 {
		return nil, fmt.Errorf("no snippet configurations found in %s", o.configDir)
	}
	return configs, nil
}

// loadSchema parses the proto schema when -proto is given
func (o *generateOptions) loadSchema(ctx context.Context) (*schema.API, error) {
	if o.protoFiles == "" {
		return nil, nil
	}
	var importPaths []string
	if o.protoPaths != "" {
		importPaths = strings.Split(o.protoPaths, ",")
	}
	return schema.ParseFiles(ctx, strings.Split(o.protoFiles, ","), importPaths)
}

// variants returns the sync flags to generate for
func (o *generateOptions) variants() []bool {
	switch o.variant {
	case "sync":
		return []bool{true}
	case "async":
		return []bool{false}
	default:
		return []bool{true, false}
	}
}

func newGenerateCommand() *Command {
	cmd := &Command{
		Name:        "generate",
		Description: "Generate snippets from configuration files",
	}
	cmd.Run = func(args []string) error {
		fs := flag.NewFlagSet("generate", flag.ExitOnError)
		opts := &generateOptions{}
		opts.register(fs)
		if err := fs.Parse(args); err != nil {
			return err
		}
		return runGenerate(context.Background(), opts)
	}
	return cmd
}

// runGenerate generates every configured snippet variant and writes the
// results to the output directory.
func runGenerate(ctx context.Context, opts *generateOptions) error {
	if err := opts.validate(); err != nil {
		return err
	}

	configs, err := opts.loadConfigs()
	if err != nil {
		return err
	}
	apiSchema, err := opts.loadSchema(ctx)
	if err != nil {
		return err
	}

	store, err := storage.NewFileSystemStorage(opts.outDir)
	if err != nil {
		return err
	}

	gen := generator.NewGenerator(generator.NewMemoryCache(256, time.Hour), nil, nil)

	written := 0
	for _, cfg := range configs {
		for _, sync := range opts.variants() {
			result, err := gen.Generate(ctx, &generator.Request{
				Schema:     apiSchema,
				Config:     cfg,
				APIVersion: opts.apiVersion,
				Sync:       sync,
			}, nil)
			if err != nil {
				return err
			}

			err = store.Put(ctx, &storage.Snippet{
				Filename:    result.Filename,
				RegionTag:   result.RegionTag,
				Code:        result.Code,
				Sync:        result.Sync,
				GeneratedAt: time.Now().UTC(),
			})
			if err != nil {
				return err
			}

			fmt.Printf("Wrote %s\n", result.Filename)
			written++
		}
	}

	fmt.Printf("Generated %d snippet(s) in %s\n", written, opts.outDir)
	return nil
}
