package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/platinummonkey/snippetgen/pkg/schema"
	"github.com/platinummonkey/snippetgen/pkg/snippet"
)

func newValidateCommand() *Command {
	cmd := &Command{
		Name:        "validate",
		Description: "Validate snippet configurations against a proto schema",
	}
	cmd.Run = func(args []string) error {
		fs := flag.NewFlagSet("validate", flag.ExitOnError)
		opts := &generateOptions{}
		opts.register(fs)
		if err := fs.Parse(args); err != nil {
			return err
		}
		return runValidate(context.Background(), opts)
	}
	return cmd
}

// runValidate checks that every configuration derives all of its naming
// properties and, when a schema is given, references a known RPC.
func runValidate(ctx context.Context, opts *generateOptions) error {
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

	for i, cfg := range configs {
		if err := validateConfig(apiSchema, cfg, opts.apiVersion); err != nil {
			return fmt.Errorf("config %d: %w", i, err)
		}
	}

	fmt.Printf("Validated %d configuration(s)\n", len(configs))
	return nil
}

// validateConfig exercises the naming derivations of both variants so
// that any missing field is reported.
func validateConfig(apiSchema *schema.API, cfg *snippet.Config, apiVersion string) error {
	for _, sync := range []bool{true, false} {
		cs := snippet.NewConfiguredSnippet(apiSchema, cfg, apiVersion, sync)
		if _, err := cs.RegionTag(); err != nil {
			return err
		}
		if _, err := cs.Filename(); err != nil {
			return err
		}
		if _, err := cs.SampleFunctionName(); err != nil {
			return err
		}
		if _, err := cs.ClientClassName(); err != nil {
			return err
		}
	}

	if apiSchema != nil && cfg.Rpc != nil {
		if !apiSchema.HasService(cfg.Rpc.ServiceName) {
			return fmt.Errorf("service %s not found in schema", cfg.Rpc.ServiceName)
		}
		if !apiSchema.HasRPC(cfg.Rpc.ServiceName, cfg.Rpc.RpcName) {
			return fmt.Errorf("rpc %s not found in service %s", cfg.Rpc.RpcName, cfg.Rpc.ServiceName)
		}
	}

	return nil
}
