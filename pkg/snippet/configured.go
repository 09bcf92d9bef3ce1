package snippet

import (
	"fmt"
	"strings"

	"github.com/platinummonkey/snippetgen/pkg/pysrc"
	"github.com/platinummonkey/snippetgen/pkg/schema"
)

// ConfiguredSnippet incrementally builds one sample function definition
// from a snippet configuration. Construct it with NewConfiguredSnippet,
// call Generate exactly once, then read Code and the naming properties.
type ConfiguredSnippet struct {
	apiSchema  *schema.API
	config     *Config
	apiVersion string
	isSync     bool

	fn        *pysrc.FunctionDef
	module    *pysrc.Module
	generated bool
}

// NewConfiguredSnippet creates a snippet builder with an empty source
// module and a sample-function skeleton. The configuration is held by
// reference and never mutated; it is not validated here, so a malformed
// config surfaces only when a derived property or Generate dereferences
// a missing field.
func NewConfiguredSnippet(apiSchema *schema.API, config *Config, apiVersion string, isSync bool) *ConfiguredSnippet {
	cs := &ConfiguredSnippet{
		apiSchema:  apiSchema,
		config:     config,
		apiVersion: apiVersion,
		isSync:     isSync,
		fn:         &pysrc.FunctionDef{Async: !isSync},
		module:     &pysrc.Module{},
	}
	// Name the skeleton eagerly when the config allows it; a config
	// missing these fields fails later, in Generate.
	if name, err := cs.SampleFunctionName(); err == nil {
		cs.fn.Name = name
	}
	return cs
}

// Config returns the configuration the snippet was built from.
func (c *ConfiguredSnippet) Config() *Config { return c.config }

// APIVersion returns the API version the snippet targets.
func (c *ConfiguredSnippet) APIVersion() string { return c.apiVersion }

// IsSync reports whether the snippet demonstrates the synchronous client.
func (c *ConfiguredSnippet) IsSync() bool { return c.isSync }

// Code renders the snippet's current source text. Before Generate it is
// empty; afterwards it holds the full sample function definition.
func (c *ConfiguredSnippet) Code() string { return c.module.Code() }

func (c *ConfiguredSnippet) syncOrAsync() string {
	if c.isSync {
		return "sync"
	}
	return "async"
}

func (c *ConfiguredSnippet) rpc() (*RPCConfig, error) {
	if c.config == nil || c.config.Rpc == nil {
		return nil, fmt.Errorf("%w: rpc", ErrMissingField)
	}
	return c.config.Rpc, nil
}

func (c *ConfiguredSnippet) metadata() (*Metadata, error) {
	if c.config == nil || c.config.Metadata == nil {
		return nil, fmt.Errorf("%w: metadata", ErrMissingField)
	}
	return c.config.Metadata, nil
}

func (c *ConfiguredSnippet) signature() (*Signature, error) {
	if c.config == nil || c.config.Signature == nil {
		return nil, fmt.Errorf("%w: signature", ErrMissingField)
	}
	return c.config.Signature, nil
}

// GapicModuleName derives the generated client module name, e.g.
// "speech_v1" for proto package "google.cloud.speech.v1" at version "v1".
// A trailing package segment equal to the API version is dropped before
// the version is appended, so versioned and unversioned package names
// derive the same module.
func (c *ConfiguredSnippet) GapicModuleName() (string, error) {
	rpc, err := c.rpc()
	if err != nil {
		return "", err
	}
	if rpc.ProtoPackage == "" {
		return "", fmt.Errorf("%w: rpc.proto_package", ErrMissingField)
	}
	segments := strings.Split(rpc.ProtoPackage, ".")
	if len(segments) > 1 && segments[len(segments)-1] == c.apiVersion {
		segments = segments[:len(segments)-1]
	}
	return segments[len(segments)-1] + "_" + c.apiVersion, nil
}

// SampleFunctionName derives the generated function's name, e.g.
// "sample_create_custom_class_Basic". It does not depend on the
// sync/async flag.
func (c *ConfiguredSnippet) SampleFunctionName() (string, error) {
	sig, err := c.signature()
	if err != nil {
		return "", err
	}
	if sig.SnippetMethodName == "" {
		return "", fmt.Errorf("%w: signature.snippet_method_name", ErrMissingField)
	}
	meta, err := c.metadata()
	if err != nil {
		return "", err
	}
	if meta.ConfigID == "" {
		return "", fmt.Errorf("%w: metadata.config_id", ErrMissingField)
	}
	return "sample_" + sig.SnippetMethodName + "_" + meta.ConfigID, nil
}

// RegionTag derives the snippet's region tag, e.g.
// "speech_v1_config_Adaptation_CreateCustomClass_Basic_async".
func (c *ConfiguredSnippet) RegionTag() (string, error) {
	moduleName, err := c.GapicModuleName()
	if err != nil {
		return "", err
	}
	rpc, err := c.rpc()
	if err != nil {
		return "", err
	}
	if rpc.ServiceName == "" {
		return "", fmt.Errorf("%w: rpc.service_name", ErrMissingField)
	}
	if rpc.RpcName == "" {
		return "", fmt.Errorf("%w: rpc.rpc_name", ErrMissingField)
	}
	meta, err := c.metadata()
	if err != nil {
		return "", err
	}
	if meta.ConfigID == "" {
		return "", fmt.Errorf("%w: metadata.config_id", ErrMissingField)
	}
	return fmt.Sprintf("%s_config_%s_%s_%s_%s",
		moduleName, rpc.ServiceName, rpc.RpcName, meta.ConfigID, c.syncOrAsync()), nil
}

// ClientClassName derives the client class the sample instantiates:
// "{Service}Client" for sync snippets, "{Service}AsyncClient" otherwise.
func (c *ConfiguredSnippet) ClientClassName() (string, error) {
	rpc, err := c.rpc()
	if err != nil {
		return "", err
	}
	if rpc.ServiceName == "" {
		return "", fmt.Errorf("%w: rpc.service_name", ErrMissingField)
	}
	if c.isSync {
		return rpc.ServiceName + "Client", nil
	}
	return rpc.ServiceName + "AsyncClient", nil
}

// Filename derives the output file name, e.g.
// "speech_v1_generated_Adaptation_create_custom_class_Basic_async.py".
func (c *ConfiguredSnippet) Filename() (string, error) {
	moduleName, err := c.GapicModuleName()
	if err != nil {
		return "", err
	}
	rpc, err := c.rpc()
	if err != nil {
		return "", err
	}
	if rpc.ServiceName == "" {
		return "", fmt.Errorf("%w: rpc.service_name", ErrMissingField)
	}
	if rpc.RpcName == "" {
		return "", fmt.Errorf("%w: rpc.rpc_name", ErrMissingField)
	}
	meta, err := c.metadata()
	if err != nil {
		return "", err
	}
	if meta.ConfigID == "" {
		return "", fmt.Errorf("%w: metadata.config_id", ErrMissingField)
	}
	return fmt.Sprintf("%s_generated_%s_%s_%s_%s.py",
		moduleName, rpc.ServiceName, snakeCase(rpc.RpcName), meta.ConfigID, c.syncOrAsync()), nil
}

// APIEndpoint returns the custom service endpoint, if one is configured.
// With a host and a region the endpoint is "{region}-{host}"; with only a
// host it is the host itself; otherwise ok is false.
func (c *ConfiguredSnippet) APIEndpoint() (endpoint string, ok bool) {
	if c.config == nil || c.config.ServiceEndpoint == nil {
		return "", false
	}
	ep := c.config.ServiceEndpoint
	if ep.Host == "" {
		return "", false
	}
	if ep.Region == "" {
		return ep.Host, true
	}
	return ep.Region + "-" + ep.Host, true
}

// Generate builds the sample function: parameters first, then the client
// initialization statement, then the finished function becomes the
// module's single top-level definition. A second call is rejected with
// ErrAlreadyGenerated.
func (c *ConfiguredSnippet) Generate() error {
	if c.generated {
		return ErrAlreadyGenerated
	}

	name, err := c.SampleFunctionName()
	if err != nil {
		return err
	}
	c.fn.Name = name

	if err := c.addSampleFunctionParameters(); err != nil {
		return err
	}
	if err := c.appendServiceClientInitialization(); err != nil {
		return err
	}

	c.module.Body = []pysrc.Stmt{c.fn}
	c.generated = true
	return nil
}

// addSampleFunctionParameters replaces the function's parameter list
// wholesale from the configuration, preserving order. Type annotations
// are left unpopulated for now.
func (c *ConfiguredSnippet) addSampleFunctionParameters() error {
	sig, err := c.signature()
	if err != nil {
		return err
	}
	params := make([]pysrc.Param, 0, len(sig.Parameters))
	for i, p := range sig.Parameters {
		if p.Name == "" {
			return fmt.Errorf("%w: signature.parameters[%d] has no name", ErrBadParameter, i)
		}
		params = append(params, pysrc.Param{Name: p.Name})
	}
	c.fn.Params = params
	return nil
}

// appendServiceClientInitialization appends
// `client = <module>.<ClientClass>(...)`, carrying a client_options
// keyword argument only when a custom endpoint is configured.
func (c *ConfiguredSnippet) appendServiceClientInitialization() error {
	moduleName, err := c.GapicModuleName()
	if err != nil {
		return err
	}
	className, err := c.ClientClassName()
	if err != nil {
		return err
	}

	call := pysrc.Call{Func: moduleName + "." + className}
	if endpoint, ok := c.APIEndpoint(); ok {
		call.Keywords = append(call.Keywords, pysrc.Keyword{
			Name: "client_options",
			Value: pysrc.Dict{Items: []pysrc.DictItem{{
				Key:   pysrc.Str{Value: "api_endpoint"},
				Value: pysrc.Str{Value: endpoint},
			}}},
		})
	}

	c.appendToSampleFunctionBody(pysrc.Assign{Target: "client", Value: call})
	return nil
}

// appendToSampleFunctionBody appends one statement to the end of the
// sample function's immediate body. Nested blocks inside existing
// statements are never visited.
func (c *ConfiguredSnippet) appendToSampleFunctionBody(stmt pysrc.Stmt) {
	c.fn.AppendBody(stmt)
}
