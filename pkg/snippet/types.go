package snippet

// Config describes one RPC sample to generate. The format is owned by the
// snippet-config tooling upstream; only the fields below are consumed
// here. Sub-messages are pointers and are not validated at load time:
// a missing field surfaces as ErrMissingField when first dereferenced.
type Config struct {
	Rpc             *RPCConfig       `yaml:"rpc" json:"rpc"`
	Metadata        *Metadata        `yaml:"metadata" json:"metadata"`
	Signature       *Signature       `yaml:"signature" json:"signature"`
	ServiceEndpoint *ServiceEndpoint `yaml:"service_endpoint,omitempty" json:"service_endpoint,omitempty"`
}

// RPCConfig identifies the RPC the sample demonstrates.
type RPCConfig struct {
	ProtoPackage string `yaml:"proto_package" json:"proto_package"`
	ServiceName  string `yaml:"service_name" json:"service_name"`
	RpcName      string `yaml:"rpc_name" json:"rpc_name"`
}

// Metadata carries the identifier distinguishing snippet variants of the
// same RPC.
type Metadata struct {
	ConfigID string `yaml:"config_id" json:"config_id"`
}

// Signature describes the sample function's call surface.
type Signature struct {
	SnippetMethodName string      `yaml:"snippet_method_name" json:"snippet_method_name"`
	Parameters        []Parameter `yaml:"parameters,omitempty" json:"parameters,omitempty"`
}

// Parameter is one sample-function parameter descriptor. Type is carried
// through for a future annotation pass but is not rendered yet.
type Parameter struct {
	Name string `yaml:"name" json:"name"`
	Type string `yaml:"type,omitempty" json:"type,omitempty"`
}

// ServiceEndpoint points the sample at a non-default service endpoint.
type ServiceEndpoint struct {
	Host   string `yaml:"host" json:"host"`
	Region string `yaml:"region,omitempty" json:"region,omitempty"`
}
