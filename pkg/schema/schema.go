package schema

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bufbuild/protocompile"
	"github.com/bufbuild/protocompile/linker"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// API is an API schema compiled from protobuf definitions. It indexes
// services and their RPCs by simple name.
type API struct {
	packages []string
	// service simple name -> RPC simple names, in declaration order
	services map[string][]string
}

// ParseFiles compiles the given .proto files, resolving imports against
// importPaths (falling back to the current directory) plus the well-known
// types. Filenames may be absolute or relative paths; they are mapped to
// import-path-relative names before compilation, which is the form
// protocompile's resolver expects.
func ParseFiles(ctx context.Context, filenames []string, importPaths []string) (*API, error) {
	if len(filenames) == 0 {
		return nil, fmt.Errorf("no proto files provided")
	}
	if len(importPaths) == 0 {
		importPaths = []string{"."}
	}
	names, importPaths := resolveProtoNames(filenames, importPaths)

	compiler := protocompile.Compiler{
		Resolver: protocompile.WithStandardImports(&protocompile.SourceResolver{
			ImportPaths: importPaths,
		}),
	}

	files, err := compiler.Compile(ctx, names...)
	if err != nil {
		return nil, fmt.Errorf("failed to compile proto files: %w", err)
	}

	return fromFiles(files), nil
}

// ParseSources compiles in-memory proto sources keyed by filename. Used
// mainly by tests and the HTTP surface, where schemas arrive inline.
func ParseSources(ctx context.Context, sources map[string]string) (*API, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("no proto sources provided")
	}

	compiler := protocompile.Compiler{
		Resolver: protocompile.WithStandardImports(&protocompile.SourceResolver{
			Accessor: protocompile.SourceAccessorFromMap(sources),
		}),
	}

	filenames := make([]string, 0, len(sources))
	for name := range sources {
		filenames = append(filenames, name)
	}
	sort.Strings(filenames)

	files, err := compiler.Compile(ctx, filenames...)
	if err != nil {
		return nil, fmt.Errorf("failed to compile proto sources: %w", err)
	}

	return fromFiles(files), nil
}

// resolveProtoNames rewrites file paths into names relative to one of
// the import paths. A file that sits under no import path contributes
// its own directory as an additional import path, so absolute paths work
// without an explicit -proto-path.
func resolveProtoNames(filenames, importPaths []string) ([]string, []string) {
	names := make([]string, len(filenames))
	for i, filename := range filenames {
		name := filename
		for _, ip := range importPaths {
			rel, err := filepath.Rel(ip, filename)
			if err == nil && !strings.HasPrefix(rel, "..") && !filepath.IsAbs(rel) {
				name = rel
				break
			}
		}
		if filepath.IsAbs(name) {
			importPaths = append(importPaths, filepath.Dir(name))
			name = filepath.Base(name)
		}
		names[i] = name
	}
	return names, importPaths
}

// fromFiles indexes the compiled result. Each compiled file satisfies
// protoreflect.FileDescriptor.
func fromFiles(files linker.Files) *API {
	fds := make([]protoreflect.FileDescriptor, 0, len(files))
	for _, f := range files {
		fds = append(fds, f)
	}
	return fromDescriptors(fds)
}

func fromDescriptors(files []protoreflect.FileDescriptor) *API {
	api := &API{services: make(map[string][]string)}
	seen := make(map[string]bool)

	for _, fd := range files {
		pkg := string(fd.Package())
		if pkg != "" && !seen[pkg] {
			seen[pkg] = true
			api.packages = append(api.packages, pkg)
		}

		svcs := fd.Services()
		for i := 0; i < svcs.Len(); i++ {
			svc := svcs.Get(i)
			name := string(svc.Name())
			methods := svc.Methods()
			rpcs := make([]string, 0, methods.Len())
			for j := 0; j < methods.Len(); j++ {
				rpcs = append(rpcs, string(methods.Get(j).Name()))
			}
			api.services[name] = rpcs
		}
	}

	return api
}

// Packages returns the distinct proto package names in the schema.
func (a *API) Packages() []string {
	out := make([]string, len(a.packages))
	copy(out, a.packages)
	return out
}

// Services returns the service simple names in the schema, sorted.
func (a *API) Services() []string {
	out := make([]string, 0, len(a.services))
	for name := range a.services {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// HasService reports whether the schema defines the named service.
func (a *API) HasService(service string) bool {
	_, ok := a.services[service]
	return ok
}

// RPCs returns the RPC names of a service in declaration order.
func (a *API) RPCs(service string) []string {
	rpcs := a.services[service]
	out := make([]string, len(rpcs))
	copy(out, rpcs)
	return out
}

// HasRPC reports whether the named service defines the named RPC.
func (a *API) HasRPC(service, rpc string) bool {
	for _, name := range a.services[service] {
		if name == rpc {
			return true
		}
	}
	return false
}
