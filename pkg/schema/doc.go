// Package schema loads API schemas from protobuf definitions. It wraps
// bufbuild/protocompile and exposes just enough of the compiled
// descriptors for the snippet toolchain: package names and a
// service/RPC lookup used to cross-check snippet configurations.
package schema
