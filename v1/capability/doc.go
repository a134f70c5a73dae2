// Package capability models the ambient powers a transformation function
// may use. Functions never reach the outside world implicitly: a function
// that needs the filesystem, the network or the process table declares
// so at registration and receives the grant through its context.Context.
//
// # Capabilities
//
//	filesystem   read or write files
//	network      open connections
//	process      start or signal processes
//	environment  read or change environment variables
//	clock        read the wall clock
//	random       draw random numbers
//
// The first four are dangerous. The executor strips them at the Sandbox
// level and the validator reports functions that declare them unless
// dangerous functions are allowed.
//
// # Usage
//
// The executor grants the declared set before the call:
//
//	ctx = capability.WithGrants(ctx, capability.NewSet(capability.Random))
//
// and a function checks its grant before acting:
//
//	func readFixture(ctx context.Context, path string) (string, error) {
//		if err := capability.Require(ctx, capability.FileSystem); err != nil {
//			return "", err // wraps ErrDenied
//		}
//		b, err := os.ReadFile(path)
//		return string(b), err
//	}
//
// Grants are carried by the context, so the caller's own grants are left
// untouched once the call returns.
package capability
