// Package host implements the imports a guest links against in module "env".
//
// Bindings reads its arguments out of the calling guest's heap, hands plain
// Go values to a collaborator and writes the result back as a guest object.
// The collaborators are thin: Keccak-256 comes from golang.org/x/crypto/sha3,
// base58 from github.com/mr-tron/base58, integer formatting from math/big.
// Contract calls go through a ContractCaller and data-source registration
// lands in a DataSources registry.
//
// Big integers cross the boundary as little-endian two's complement bytes.
//
// A non-nil error from any import traps the guest invocation that made the
// call.
package host
