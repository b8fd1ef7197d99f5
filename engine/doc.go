// Package engine runs AssemblyScript guests on wazero.
//
// The host imports are instantiated once per Engine as the module "env".
// Every guest compiled by the engine links against them.
//
// # Lifecycle
//
//	Engine   - owns the wazero runtime and the shared "env" host module
//	Module   - a compiled guest, checked for allocate, id_of_type and memory
//	Instance - a running guest, usable as an asc.Heap
//
// Instantiation asks id_of_type once for each known type tag and keeps the
// answers in a registry. The host never assumes type ids.
//
// # Traps
//
// A host import that fails panics with *errors.Trap. wazero unwinds the
// guest and Instance.Call returns the trap as its error. Guest traps such as
// unreachable are wrapped in a trap of kind guest_trap.
//
// # Configuration
//
// Config can be loaded from TOML:
//
//	memory_limit_pages = 256
//	heap_base = 1024
//	log_level = "info"
package engine
