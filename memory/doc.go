// Package memory provides the linear memory a guest module runs on and the
// allocator facade that reserves blocks inside it.
//
// # In-process memory
//
// Linear is a page-granular, growable byte space with a page limit. Bump is
// the guest's memory manager: it hands out 8-byte aligned blocks that are
// disjoint from every block handed out before, growing the memory as needed:
//
//	mem, _ := memory.NewLinear(1, 16)
//	alloc, _ := memory.NewBump(mem, memory.DefaultHeapBase)
//	ptr, err := alloc.Alloc(20)
//
// # wazero adapters
//
// Wrapper adapts a wazero api.Memory to ascabi.Memory, and ExportAllocator
// turns a guest's exported `allocate` function into an ascabi.Allocator:
//
//	mem := memory.WrapMemory(mod.ExportedMemory("memory"))
//	alloc := memory.WrapAllocator(ctx, mod.ExportedFunction("allocate"))
package memory
