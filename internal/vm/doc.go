/*
Package vm implements a self-contained 32-bit RISC-style virtual machine: CPU
decode/execute, a byte-addressable address space with page protection,
synchronous system calls, an interrupt controller, a cooperative thread
scheduler, a handful of emulated devices, and basic-block JIT bookkeeping.

The VM is a single passive object. A caller drives execution by calling
[VM.Step] (one instruction) or [VM.Run] (until halted or faulted). All
methods on a single [VM] are single-threaded; see the package-level
concurrency notes in each subsystem file for what is and is not safe to call
concurrently.

# Bugs

None tracked yet.
*/
package vm
