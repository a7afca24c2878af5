package vm

// jit.go implements the JIT cache bookkeeping described in §4.9: a bounded
// byte buffer plus a table of block records. The core does not mandate
// native code generation; an implementation MAY emit code into the buffer
// and, when a block is entered in Step, execute it in lieu of
// interpretation, provided all observable state stays identical to
// interpretation. This package only maintains the profile and cache state
// a later native back-end would consult.

import "fmt"

const (
	// JITBufferSize is the size, in bytes, of the optional native-code
	// buffer (§3).
	JITBufferSize = 256 * 1024

	// MaxJITBlocks is the size of the block table (§3).
	MaxJITBlocks = 256

	// JITHotThreshold is the execution count at which a block is considered
	// compiled-worthy.
	JITHotThreshold = 1000
)

// JITBlock is one entry in the block table: a profiled run of instructions
// starting at Start, its length in bytes once known, an optional slice of
// the native buffer holding emitted code, an execution count and whether
// it has been compiled (§3).
type JITBlock struct {
	Start    Word
	Length   uint32
	Native   []byte
	Count    uint64
	Compiled bool
}

// JITCache holds the native-code buffer and the block table (§3).
type JITCache struct {
	enabled bool
	buffer  []byte
	used    uint32

	blocks []JITBlock
	index  map[Word]int
}

// NewJITCache creates a cache with the native buffer allocated but JIT
// disarmed by default; EnableJIT arms it. The buffer is allocated
// unconditionally because CompileBlock/RecordExecution track profile data
// regardless of whether native emission is ever used (§4.9).
func NewJITCache() *JITCache {
	return &JITCache{
		buffer: make([]byte, JITBufferSize),
		index:  make(map[Word]int),
	}
}

// Enable arms or disarms the cache. Disabling does not discard existing
// blocks; ClearCache is the explicit reset operation.
func (j *JITCache) Enable(on bool) { j.enabled = on }

// Enabled reports whether the cache is armed.
func (j *JITCache) Enabled() bool { return j.enabled }

// NumBlocks returns the number of tracked block records.
func (j *JITCache) NumBlocks() int { return len(j.blocks) }

// CompileBlock implements compile_block from §4.9: if start already has a
// block record, its execution count is incremented; otherwise a new
// record is appended with count=1, zero length, no native code and
// compiled=false, provided the table has room. Compiled is reserved for
// actual native emission (EmitNative); reaching JITHotThreshold only makes
// a block eligible, queryable via Hits/IsHot, never compiled on its own.
func (j *JITCache) CompileBlock(start Word) {
	if i, ok := j.index[start]; ok {
		j.blocks[i].Count++
		return
	}

	if len(j.blocks) >= MaxJITBlocks {
		return
	}

	j.index[start] = len(j.blocks)
	j.blocks = append(j.blocks, JITBlock{Start: start, Count: 1})
}

// RecordExecution is the Step loop's hook into the profiler: compile_block
// applied to the PC of every instruction that runs, whether or not a
// native back-end is actually compiling anything (§2, §4.9).
func (j *JITCache) RecordExecution(pc Word) {
	j.CompileBlock(pc)
}

// Block returns the tracked record for start, if any.
func (j *JITCache) Block(start Word) (JITBlock, bool) {
	i, ok := j.index[start]
	if !ok {
		return JITBlock{}, false
	}

	return j.blocks[i], true
}

// Hits returns the recorded execution count for start, or 0 if untracked.
func (j *JITCache) Hits(start Word) uint64 {
	b, ok := j.Block(start)
	if !ok {
		return 0
	}

	return b.Count
}

// Hot reports whether start has been marked compiled.
func (j *JITCache) Hot(start Word) bool {
	b, ok := j.Block(start)
	return ok && b.Compiled
}

// IsHot reports whether start has crossed JITHotThreshold executions and is
// therefore eligible for native compilation, independent of whether
// EmitNative has actually been called for it (§4.9).
func (j *JITCache) IsHot(start Word) bool {
	return j.Hits(start) >= JITHotThreshold
}

// EmitNative reserves len(code) bytes in the native buffer for start's
// block and copies code into it, marking the block compiled. It is the
// optional native-emission hook the spec allows but does not mandate
// (§4.9, §9); an interpreter-only build never calls it.
func (j *JITCache) EmitNative(start Word, code []byte) error {
	i, ok := j.index[start]
	if !ok {
		return fmt.Errorf("%w: no block tracked at %s", ErrBadResource, start)
	}

	if uint64(j.used)+uint64(len(code)) > uint64(len(j.buffer)) {
		return fmt.Errorf("%w: jit buffer exhausted", ErrBadResource)
	}

	off := j.used
	copy(j.buffer[off:], code)
	j.used += uint32(len(code))

	j.blocks[i].Native = j.buffer[off : off+uint32(len(code))]
	j.blocks[i].Length = uint32(len(code))
	j.blocks[i].Compiled = true

	return nil
}

// Invalidate clears cached/native status (but not the hit count) for every
// block whose start address falls in [addr, addr+n). A write to guest
// memory must invalidate any cache entries touching the written range
// (§4.9); blocks are indexed solely by start address, so this is a
// conservative approximation keyed on that address falling in range.
func (j *JITCache) Invalidate(addr Word, n int) {
	lo, hi := addr, addr+Word(n)

	for i := range j.blocks {
		if j.blocks[i].Start >= lo && j.blocks[i].Start < hi {
			j.blocks[i].Compiled = false
			j.blocks[i].Native = nil
			j.blocks[i].Length = 0
		}
	}
}

// ClearCache zeros buffer usage, empties the block table and clears every
// block's compiled flag (§4.9, §8: "After clear_cache, no block is marked
// compiled and num_blocks=0").
func (j *JITCache) ClearCache() {
	j.used = 0
	j.blocks = nil
	j.index = make(map[Word]int)
}

// Reset is ClearCache plus disarming the cache, used when the VM itself
// resets.
func (j *JITCache) Reset() {
	j.ClearCache()
	j.enabled = false
}

func (j *JITCache) String() string {
	hot := 0

	for _, b := range j.blocks {
		if b.Compiled {
			hot++
		}
	}

	return fmt.Sprintf("JITCache(enabled:%t,blocks:%d,hot:%d,used:%d/%d)",
		j.enabled, len(j.blocks), hot, j.used, len(j.buffer))
}
