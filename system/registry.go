package system

import (
	"fmt"
	"sort"
	"strings"
)

// VarRef addresses one optimizable value as blockId.key.
type VarRef struct {
	BlockID string
	Key     string
}

// String returns the stable identifier form "blockId.key".
func (r VarRef) String() string { return r.BlockID + "." + r.Key }

// ParseVarRef splits "blockId.key"; the last dot separates the key so block
// ids may themselves contain dots.
func ParseVarRef(id string) (VarRef, error) {
	i := strings.LastIndexByte(id, '.')
	if i <= 0 || i == len(id)-1 {
		return VarRef{}, fmt.Errorf("%w: %q", ErrUnknownVariable, id)
	}
	return VarRef{BlockID: id[:i], Key: id[i+1:]}, nil
}

// Registry is the optimizer's view over one configuration: every block value
// whose optimize mode is "V", addressable, readable and writable. The
// registry holds a pointer to the configuration; it does not copy.
type Registry struct {
	cfg *Config
}

// NewRegistry wraps cfg. The caller keeps ownership and serializes mutation.
func NewRegistry(cfg *Config) *Registry { return &Registry{cfg: cfg} }

// Variables enumerates the optimizable entries in a stable order
// (block order, then key ascending within a block).
func (r *Registry) Variables() []VarRef {
	var out []VarRef
	for bi := range r.cfg.Blocks {
		b := &r.cfg.Blocks[bi]
		keys := make([]string, 0, len(b.Variables))
		for key, v := range b.Variables {
			if v.Optimize != nil && v.Optimize.Mode == OptimizeModeVariable {
				keys = append(keys, key)
			}
		}
		sort.Strings(keys)
		for _, key := range keys {
			out = append(out, VarRef{BlockID: b.BlockID, Key: key})
		}
	}
	return out
}

// Value reads the canonical (parameters) value of ref.
//
// Errors: ErrUnknownVariable for a dangling reference.
func (r *Registry) Value(ref VarRef) (float64, error) {
	b := r.block(ref.BlockID)
	if b == nil {
		return 0, fmt.Errorf("%w: %s", ErrUnknownVariable, ref)
	}
	if v, ok := b.Parameters[ref.Key]; ok {
		return v, nil
	}
	if v, ok := b.Variables[ref.Key]; ok {
		return v.Value, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownVariable, ref)
}

// Set writes v to the canonical parameter location, mirrors it into the
// legacy variables store when present, and re-expands the derived surface
// list so the configuration stays internally consistent. The setter is pure
// with respect to everything else: no other block is touched.
//
// Errors: ErrUnknownVariable for a dangling reference.
func (r *Registry) Set(ref VarRef, v float64) error {
	b := r.block(ref.BlockID)
	if b == nil {
		return fmt.Errorf("%w: %s", ErrUnknownVariable, ref)
	}
	if _, ok := b.Parameters[ref.Key]; !ok {
		if _, legacy := b.Variables[ref.Key]; !legacy {
			return fmt.Errorf("%w: %s", ErrUnknownVariable, ref)
		}
	}
	if b.Parameters == nil {
		b.Parameters = make(map[string]float64, 1)
	}
	b.Parameters[ref.Key] = v
	if lv, ok := b.Variables[ref.Key]; ok {
		lv.Value = v
		b.Variables[ref.Key] = lv
	}

	// Keep the persisted derived list in step with the blocks.
	if len(r.cfg.Blocks) > 0 {
		if rows, issues := ExpandBlocks(r.cfg.Blocks); !HasFatal(issues) {
			r.cfg.OpticalSystem = rows
		}
	}
	return nil
}

func (r *Registry) block(id string) *Block {
	for i := range r.cfg.Blocks {
		if r.cfg.Blocks[i].BlockID == id {
			return &r.cfg.Blocks[i]
		}
	}
	return nil
}
