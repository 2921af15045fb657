package system

import "math"

// InfinityThreshold is the persisted-form ∞ sentinel: any |value| at or above
// it decodes to ±Inf. JSON cannot carry IEEE infinities, and the .zmx format
// uses the same convention on DISZ.
const InfinityThreshold = 1e9

// DecodeExtent maps a persisted radius/thickness to its in-memory value.
func DecodeExtent(x float64) float64 {
	if math.Abs(x) >= InfinityThreshold {
		return math.Inf(int(math.Copysign(1, x)))
	}
	return x
}

// EncodeExtent maps an in-memory radius/thickness to its persisted value.
func EncodeExtent(x float64) float64 {
	if math.IsInf(x, 1) {
		return InfinityThreshold
	}
	if math.IsInf(x, -1) {
		return -InfinityThreshold
	}
	return x
}

// Document is the persisted wrapper: a set of named configurations plus the
// shared merit function and requirement tables.
type Document struct {
	Configurations ConfigurationSet `json:"configurations"`
}

// ConfigurationSet groups coexisting configurations; exactly one is active
// for evaluation.
type ConfigurationSet struct {
	Configurations     []Config          `json:"configurations"`
	ActiveConfigID     string            `json:"activeConfigId"`
	MeritFunction      []OperandRow      `json:"meritFunction"`
	SystemRequirements []Requirement     `json:"systemRequirements"`
	OptimizationRules  map[string]string `json:"optimizationRules,omitempty"`
}

// Active returns the active configuration, or nil when the id is dangling.
func (cs *ConfigurationSet) Active() *Config {
	for i := range cs.Configurations {
		if cs.Configurations[i].ID == cs.ActiveConfigID {
			return &cs.Configurations[i]
		}
	}
	return nil
}

// Config is one named snapshot: blocks, tables, the derived (but persisted)
// per-surface list, and metadata.
type Config struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	SchemaVersion int               `json:"schemaVersion"`
	Blocks        []Block           `json:"blocks"`
	Source        []Source          `json:"source"`
	Object        []Field           `json:"object"`
	OpticalSystem []SurfaceRow      `json:"opticalSystem"`
	SystemData    map[string]float64 `json:"systemData,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// Block is one high-level element of a configuration.
//
// Parameters is the canonical value store. Variables duplicates values for
// blocks under optimization (a migration in progress); the registry setter
// keeps both in sync until the legacy store is retired.
type Block struct {
	BlockID     string              `json:"blockId"`
	BlockType   string              `json:"blockType"`
	Glass       string              `json:"glass,omitempty"`
	Parameters  map[string]float64  `json:"parameters"`
	Variables   map[string]Variable `json:"variables,omitempty"`
	Constraints map[string]float64  `json:"constraints,omitempty"`
	Role        string              `json:"role,omitempty"`
	Metadata    map[string]string   `json:"metadata,omitempty"`
}

// Param reads a parameter with a default for absent keys.
func (b *Block) Param(key string, def float64) float64 {
	if v, ok := b.Parameters[key]; ok {
		return v
	}
	return def
}

// Variable is the legacy duplicated value plus its optimize flag.
type Variable struct {
	Value    float64   `json:"value"`
	Optimize *Optimize `json:"optimize,omitempty"`
}

// Optimize carries the optimization mode; "V" marks the entry variable.
type Optimize struct {
	Mode string `json:"mode"`
}

// OptimizeModeVariable is the mode string that makes a block value
// optimizable through the registry.
const OptimizeModeVariable = "V"

// SurfaceRow is the persisted form of one expanded surface. Radius and
// Thickness use the InfinityThreshold sentinel.
type SurfaceRow struct {
	Kind         string     `json:"kind"`
	Radius       float64    `json:"radius"`
	Thickness    float64    `json:"thickness"`
	Conic        float64    `json:"conic,omitempty"`
	Coef         []float64  `json:"coef,omitempty"`
	SemiDiameter float64    `json:"semiDiameter"`
	Material     string     `json:"material,omitempty"`
	Stop         bool       `json:"stopFlag,omitempty"`
}

// OperandRow is one merit-function entry in persisted form; the merit
// package interprets Kind against its catalog.
type OperandRow struct {
	ID     string     `json:"id"`
	Kind   string     `json:"kind"`
	Target float64    `json:"target"`
	Weight float64    `json:"weight"`
	Params [5]float64 `json:"params"`
}

// Requirement is a named system-level requirement row.
type Requirement struct {
	Name      string  `json:"name"`
	Target    float64 `json:"target"`
	Tolerance float64 `json:"tolerance"`
}
