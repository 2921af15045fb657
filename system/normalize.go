package system

import (
	"encoding/json"
	"fmt"
)

// Severity grades an Issue.
type Severity int

const (
	// SeverityWarning marks a repaired or tolerated mismatch.
	SeverityWarning Severity = iota
	// SeverityFatal marks a mismatch that prevents building a System.
	SeverityFatal
)

// String implements fmt.Stringer.
func (s Severity) String() string {
	if s == SeverityFatal {
		return "fatal"
	}
	return "warning"
}

// Phase names the loader stage an Issue was produced in.
type Phase int

const (
	// PhaseParse covers JSON decoding.
	PhaseParse Phase = iota
	// PhaseNormalize covers legacy-shape migration.
	PhaseNormalize
	// PhaseValidate covers structural validation.
	PhaseValidate
	// PhaseExpand covers block→surface expansion.
	PhaseExpand
)

// String implements fmt.Stringer.
func (p Phase) String() string {
	switch p {
	case PhaseParse:
		return "parse"
	case PhaseNormalize:
		return "normalize"
	case PhaseValidate:
		return "validate"
	case PhaseExpand:
		return "expand"
	default:
		return "unknown"
	}
}

// Issue is one loader diagnostic. Fatal issues abort the load; warnings
// describe migrations that were applied silently.
type Issue struct {
	Severity Severity
	Phase    Phase
	Message  string
}

// HasFatal reports whether any issue is fatal.
func HasFatal(issues []Issue) bool {
	for _, is := range issues {
		if is.Severity == SeverityFatal {
			return true
		}
	}
	return false
}

// rawDocument admits both the canonical wrapper and the legacy shape where
// "configurations" is directly an array of configurations.
type rawDocument struct {
	Configurations json.RawMessage `json:"configurations"`
}

// LoadDocument parses data into the canonical Document form, migrating
// legacy shapes and reporting every mismatch. A nil Document is returned
// exactly when a fatal issue is present.
//
// Phases: parse (JSON), normalize (shape migration). Validation/expansion
// issues are produced later by Config.BuildSystem.
func LoadDocument(data []byte) (*Document, []Issue) {
	var issues []Issue

	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, append(issues, Issue{SeverityFatal, PhaseParse, err.Error()})
	}
	if len(raw.Configurations) == 0 {
		return nil, append(issues, Issue{SeverityFatal, PhaseParse, "missing configurations"})
	}

	doc := &Document{}
	// Canonical: an object wrapper. Legacy: a bare array of configurations.
	if err := json.Unmarshal(raw.Configurations, &doc.Configurations); err != nil {
		var legacy []Config
		if lerr := json.Unmarshal(raw.Configurations, &legacy); lerr != nil {
			return nil, append(issues, Issue{SeverityFatal, PhaseParse, err.Error()})
		}
		doc.Configurations = ConfigurationSet{Configurations: legacy}
		issues = append(issues, Issue{SeverityWarning, PhaseNormalize,
			"legacy shape: configurations array wrapped into configuration set"})
	}

	issues = append(issues, Normalize(doc)...)
	if HasFatal(issues) {
		return nil, issues
	}
	return doc, issues
}

// Normalize migrates a decoded document in place to the canonical form:
//
//   - a dangling or empty activeConfigId is repointed at the first config;
//   - schemaVersion 0 is stamped to 1;
//   - block values present only in variables are copied into parameters;
//   - block values present in both stores with differing values resolve in
//     favor of parameters (the canonical location); variables is rewritten;
//   - a source table without a primary promotes its first row; extra
//     primaries are demoted.
//
// Every migration emits a warning Issue; Normalize itself never fails.
func Normalize(doc *Document) []Issue {
	var issues []Issue
	cs := &doc.Configurations

	if len(cs.Configurations) == 0 {
		return append(issues, Issue{SeverityFatal, PhaseNormalize, "no configurations"})
	}

	if cs.Active() == nil {
		cs.ActiveConfigID = cs.Configurations[0].ID
		issues = append(issues, Issue{SeverityWarning, PhaseNormalize,
			fmt.Sprintf("activeConfigId repointed to %q", cs.ActiveConfigID)})
	}

	for ci := range cs.Configurations {
		cfg := &cs.Configurations[ci]
		if cfg.SchemaVersion == 0 {
			cfg.SchemaVersion = 1
			issues = append(issues, Issue{SeverityWarning, PhaseNormalize,
				fmt.Sprintf("config %q: schemaVersion stamped to 1", cfg.ID)})
		}
		for bi := range cfg.Blocks {
			issues = append(issues, normalizeBlock(cfg.ID, &cfg.Blocks[bi])...)
		}
		issues = append(issues, normalizeSources(cfg)...)
	}
	return issues
}

// normalizeBlock reconciles the duplicated value stores of one block.
func normalizeBlock(cfgID string, b *Block) []Issue {
	var issues []Issue
	if b.Parameters == nil {
		b.Parameters = make(map[string]float64)
	}
	for key, v := range b.Variables {
		canonical, inParams := b.Parameters[key]
		switch {
		case !inParams:
			b.Parameters[key] = v.Value
			issues = append(issues, Issue{SeverityWarning, PhaseNormalize,
				fmt.Sprintf("config %q block %q: %s migrated from variables into parameters", cfgID, b.BlockID, key)})
		case canonical != v.Value:
			// parameters is canonical; rewrite the legacy copy.
			v.Value = canonical
			b.Variables[key] = v
			issues = append(issues, Issue{SeverityWarning, PhaseNormalize,
				fmt.Sprintf("config %q block %q: %s differs between stores; parameters wins", cfgID, b.BlockID, key)})
		}
	}
	return issues
}

// normalizeSources enforces the exactly-one-primary invariant.
func normalizeSources(cfg *Config) []Issue {
	if len(cfg.Source) == 0 {
		return nil
	}
	var issues []Issue
	primary := -1
	for i := range cfg.Source {
		if !cfg.Source[i].Primary {
			continue
		}
		if primary < 0 {
			primary = i
			continue
		}
		cfg.Source[i].Primary = false
		issues = append(issues, Issue{SeverityWarning, PhaseNormalize,
			fmt.Sprintf("config %q: extra primary source row %d demoted", cfg.ID, i)})
	}
	if primary < 0 {
		cfg.Source[0].Primary = true
		issues = append(issues, Issue{SeverityWarning, PhaseNormalize,
			fmt.Sprintf("config %q: first source row promoted to primary", cfg.ID)})
	}
	return issues
}
