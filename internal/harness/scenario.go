package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/actionsim/internal/effect"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadDir loads every *.yaml file in dir, sorted by file name.
func LoadDir(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	seen := make(map[string]string)
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		if prev, ok := seen[s.Name]; ok {
			return nil, fmt.Errorf("%s: scenario name %q already used by %s", p, s.Name, prev)
		}
		seen[s.Name] = p
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Ops) == 0 {
		return fmt.Errorf("ops list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	if err := validateSetup(&s.Setup); err != nil {
		return err
	}
	for i, op := range s.Ops {
		if err := validateOp(i, &op, &s.Setup); err != nil {
			return err
		}
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a, len(s.Ops)); err != nil {
			return err
		}
	}
	return nil
}

func validateSetup(su *Setup) error {
	if su.Pool != nil && su.Pool.Max <= 0 {
		return fmt.Errorf("setup.pool: max must be positive")
	}
	if su.Points != nil && su.Points.Cap <= 0 {
		return fmt.Errorf("setup.points: cap must be positive")
	}
	names := make(map[string]bool)
	for i, e := range su.Effects {
		if e.Name == "" {
			return fmt.Errorf("setup.effects[%d]: name is required", i)
		}
		if names[e.Name] {
			return fmt.Errorf("setup.effects[%d]: duplicate effect %q", i, e.Name)
		}
		names[e.Name] = true
		if e.Policy != "" {
			p, err := effect.ParsePolicy(e.Policy)
			if err != nil {
				return fmt.Errorf("setup.effects[%d]: %w", i, err)
			}
			if p == effect.SourceScaled {
				return fmt.Errorf("setup.effects[%d]: source_scaled effects cannot be declared in a scenario", i)
			}
			if p == effect.ConditionalExtend && e.ExtendBase+e.ExtendPer <= 0 {
				return fmt.Errorf("setup.effects[%d]: conditional_extend needs extend_base or extend_per", i)
			}
		}
	}
	for key, st := range su.Streams {
		switch {
		case st.Forced != "" && len(st.Values) > 0:
			return fmt.Errorf("setup.streams[%s]: set forced or values, not both", key)
		case st.Forced == "" && len(st.Values) == 0:
			return fmt.Errorf("setup.streams[%s]: forced or values is required", key)
		case st.Forced != "" && st.Forced != "always" && st.Forced != "never":
			return fmt.Errorf("setup.streams[%s]: forced must be always or never, got %q", key, st.Forced)
		}
	}
	return nil
}

func validateOp(index int, op *Op, su *Setup) error {
	needs := func(what string, ok bool) error {
		if ok {
			return nil
		}
		return fmt.Errorf("ops[%d]: %s is required for %s", index, what, op.Op)
	}
	switch op.Op {
	case OpConsume, OpGain, OpRegen, OpSpend, OpRank, OpAddPoints:
		if op.Op == OpAddPoints || op.Op == OpSpend || op.Op == OpRank {
			return needs("setup.points", su.Points != nil)
		}
		if err := needs("setup.pool", su.Pool != nil); err != nil {
			return err
		}
		if op.Op == OpRegen {
			return needs("seconds", op.Seconds != 0)
		}
		return nil
	case OpTrigger, OpStep, OpIncrement, OpDecrement, OpExpire:
		if err := needs("effect", op.Effect != ""); err != nil {
			return err
		}
		for _, e := range su.Effects {
			if e.Name == op.Effect {
				return nil
			}
		}
		return fmt.Errorf("ops[%d]: unknown effect %q", index, op.Effect)
	case OpAdvance:
		return needs("seconds", op.Seconds != 0)
	case OpCooldownStart, OpCooldownTrigger, OpCooldownReduce, OpCooldownReset:
		return needs("name", op.Name != "")
	case "":
		return fmt.Errorf("ops[%d]: op is required", index)
	default:
		return fmt.Errorf("ops[%d]: unknown op %q", index, op.Op)
	}
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion, ops int) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}
	needs := func(what string, ok bool) error {
		if ok {
			return nil
		}
		return fmt.Errorf("assertions[%d]: %s is required for %s", index, what, a.Type)
	}

	switch a.Type {
	case AssertPool, AssertPoints:
		return needs("value", a.Value != nil)
	case AssertEffectStack, AssertEffectUp, AssertEffectValue, AssertEffectRemains:
		if err := needs("effect", a.Effect != ""); err != nil {
			return err
		}
		return needs("value", a.Value != nil)
	case AssertProcs, AssertCooldownRemains:
		if err := needs("name", a.Name != ""); err != nil {
			return err
		}
		return needs("value", a.Value != nil)
	case AssertDraws:
		if err := needs("stream", a.Stream != ""); err != nil {
			return err
		}
		return needs("value", a.Value != nil)
	case AssertOpResult:
		if err := needs("op", a.Op != nil); err != nil {
			return err
		}
		if *a.Op < 0 || *a.Op >= ops {
			return fmt.Errorf("assertions[%d]: op %d out of range", index, *a.Op)
		}
		return nil
	case AssertTraceContains:
		return needs("kind", a.Kind != "")
	case AssertTraceCount:
		if err := needs("kind", a.Kind != ""); err != nil {
			return err
		}
		if err := needs("count", a.Count != nil); err != nil {
			return err
		}
		if *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
		return nil
	case AssertTraceOrder:
		if err := needs("events", len(a.Events) > 0); err != nil {
			return err
		}
		for _, ev := range a.Events {
			if !strings.Contains(ev, ":") {
				return fmt.Errorf("assertions[%d]: event %q must be kind:name", index, ev)
			}
		}
		return nil
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
}
