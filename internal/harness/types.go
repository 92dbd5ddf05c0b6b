package harness

// Scenario is one mechanics scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Seed seeds every stream the setup does not force.
	Seed uint64 `yaml:"seed,omitempty"`

	Setup      Setup       `yaml:"setup"`
	Ops        []Op        `yaml:"ops"`
	Assertions []Assertion `yaml:"assertions"`
}

// Setup describes the world before the first op. Nothing done here is traced.
type Setup struct {
	Pool      *PoolSetup             `yaml:"pool,omitempty"`
	Points    *PointsSetup           `yaml:"points,omitempty"`
	Effects   []EffectSetup          `yaml:"effects,omitempty"`
	Cooldowns map[string]float64     `yaml:"cooldowns,omitempty"` // name to default seconds
	Streams   map[string]StreamSetup `yaml:"streams,omitempty"`
}

// PoolSetup sizes the energy pool.
type PoolSetup struct {
	Max     float64 `yaml:"max"`
	Regen   float64 `yaml:"regen"`
	Initial float64 `yaml:"initial,omitempty"`
}

// PointsSetup sizes the builder point counter.
type PointsSetup struct {
	Cap   int `yaml:"cap"`
	Count int `yaml:"count,omitempty"`
}

// EffectSetup registers one effect. Durations are in seconds.
type EffectSetup struct {
	Name     string  `yaml:"name"`
	Policy   string  `yaml:"policy,omitempty"`
	MaxStack int     `yaml:"max_stack,omitempty"`
	Duration float64 `yaml:"duration,omitempty"`
	Value    float64 `yaml:"value,omitempty"`

	// ExtendBase + ExtendPer*n is the candidate duration of a
	// conditional_extend trigger of size n.
	ExtendBase float64 `yaml:"extend_base,omitempty"`
	ExtendPer  float64 `yaml:"extend_per,omitempty"`

	// Chance and StepValue drive probabilistic_stepped. The stack value is
	// StepValue per stack.
	Chance    float64 `yaml:"chance,omitempty"`
	StepValue float64 `yaml:"step_value,omitempty"`

	// Stack activates the effect with this many stacks.
	Stack int `yaml:"stack,omitempty"`
}

// StreamSetup forces a random stream. Set exactly one field.
type StreamSetup struct {
	// Forced is "always" or "never".
	Forced string `yaml:"forced,omitempty"`
	// Values replays fixed fractions in [0, 1).
	Values []float64 `yaml:"values,omitempty"`
}

// Op is one operation. Which fields apply depends on the op.
type Op struct {
	Op      string    `yaml:"op"`
	Amount  float64   `yaml:"amount,omitempty"`
	N       int       `yaml:"n,omitempty"`
	Reason  string    `yaml:"reason,omitempty"`
	Effect  string    `yaml:"effect,omitempty"`
	Name    string    `yaml:"name,omitempty"`
	Seconds float64   `yaml:"seconds,omitempty"`
	Values  []float64 `yaml:"values,omitempty"`

	// Expect is compared against the op's result when set.
	Expect any `yaml:"expect,omitempty"`

	// ExpectPanic requires the op to be rejected as a contract violation.
	ExpectPanic bool `yaml:"expect_panic,omitempty"`
}

// Op names.
const (
	OpConsume         = "consume"
	OpGain            = "gain"
	OpRegen           = "regen"
	OpAddPoints       = "add_points"
	OpSpend           = "spend"
	OpRank            = "rank"
	OpTrigger         = "trigger"
	OpStep            = "step"
	OpIncrement       = "increment"
	OpDecrement       = "decrement"
	OpExpire          = "expire"
	OpAdvance         = "advance"
	OpCooldownStart   = "cooldown_start"
	OpCooldownTrigger = "cooldown_trigger"
	OpCooldownReduce  = "cooldown_reduce"
	OpCooldownReset   = "cooldown_reset"
)

// Assertion checks final state or the trace.
type Assertion struct {
	Type string `yaml:"type"`

	// Effect, Name, Stream, and Kind select what is checked.
	Effect string `yaml:"effect,omitempty"`
	Name   string `yaml:"name,omitempty"`
	Stream string `yaml:"stream,omitempty"`
	Kind   string `yaml:"kind,omitempty"`

	// Value is the expected value. Numbers compare within 1e-9.
	Value any `yaml:"value,omitempty"`

	// Op is the zero-based op index for op_result.
	Op *int `yaml:"op,omitempty"`

	// Count is the expected event count for trace_count.
	Count *int `yaml:"count,omitempty"`

	// Events lists "kind:name" pairs that must appear in order.
	Events []string `yaml:"events,omitempty"`
}

// Assertion type constants.
const (
	AssertPool            = "pool"
	AssertPoints          = "points"
	AssertEffectStack     = "effect_stack"
	AssertEffectUp        = "effect_up"
	AssertEffectValue     = "effect_value"
	AssertEffectRemains   = "effect_remains"
	AssertProcs           = "procs"
	AssertDraws           = "draws"
	AssertCooldownRemains = "cooldown_remains"
	AssertOpResult        = "op_result"
	AssertTraceContains   = "trace_contains"
	AssertTraceOrder      = "trace_order"
	AssertTraceCount      = "trace_count"
)
