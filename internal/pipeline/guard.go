package pipeline

// SpawnGuard remembers which (parent attempt, trigger, action) spawns have
// happened during one execution. A repeat is refused.
type SpawnGuard struct {
	seen map[spawnKey]bool
}

type spawnKey struct {
	parent  int
	trigger string
	action  string
}

// NewSpawnGuard creates an empty guard.
func NewSpawnGuard() *SpawnGuard {
	return &SpawnGuard{seen: make(map[spawnKey]bool)}
}

// WouldRepeat reports whether this spawn was already recorded.
func (g *SpawnGuard) WouldRepeat(parent int, trigger, action string) bool {
	return g.seen[spawnKey{parent, trigger, action}]
}

// Record marks the spawn as done.
func (g *SpawnGuard) Record(parent int, trigger, action string) {
	g.seen[spawnKey{parent, trigger, action}] = true
}

// Clear forgets every spawn. Called at the start of each execution.
func (g *SpawnGuard) Clear() {
	clear(g.seen)
}

// Size returns the number of recorded spawns.
func (g *SpawnGuard) Size() int { return len(g.seen) }
