package module

import "sync"

var (
	mu  sync.RWMutex
	reg = map[string]any{}
)

// Register stores a port set under name
func Register(name string, ports any) {
	mu.Lock()
	reg[name] = ports
	mu.Unlock()
}

// Publish registers p's port set under p's name
func Publish(p Provider) { Register(p.Name(), p.Ports()) }

// PortsAs fetches the port set for name as T
func PortsAs[T any](name string) (T, bool) {
	mu.RLock()
	v, ok := reg[name]
	mu.RUnlock()
	out, ok2 := v.(T)
	return out, ok && ok2
}

// Reset clears the registry; tests only
func Reset() {
	mu.Lock()
	reg = map[string]any{}
	mu.Unlock()
}
