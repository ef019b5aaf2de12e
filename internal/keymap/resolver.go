package keymap

import "slices"

// Resolver turns key presses into actions.
type Resolver struct {
	actions map[string]Action
	keys    map[Action][]string
}

// NewResolver indexes bindings. When a key appears in several bindings the
// later one wins; KeysFor keeps each action's keys in first-seen order.
func NewResolver(bindings []Binding) *Resolver {
	r := &Resolver{
		actions: make(map[string]Action),
		keys:    make(map[Action][]string),
	}
	for _, b := range bindings {
		for _, k := range b.Keys {
			r.actions[k] = b.Action
			if !slices.Contains(r.keys[b.Action], k) {
				r.keys[b.Action] = append(r.keys[b.Action], k)
			}
		}
	}
	return r
}

// Default resolves the built-in bindings.
func Default() *Resolver {
	return NewResolver(All)
}

// Resolve returns the action bound to key, or "" when the key is unbound.
func (r *Resolver) Resolve(key string) Action {
	return r.actions[key]
}

// KeysFor lists the keys that trigger action.
func (r *Resolver) KeysFor(action Action) []string {
	return r.keys[action]
}
