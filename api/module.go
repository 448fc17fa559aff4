// Package api is the contract between the reload host and the swappable
// module.
//
// The host owns three things and passes them into every entry point: the
// per-frame Platform snapshot, the persistent State record and the service
// Context. The module owns none of them; it only reads and mutates them.
//
// State is a plain value type without pointers so that it can be handed to
// a freshly loaded module after a swap. Anything that cannot live in State
// (caches, lookup tables, font glyphs) lives in Context, which the module
// rebuilds in Init and OnReload.
package api

// Version is the revision of this contract. A module built against a
// different revision is refused by the host.
const Version = 1

// EntryPoint is the signature of every module function.
type EntryPoint func(p *Platform, s *State)

// Symbol names the host resolves in a loaded module.
const (
	SymbolInit     = "Init"
	SymbolUpdate   = "Update"
	SymbolRender   = "Render"
	SymbolCleanup  = "Cleanup"
	SymbolOnReload = "OnReload"

	// SymbolVersion names an optional int variable holding the contract
	// revision the module was built against.
	SymbolVersion = "ModuleVersion"
)

// Module is the function table of a loaded module.
// Update and Render are mandatory; the others may be nil.
type Module struct {
	Version  int
	Init     EntryPoint
	Update   EntryPoint
	Render   EntryPoint
	Cleanup  EntryPoint
	OnReload EntryPoint
}

// Missing returns the names of the mandatory entry points that are nil.
func (m *Module) Missing() []string {
	var missing []string
	if m.Update == nil {
		missing = append(missing, SymbolUpdate)
	}
	if m.Render == nil {
		missing = append(missing, SymbolRender)
	}
	return missing
}

// Call invokes fn when it is set.
func Call(fn EntryPoint, p *Platform, s *State) {
	if fn != nil {
		fn(p, s)
	}
}
