// Package guard decides whether a caller may reach a route given its
// authentication state.
package guard

// Redirect targets for denied callers.
const (
	LoginPath = "/login"
	BoardPath = "/tasks"
)

// Policy is the access rule attached to a route.
type Policy int

const (
	// Protected routes require a signed-in user.
	Protected Policy = iota
	// Guest routes are only for signed-out users, like the login form.
	Guest
	// Public routes are open to everyone.
	Public
)

func (p Policy) String() string {
	switch p {
	case Protected:
		return "protected"
	case Guest:
		return "guest"
	case Public:
		return "public"
	}
	return "unknown"
}

// Decision is the outcome of a guard check. RedirectTo is set when the
// caller is denied.
type Decision struct {
	Allowed    bool
	RedirectTo string
}

// Decide applies policy to a caller.
func Decide(policy Policy, authenticated bool) Decision {
	switch policy {
	case Public:
		return Decision{Allowed: true}
	case Guest:
		if authenticated {
			return Decision{RedirectTo: BoardPath}
		}
		return Decision{Allowed: true}
	default:
		if !authenticated {
			return Decision{RedirectTo: LoginPath}
		}
		return Decision{Allowed: true}
	}
}

// Table maps route names to policies. Unknown routes get Default.
type Table struct {
	Routes  map[string]Policy
	Default Policy
}

// Lookup returns the policy of route.
func (t Table) Lookup(route string) Policy {
	if p, ok := t.Routes[route]; ok {
		return p
	}
	return t.Default
}

// Decide looks up route and applies its policy.
func (t Table) Decide(route string, authenticated bool) Decision {
	return Decide(t.Lookup(route), authenticated)
}
