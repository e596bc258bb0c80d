// Package guard decides whether a navigation target may be rendered for
// the current authentication state. It is pure and synchronous: no I/O,
// no dependency on any concrete view, so the whole access policy is unit
// testable in isolation.
package guard

// View identifies a navigable screen of the client.
type View string

const (
	ViewLanding   View = "landing"
	ViewLogin     View = "login"
	ViewRegister  View = "register"
	ViewDashboard View = "dashboard"
	ViewUpload    View = "upload"
	ViewResults   View = "results"
	ViewHistory   View = "history"
	ViewWhoami    View = "whoami"
)

// ViewClass partitions views by the session state they require.
type ViewClass int

const (
	// ClassPublic views render regardless of authentication state.
	ClassPublic ViewClass = iota
	// ClassPublicOnly views (login, register) are pointless for an
	// authenticated session and redirect to the landing view instead.
	ClassPublicOnly
	// ClassProtected views require an authenticated session.
	ClassProtected
)

// classification is the single authoritative table of view classes.
// Unknown views are treated as protected; failing closed beats exposing
// a screen that was forgotten here.
var classification = map[View]ViewClass{
	ViewLanding:   ClassPublic,
	ViewLogin:     ClassPublicOnly,
	ViewRegister:  ClassPublicOnly,
	ViewDashboard: ClassProtected,
	ViewUpload:    ClassProtected,
	ViewResults:   ClassProtected,
	ViewHistory:   ClassProtected,
	ViewWhoami:    ClassProtected,
}

// Classify returns the class of a view.
func Classify(v View) ViewClass {
	if class, ok := classification[v]; ok {
		return class
	}
	return ClassProtected
}

// Decision is the outcome of an access check.
type Decision struct {
	Allow      bool
	RedirectTo View
	// Requested carries the originally requested view on a redirect to
	// login, so the caller can return there after authentication.
	Requested View
}

// Decide applies the access policy for one navigation. It must be
// re-evaluated on every navigation and on every session state change.
func Decide(authenticated bool, target View) Decision {
	switch Classify(target) {
	case ClassProtected:
		if !authenticated {
			return Decision{RedirectTo: ViewLogin, Requested: target}
		}
	case ClassPublicOnly:
		if authenticated {
			// Avoid re-authentication loops for a live session.
			return Decision{RedirectTo: ViewDashboard}
		}
	}
	return Decision{Allow: true}
}
