package models

// Actor is the authenticated caller. It is resolved per request and passed
// explicitly; nothing in the core reads identity from ambient state.
type Actor struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

// Anonymous reports whether the actor carries no identity.
func (a *Actor) Anonymous() bool {
	return a == nil || a.ID == ""
}
