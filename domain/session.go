package domain

// Session is the live binding between a transport connection and a
// registered username. Exactly one Session exists per active connection.
type Session struct {
	ConnID   string
	Username string
}
