package resource

// Access is the three-valued access level for a resource path:
// NONE < READ < WRITE, with WRITE implying READ. Not persisted, recomputed
// per request.
type Access int

const (
	AccessNone Access = iota
	AccessRead
	AccessWrite
)

// CanRead reports whether the level allows reading.
func (a Access) CanRead() bool { return a >= AccessRead }

// CanWrite reports whether the level allows writing.
func (a Access) CanWrite() bool { return a >= AccessWrite }

func (a Access) String() string {
	switch a {
	case AccessRead:
		return "read"
	case AccessWrite:
		return "write"
	default:
		return "none"
	}
}
