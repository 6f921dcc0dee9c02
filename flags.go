package portalock

// LockFlags selects the lock mode requested from the OS primitive.
type LockFlags uint8

const (
	// Shared requests a lock that several cooperating holders may hold at
	// the same time. It blocks exclusive requests.
	Shared LockFlags = 1 << iota
	// Exclusive requests a lock with at most one holder. When neither
	// mode flag is set, Exclusive is assumed.
	Exclusive
	// NonBlocking makes a primitive attempt return immediately with a
	// failure instead of waiting for the lock to become available.
	NonBlocking
)

// Has reports whether all bits in mask are set.
func (f LockFlags) Has(mask LockFlags) bool {
	return f&mask == mask
}
