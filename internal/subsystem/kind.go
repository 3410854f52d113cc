// Package subsystem defines the closed set of subsystem kinds and the
// canonical order in which the launch pipeline visits them. The landing
// pipeline walks the same sequence in reverse.
package subsystem

// Kind identifies one of the statically enumerated subsystems.
type Kind int

const (
	Registry Kind = iota
	Payload
	Threads
	Logging
	Network
	Database
	WebServer
	API
	Swagger
	WebSocket
	Terminal
	MDNSServer
	MDNSClient
	MailRelay
	PrintQueue
	Notify
	Resources
	OIDC

	kindCount
)

// Count is the number of subsystem kinds.
const Count = int(kindCount)

var displayNames = [...]string{
	Registry:   "Subsystem Registry",
	Payload:    "Payload",
	Threads:    "Threads",
	Network:    "Network",
	Logging:    "Logging",
	Database:   "Database",
	WebServer:  "WebServer",
	API:        "API",
	Swagger:    "Swagger",
	WebSocket:  "WebSocket",
	Terminal:   "Terminal",
	MDNSServer: "mDNS Server",
	MDNSClient: "mDNS Client",
	MailRelay:  "Mail Relay",
	PrintQueue: "Print Queue",
	Notify:     "Notify",
	Resources:  "Resources",
	OIDC:       "OIDC",
}

// String returns the canonical display name, used in logs and as the
// registry lookup key.
func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return "Unknown"
	}
	return displayNames[k]
}

// LongName returns the name used in Decide lines, e.g. "WebServer Subsystem".
// The registry already carries "Subsystem" in its display name.
func (k Kind) LongName() string {
	if k == Registry {
		return displayNames[Registry]
	}
	return k.String() + " Subsystem"
}

// Valid reports whether k names one of the enumerated kinds.
func (k Kind) Valid() bool {
	return k >= 0 && k < kindCount
}

// LaunchOrder returns the canonical launch sequence. The registry is always
// first; the slice is freshly allocated so callers may reverse it in place.
func LaunchOrder() []Kind {
	order := make([]Kind, Count)
	for i := range order {
		order[i] = Kind(i)
	}
	return order
}

// LandingOrder returns the reverse of the canonical launch sequence.
func LandingOrder() []Kind {
	order := LaunchOrder()
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order
}
