// Package netinfo enumerates network interfaces for the Network readiness
// evaluator. The Enumerator interface keeps the evaluator pure and lets
// tests inject a fixed interface set.
package netinfo

import "net"

// Interface is the slice of interface state the readiness checks care about.
type Interface struct {
	Name     string
	Up       bool
	Loopback bool
}

// Enumerator lists the interfaces visible to the process.
type Enumerator interface {
	Interfaces() ([]Interface, error)
}

// System enumerates live interfaces from the kernel.
type System struct{}

func (System) Interfaces() ([]Interface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	out := make([]Interface, 0, len(ifaces))
	for _, ifc := range ifaces {
		out = append(out, Interface{
			Name:     ifc.Name,
			Up:       ifc.Flags&net.FlagUp != 0,
			Loopback: ifc.Flags&net.FlagLoopback != 0,
		})
	}
	return out, nil
}

// Static is a fixed interface set, for tests and dry runs.
type Static []Interface

func (s Static) Interfaces() ([]Interface, error) {
	return []Interface(s), nil
}

// Find returns the named interface from a set, if present.
func Find(ifaces []Interface, name string) (Interface, bool) {
	for _, ifc := range ifaces {
		if ifc.Name == name {
			return ifc, true
		}
	}
	return Interface{}, false
}
