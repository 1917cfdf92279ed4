package lifecycle

import (
	"context"
	"net"
)

// Resolver is a reference DNSResolver: it launches a name lookup
// asynchronously and reports the outcome as an ADDRMAP-style entry,
// without blocking the calling control connection.
type Resolver struct {
	onResolved func(name, result string, reverse bool, errMsg string)
}

func NewResolver(onResolved func(name, result string, reverse bool, errMsg string)) *Resolver {
	return &Resolver{onResolved: onResolved}
}

func (r *Resolver) LaunchResolve(name string, reverse bool) error {
	go func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		if reverse {
			names, err := net.DefaultResolver.LookupAddr(ctx, name)
			if err != nil || len(names) == 0 {
				r.onResolved(name, "", true, "resolve failed")
				return
			}
			r.onResolved(name, names[0], true, "")
			return
		}

		addrs, err := net.DefaultResolver.LookupHost(ctx, name)
		if err != nil || len(addrs) == 0 {
			r.onResolved(name, "", false, "resolve failed")
			return
		}
		r.onResolved(name, addrs[0], false, "")
	}()
	return nil
}
