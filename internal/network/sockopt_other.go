//go:build !linux

package network

// disablePMTUDiscovery is a no-op where the OS offers no per-socket control
// over path-MTU discovery.
func disablePMTUDiscovery(fd int, network string) error {
	return nil
}
