//go:build tinygo && baremetal && !espat

package hal

// newRadio reports no link: the plain board has no network coprocessor.
func newRadio(Logger) Transport { return nullTransport{} }
