package defaults

import "time"

const (
	// HTTPTimeout bounds a whole request/response exchange in the CLI. The
	// library itself imposes no timeout beyond the transport it is given.
	HTTPTimeout = 30 * time.Second
)
