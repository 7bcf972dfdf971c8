// utils/http.go
package utils

import (
	"net/http"
	"time"
)

// HTTPClient is shared by outbound calls to Discord.
var HTTPClient = &http.Client{
	Timeout: 20 * time.Second,
}
