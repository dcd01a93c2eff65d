package shared

import (
	"fmt"
	"net/http"

	"github.com/janekbaraniewski/keycheck/internal/core"
)

// ApplyPrimaryStatus interprets the primary probe's HTTP status and records
// the outcome on the key. Statuses in invalid mean "credential rejected"
// (default 401 and 403); any other non-200 is a transport-level failure with
// the status preserved separately from the message, so callers can tell a
// bad key from an unreachable or misbehaving API. Returns true when the key
// was accepted.
func ApplyPrimaryStatus(key *core.Key, providerName string, resp Response, invalid ...int) bool {
	key.RawResponse = string(resp.Body)

	if resp.Status == http.StatusOK {
		key.MarkValid(providerName + " API key is valid.")
		return true
	}

	if len(invalid) == 0 {
		invalid = []int{http.StatusUnauthorized, http.StatusForbidden}
	}
	for _, status := range invalid {
		if resp.Status == status {
			key.MarkInvalid("Invalid "+providerName+" API key.", "")
			return false
		}
	}

	key.MarkInvalid(
		fmt.Sprintf("Unexpected response from %s API: HTTP %d", providerName, resp.Status),
		fmt.Sprintf("HTTP %d", resp.Status),
	)
	return false
}

// ApplyTransportFailure records a connection-level failure (DNS, refused
// connection, timeout) on the key.
func ApplyTransportFailure(key *core.Key, providerName string, err error) {
	key.MarkInvalid("Error connecting to "+providerName+" API: "+err.Error(), err.Error())
}
