// Package decision bridges pub/sub access requests to the upstream
// access-decision API and classifies its answers into protocol outcomes.
package decision

import (
	"errors"

	"github.com/alfredjeanlab/gatehouse/internal/protocol"
	"github.com/alfredjeanlab/gatehouse/internal/upstream"
)

// Map classifies the result of one upstream call into an AccessOutcome. It is
// total: every possible err value, including codes the API adds later, yields
// a concrete outcome.
//
// nil               -> GRANTED
// *APIError         -> DENIED or ERROR by code, DENIED/UNKNOWN as fallback
// any other error   -> ERROR/NETWORK_FAIL (transport failure or timeout)
func Map(err error) protocol.AccessOutcome {
	if err == nil {
		return protocol.AccessOutcome{Status: protocol.StatusGranted, Message: "Access Granted"}
	}

	var apiErr *upstream.APIError
	if !errors.As(err, &apiErr) {
		return protocol.AccessOutcome{
			Status: protocol.StatusError,
			Reason: protocol.ReasonNetworkFail,
			Debug:  err.Error(),
		}
	}

	switch apiErr.Code {
	case upstream.CodeUserBanned:
		return protocol.AccessOutcome{Status: protocol.StatusDenied, Reason: protocol.ReasonBanned}
	case upstream.CodeUserAlreadyIn, upstream.CodeUserAlreadyOut:
		return protocol.AccessOutcome{Status: protocol.StatusDenied, Reason: protocol.ReasonDirectionError}
	case upstream.CodeGateInactive:
		return protocol.AccessOutcome{Status: protocol.StatusError, Reason: protocol.ReasonGateLocked}
	default:
		return protocol.AccessOutcome{
			Status: protocol.StatusDenied,
			Reason: protocol.ReasonUnknown,
			Debug:  apiErr.Message,
		}
	}
}
