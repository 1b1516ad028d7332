// Package protocol defines the wire contract shared by the gate device and
// the decision service: the access request published by a gate and the access
// outcome published back by the service. Both sides must agree on these
// shapes; anything that fails to decode is dropped by the consumer.
package protocol

import (
	"encoding/json"
	"fmt"
)

// Direction is the side of the checkpoint the holder wants to cross to.
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// Status is the terminal classification of one exchange.
type Status string

const (
	StatusGranted Status = "GRANTED"
	StatusDenied  Status = "DENIED"
	StatusError   Status = "ERROR"
)

// Reason refines a DENIED or ERROR status. The set is closed on the service
// side but gates must tolerate values they do not know.
type Reason string

const (
	ReasonBanned         Reason = "BANNED"
	ReasonDirectionError Reason = "DIRECTION_ERROR"
	ReasonGateLocked     Reason = "GATE_LOCKED"
	ReasonNetworkFail    Reason = "NETWORK_FAIL"
	ReasonServerError    Reason = "SERVER_ERROR"
	ReasonUnknown        Reason = "UNKNOWN"

	// ReasonTimeout is never published; a gate synthesizes it locally when
	// its wait window expires without a response.
	ReasonTimeout Reason = "Timeout"
)

// AccessRequest is published by a gate when a token has been captured and a
// direction chosen. Immutable once built; never persisted.
type AccessRequest struct {
	RFID      string    `json:"rfid"`
	GateID    string    `json:"gate_id"`
	Direction Direction `json:"direction"`
}

// AccessOutcome is the decision service's reply, or the gate's own synthetic
// timeout result. Message and Debug are advisory text and must never drive
// control flow.
type AccessOutcome struct {
	Status  Status `json:"status"`
	Reason  Reason `json:"reason,omitempty"`
	GateID  string `json:"gate_id,omitempty"`
	Message string `json:"message,omitempty"`
	Debug   string `json:"debug,omitempty"`
}

// TimeoutOutcome is the outcome a gate synthesizes when no reply arrives
// within its wait window.
func TimeoutOutcome(gateID string) AccessOutcome {
	return AccessOutcome{Status: StatusError, Reason: ReasonTimeout, GateID: gateID}
}

// Validate reports whether the request is well-formed enough to act on.
func (r AccessRequest) Validate() error {
	if r.RFID == "" {
		return fmt.Errorf("missing rfid")
	}
	if r.GateID == "" {
		return fmt.Errorf("missing gate_id")
	}
	if r.Direction != DirectionIn && r.Direction != DirectionOut {
		return fmt.Errorf("invalid direction %q", r.Direction)
	}
	return nil
}

// DecodeRequest parses and validates an inbound request payload.
func DecodeRequest(data []byte) (AccessRequest, error) {
	var req AccessRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return AccessRequest{}, fmt.Errorf("decoding access request: %w", err)
	}
	if err := req.Validate(); err != nil {
		return AccessRequest{}, fmt.Errorf("invalid access request: %w", err)
	}
	return req, nil
}

// DecodeOutcome parses and validates an inbound outcome payload.
func DecodeOutcome(data []byte) (AccessOutcome, error) {
	var out AccessOutcome
	if err := json.Unmarshal(data, &out); err != nil {
		return AccessOutcome{}, fmt.Errorf("decoding access outcome: %w", err)
	}
	switch out.Status {
	case StatusGranted, StatusDenied, StatusError:
	default:
		return AccessOutcome{}, fmt.Errorf("invalid access outcome status %q", out.Status)
	}
	return out, nil
}
