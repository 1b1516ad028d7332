// Package upstream is the HTTP/JSON client for the access-decision API, the
// remote authority that holds the actual access-control business rules.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/alfredjeanlab/gatehouse/internal/protocol"
)

// entryAccessPath is the single endpoint consumed by the decision service.
const entryAccessPath = "/entry-access"

// Error code values the API is known to return. The set is open-ended; codes
// outside it are classified as unknown denials by the decision mapper.
const (
	CodeUserBanned     = "USER_BANNED"
	CodeUserAlreadyIn  = "USER_ALREADY_IN"
	CodeUserAlreadyOut = "USER_ALREADY_OUT"
	CodeGateInactive   = "GATE_INACTIVE"
)

// APIError is a non-200 decision from the API. It is a business answer, not
// a transport fault; transport faults are returned as plain errors.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("entry-access HTTP %d: %s (%s)", e.StatusCode, e.Code, e.Message)
}

// Client targets one access-decision API deployment.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the given base URL (e.g. "https://api.example.com").
// Every call is bounded by the given timeout.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// EntryAccess asks the API whether the given token may pass the given gate in
// the given direction. A nil error means access is granted. An *APIError
// carries the API's refusal; any other error is a transport failure.
func (c *Client) EntryAccess(ctx context.Context, rfid, gateID string, direction protocol.Direction) error {
	body := struct {
		RFID           string `json:"rfid"`
		GateIdentifier string `json:"gateIdentifier"`
		Direction      string `json:"direction"`
	}{RFID: rfid, GateIdentifier: gateID, Direction: string(direction)}

	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+entryAccessPath, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	// Any 200-class response grants access; the body, if present, is not
	// consulted.
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	var errResp struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	apiErr := &APIError{StatusCode: resp.StatusCode, Code: "UNKNOWN", Message: "Unknown error"}
	if json.Unmarshal(respBody, &errResp) == nil && errResp.Error.Code != "" {
		apiErr.Code = errResp.Error.Code
		apiErr.Message = errResp.Error.Message
	}
	return apiErr
}
