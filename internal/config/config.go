// Package config loads gatehouse process configuration from the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/alfredjeanlab/gatehouse/internal/idgen"
)

// Topic defaults shared by convention between gate and service deployments.
const (
	DefaultRequestTopic  = "gatehouse.access.request"
	DefaultResponseTopic = "gatehouse.access.response"
)

// Gate is the gate device configuration.
type Gate struct {
	NATSURL       string // GATEHOUSE_NATS_URL (required)
	GateID        string // GATEHOUSE_GATE_ID (default: generated "gate-...")
	RequestTopic  string // GATEHOUSE_REQUEST_TOPIC
	ResponseTopic string // GATEHOUSE_RESPONSE_TOPIC
}

// Service is the decision service configuration.
type Service struct {
	NATSURL         string        // GATEHOUSE_NATS_URL (required)
	APIURL          string        // GATEHOUSE_API_URL (required)
	RequestTopic    string        // GATEHOUSE_REQUEST_TOPIC
	ResponseTopic   string        // GATEHOUSE_RESPONSE_TOPIC
	UpstreamTimeout time.Duration // GATEHOUSE_UPSTREAM_TIMEOUT (default 5s)
}

// LoadGate reads the gate configuration. A missing GATEHOUSE_GATE_ID gets a
// generated identifier so a fleet can boot from one image.
func LoadGate() (*Gate, error) {
	c := &Gate{
		NATSURL:       os.Getenv("GATEHOUSE_NATS_URL"),
		GateID:        os.Getenv("GATEHOUSE_GATE_ID"),
		RequestTopic:  envOrDefault("GATEHOUSE_REQUEST_TOPIC", DefaultRequestTopic),
		ResponseTopic: envOrDefault("GATEHOUSE_RESPONSE_TOPIC", DefaultResponseTopic),
	}
	if c.NATSURL == "" {
		return nil, fmt.Errorf("GATEHOUSE_NATS_URL is required")
	}
	if c.GateID == "" {
		id, err := idgen.Generate()
		if err != nil {
			return nil, fmt.Errorf("generating gate id: %w", err)
		}
		c.GateID = id
	}
	return c, nil
}

// LoadService reads the decision service configuration.
func LoadService() (*Service, error) {
	c := &Service{
		NATSURL:       os.Getenv("GATEHOUSE_NATS_URL"),
		APIURL:        os.Getenv("GATEHOUSE_API_URL"),
		RequestTopic:  envOrDefault("GATEHOUSE_REQUEST_TOPIC", DefaultRequestTopic),
		ResponseTopic: envOrDefault("GATEHOUSE_RESPONSE_TOPIC", DefaultResponseTopic),
	}
	if c.NATSURL == "" {
		return nil, fmt.Errorf("GATEHOUSE_NATS_URL is required")
	}
	if c.APIURL == "" {
		return nil, fmt.Errorf("GATEHOUSE_API_URL is required")
	}

	timeoutStr := envOrDefault("GATEHOUSE_UPSTREAM_TIMEOUT", "5s")
	d, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("GATEHOUSE_UPSTREAM_TIMEOUT: %w", err)
	}
	c.UpstreamTimeout = d

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
