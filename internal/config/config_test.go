package config

import (
	"strings"
	"testing"
	"time"
)

var allEnvVars = []string{
	"GATEHOUSE_NATS_URL", "GATEHOUSE_GATE_ID", "GATEHOUSE_API_URL",
	"GATEHOUSE_REQUEST_TOPIC", "GATEHOUSE_RESPONSE_TOPIC", "GATEHOUSE_UPSTREAM_TIMEOUT",
}

func clearAllEnv(t *testing.T) {
	t.Helper()
	for _, key := range allEnvVars {
		t.Setenv(key, "")
	}
}

func TestLoadGate(t *testing.T) {
	for _, tc := range []struct {
		name       string
		env        map[string]string
		wantErr    bool
		wantGateID string
		wantReq    string
		wantResp   string
	}{
		{
			name:    "MissingNATSURL",
			env:     map[string]string{},
			wantErr: true,
		},
		{
			name:     "Defaults",
			env:      map[string]string{"GATEHOUSE_NATS_URL": "nats://localhost:4222"},
			wantReq:  "gatehouse.access.request",
			wantResp: "gatehouse.access.response",
		},
		{
			name: "CustomTopicsAndID",
			env: map[string]string{
				"GATEHOUSE_NATS_URL":       "nats://broker:4222",
				"GATEHOUSE_GATE_ID":        "G1",
				"GATEHOUSE_REQUEST_TOPIC":  "site.access.req",
				"GATEHOUSE_RESPONSE_TOPIC": "site.access.resp",
			},
			wantGateID: "G1",
			wantReq:    "site.access.req",
			wantResp:   "site.access.resp",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			clearAllEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			cfg, err := LoadGate()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadGate() error: %v", err)
			}
			if tc.wantGateID != "" && cfg.GateID != tc.wantGateID {
				t.Errorf("GateID = %q, want %q", cfg.GateID, tc.wantGateID)
			}
			if cfg.RequestTopic != tc.wantReq {
				t.Errorf("RequestTopic = %q, want %q", cfg.RequestTopic, tc.wantReq)
			}
			if cfg.ResponseTopic != tc.wantResp {
				t.Errorf("ResponseTopic = %q, want %q", cfg.ResponseTopic, tc.wantResp)
			}
		})
	}
}

func TestLoadGate_GeneratesGateID(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("GATEHOUSE_NATS_URL", "nats://localhost:4222")

	cfg, err := LoadGate()
	if err != nil {
		t.Fatalf("LoadGate() error: %v", err)
	}
	if !strings.HasPrefix(cfg.GateID, "gate-") {
		t.Errorf("GateID = %q, want generated gate- prefix", cfg.GateID)
	}
}

func TestLoadService(t *testing.T) {
	for _, tc := range []struct {
		name        string
		env         map[string]string
		wantErr     bool
		wantTimeout time.Duration
	}{
		{
			name:    "MissingNATSURL",
			env:     map[string]string{"GATEHOUSE_API_URL": "http://api"},
			wantErr: true,
		},
		{
			name:    "MissingAPIURL",
			env:     map[string]string{"GATEHOUSE_NATS_URL": "nats://localhost:4222"},
			wantErr: true,
		},
		{
			name: "DefaultTimeout",
			env: map[string]string{
				"GATEHOUSE_NATS_URL": "nats://localhost:4222",
				"GATEHOUSE_API_URL":  "http://api",
			},
			wantTimeout: 5 * time.Second,
		},
		{
			name: "CustomTimeout",
			env: map[string]string{
				"GATEHOUSE_NATS_URL":         "nats://localhost:4222",
				"GATEHOUSE_API_URL":          "http://api",
				"GATEHOUSE_UPSTREAM_TIMEOUT": "2s",
			},
			wantTimeout: 2 * time.Second,
		},
		{
			name: "BadTimeout",
			env: map[string]string{
				"GATEHOUSE_NATS_URL":         "nats://localhost:4222",
				"GATEHOUSE_API_URL":          "http://api",
				"GATEHOUSE_UPSTREAM_TIMEOUT": "soon",
			},
			wantErr: true,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			clearAllEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			cfg, err := LoadService()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadService() error: %v", err)
			}
			if cfg.UpstreamTimeout != tc.wantTimeout {
				t.Errorf("UpstreamTimeout = %v, want %v", cfg.UpstreamTimeout, tc.wantTimeout)
			}
		})
	}
}
