package decision

import (
	"context"
	"log/slog"
	"time"

	"github.com/alfredjeanlab/gatehouse/internal/bus"
	"github.com/alfredjeanlab/gatehouse/internal/protocol"
	"github.com/alfredjeanlab/gatehouse/internal/upstream"
)

// Service consumes access requests from the request topic, asks the upstream
// API, and publishes the classified outcome on the response topic. It is
// stateless per message; requests from different gates are handled
// concurrently.
type Service struct {
	bus             bus.Bus
	upstream        *upstream.Client
	requestTopic    string
	responseTopic   string
	upstreamTimeout time.Duration
	logger          *slog.Logger
}

// Options configures a Service.
type Options struct {
	Bus             bus.Bus
	Upstream        *upstream.Client
	RequestTopic    string
	ResponseTopic   string
	UpstreamTimeout time.Duration
	Logger          *slog.Logger
}

func NewService(opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.UpstreamTimeout <= 0 {
		opts.UpstreamTimeout = 5 * time.Second
	}
	return &Service{
		bus:             opts.Bus,
		upstream:        opts.Upstream,
		requestTopic:    opts.RequestTopic,
		responseTopic:   opts.ResponseTopic,
		upstreamTimeout: opts.UpstreamTimeout,
		logger:          opts.Logger,
	}
}

// Run consumes requests until ctx is cancelled or the subscription closes.
func (s *Service) Run(ctx context.Context) error {
	ch, cancel, err := s.bus.Subscribe(s.requestTopic)
	if err != nil {
		return err
	}
	defer cancel()

	s.logger.Info("decision service listening", "topic", s.requestTopic)

	for {
		select {
		case <-ctx.Done():
			return nil
		case data, ok := <-ch:
			if !ok {
				return nil
			}
			go s.handle(ctx, data)
		}
	}
}

// handle drives one exchange: decode, call upstream, classify, reply.
// Malformed payloads are dropped without a reply; the gate's own timeout is
// the recovery mechanism.
func (s *Service) handle(ctx context.Context, data []byte) {
	req, err := protocol.DecodeRequest(data)
	if err != nil {
		s.logger.Warn("dropping malformed request", "err", err)
		return
	}

	s.logger.Info("access request", "gate_id", req.GateID, "direction", req.Direction)

	out := s.decide(ctx, req)
	// Always echo the gate identifier so every gate on the shared response
	// topic can tell whose exchange this is.
	out.GateID = req.GateID

	if err := s.bus.Publish(ctx, s.responseTopic, out); err != nil {
		s.logger.Warn("failed to publish outcome", "gate_id", req.GateID, "err", err)
		return
	}
	s.logger.Info("access outcome", "gate_id", req.GateID, "status", out.Status, "reason", out.Reason)
}

// decide issues exactly one bounded upstream call and maps the result. A
// panic anywhere in the call or mapping is converted to ERROR/SERVER_ERROR
// rather than escaping into the consumer loop.
func (s *Service) decide(ctx context.Context, req protocol.AccessRequest) (out protocol.AccessOutcome) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic while deciding", "gate_id", req.GateID, "panic", r)
			out = protocol.AccessOutcome{
				Status: protocol.StatusError,
				Reason: protocol.ReasonServerError,
			}
		}
	}()

	callCtx, cancel := context.WithTimeout(ctx, s.upstreamTimeout)
	defer cancel()

	err := s.upstream.EntryAccess(callCtx, req.RFID, req.GateID, req.Direction)
	return Map(err)
}
