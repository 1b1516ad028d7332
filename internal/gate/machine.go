// Package gate drives a checkpoint device: capture a token, ask for a
// direction, publish an access request, and present the decision. The machine
// cycles IDLE -> DIRECTION_SELECT -> AWAITING_DECISION -> RESULT_DISPLAY and
// always comes back to IDLE, whatever went wrong along the way.
package gate

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/alfredjeanlab/gatehouse/internal/bus"
	"github.com/alfredjeanlab/gatehouse/internal/device"
	"github.com/alfredjeanlab/gatehouse/internal/protocol"
)

// State identifies where in the interaction cycle the machine is.
type State int

const (
	StateIdle State = iota
	StateDirectionSelect
	StateAwaitingDecision
	StateResultDisplay
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateDirectionSelect:
		return "DIRECTION_SELECT"
	case StateAwaitingDecision:
		return "AWAITING_DECISION"
	case StateResultDisplay:
		return "RESULT_DISPLAY"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Devices is the peripheral set the machine drives.
type Devices struct {
	Display   device.Display
	Indicator device.Indicator
	Buzzer    device.Buzzer
	Reader    device.TokenReader
	Selector  device.Selector
}

// Options configures a Machine.
type Options struct {
	GateID        string
	Bus           bus.Bus
	RequestTopic  string
	ResponseTopic string
	Profile       Profile
	Devices       Devices
	Logger        *slog.Logger
}

// Machine is one gate's interaction state machine. The foreground Run loop
// owns every state transition and all device I/O; a background listener feeds
// decoded outcomes into the current exchange's single-slot channel. The
// atomic slot pointer is the only state shared between the two: nil means
// "not waiting" and the listener discards.
type Machine struct {
	gateID        string
	bus           bus.Bus
	requestTopic  string
	responseTopic string
	profile       Profile
	dev           Devices
	logger        *slog.Logger

	slot atomic.Pointer[chan protocol.AccessOutcome]
}

func NewMachine(opts Options) *Machine {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Machine{
		gateID:        opts.GateID,
		bus:           opts.Bus,
		requestTopic:  opts.RequestTopic,
		responseTopic: opts.ResponseTopic,
		profile:       opts.Profile,
		dev:           opts.Devices,
		logger:        opts.Logger,
	}
}

// Run cycles the machine until ctx is cancelled. Errors inside one cycle are
// logged and the machine resumes at IDLE; nothing short of cancellation stops
// the loop.
func (m *Machine) Run(ctx context.Context) error {
	ch, cancel, err := m.bus.Subscribe(m.responseTopic)
	if err != nil {
		return fmt.Errorf("subscribing to %s: %w", m.responseTopic, err)
	}
	defer cancel()
	go m.listen(ch)

	m.logger.Info("gate ready", "gate_id", m.gateID)

	for ctx.Err() == nil {
		if err := m.cycle(ctx); err != nil && ctx.Err() == nil {
			m.logger.Error("cycle failed, returning to idle", "gate_id", m.gateID, "err", err)
			m.sleep(ctx, time.Duration(m.profile.Timing.PollInterval))
		}
	}

	m.dev.Display.Clear()
	m.dev.Indicator.SetColor(device.ColorOff)
	return nil
}

// listen consumes the shared response topic for the life of the machine.
// Outcomes addressed to other gates, malformed payloads, and anything that
// arrives while no exchange is open are discarded here, never queued.
func (m *Machine) listen(ch <-chan []byte) {
	for data := range ch {
		out, err := protocol.DecodeOutcome(data)
		if err != nil {
			m.logger.Warn("dropping malformed outcome", "gate_id", m.gateID, "err", err)
			continue
		}
		if out.GateID != "" && out.GateID != m.gateID {
			continue
		}
		p := m.slot.Load()
		if p == nil {
			m.logger.Debug("ignoring outcome while not waiting", "gate_id", m.gateID, "status", out.Status)
			continue
		}
		select {
		case *p <- out:
		default:
			// Slot already holds the winning outcome for this exchange.
		}
	}
}

// cycle runs one full interaction: token, direction, decision, result.
func (m *Machine) cycle(ctx context.Context) error {
	token, err := m.awaitToken(ctx)
	if err != nil {
		return err
	}
	m.logger.Info("token captured", "gate_id", m.gateID, "state", StateIdle)

	dir, err := m.selectDirection(ctx)
	if err != nil {
		return err
	}
	m.logger.Info("direction selected", "gate_id", m.gateID, "direction", dir, "state", StateDirectionSelect)

	req := protocol.AccessRequest{RFID: token, GateID: m.gateID, Direction: dir}
	out := m.awaitDecision(ctx, req)

	m.presentResult(ctx, out)
	return nil
}

// awaitToken polls the reader until a token is produced (IDLE).
func (m *Machine) awaitToken(ctx context.Context) (string, error) {
	m.dev.Display.Show(m.profile.Text.IdlePrimary, m.profile.Text.IdleSecondary)
	m.dev.Indicator.SetColor(device.ColorOff)

	ticker := time.NewTicker(time.Duration(m.profile.Timing.PollInterval))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
			token, ok, err := m.dev.Reader.TryRead()
			if err != nil {
				return "", fmt.Errorf("reading token: %w", err)
			}
			if ok {
				return token, nil
			}
		}
	}
}

// selectDirection blocks until the person picks a side (DIRECTION_SELECT).
// No timeout here: a human is expected to act eventually.
func (m *Machine) selectDirection(ctx context.Context) (protocol.Direction, error) {
	m.dev.Display.Show(m.profile.Text.SelectPrimary, m.profile.Text.SelectSecondary)
	m.dev.Indicator.SetColor(device.ColorBlue)
	m.dev.Buzzer.Play(device.PatternClick)

	dir, err := m.dev.Selector.AwaitChoice(ctx)
	if err != nil {
		return "", fmt.Errorf("awaiting direction: %w", err)
	}
	m.dev.Buzzer.Play(device.PatternClick)
	return dir, nil
}

// awaitDecision publishes the request and waits for the first correlated
// outcome (AWAITING_DECISION). It always produces an outcome: if nothing
// arrives within the window, a local ERROR/Timeout is synthesized. Whatever
// arrives for this exchange after that is discarded by the listener.
func (m *Machine) awaitDecision(ctx context.Context, req protocol.AccessRequest) protocol.AccessOutcome {
	m.dev.Display.Show(m.profile.Text.WaitPrimary, m.profile.Text.WaitSecondary)
	m.dev.Indicator.SetColor(device.ColorYellow)

	// Fresh single-slot channel per exchange: late deliveries land on a
	// dead channel instead of leaking into the next exchange.
	slot := make(chan protocol.AccessOutcome, 1)
	m.slot.Store(&slot)
	defer m.slot.Store(nil)

	if err := m.bus.Publish(ctx, m.requestTopic, req); err != nil {
		m.logger.Warn("publishing request failed", "gate_id", m.gateID, "err", err)
		out := protocol.TimeoutOutcome(m.gateID)
		out.Debug = err.Error()
		return out
	}

	timer := time.NewTimer(time.Duration(m.profile.Timing.DecisionTimeout))
	defer timer.Stop()
	select {
	case out := <-slot:
		return out
	case <-timer.C:
		m.logger.Warn("decision timed out", "gate_id", m.gateID)
		return protocol.TimeoutOutcome(m.gateID)
	case <-ctx.Done():
		return protocol.TimeoutOutcome(m.gateID)
	}
}

// presentResult renders the outcome, dwells, then clears and cools down
// before the reader is armed again (RESULT_DISPLAY).
func (m *Machine) presentResult(ctx context.Context, out protocol.AccessOutcome) {
	primary, secondary := ResultText(out)
	m.dev.Display.Show(primary, secondary)
	if out.Status == protocol.StatusGranted {
		m.dev.Indicator.SetColor(device.ColorGreen)
		m.dev.Buzzer.Play(device.PatternSuccess)
	} else {
		m.dev.Indicator.SetColor(device.ColorRed)
		m.dev.Buzzer.Play(device.PatternError)
	}
	m.logger.Info("result", "gate_id", m.gateID, "state", StateResultDisplay,
		"status", out.Status, "reason", out.Reason)

	m.sleep(ctx, time.Duration(m.profile.Timing.ResultDwell))
	m.dev.Display.Clear()
	m.dev.Indicator.SetColor(device.ColorOff)
	m.sleep(ctx, time.Duration(m.profile.Timing.Cooldown))
}

func (m *Machine) sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
