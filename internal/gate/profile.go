package gate

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// Duration is a time.Duration that decodes from TOML strings like "5s".
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Profile is the per-device presentation and timing configuration. Deployments
// override the defaults with a TOML profile file; the defaults match the
// standard hardware build.
type Profile struct {
	Text   TextProfile   `toml:"text"`
	Timing TimingProfile `toml:"timing"`
}

// TextProfile holds the display lines for the non-result states.
type TextProfile struct {
	IdlePrimary     string `toml:"idle_primary"`
	IdleSecondary   string `toml:"idle_secondary"`
	SelectPrimary   string `toml:"select_primary"`
	SelectSecondary string `toml:"select_secondary"`
	WaitPrimary     string `toml:"wait_primary"`
	WaitSecondary   string `toml:"wait_secondary"`
}

// TimingProfile holds the state-machine timings.
type TimingProfile struct {
	// PollInterval is the idle token-reader polling cadence.
	PollInterval Duration `toml:"poll_interval"`
	// DecisionTimeout bounds the wait for a decision-service response.
	DecisionTimeout Duration `toml:"decision_timeout"`
	// ResultDwell is how long a result stays on the display.
	ResultDwell Duration `toml:"result_dwell"`
	// Cooldown guards against re-reading the same token right after a
	// result is cleared.
	Cooldown Duration `toml:"cooldown"`
}

// DefaultProfile returns the compiled-in profile.
func DefaultProfile() Profile {
	return Profile{
		Text: TextProfile{
			IdlePrimary:     "Gate Ready",
			IdleSecondary:   "Place Card...",
			SelectPrimary:   "Select Mode:",
			SelectSecondary: "Grn:IN | Red:OUT",
			WaitPrimary:     "Verifying...",
			WaitSecondary:   "Please wait",
		},
		Timing: TimingProfile{
			PollInterval:    Duration(100 * time.Millisecond),
			DecisionTimeout: Duration(5 * time.Second),
			ResultDwell:     Duration(3 * time.Second),
			Cooldown:        Duration(time.Second),
		},
	}
}

// LoadProfile reads a TOML profile file, layering it over the defaults so a
// profile only needs to mention what it changes.
func LoadProfile(path string) (Profile, error) {
	p := DefaultProfile()
	if _, err := toml.DecodeFile(path, &p); err != nil {
		return Profile{}, fmt.Errorf("loading gate profile %s: %w", path, err)
	}
	if p.Timing.PollInterval <= 0 || p.Timing.DecisionTimeout <= 0 {
		return Profile{}, fmt.Errorf("gate profile %s: timings must be positive", path)
	}
	return p, nil
}
