package device

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/alfredjeanlab/gatehouse/internal/protocol"
	"github.com/alfredjeanlab/gatehouse/internal/ui"
)

// Console simulates the full peripheral set on a terminal: typed lines stand
// in for card swipes and button presses, the display and LED strip are drawn
// to stdout, tones are printed. One Console owns stdin, so it implements both
// TokenReader and Selector.
//
// Input protocol: while the gate is idle, any typed line is a token; while
// the gate is asking for a direction, "i"/"in" and "o"/"out" are the two
// buttons.
type Console struct {
	out io.Writer

	mu    sync.Mutex
	lines chan string
}

// NewConsole starts reading lines from in. Output goes to out.
func NewConsole(in io.Reader, out io.Writer) *Console {
	c := &Console{out: out, lines: make(chan string, 4)}
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			select {
			case c.lines <- line:
			default:
				// Input faster than the gate consumes it; drop,
				// like a swipe during the cool-down.
			}
		}
		close(c.lines)
	}()
	return c
}

func (c *Console) Show(primary, secondary string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "┌──────────────────┐\n│ %-16s │\n│ %-16s │\n└──────────────────┘\n", primary, secondary)
}

func (c *Console) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out)
}

func (c *Console) SetColor(col Color) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "LED %s\n", ui.Swatch(col.R, col.G, col.B, 8))
}

func (c *Console) Play(p Pattern) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "♪ %s\n", p)
}

// TryRead returns a pending typed token without blocking.
func (c *Console) TryRead() (string, bool, error) {
	select {
	case line, ok := <-c.lines:
		if !ok {
			return "", false, io.EOF
		}
		return line, true, nil
	default:
		return "", false, nil
	}
}

// AwaitChoice blocks until a direction is typed. Unrecognized input is
// re-prompted, like pressing neither button.
func (c *Console) AwaitChoice(ctx context.Context) (protocol.Direction, error) {
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case line, ok := <-c.lines:
			if !ok {
				return "", io.EOF
			}
			switch strings.ToLower(line) {
			case "i", "in":
				return protocol.DirectionIn, nil
			case "o", "out":
				return protocol.DirectionOut, nil
			default:
				c.Show("Select Mode:", "i:IN | o:OUT")
			}
		}
	}
}
