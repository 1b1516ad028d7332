package gate

import "github.com/alfredjeanlab/gatehouse/internal/protocol"

// ResultText maps an outcome to the two display lines shown at the gate. It
// is total over the reason vocabulary: any reason this build does not know,
// including an absent one, falls through to the generic denial text.
func ResultText(out protocol.AccessOutcome) (primary, secondary string) {
	if out.Status == protocol.StatusGranted {
		return "ACCESS GRANTED", "Welcome!"
	}
	switch out.Reason {
	case protocol.ReasonBanned:
		primary = "USER BANNED"
	case protocol.ReasonDirectionError:
		primary = "ALREADY IN/OUT"
	default:
		primary = "ACCESS DENIED"
	}
	return primary, string(out.Reason)
}
