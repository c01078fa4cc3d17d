package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/doeshing/chatcmd-go/internal/domain"
)

var (
	commandStyle = color.New(color.FgGreen, color.Bold)
	noteStyle    = color.New(color.FgYellow)
	errorStyle   = color.New(color.FgRed)
)

// RenderResult prints the terminal outcome of one lookup. The accepted
// command goes to out alone on its own line so the output stays pipeable;
// everything else goes to errOut.
func RenderResult(out, errOut io.Writer, result domain.LookupResult) {
	if result.Accepted {
		commandStyle.Fprintln(out, result.Command)
		if result.Copied {
			noteStyle.Fprintln(errOut, "(copied to clipboard)")
		}
	} else if result.Rejection != "" {
		errorStyle.Fprintf(errOut, "No usable command: %s\n", rejectionMessage(result.Rejection))
	}
	if result.PersistErr != nil {
		noteStyle.Fprintf(errOut, "warning: history not saved: %v\n", result.PersistErr)
	}
}

func rejectionMessage(reason domain.RejectionReason) string {
	switch reason {
	case domain.RejectEmptyResponse:
		return "the model returned an empty reply"
	case domain.RejectMultiLineResponse:
		return "the model returned multiple lines instead of a single command"
	case domain.RejectDisallowedCharacters:
		return "the reply contains characters that cannot appear in a shell command"
	case domain.RejectTooLong:
		return "the reply is too long to be a single command"
	default:
		return string(reason)
	}
}

// RenderError prints a failure in user terms, mapping the error taxonomy to
// actionable messages.
func RenderError(errOut io.Writer, err error) {
	errorStyle.Fprintf(errOut, "error: %s\n", userMessage(err))
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrCredentialMissing):
		return fmt.Sprintf("%v (run `chatcmd key set <provider>` first)", err)
	case errors.Is(err, domain.ErrAuth):
		return fmt.Sprintf("%v (the stored key was refused; run `chatcmd key validate <provider>`)", err)
	case errors.Is(err, domain.ErrRateLimited):
		return fmt.Sprintf("%v (the provider is rate limiting; try again shortly)", err)
	case errors.Is(err, domain.ErrTimeout):
		return fmt.Sprintf("%v (the provider did not answer in time)", err)
	default:
		return err.Error()
	}
}
