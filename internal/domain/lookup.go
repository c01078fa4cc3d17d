package domain

// RejectionReason classifies why the response validator refused a reply.
type RejectionReason string

const (
	RejectEmptyResponse        RejectionReason = "empty_response"
	RejectMultiLineResponse    RejectionReason = "multi_line_response"
	RejectDisallowedCharacters RejectionReason = "disallowed_characters"
	RejectTooLong              RejectionReason = "too_long"
)

// LookupRequest captures one natural-language lookup as issued by the caller.
type LookupRequest struct {
	Prompt  string
	ModelID string // empty selects the configured default
	NoCopy  bool   // skip clipboard copy of the accepted command
}

// LookupResult is the terminal outcome of one lookup.
// Accepted results always carry a non-empty single-line command.
type LookupResult struct {
	Accepted  bool
	Command   string
	Rejection RejectionReason // set only when a validation rejection terminated the lookup

	// Copied reports that the accepted command actually reached the system
	// clipboard, not merely that a copy was attempted.
	Copied bool

	ModelID   string
	Family    ProviderFamily
	LatencyMS int64

	// PersistErr reports a history/usage write failure that occurred after
	// the command itself was produced. A storage outage never masks a
	// successful lookup.
	PersistErr error
}
