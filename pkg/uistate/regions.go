package uistate

import "github.com/go-go-golems/readviz/pkg/protocol"

type Region string

const (
	RegionSequenceError   Region = "sequence_error"
	RegionPairedError     Region = "paired_error"
	RegionNucleotideError Region = "nucleotide_error"
	RegionIdentityError   Region = "identity_error"
	RegionDiamondError    Region = "diamond_error"

	RegionIdentityStatus Region = "identity_success"
	RegionIdentityLoader Region = "load_identity"
)

// ErrorRegionFor returns the region failures of kind are written to.
func ErrorRegionFor(kind protocol.ActionKind) Region {
	switch kind {
	case protocol.ActionSequence:
		return RegionSequenceError
	case protocol.ActionPaired:
		return RegionPairedError
	case protocol.ActionNucleotide:
		return RegionNucleotideError
	case protocol.ActionIdentity, protocol.ActionCalcIdentity:
		return RegionIdentityError
	case protocol.ActionDiamond:
		return RegionDiamondError
	default:
		return ""
	}
}

const (
	MessageNoDataLoaded = "No known records are loaded, please make sure you uploaded your files in this session"
	MessageNotFound     = "Not found, please report this error to the developers"
	MessageServerError  = "Internal server error, please contact the developers"
	MessageUnhandled    = "Unexpected response from the server, please contact the developers"

	MessageIdentityCalculated = "Identity successful calculated"
	MessageIdentityPresent    = "Identity already calculated"
)

// MessageFor returns the fixed user-facing text for code.
func MessageFor(code protocol.ErrorCode) string {
	switch code {
	case protocol.ErrNoDataLoaded:
		return MessageNoDataLoaded
	case protocol.ErrNotFound:
		return MessageNotFound
	case protocol.ErrServerError:
		return MessageServerError
	default:
		return MessageUnhandled
	}
}
