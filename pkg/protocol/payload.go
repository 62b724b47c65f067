package protocol

// Payload is the decoded body of a successful response. The concrete type is
// fixed by the action kind.
type Payload interface {
	Kind() ActionKind
}

type SequencePayload struct {
	Forward []XY `json:"fw_seq_length"`
	Reverse []XY `json:"rv_seq_length"`
}

type PairedPayload struct {
	Slices []Slice
}

type NucleotidePayload struct {
	Forward           []Bubble `json:"fw_json"`
	ReverseComplement []Bubble `json:"rvc_json"`
}

type CalcIdentityPayload struct {
	// Calculated is true when the backend computed identities on this call,
	// false when they were already present.
	Calculated bool
	Raw        string
}

type IdentityPayload struct {
	Points []XY
}

type DiamondPayload struct {
	Body string
}

func (SequencePayload) Kind() ActionKind     { return ActionSequence }
func (PairedPayload) Kind() ActionKind       { return ActionPaired }
func (NucleotidePayload) Kind() ActionKind   { return ActionNucleotide }
func (CalcIdentityPayload) Kind() ActionKind { return ActionCalcIdentity }
func (IdentityPayload) Kind() ActionKind     { return ActionIdentity }
func (DiamondPayload) Kind() ActionKind      { return ActionDiamond }

// Response is either Success or Failure.
type Response interface {
	isResponse()
}

type Success struct {
	Payload Payload
}

type Failure struct {
	Code   ErrorCode
	Status int
	Err    error
}

func (Success) isResponse() {}
func (Failure) isResponse() {}

func (f Failure) Error() string {
	if f.Err != nil {
		return string(f.Code) + ": " + f.Err.Error()
	}
	return string(f.Code)
}
