package derive

// StepResultKind enumerates the closed set of outcomes a single Step call can
// report (spec §3's StepResult tagged variant).
type StepResultKind int

const (
	// PreparedAttributes means one OptimismAttributesWithParent was pushed
	// onto the prepared queue.
	PreparedAttributes StepResultKind = iota
	// AdvancedOrigin means the L1 origin was advanced by exactly one block.
	AdvancedOrigin
	// OriginAdvanceErr means the attempt to advance the origin (made after a
	// temporary Eof from the top stage) itself failed.
	OriginAdvanceErr
	// StepFailed means the top stage returned an error that was neither Ok
	// nor a temporary Eof; the wrapped error is left for the caller to
	// classify (spec §4.2 point 4).
	StepFailed
)

func (k StepResultKind) String() string {
	switch k {
	case PreparedAttributes:
		return "PreparedAttributes"
	case AdvancedOrigin:
		return "AdvancedOrigin"
	case OriginAdvanceErr:
		return "OriginAdvanceErr"
	case StepFailed:
		return "StepFailed"
	default:
		return "Unknown"
	}
}

// StepResult is the closed-variant value type returned by
// DerivationPipeline.Step: exactly one of PreparedAttributes/AdvancedOrigin
// (Err == nil) or OriginAdvanceErr/StepFailed (Err != nil). Step itself never
// returns a plain error — see spec §4.2.
type StepResult struct {
	Kind StepResultKind
	Err  error
}

func (r StepResult) String() string {
	if r.Err != nil {
		return r.Kind.String() + ": " + r.Err.Error()
	}
	return r.Kind.String()
}

func prepared() StepResult                { return StepResult{Kind: PreparedAttributes} }
func advancedOrigin() StepResult          { return StepResult{Kind: AdvancedOrigin} }
func originAdvanceErr(e error) StepResult { return StepResult{Kind: OriginAdvanceErr, Err: e} }
func stepFailed(e error) StepResult       { return StepResult{Kind: StepFailed, Err: e} }
