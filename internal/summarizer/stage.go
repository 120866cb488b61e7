package summarizer

// stage is the position of a request in the dispatch state machine.
type stage int

const (
	stagePending stage = iota
	stagePromptBuilt
	stageProviderCalled
	stageNormalized
	stagePersisted
)

func (s stage) String() string {
	switch s {
	case stagePending:
		return "PENDING"
	case stagePromptBuilt:
		return "PROMPT_BUILT"
	case stageProviderCalled:
		return "PROVIDER_CALLED"
	case stageNormalized:
		return "NORMALIZED"
	case stagePersisted:
		return "PERSISTED"
	default:
		return "UNKNOWN"
	}
}
