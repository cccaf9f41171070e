package quiz

// continueMsg carries the on-loop half of an Executor task.
type continueMsg struct {
	then func()
}

// pendingConfirm is a confirmation prompt awaiting y/n.
type pendingConfirm struct {
	prompt  string
	proceed func()
}

// mode is what the screen is currently drawing.
type mode int

const (
	modeNoData mode = iota
	modeQuestion
	modeResult
	modeSummary
)

// Input focus targets.
const (
	focusName = iota
	focusSystem
)
