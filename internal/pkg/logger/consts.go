package logger

const (
	ComponentNameAPI     = "api"
	ComponentNameResolve = "resolve"
	ComponentNameStatus  = "status"
	ComponentNameWait    = "wait"
)
