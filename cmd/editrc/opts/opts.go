package opts

// RootOpts contains shared options used by all commands
type RootOpts struct {
	// PlanFile is the plan the apply and watch commands load
	PlanFile string
	// Debug enables debug logging
	Debug bool
}
