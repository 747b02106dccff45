package contentcmd

// FeatureGates exposes runtime toggles consulted by content command handlers.
// BlogEnabled should read the project's blog module flag.
type FeatureGates struct {
	BlogEnabled func() bool
}

func (g FeatureGates) blogEnabled() bool {
	if g.BlogEnabled == nil {
		return true
	}
	return g.BlogEnabled()
}
