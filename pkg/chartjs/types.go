package chartjs

type Stats struct {
	ChartsProcessed   int64
	ChartsTransformed int64
	HookErrors        int64
	HookTimeouts      int64
}

type Options struct {
	// HookTimeout is a Go duration string; empty disables the limit.
	HookTimeout string
}

type ModuleInfo struct {
	Name         string
	ScriptPath   string
	HasInit      bool
	HasTransform bool
	HasOnError   bool
}
