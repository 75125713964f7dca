package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`

// Stopper stops a running profiler and flushes its output.
type Stopper interface{ Stop() }

// Profiler describes a profiling session.
type Profiler struct {
	Mode  string // one of [Modes]; empty disables profiling
	Path  string // output directory; empty uses the working directory
	Quiet bool   // suppress the profiler's own log messages
}

// Start begins profiling and returns the [Stopper] ending it.
//
// If the build tag is not set, or Mode is empty or not supported, Start
// returns a no-op Stopper. Stop is always safe to call.
func (p Profiler) Start() Stopper {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

// Enabled reports whether profiling support is compiled in.
func Enabled() bool {
	return len(Modes()) > 0
}

type ignore struct{}

func (ignore) Stop() {}
