// Package profile provides optional runtime profiling for the mimolu command.
//
// Profiling is implemented with [github.com/pkg/profile] and is compiled in
// only when building with the "pprof" build tag:
//
//	go build -tags pprof .
//
// Without the tag, [Modes] is empty and [Profiler.Start] always returns a
// no-op [Stopper].
//
// # Modes
//
// With the tag, the supported modes are allocs, block, clock, cpu,
// goroutine, heap, mem, mutex, thread, and trace. Each writes a profile file
// named for the mode (e.g. cpu.pprof) into the profiler's directory:
//
//	p := profile.Profiler{Mode: "cpu", Path: "/tmp/mimolu"}
//	defer p.Start().Stop()
//
// The command exposes these as --pprof-mode and --pprof-dir. The result is
// analyzed with the pprof tool:
//
//	go tool pprof -http=: /tmp/mimolu/cpu.pprof
package profile
