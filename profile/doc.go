// Package profile provides optional runtime profiling for cfggen.
//
// Profiling is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof -o cfggen .
//
// Without the tag, [Profiler.Start] returns a no-op and [Modes] is empty.
//
// # Modes
//
//   - allocs:    memory allocations
//   - block:     blocking on synchronization primitives
//   - clock:     wall-clock time
//   - cpu:       CPU time
//   - goroutine: goroutine stacks
//   - heap:      live heap allocations
//   - mem:       general memory
//   - mutex:     mutex contention
//   - thread:    thread creation
//   - trace:     execution trace
//
// # Usage
//
//	p := profile.Profiler{Mode: "cpu", Path: "/tmp/cfggen-pprof"}
//	defer p.Start().Stop()
//
// Profiles are written to Path and can be inspected with:
//
//	go tool pprof -http=: /tmp/cfggen-pprof/cpu.pprof
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
