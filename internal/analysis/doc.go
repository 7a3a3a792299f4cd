// Package analysis implements the build's whole-program reachability pass.
//
// The engine seeds a call graph from the catalog, walks it from the
// manifest's entry points with a pool of workers, and delivers
// reachability handlers: callbacks that fire at most once, on a worker
// goroutine, the first time their watched method is proven reachable.
// Handlers for different methods may fire concurrently, so anything a
// handler touches must be safe for concurrent use.
package analysis
