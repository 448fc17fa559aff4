// Package reload hosts a swappable module and replaces it while the process
// keeps running.
//
// A Host owns the api.State record and the api.Context. It loads the
// module artifact through a Loader, polls the artifact's modification time
// once per frame and, when it changes, calls Cleanup on the old module,
// loads a private copy of the new artifact and calls OnReload. The State
// record is never reallocated, so whatever the old module wrote survives
// the swap.
//
// Builds run out of process through a Builder. At most one build is in
// flight; the host polls it without blocking and never swaps modules on
// build completion. Only the artifact timestamp triggers a swap.
//
// Plugins are built by PluginBuilder: it copies the module package into
// a generated package main per build, since the Go runtime neither opens
// two plugins with one package path nor replaces a package it already
// loaded. ExecBuilder runs any other build command.
//
// Basic usage:
//
//	host, err := reload.NewHost(
//	    reload.WithArtifact("build/fractal-app.so"),
//	    reload.WithBuilder(&reload.PluginBuilder{Source: "app", Output: "build/fractal-app.so"}),
//	)
//	if err != nil {
//	    return err
//	}
//	defer host.Shutdown(p)
//
//	if err := host.Load(p); err != nil {
//	    log.Print(err) // the host keeps running without a module
//	}
//	for running {
//	    host.PollBuild()
//	    host.CheckReload(p)
//	    host.Frame(p)
//	}
package reload
