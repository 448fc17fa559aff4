//go:build race

package reload

// pluginFlags builds test plugins the way the test binary was built.
var pluginFlags = []string{"-race"}
