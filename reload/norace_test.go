//go:build !race

package reload

var pluginFlags []string
