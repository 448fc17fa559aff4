package hud

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Backend labels shown under the frame time.
const (
	LabelCPU = "CPU"
	LabelGPU = "GPU"
)

var printer = message.NewPrinter(language.English)

// FrameTime formats a frame duration in seconds as milliseconds with two
// decimals.
func FrameTime(dt float64) string {
	return printer.Sprintf("%.2f ms", dt*1000)
}

// Backend returns the label for the kernel that produced the frame.
func Backend(gpu bool) string {
	if gpu {
		return LabelGPU
	}
	return LabelCPU
}

// Zoom formats the view scale as a zoom factor relative to base.
func Zoom(scale, base float64) string {
	if scale <= 0 {
		return printer.Sprintf("zoom -")
	}
	return printer.Sprintf("zoom %.0fx", base/scale)
}

// Coordinates formats a complex point as "(re ±imi)" with two decimals.
func Coordinates(re, im float64) string {
	return printer.Sprintf("(%.2f %+.2fi)", re, im)
}
