// Package pixel implements the 1-bit color and page-organized image types used by
// KS0108-class graphic LCDs.
//
// This module provides color models and images compatible with Go's native [color.Color]
// and [image.Image] / [draw.Image] interfaces. [MonoVerticalLSBImage] stores pixels in the
// same layout as the controller memory: one byte per column per 8-pixel page, least
// significant bit on top.
package pixel
