// Package main provides the wsicheck command-line tool.
//
// wsicheck checks whole-slide images (SVS, pyramidal TIFF, BigTIFF) for
// structurally damaged JPEG tiles without decoding any pixels.
//
// Usage:
//
//	wsicheck validate slide.svs
//	wsicheck validate --json --first-only slides/
//	wsicheck inspect slide.svs
//
// See --help for all available options.
package main

func main() {
	Execute()
}
