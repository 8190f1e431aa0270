// Package lib acts as a library for modules that do not fit
// strictly into other layers.
//
// It holds small, dependency-light helpers shared by the
// repository and service layers, such as slug generation.
package lib
