// Package render turns a dsp.Matrix into a viewable image. It consumes
// only the matrix, the sample rate, and the frequency bank that produced
// it — never the wavelet factory or any other engine internal — per the
// C7 visualisation-adapter contract: the engine has no idea this package
// exists.
package render
