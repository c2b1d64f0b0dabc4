// Package process terminates the Chrome process tree left behind by the
// browser package.
package process
