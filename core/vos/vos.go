// Package vos is the interpreter's view of the operating system: the
// environment inherited by launched programs, program lookup, and the
// process lifecycle.
package vos
