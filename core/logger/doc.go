// Package logger records the commands run by the interpreter as newline
// delimited JSON events and summarizes them.
package logger
