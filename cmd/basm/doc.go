// The basm command line tool compiles basm source into bf and, optionally,
// runs the result directly.
//
// Usage:
//
//	basm compile [flags] file
//	basm run [flags] file
//
// compile reads a basm source file, normalizes and emits it, and writes the
// resulting bf program either to stdout or to the file named by -o.
//
// run feeds a bf file straight into an in-process bf interpreter; with
// -source it first compiles the file as basm source. It wires stdin/stdout
// the way retro wired its console: stdin is put in raw tty mode unless
// -no-raw-tty is given or the switch fails, line-buffered otherwise.
package main
