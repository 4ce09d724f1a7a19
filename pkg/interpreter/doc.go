// Package interpreter executes loaded HPL programs. It walks the AST produced
// by the parser against one global store per program and one local store per
// call, dispatches methods along single-inheritance class chains and reports
// failures as classified diagnostics carrying a source position and the call
// stack at the raise point.
package interpreter
