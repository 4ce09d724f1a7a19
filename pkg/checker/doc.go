// Package checker implements static checks over a loaded HPL program. HPL is
// dynamically typed, so the checker only reports what is certain to fail
// (calls to undefined functions, arity mismatches against known definitions,
// missing methods on declared objects) and warns about code that is likely
// wrong. `hpl check` runs it after the document loads.
package checker
