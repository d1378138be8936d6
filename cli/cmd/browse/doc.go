// Package browse provides an interactive terminal browser over the entries
// of a parsed descriptor. Keys are fuzzy-matched as they are typed, and
// Enter resolves the input the same way the generated lookup does.
package browse
