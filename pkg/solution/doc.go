// Package solution formats a model reply for display: it splits the reply
// into prose and fenced code, resolves inline markup in the prose and
// highlights the code with chroma.
package solution
