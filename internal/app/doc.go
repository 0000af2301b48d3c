// Package app wires the pieces together: it builds the logger, loads type
// manifests into a registry at startup, and runs the decode-and-render
// pipeline over a document. Schema mistakes surface in NewApp, before any
// document is read; document mistakes surface in Run.
package app
