// Package content supplies note text to the publisher.
//
// What to say is out of scope for the engine; this package only offers the
// domain.ContentSource implementations the CLI wires in: Static for text
// given on the command line and Ollama for a local model. Fit bounds the
// result to a note-sized length.
package content
