// Package generation defines the boundary to the language models that suggest
// new vocabulary pairs. Concrete clients live under internal/platform; this
// package holds the Generator interface, the shared prompt and the tolerant
// parser that turns a model reply into pairs.
package generation
