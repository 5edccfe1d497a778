// Package gemini implements generation.Generator on Google's Gemini API
// through google.golang.org/genai.
package gemini
