// Package openai implements generation.Generator on the OpenAI chat
// completions API through sashabaranov/go-openai.
package openai
