// Package models lists the OpenAI text-to-speech models available for an
// API key, for use with the openai speech provider.
package models
