// Package llm categorizes cards that the oracle-text rules could not place,
// by asking a hosted language model (Anthropic or OpenAI) in batches.
package llm
