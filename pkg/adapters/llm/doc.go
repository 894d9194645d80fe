// Package llm selects the text classifier backend.
//
// Providers:
//   - keyword: lexicon-based classifier, no network access
//   - anthropic: Claude sentiment labels with keyword fallback
package llm
