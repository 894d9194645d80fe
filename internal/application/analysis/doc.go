// Package analysis implements content analysis for collected posts.
//
// It provides:
//   - TextProcessor: cleaning, hashtag/mention/keyword extraction, language
//     detection and glossary translation
//   - KeywordClassifier: lexicon-based sentiment and India-relation labels
//   - ContentRiskScore and BotProbability used by URL analysis
//
// Keyword lists come from DefaultLexicon or a YAML file loaded with LoadLexicon.
package analysis
