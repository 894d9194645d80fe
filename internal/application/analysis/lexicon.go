package analysis

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Lexicon holds the keyword lists used by the keyword classifier and the
// text processor
type Lexicon struct {
	PositiveWords []string          `yaml:"positive_words"`
	NegativeWords []string          `yaml:"negative_words"`
	ProIndia      []string          `yaml:"pro_india"`
	AntiIndia     []string          `yaml:"anti_india"`
	IndiaMentions []string          `yaml:"india_mentions"`
	Stopwords     []string          `yaml:"stopwords"`
	HindiGlossary map[string]string `yaml:"hindi_glossary"`
}

// DefaultLexicon returns the built-in keyword lists
func DefaultLexicon() *Lexicon {
	return &Lexicon{
		PositiveWords: []string{"good", "great", "excellent", "amazing", "wonderful", "love", "like", "happy", "proud"},
		NegativeWords: []string{"bad", "terrible", "awful", "hate", "dislike", "angry", "sad", "disappointed"},
		ProIndia: []string{
			"proud india", "love india", "support india", "incredible india",
			"amazing india", "beautiful india", "great india", "strong india",
			"digital india", "make in india", "proud indian", "jai hind",
		},
		AntiIndia: []string{
			"boycott india", "anti india", "hate india", "destroy india",
			"fake india", "propaganda india", "corrupt india", "evil india",
			"boycottindia", "antiindia", "fakeindia",
		},
		IndiaMentions: []string{"india", "भारत"},
		Stopwords: []string{
			"a", "about", "above", "after", "again", "against", "all", "am", "an", "and", "any", "are",
			"as", "at", "be", "because", "been", "before", "being", "below", "between", "both", "but",
			"by", "can", "did", "do", "does", "doing", "down", "during", "each", "few", "for", "from",
			"further", "had", "has", "have", "having", "he", "her", "here", "hers", "herself", "him",
			"himself", "his", "how", "i", "if", "in", "into", "is", "it", "its", "itself", "just", "me",
			"more", "most", "my", "myself", "no", "nor", "not", "now", "of", "off", "on", "once", "only",
			"or", "other", "our", "ours", "ourselves", "out", "over", "own", "same", "she", "should",
			"so", "some", "such", "than", "that", "the", "their", "theirs", "them", "themselves",
			"then", "there", "these", "they", "this", "those", "through", "to", "too", "under",
			"until", "up", "very", "was", "we", "were", "what", "when", "where", "which", "while",
			"who", "whom", "why", "will", "with", "you", "your", "yours", "yourself", "yourselves",
		},
		HindiGlossary: map[string]string{
			"भारत":  "India",
			"देश":   "country",
			"सरकार": "government",
			"लोग":   "people",
			"समाज":  "society",
		},
	}
}

// LoadLexicon reads a YAML lexicon. Lists missing from the file keep their
// built-in values.
func LoadLexicon(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lexicon: %w", err)
	}

	var fromFile Lexicon
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return nil, fmt.Errorf("failed to parse lexicon: %w", err)
	}

	lex := DefaultLexicon()
	if len(fromFile.PositiveWords) > 0 {
		lex.PositiveWords = fromFile.PositiveWords
	}
	if len(fromFile.NegativeWords) > 0 {
		lex.NegativeWords = fromFile.NegativeWords
	}
	if len(fromFile.ProIndia) > 0 {
		lex.ProIndia = fromFile.ProIndia
	}
	if len(fromFile.AntiIndia) > 0 {
		lex.AntiIndia = fromFile.AntiIndia
	}
	if len(fromFile.IndiaMentions) > 0 {
		lex.IndiaMentions = fromFile.IndiaMentions
	}
	if len(fromFile.Stopwords) > 0 {
		lex.Stopwords = fromFile.Stopwords
	}
	if len(fromFile.HindiGlossary) > 0 {
		lex.HindiGlossary = fromFile.HindiGlossary
	}

	lex.normalize()
	return lex, nil
}

// normalize lowercases every phrase so matching can run on lowercased text
func (l *Lexicon) normalize() {
	for _, list := range [][]string{l.PositiveWords, l.NegativeWords, l.ProIndia, l.AntiIndia, l.IndiaMentions, l.Stopwords} {
		for i := range list {
			list[i] = strings.ToLower(strings.TrimSpace(list[i]))
		}
	}
}

// countMatches returns how many phrases occur in text. Matching is by
// substring, so "like" also matches "likely".
func countMatches(text string, phrases []string) int {
	n := 0
	for _, p := range phrases {
		if p != "" && strings.Contains(text, p) {
			n++
		}
	}
	return n
}
