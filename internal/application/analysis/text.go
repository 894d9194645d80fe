package analysis

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/abadojack/whatlanggo"
	"github.com/hexaciphers/hexaciphers/pkg/domain"
)

var (
	urlPattern        = regexp.MustCompile(`https?://\S+`)
	emailPattern      = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	mentionPattern    = regexp.MustCompile(`@[\p{L}\p{M}\p{N}_]+`)
	hashtagPattern    = regexp.MustCompile(`#[\p{L}\p{M}\p{N}_]+`)
	whitespacePattern = regexp.MustCompile(`\s+`)
	disallowedPattern = regexp.MustCompile(`[^\p{L}\p{M}\p{N}_\s#@.,!?-]`)
)

// TextProcessor cleans and annotates raw post text
type TextProcessor struct {
	lexicon   *Lexicon
	stopwords map[string]struct{}
}

// NewTextProcessor creates a text processor backed by the given lexicon
func NewTextProcessor(lexicon *Lexicon) *TextProcessor {
	if lexicon == nil {
		lexicon = DefaultLexicon()
	}

	stop := make(map[string]struct{}, len(lexicon.Stopwords))
	for _, w := range lexicon.Stopwords {
		stop[w] = struct{}{}
	}

	return &TextProcessor{
		lexicon:   lexicon,
		stopwords: stop,
	}
}

// Process runs the full preprocessing pipeline over text
func (p *TextProcessor) Process(text string) *domain.ProcessedText {
	if text == "" {
		return &domain.ProcessedText{
			Language:            "unknown",
			Hashtags:            []string{},
			Mentions:            []string{},
			Keywords:            []string{},
			IndiaClassification: domain.ClassificationNeutral,
		}
	}

	language := p.DetectLanguage(text)
	translated := text
	if language != "en" && language != "unknown" {
		translated = p.Translate(text)
	}

	return &domain.ProcessedText{
		OriginalText:        text,
		CleanedText:         p.Clean(text),
		Language:            language,
		Hashtags:            ExtractHashtags(text),
		Mentions:            ExtractMentions(text),
		Keywords:            p.Keywords(text),
		SentimentIndicators: p.SentimentIndicators(text),
		IndiaClassification: p.IndiaRelation(text),
		TranslatedText:      translated,
	}
}

// Clean lowercases text and strips URLs, emails, mentions and stray symbols
func (p *TextProcessor) Clean(text string) string {
	if text == "" {
		return ""
	}

	text = strings.ToLower(text)
	text = urlPattern.ReplaceAllString(text, "")
	text = emailPattern.ReplaceAllString(text, "")
	text = mentionPattern.ReplaceAllString(text, "")
	text = disallowedPattern.ReplaceAllString(text, "")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// ExtractHashtags returns the lowercased hashtags of text in order of appearance
func ExtractHashtags(text string) []string {
	return lowerAll(hashtagPattern.FindAllString(text, -1))
}

// ExtractMentions returns the lowercased @mentions of text in order of appearance
func ExtractMentions(text string) []string {
	return lowerAll(mentionPattern.FindAllString(text, -1))
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}

// DetectLanguage returns the ISO 639-1 code of text, or "unknown"
func (p *TextProcessor) DetectLanguage(text string) string {
	if len([]rune(strings.TrimSpace(text))) < 3 {
		return "unknown"
	}

	code := whatlanggo.DetectLang(text).Iso6391()
	if code == "" {
		return "unknown"
	}
	return code
}

// Translate substitutes known Hindi terms with their English equivalents
func (p *TextProcessor) Translate(text string) string {
	terms := make([]string, 0, len(p.lexicon.HindiGlossary))
	for hindi := range p.lexicon.HindiGlossary {
		terms = append(terms, hindi)
	}
	// Longer terms first so a term containing another is replaced whole
	sort.Slice(terms, func(i, j int) bool {
		if len(terms[i]) != len(terms[j]) {
			return len(terms[i]) > len(terms[j])
		}
		return terms[i] < terms[j]
	})

	for _, hindi := range terms {
		text = strings.ReplaceAll(text, hindi, p.lexicon.HindiGlossary[hindi])
	}
	return text
}

// Keywords returns the distinct alphabetic words longer than two letters
// that are not stopwords, sorted
func (p *TextProcessor) Keywords(text string) []string {
	cleaned := p.Clean(text)
	if cleaned == "" {
		return []string{}
	}

	seen := make(map[string]struct{})
	for _, word := range strings.FieldsFunc(cleaned, isTokenSeparator) {
		if len([]rune(word)) <= 2 || !isAlpha(word) {
			continue
		}
		if _, stop := p.stopwords[word]; stop {
			continue
		}
		seen[word] = struct{}{}
	}

	keywords := make([]string, 0, len(seen))
	for w := range seen {
		keywords = append(keywords, w)
	}
	sort.Strings(keywords)
	return keywords
}

func isTokenSeparator(r rune) bool {
	return unicode.IsSpace(r) || strings.ContainsRune("#@.,!?-", r)
}

func isAlpha(word string) bool {
	for _, r := range word {
		if !unicode.IsLetter(r) && !unicode.IsMark(r) {
			return false
		}
	}
	return true
}

// SentimentIndicators counts positive and negative lexicon hits in text
func (p *TextProcessor) SentimentIndicators(text string) domain.SentimentIndicators {
	if text == "" {
		return domain.SentimentIndicators{}
	}

	lower := strings.ToLower(text)
	ind := domain.SentimentIndicators{
		Positive: countMatches(lower, p.lexicon.PositiveWords),
		Negative: countMatches(lower, p.lexicon.NegativeWords),
	}
	if ind.Positive == 0 && ind.Negative == 0 {
		ind.Neutral = 1
	}
	return ind
}

// IndiaRelation labels text by comparing pro and anti India phrase hits
func (p *TextProcessor) IndiaRelation(text string) domain.Classification {
	if text == "" {
		return domain.ClassificationNeutral
	}

	lower := strings.ToLower(text)
	anti := countMatches(lower, p.lexicon.AntiIndia)
	pro := countMatches(lower, p.lexicon.ProIndia)

	switch {
	case anti > pro:
		return domain.ClassificationAntiIndia
	case pro > anti:
		return domain.ClassificationProIndia
	default:
		return domain.ClassificationNeutral
	}
}
