// Package keywords finds known domain terms inside free text.
package keywords

import "strings"

// Vocabulary is an ordered list of lowercase terms.
//
// Matching is plain substring containment on the lowercased text. There is no
// tokenization or word-boundary check, so short terms produce false positives
// ("r" is found inside "server"). Callers rely on this behaviour for scoring,
// keep it as is.
type Vocabulary struct {
	terms []string
}

var defaultTerms = []string{
	"python", "r", "sql", "java", "c++", "scala",
	"tensorflow", "pytorch", "keras", "scikit-learn", "xgboost",
	"pandas", "numpy", "matplotlib", "seaborn",
	"machine learning", "deep learning", "neural network",
	"nlp", "computer vision", "reinforcement learning",
	"data visualization", "tableau", "power bi",
	"aws", "azure", "gcp", "docker", "kubernetes",
	"spark", "hadoop", "airflow",
	"statistics", "a/b testing", "hypothesis testing",
	"regression", "classification", "clustering",
	"time series", "forecasting", "recommendation system",
	"api", "rest", "microservices",
	"git", "ci/cd", "agile", "scrum",
}

// DefaultTerms returns a copy of the built-in technical vocabulary.
func DefaultTerms() []string {
	return append([]string(nil), defaultTerms...)
}

// Default returns the built-in technical vocabulary.
func Default() *Vocabulary {
	return New(defaultTerms)
}

// New builds a vocabulary from terms. Terms are lowercased and trimmed, empty
// and repeated terms are dropped, order is kept.
func New(terms []string) *Vocabulary {
	seen := make(map[string]struct{}, len(terms))
	v := &Vocabulary{terms: make([]string, 0, len(terms))}

	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		v.terms = append(v.terms, term)
	}

	return v
}

// Terms returns a copy of the vocabulary terms.
func (v *Vocabulary) Terms() []string {
	if v == nil {
		return nil
	}
	return append([]string(nil), v.terms...)
}

func (v *Vocabulary) Len() int {
	if v == nil {
		return 0
	}
	return len(v.terms)
}

// Extract returns the vocabulary terms found in text, in vocabulary order.
func (v *Vocabulary) Extract(text string) []string {
	found := make([]string, 0)
	if v == nil || text == "" {
		return found
	}

	lower := strings.ToLower(text)
	for _, term := range v.terms {
		if strings.Contains(lower, term) {
			found = append(found, term)
		}
	}

	return found
}

// ContainsAny reports whether any of terms is a substring of the lowercased text.
// Terms are expected to be lowercase already.
func ContainsAny(text string, terms []string) bool {
	if text == "" {
		return false
	}

	lower := strings.ToLower(text)
	for _, term := range terms {
		if term != "" && strings.Contains(lower, term) {
			return true
		}
	}

	return false
}

// CountContained returns how many of terms occur in the lowercased text.
// Each term counts at most once regardless of repeats.
func CountContained(text string, terms []string) int {
	if text == "" {
		return 0
	}

	lower := strings.ToLower(text)
	count := 0
	for _, term := range terms {
		if term != "" && strings.Contains(lower, term) {
			count++
		}
	}

	return count
}
