package vectorize

import "strings"

// English stop words excluded from the vocabulary. Resume and job description
// text is dominated by these otherwise.
var stopWordList = []string{
	"a", "about", "above", "after", "again", "against", "all", "also", "am",
	"an", "and", "any", "are", "as", "at", "be", "because", "been", "before",
	"being", "below", "between", "both", "but", "by", "can", "cannot", "could",
	"did", "do", "does", "doing", "down", "during", "each", "etc", "few",
	"for", "from", "further", "had", "has", "have", "having", "he", "her",
	"here", "hers", "herself", "him", "himself", "his", "how", "however", "i",
	"if", "in", "into", "is", "it", "its", "itself", "just", "may", "me",
	"might", "more", "most", "must", "my", "myself", "no", "nor", "not", "of",
	"off", "on", "once", "only", "or", "other", "our", "ours", "ourselves",
	"out", "over", "own", "per", "same", "shall", "she", "should", "so",
	"some", "such", "than", "that", "the", "their", "theirs", "them",
	"themselves", "then", "there", "these", "they", "this", "those", "through",
	"to", "too", "under", "until", "up", "upon", "very", "was", "we", "were",
	"what", "when", "where", "which", "while", "who", "whom", "why", "will",
	"with", "within", "without", "would", "you", "your", "yours", "yourself",
	"yourselves",
}

var stopWords = func() map[string]struct{} {
	set := make(map[string]struct{}, len(stopWordList))
	for _, w := range stopWordList {
		set[strings.ToLower(w)] = struct{}{}
	}
	return set
}()

func isStopWord(token string) bool {
	_, ok := stopWords[token]
	return ok
}
