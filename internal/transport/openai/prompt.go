package openai

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/geoknow/internal/domain"
)

const contextContentRunes = 500

// DefaultSystemPrompt frames the generator as a spatiotemporal knowledge expert.
const DefaultSystemPrompt = "You are an expert in spatiotemporal geographic knowledge. " +
	"Answer accurately from the retrieved knowledge provided, cite the source of every claim " +
	"with its place and time, say so when the knowledge is insufficient, and keep a professional, friendly tone."

const answerRules = `Rules:
1. Use only the knowledge above; do not add outside information.
2. Cite a source for every conclusion, e.g. [Source: Forbidden City, Beijing, Ming(1368-1644)].
3. Use short numbered points when there are several, in plain language.`

const structurePrompt = `Analyze the user question and return ONLY a JSON object with these keys:
{
  "semantic_query": "the question rewritten for semantic retrieval",
  "intent_type": "fact | comparison | explanation | exploration",
  "keywords": ["core keyword"],
  "category": "knowledge category such as history, geography, culture, architecture, or null",
  "geo_hints": ["place names mentioned in the question"],
  "time_hints": ["time expressions mentioned in the question"]
}`

// buildUserPrompt numbers the contexts and appends the question and answering rules.
func buildUserPrompt(question string, contexts []domain.GenerationContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n\nRelevant knowledge:\n", question)
	for i, c := range contexts {
		fmt.Fprintf(&b, "\n[Document %d]\nTitle: %s\nLocation: %s\nTime: %s\nContent: %s\n",
			i+1,
			orUnknown(c.Title, "unknown title"),
			orUnknown(c.Address, "unknown location"),
			orUnknown(c.DisplayTime, "unknown time"),
			truncateRunes(c.Content, contextContentRunes),
		)
	}
	b.WriteString("\n")
	b.WriteString(answerRules)
	return b.String()
}

func orUnknown(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
