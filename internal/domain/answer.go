package domain

// DefaultTopK is used when a request does not ask for a result count.
const DefaultTopK = 5

// NoAnswerText is returned when retrieval finds no evidence.
const NoAnswerText = "No relevant spatiotemporal knowledge was found, so this question cannot be answered."

// QueryOptions tune a single question.
type QueryOptions struct {
	TopK int
}

// GenerationContext is one numbered piece of evidence handed to the generator.
type GenerationContext struct {
	Title       string
	Address     string
	DisplayTime string
	Content     string
}

// Answer is the blocking response to a question.
type Answer struct {
	Text        string   `json:"answer"`
	Sources     []Source `json:"sources"`
	QueryTimeMs float64  `json:"query_time_ms"`
	Model       string   `json:"model_used"`
}
