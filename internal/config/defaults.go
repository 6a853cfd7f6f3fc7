package config

type positive interface {
	~int | ~int32
}

func orDefault[T positive](p *T, v T) {
	if *p <= 0 {
		*p = v
	}
}

func orDefaultString(p *string, v string) {
	if *p == "" {
		*p = v
	}
}

// ApplyDefaults fills unset fields. Chat inherits the embedding provider and
// the structurer inherits the chat provider and model.
func (c *Config) ApplyDefaults() {
	orDefault(&c.HTTP.ReadTimeoutSec, 10)
	orDefault(&c.HTTP.WriteTimeoutSec, 120)
	orDefault(&c.HTTP.ShutdownSec, 10)

	orDefault(&c.Redis.ReadinessTimeout, 10)
	orDefault(&c.Postgres.MaxConns, 10)
	orDefault(&c.Postgres.ReadinessTimeout, 10)

	orDefault(&c.Index.HNSWM, 16)
	orDefault(&c.Index.HNSWEFConstruct, 200)

	orDefault(&c.Retrieval.TimeoutMs, 5000)
	orDefault(&c.Retrieval.DefaultTopK, 5)

	orDefault(&c.History.Workers, 8)
	orDefault(&c.History.TimeoutMs, 3000)

	emb, chat, st := &c.LLM.Embedding, &c.LLM.Chat, &c.LLM.Structurer
	orDefaultString(&emb.Provider, "openai")
	orDefaultString(&emb.Model, "text-embedding-3-small")
	orDefault(&emb.Dimensions, 1536)

	orDefaultString(&chat.Provider, emb.Provider)
	orDefaultString(&chat.Model, "gpt-4o-mini")
	orDefault(&chat.MaxTokens, 2048)

	orDefaultString(&st.Provider, chat.Provider)
	orDefaultString(&st.Model, chat.Model)
}
