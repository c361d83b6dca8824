package llm

type CompletionRequest struct {
	Prompt      string
	Suffix      string
	Model       string
	MaxTokens   int
	Temperature float64
	Stop        []string
	BestOf      int
}

type CompletionResponse struct {
	Content     string
	AllContents []string
	StopReason  string
	TotalTokens int
}
