package models

// NoDuration is the sentinel recorded when a duration was not measured,
// either because the backend has no retrieval step or because the
// request failed before timing could complete.
const NoDuration float64 = -1

// Answer holds one model's response to a question, with the timing
// breakdown when the backend reports one. Durations are in seconds.
type Answer struct {
	Model              string  `json:"model"`
	Answer             string  `json:"answer"`
	RetrievalDuration  float64 `json:"retrieval_duration"`
	GenerationDuration float64 `json:"generation_duration"`
}

// QuestionAnswers groups every configured model's answer to a single
// question. It is the canonical structure all report writers consume.
type QuestionAnswers struct {
	Question string   `json:"question"`
	Answers  []Answer `json:"answers"`
}
