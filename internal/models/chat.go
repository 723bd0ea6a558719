package models

// Chat limits and fixed answers.
const (
	QuestionMaxLen   = 200
	QuestionMaxWords = 40
	NoResponseAnswer = "No response"
)

// AskQuestionRequest carries a question about a course.
type AskQuestionRequest struct {
	Content string `json:"content" validate:"required,max=200"`
}

// ChatAnswer is returned by the chat endpoint.
type ChatAnswer struct {
	Answer string `json:"answer"`
}
