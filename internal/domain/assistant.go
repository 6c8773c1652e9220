package domain

// AssistantMessage is one turn of an assistant conversation
type AssistantMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// AssistantRequest is the shared payload of the assistant endpoints. Which
// context fields matter depends on the endpoint: the problem chat uses title
// and description, the code assistants add code, the docs assistant uses
// topic and language.
type AssistantRequest struct {
	Messages    []AssistantMessage `json:"messages"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Code        string             `json:"code"`
	Topic       string             `json:"topic"`
	Language    string             `json:"language"`
}

// AssistantResponse carries a plain-text completion back to the client
type AssistantResponse struct {
	Response string `json:"response"`
}
