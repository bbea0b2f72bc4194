package models

import (
	"errors"
	"strings"
)

// ChatRequest is the body of POST /chat
type ChatRequest struct {
	Question string `json:"question"`
}

// ProxyMessage is one entry of a front-end conversation sent to the proxy
type ProxyMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ProxyRequest is the body accepted by the proxy's chat route
type ProxyRequest struct {
	Messages []ProxyMessage `json:"messages"`
}

// Question returns the content of the final message, which the proxy
// forwards. An empty list or blank content is an error.
func (r ProxyRequest) Question() (string, error) {
	if len(r.Messages) == 0 {
		return "", errors.New("messages is empty")
	}
	content := r.Messages[len(r.Messages)-1].Content
	if strings.TrimSpace(content) == "" {
		return "", errors.New("last message has no content")
	}
	return content, nil
}

// ProxyResponse is returned by the proxy's chat route
type ProxyResponse struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
