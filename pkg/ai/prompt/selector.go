package prompt

import "fmt"

// Agent identifies which behaviour profile drives the system prompt.
type Agent string

const (
	AgentAssistant Agent = "assistant"
	AgentDocument  Agent = "document"
	AgentCoder     Agent = "coder"
	AgentPersona   Agent = "persona"
)

const genericAssistantPrompt = "You are a helpful general-purpose AI assistant."

// Input carries everything prompt selection depends on. DocumentContent
// is the extracted text of the conversation's uploaded document, empty
// when none exists.
type Input struct {
	Agent           Agent
	DocumentContent string
	Language        string
	Persona         string
}

// SelectSystemPrompt returns the system prompt for a chat turn.
// The document agent only gets the document prompt when a document is
// actually present; otherwise it degrades to the generic assistant.
// Unknown agent values also degrade to the generic assistant.
func SelectSystemPrompt(in Input) string {
	if in.Agent == AgentDocument && in.DocumentContent != "" {
		return fmt.Sprintf("You are a document analysis agent. You will answer questions based on the provided document context. Here is the document content:\n\n---\n\n%s\n\n---\n\nIf the answer is not in the document, say so. Do not use outside knowledge.", in.DocumentContent)
	}

	switch in.Agent {
	case AgentCoder:
		language := in.Language
		if language == "" {
			language = "JavaScript"
		}
		return fmt.Sprintf("You are an expert code generation agent specializing in %s. You are a master of all programming languages, algorithms, and data structures. When asked to write code, you must provide a single, complete, and runnable code block in %s markdown format. Do not provide explanations or conversational text outside of the code block.", language, language)
	case AgentPersona:
		if in.Persona != "" {
			return in.Persona
		}
		return genericAssistantPrompt
	default:
		return genericAssistantPrompt
	}
}
