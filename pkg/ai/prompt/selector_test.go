package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectSystemPrompt_DocumentWithContent(t *testing.T) {
	got := SelectSystemPrompt(Input{
		Agent:           AgentDocument,
		DocumentContent: "quarterly revenue was flat",
	})

	assert.True(t, strings.HasPrefix(got, "You are a document analysis agent."))
	assert.Contains(t, got, "quarterly revenue was flat")
	assert.Contains(t, got, "Do not use outside knowledge.")
}

func TestSelectSystemPrompt_DocumentWithoutContent(t *testing.T) {
	got := SelectSystemPrompt(Input{Agent: AgentDocument})
	assert.Equal(t, "You are a helpful general-purpose AI assistant.", got)
}

func TestSelectSystemPrompt_Coder(t *testing.T) {
	got := SelectSystemPrompt(Input{Agent: AgentCoder, Language: "Go"})
	assert.Contains(t, got, "specializing in Go")
	assert.Contains(t, got, "runnable code block in Go markdown format")
}

func TestSelectSystemPrompt_CoderDefaultLanguage(t *testing.T) {
	got := SelectSystemPrompt(Input{Agent: AgentCoder})
	assert.Contains(t, got, "specializing in JavaScript")
}

func TestSelectSystemPrompt_Persona(t *testing.T) {
	got := SelectSystemPrompt(Input{Agent: AgentPersona, Persona: "You are a pirate."})
	assert.Equal(t, "You are a pirate.", got)
}

func TestSelectSystemPrompt_PersonaEmptyFallsBack(t *testing.T) {
	got := SelectSystemPrompt(Input{Agent: AgentPersona})
	assert.Equal(t, "You are a helpful general-purpose AI assistant.", got)
}

func TestSelectSystemPrompt_UnknownAgent(t *testing.T) {
	got := SelectSystemPrompt(Input{Agent: Agent("weird")})
	assert.Equal(t, "You are a helpful general-purpose AI assistant.", got)
}
