package handlers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/resumebuilder/pkg/llm"
	"github.com/artem13815/resumebuilder/pkg/resume"
)

func TestImportRequestRaw(t *testing.T) {
	assert.Equal(t, `{"a":1}`, importRequest{Data: json.RawMessage(`"{\"a\":1}"`)}.raw())
	assert.Equal(t, `{"a":1}`, importRequest{Data: json.RawMessage(` {"a":1} `)}.raw())
}

func TestChatRequestCredentials(t *testing.T) {
	req, err := chatRequest{}.toChat()
	require.NoError(t, err)
	assert.Nil(t, req.Credentials)
	assert.Equal(t, resume.DefaultDocument(), req.Document)

	req, err = chatRequest{
		Provider:    llm.ProviderGemini,
		Credentials: &llm.Credentials{APIKey: "g-key", Model: "ignored"},
		Model:       "gemini-2.0-flash",
	}.toChat()
	require.NoError(t, err)
	assert.Equal(t, &llm.Credentials{Provider: llm.ProviderGemini, Model: "gemini-2.0-flash", APIKey: "g-key"}, req.Credentials)

	_, err = chatRequest{ResumeData: json.RawMessage(`{"basics":[]}`)}.toChat()
	assert.ErrorIs(t, err, resume.ErrValidation)
}

func TestParseRequestMediaType(t *testing.T) {
	in := parseRequest{File: uploadedFile{Name: "cv.docx", Data: "AA=="}, MediaType: "application/msword"}.input()
	assert.Equal(t, "application/msword", in.MediaType)

	in = parseRequest{File: uploadedFile{MediaType: "application/pdf"}, MediaType: "application/msword"}.input()
	assert.Equal(t, "application/pdf", in.MediaType)
}
