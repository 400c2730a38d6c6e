// Package twilio holds the thin Twilio integration surface: TwiML rendering
// for the voice webhooks, request signature validation, and the REST client
// used to place outbound demo calls.
package twilio

import (
	"encoding/xml"
	"fmt"
	"strings"
)

const (
	// DefaultVoice and DefaultLanguage match the Polly voice the agent
	// speaks with on every prompt.
	DefaultVoice    = "Polly.Joanna"
	DefaultLanguage = "en-IN"

	xmlHeader = `<?xml version="1.0" encoding="UTF-8"?>`
)

// Say speaks text to the caller.
type Say struct {
	XMLName  xml.Name `xml:"Say"`
	Voice    string   `xml:"voice,attr,omitempty"`
	Language string   `xml:"language,attr,omitempty"`
	Text     string   `xml:",chardata"`
}

// Gather collects speech input and posts the transcript to Action.
type Gather struct {
	XMLName       xml.Name `xml:"Gather"`
	Input         string   `xml:"input,attr"`
	Action        string   `xml:"action,attr"`
	Method        string   `xml:"method,attr"`
	Timeout       int      `xml:"timeout,attr,omitempty"`
	SpeechTimeout string   `xml:"speechTimeout,attr,omitempty"`
	Language      string   `xml:"language,attr,omitempty"`
	Says          []Say    `xml:"Say"`
}

// VoiceResponse accumulates TwiML verbs in order.
type VoiceResponse struct {
	verbs []any
}

// NewVoiceResponse creates an empty TwiML response.
func NewVoiceResponse() *VoiceResponse {
	return &VoiceResponse{}
}

// Say appends a Say verb using the default voice and language.
func (v *VoiceResponse) Say(text string) *VoiceResponse {
	v.verbs = append(v.verbs, Say{Voice: DefaultVoice, Language: DefaultLanguage, Text: text})
	return v
}

// GatherSpeech appends a Gather verb collecting speech, prompting with the
// given text, and posting the transcript to action.
func (v *VoiceResponse) GatherSpeech(action, prompt string, timeout int, speechTimeout string) *VoiceResponse {
	v.verbs = append(v.verbs, Gather{
		Input:         "speech",
		Action:        action,
		Method:        "POST",
		Timeout:       timeout,
		SpeechTimeout: speechTimeout,
		Language:      DefaultLanguage,
		Says:          []Say{{Voice: DefaultVoice, Text: prompt}},
	})
	return v
}

// Render serializes the response to a TwiML document.
func (v *VoiceResponse) Render() (string, error) {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString("<Response>")
	for _, verb := range v.verbs {
		data, err := xml.Marshal(verb)
		if err != nil {
			return "", fmt.Errorf("twilio: marshal twiml verb: %w", err)
		}
		b.Write(data)
	}
	b.WriteString("</Response>")
	return b.String(), nil
}
