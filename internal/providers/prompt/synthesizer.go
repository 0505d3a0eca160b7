package prompt

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	staticProviderName = "static"
	geminiProviderName = "gemini"
	openAIProviderName = "openai"
)

// Synthesizer turns a natural-language instruction into generated text.
type Synthesizer interface {
	Synthesize(ctx context.Context, instruction string) (string, error)
}

// StaticSynthesizer answers without calling a model. It is used for local
// development when no text-generation credentials are configured.
type StaticSynthesizer struct{}

func NewStaticSynthesizer() *StaticSynthesizer {
	return &StaticSynthesizer{}
}

// Synthesize builds a chalkboard prompt from the quoted topic in the instruction.
func (s *StaticSynthesizer) Synthesize(ctx context.Context, instruction string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	topic := quotedSubject(instruction)
	if topic == "" {
		topic = "the requested concept"
	}
	title := cases.Title(language.English).String(topic)
	return fmt.Sprintf(
		"A clean educational chalkboard diagram titled \"%s\", white chalk on a dark green board, "+
			"key parts of %s labeled with short captions and connected by arrows, simple shapes, "+
			"generous spacing, easy for students to follow",
		title, topic,
	), nil
}

func (s *StaticSynthesizer) String() string {
	return staticProviderName
}

var _ Synthesizer = (*StaticSynthesizer)(nil)

// quotedSubject returns the text between the first and last double quote of
// the first quoted line, so quotes inside the topic survive.
func quotedSubject(instruction string) string {
	for _, line := range strings.Split(instruction, "\n") {
		start := strings.Index(line, `"`)
		if start < 0 {
			continue
		}
		end := strings.LastIndex(line, `"`)
		if end <= start {
			return ""
		}
		return strings.TrimSpace(line[start+1 : end])
	}
	return ""
}
