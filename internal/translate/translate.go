package translate

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"sitecensus/internal/judge"
)

// Translator converts text into a target language.
// Implementations must return the original text unchanged on failure
// rather than an empty string, so callers can always use the result.
type Translator interface {
	// Translate returns text rendered in the target language.
	Translate(ctx context.Context, text, target string) (string, error)
}

// ErrInvalidLanguage is returned when a target language tag cannot be
// parsed.
var ErrInvalidLanguage = fmt.Errorf("invalid target language")

// ValidateLanguage checks that target is a well-formed BCP 47 language
// tag and returns its canonical form.
func ValidateLanguage(target string) (string, error) {
	tag, err := language.Parse(target)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidLanguage, target)
	}
	return tag.String(), nil
}

// TagTranslator is the no-network fallback translator. It marks text
// with the upper-cased language tag instead of translating, so output
// stays readable and the intended language remains visible.
type TagTranslator struct{}

// NewTagTranslator creates the fallback translator.
func NewTagTranslator() *TagTranslator {
	return &TagTranslator{}
}

// Translate prefixes the text with the target language tag.
func (t *TagTranslator) Translate(_ context.Context, text, target string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}
	return fmt.Sprintf("[%s] %s", strings.ToUpper(target), text), nil
}

// JudgeTranslator translates text through the judge model.
type JudgeTranslator struct {
	judge judge.Judge
}

// NewJudgeTranslator creates a translator backed by the given judge.
func NewJudgeTranslator(j judge.Judge) *JudgeTranslator {
	return &JudgeTranslator{judge: j}
}

// Translate asks the judge for a translation. The judge is instructed
// to respond with the translated text only.
func (t *JudgeTranslator) Translate(ctx context.Context, text, target string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	prompt := fmt.Sprintf(
		"Translate the following text to %s. Respond with the translated text only, no preamble or notes.\n\n%s",
		target, text,
	)

	translated, err := t.judge.Complete(ctx, prompt)
	if err != nil {
		return text, err
	}

	translated = strings.TrimSpace(translated)
	if translated == "" {
		return text, nil
	}
	return translated, nil
}
