// Package translate renders collection results in a target language.
//
// The Service walks a CollectionResult and translates its textual
// fields while leaving URLs, scores, counts, and timestamps untouched.
// Translation is strictly best-effort: any failed field keeps its
// original text, so a broken translator can never lose collected data.
//
// Two Translator implementations exist: JudgeTranslator uses the judge
// model, and TagTranslator marks text with the language tag when no
// judge is available.
package translate
