// Package wordbank loads vocabulary banks: a lightweight index per bank
// for fast startup, and full per-word detail records fetched on demand
// from the bank's source files.
package wordbank

// WordSummary is one entry of a bank's index file. Immutable once
// loaded. ID is unique within a bank and encodes the source file and
// offset of the full detail record (see ParseWordID).
type WordSummary struct {
	ID       string `json:"id"`
	Word     string `json:"word"`
	Phonetic string `json:"phonetic"`
	Meaning  string `json:"meaning"`
	Rank     int    `json:"rank,omitempty"`
}

// Translation is one sense of a word.
type Translation struct {
	Pos         string `json:"pos,omitempty"`
	TextLocal   string `json:"text_local,omitempty"`
	TextForeign string `json:"text_foreign,omitempty"`
}

// ExampleSentence is a usage example with its translation.
type ExampleSentence struct {
	Text        string `json:"text"`
	Translation string `json:"translation,omitempty"`
}

// ExamSentence is a sentence taken from a past exam paper.
type ExamSentence struct {
	Text   string `json:"text"`
	Source string `json:"source,omitempty"`
}

// SynonymGroup lists synonyms sharing a part of speech and sense.
type SynonymGroup struct {
	Pos         string   `json:"pos,omitempty"`
	Translation string   `json:"translation,omitempty"`
	Words       []string `json:"words"`
}

// RelatedWord is a word sharing a root with the headword.
type RelatedWord struct {
	Word        string `json:"word"`
	Translation string `json:"translation,omitempty"`
}

// RelatedWordGroup groups related words by part of speech.
type RelatedWordGroup struct {
	Pos   string        `json:"pos,omitempty"`
	Words []RelatedWord `json:"words"`
}

// Phrase is a collocation with its translation.
type Phrase struct {
	Text        string `json:"text"`
	Translation string `json:"translation,omitempty"`
}

// WordDetail is the full enriched entry for one word, loaded lazily and
// never mutated after creation.
type WordDetail struct {
	ID               string             `json:"id"`
	Word             string             `json:"word"`
	USPhone          string             `json:"us_phone,omitempty"`
	UKPhone          string             `json:"uk_phone,omitempty"`
	Phonetic         string             `json:"phonetic,omitempty"`
	Translations     []Translation      `json:"translations"`
	Meaning          string             `json:"meaning"`
	ExampleSentences []ExampleSentence  `json:"example_sentences,omitempty"`
	ExamSentences    []ExamSentence     `json:"exam_sentences,omitempty"`
	Synonyms         []SynonymGroup     `json:"synonyms,omitempty"`
	Antonyms         []string           `json:"antonyms,omitempty"`
	Phrases          []Phrase           `json:"phrases,omitempty"`
	RelatedWords     []RelatedWordGroup `json:"related_words,omitempty"`
	Mnemonic         string             `json:"mnemonic,omitempty"`
}
