package wordbank

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Detail records appear in two shapes in the source files: a flat shape
// and a deeply nested legacy shape. Both decode into sourceRecord and
// normalize into WordDetail in one pass; nothing downstream branches on
// the shape again.
//
// List fields are capped on normalization to bound the payload handed
// to the presentation layer.
const (
	maxPhrases          = 5
	maxExampleSentences = 3
	maxExamSentences    = 2
	maxSynonymsPerGroup = 5
	maxAntonyms         = 3
	maxRelatedGroups    = 4
	maxRelatedPerGroup  = 3
)

type sourceRecord struct {
	// flat shape
	Word         string            `json:"word"`
	Phonetic     string            `json:"phonetic"`
	Translations []flatTranslation `json:"translations"`
	Phrases      []flatPhrase      `json:"phrases"`

	// legacy nested shape
	HeadWord string         `json:"headWord"`
	Content  *legacyContent `json:"content"`
}

type flatTranslation struct {
	Type        string `json:"type"`
	Translation string `json:"translation"`
}

type flatPhrase struct {
	Phrase      string `json:"phrase"`
	Translation string `json:"translation"`
}

type legacyContent struct {
	Word struct {
		WordID  string     `json:"wordId"`
		Content legacyWord `json:"content"`
	} `json:"word"`
}

type legacyWord struct {
	USPhone  string              `json:"usphone"`
	UKPhone  string              `json:"ukphone"`
	Trans    []legacyTranslation `json:"trans"`
	Sentence struct {
		Sentences []legacySentence `json:"sentences"`
	} `json:"sentence"`
	RealExamSentence struct {
		Sentences []legacyExamSentence `json:"sentences"`
	} `json:"realExamSentence"`
	Syno struct {
		Synos []legacySynonymGroup `json:"synos"`
	} `json:"syno"`
	Antos struct {
		Anto []legacyAntonym `json:"anto"`
	} `json:"antos"`
	Phrase struct {
		Phrases []legacyPhrase `json:"phrases"`
	} `json:"phrase"`
	RelWord struct {
		Rels []legacyRelatedGroup `json:"rels"`
	} `json:"relWord"`
	RemMethod struct {
		Val string `json:"val"`
	} `json:"remMethod"`
}

type legacyTranslation struct {
	Pos       string `json:"pos"`
	TranCn    string `json:"tranCn"`
	TranOther string `json:"tranOther"`
}

type legacySentence struct {
	SContent    string `json:"sContent"`
	SContentEng string `json:"sContent_eng"`
	SCn         string `json:"sCn"`
}

type legacyExamSentence struct {
	SContent   string `json:"sContent"`
	SourceInfo struct {
		Year  string `json:"year"`
		Level string `json:"level"`
		Type  string `json:"type"`
	} `json:"sourceInfo"`
}

type legacySynonymGroup struct {
	Pos  string `json:"pos"`
	Tran string `json:"tran"`
	Hwds []struct {
		W string `json:"w"`
	} `json:"hwds"`
}

type legacyAntonym struct {
	Hwd string `json:"hwd"`
}

type legacyPhrase struct {
	PContent string `json:"pContent"`
	PCn      string `json:"pCn"`
}

type legacyRelatedGroup struct {
	Pos   string `json:"pos"`
	Words []struct {
		Hwd  string `json:"hwd"`
		Tran string `json:"tran"`
	} `json:"words"`
}

// isFlat reports whether the record uses the flat shape, identified by
// the presence of both word and translations.
func (r sourceRecord) isFlat() bool {
	return r.Word != "" && r.Translations != nil
}

// headword returns the record's headword regardless of shape.
func (r sourceRecord) headword() string {
	if r.isFlat() {
		return r.Word
	}
	return r.HeadWord
}

// normalize converts either record shape into one WordDetail.
func (r sourceRecord) normalize(id string) WordDetail {
	if r.isFlat() {
		return r.normalizeFlat(id)
	}
	return r.normalizeLegacy(id)
}

func (r sourceRecord) normalizeFlat(id string) WordDetail {
	translations := make([]Translation, 0, len(r.Translations))
	meanings := make([]string, 0, len(r.Translations))
	for _, t := range r.Translations {
		translations = append(translations, Translation{
			Pos:       t.Type,
			TextLocal: t.Translation,
		})
		if t.Type != "" {
			meanings = append(meanings, t.Type+". "+t.Translation)
		} else {
			meanings = append(meanings, t.Translation)
		}
	}

	var phrases []Phrase
	for _, p := range capSlice(r.Phrases, maxPhrases) {
		phrases = append(phrases, Phrase{
			Text:        p.Phrase,
			Translation: p.Translation,
		})
	}

	return WordDetail{
		ID:           id,
		Word:         r.Word,
		Phonetic:     r.Phonetic,
		Translations: translations,
		Meaning:      strings.Join(meanings, "；"),
		Phrases:      phrases,
	}
}

func (r sourceRecord) normalizeLegacy(id string) WordDetail {
	var content legacyWord
	if r.Content != nil {
		content = r.Content.Word.Content
	}

	usPhone := ""
	if content.USPhone != "" {
		usPhone = "/" + content.USPhone + "/"
	}
	ukPhone := ""
	if content.UKPhone != "" {
		ukPhone = "/" + content.UKPhone + "/"
	}
	phonetic := usPhone
	if phonetic == "" {
		phonetic = ukPhone
	}

	translations := make([]Translation, 0, len(content.Trans))
	meanings := make([]string, 0, len(content.Trans))
	for _, t := range content.Trans {
		translations = append(translations, Translation{
			Pos:         t.Pos,
			TextLocal:   t.TranCn,
			TextForeign: t.TranOther,
		})
		meaning := t.TranCn
		if meaning == "" {
			meaning = t.TranOther
		}
		if t.Pos != "" {
			meaning = t.Pos + ". " + meaning
		}
		meanings = append(meanings, meaning)
	}

	var examples []ExampleSentence
	for _, s := range capSlice(content.Sentence.Sentences, maxExampleSentences) {
		text := s.SContentEng
		if text == "" {
			text = s.SContent
		}
		examples = append(examples, ExampleSentence{
			Text:        text,
			Translation: s.SCn,
		})
	}

	var examSentences []ExamSentence
	for _, s := range capSlice(content.RealExamSentence.Sentences, maxExamSentences) {
		source := strings.TrimSpace(strings.Join([]string{
			s.SourceInfo.Year, s.SourceInfo.Level, s.SourceInfo.Type,
		}, " "))
		examSentences = append(examSentences, ExamSentence{
			Text:   s.SContent,
			Source: source,
		})
	}

	var synonyms []SynonymGroup
	for _, group := range content.Syno.Synos {
		words := make([]string, 0, maxSynonymsPerGroup)
		for _, hwd := range capSlice(group.Hwds, maxSynonymsPerGroup) {
			words = append(words, hwd.W)
		}
		synonyms = append(synonyms, SynonymGroup{
			Pos:         group.Pos,
			Translation: group.Tran,
			Words:       words,
		})
	}

	var antonyms []string
	for _, anto := range capSlice(content.Antos.Anto, maxAntonyms) {
		antonyms = append(antonyms, anto.Hwd)
	}

	var phrases []Phrase
	for _, p := range capSlice(content.Phrase.Phrases, maxPhrases) {
		phrases = append(phrases, Phrase{
			Text:        p.PContent,
			Translation: p.PCn,
		})
	}

	var relatedWords []RelatedWordGroup
	for _, group := range capSlice(content.RelWord.Rels, maxRelatedGroups) {
		words := make([]RelatedWord, 0, maxRelatedPerGroup)
		for _, w := range capSlice(group.Words, maxRelatedPerGroup) {
			words = append(words, RelatedWord{
				Word:        w.Hwd,
				Translation: w.Tran,
			})
		}
		relatedWords = append(relatedWords, RelatedWordGroup{
			Pos:   group.Pos,
			Words: words,
		})
	}

	return WordDetail{
		ID:               id,
		Word:             r.HeadWord,
		USPhone:          usPhone,
		UKPhone:          ukPhone,
		Phonetic:         phonetic,
		Translations:     translations,
		Meaning:          strings.Join(meanings, "；"),
		ExampleSentences: examples,
		ExamSentences:    examSentences,
		Synonyms:         synonyms,
		Antonyms:         antonyms,
		Phrases:          phrases,
		RelatedWords:     relatedWords,
		Mnemonic:         content.RemMethod.Val,
	}
}

func capSlice[T any](items []T, max int) []T {
	if len(items) > max {
		return items[:max]
	}
	return items
}

// Word ids have the form <bank>_f<fileIndex>_i<offset>: enough to locate
// the full detail record inside the bank's source files.
var wordIDPattern = regexp.MustCompile(`_f(\d+)_i(\d+)$`)

// ParseWordID extracts the source-file index and record offset from a
// word id.
func ParseWordID(wordID string) (fileIndex, offset int, err error) {
	matches := wordIDPattern.FindStringSubmatch(wordID)
	if matches == nil {
		return 0, 0, fmt.Errorf("malformed word id %q", wordID)
	}
	fileIndex, err = strconv.Atoi(matches[1])
	if err != nil {
		return 0, 0, fmt.Errorf("strconv.Atoi > %w", err)
	}
	offset, err = strconv.Atoi(matches[2])
	if err != nil {
		return 0, 0, fmt.Errorf("strconv.Atoi > %w", err)
	}
	return fileIndex, offset, nil
}
