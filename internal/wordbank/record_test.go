package wordbank

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWordID(t *testing.T) {
	tests := []struct {
		name          string
		wordID        string
		wantFileIndex int
		wantOffset    int
		wantErr       bool
	}{
		{name: "simple id", wordID: "cet4_f0_i12", wantFileIndex: 0, wantOffset: 12},
		{name: "bank id with underscores", wordID: "cet_4_2024_f3_i7", wantFileIndex: 3, wantOffset: 7},
		{name: "missing offset", wordID: "cet4_f0", wantErr: true},
		{name: "no id structure at all", wordID: "hello", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fileIndex, offset, err := ParseWordID(tt.wordID)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFileIndex, fileIndex)
			assert.Equal(t, tt.wantOffset, offset)
		})
	}
}

func TestSourceRecord_NormalizeFlat(t *testing.T) {
	payload := `{
		"word": "abandon",
		"phonetic": "/əˈbændən/",
		"translations": [
			{"type": "v", "translation": "放弃"},
			{"type": "n", "translation": "放纵"}
		],
		"phrases": [
			{"phrase": "abandon ship", "translation": "弃船"},
			{"phrase": "p2", "translation": "t2"},
			{"phrase": "p3", "translation": "t3"},
			{"phrase": "p4", "translation": "t4"},
			{"phrase": "p5", "translation": "t5"},
			{"phrase": "p6", "translation": "t6"}
		]
	}`
	var record sourceRecord
	require.NoError(t, json.Unmarshal([]byte(payload), &record))
	require.True(t, record.isFlat())
	assert.Equal(t, "abandon", record.headword())

	detail := record.normalize("cet4_f0_i0")
	assert.Equal(t, "cet4_f0_i0", detail.ID)
	assert.Equal(t, "abandon", detail.Word)
	assert.Equal(t, "/əˈbændən/", detail.Phonetic)
	assert.Equal(t, "v. 放弃；n. 放纵", detail.Meaning)
	require.Len(t, detail.Translations, 2)
	assert.Equal(t, Translation{Pos: "v", TextLocal: "放弃"}, detail.Translations[0])
	assert.Len(t, detail.Phrases, 5)
	assert.Equal(t, Phrase{Text: "abandon ship", Translation: "弃船"}, detail.Phrases[0])
}

func TestSourceRecord_NormalizeLegacy(t *testing.T) {
	sentences := ""
	for i := 0; i < 4; i++ {
		sentences += fmt.Sprintf(`{"sContent": "sentence %d", "sCn": "句子 %d"},`, i, i)
	}
	sentences = sentences[:len(sentences)-1]

	payload := `{
		"headWord": "vague",
		"content": {
			"word": {
				"wordId": "vague",
				"content": {
					"usphone": "veɪɡ",
					"ukphone": "veɪɡ",
					"trans": [
						{"pos": "adj", "tranCn": "模糊的", "tranOther": "unclear"}
					],
					"sentence": {"sentences": [` + sentences + `]},
					"realExamSentence": {"sentences": [
						{"sContent": "exam one", "sourceInfo": {"year": "2019", "level": "CET4", "type": "reading"}},
						{"sContent": "exam two", "sourceInfo": {"year": "2020", "level": "CET4", "type": "listening"}},
						{"sContent": "exam three", "sourceInfo": {"year": "2021", "level": "CET4", "type": "reading"}}
					]},
					"syno": {"synos": [
						{"pos": "adj", "tran": "模糊的", "hwds": [
							{"w": "s1"}, {"w": "s2"}, {"w": "s3"}, {"w": "s4"}, {"w": "s5"}, {"w": "s6"}
						]}
					]},
					"antos": {"anto": [
						{"hwd": "a1"}, {"hwd": "a2"}, {"hwd": "a3"}, {"hwd": "a4"}
					]},
					"phrase": {"phrases": [
						{"pContent": "vague idea", "pCn": "模糊的想法"}
					]},
					"relWord": {"rels": [
						{"pos": "n", "words": [{"hwd": "vagueness", "tran": "含糊"}]},
						{"pos": "adv", "words": [{"hwd": "vaguely", "tran": "含糊地"}]},
						{"pos": "v", "words": [{"hwd": "r3", "tran": "t3"}]},
						{"pos": "adj", "words": [{"hwd": "r4", "tran": "t4"}]},
						{"pos": "n", "words": [{"hwd": "r5", "tran": "t5"}]}
					]},
					"remMethod": {"val": "think of 'vogue' gone blurry"}
				}
			}
		}
	}`
	var record sourceRecord
	require.NoError(t, json.Unmarshal([]byte(payload), &record))
	require.False(t, record.isFlat())
	assert.Equal(t, "vague", record.headword())

	detail := record.normalize("cet4_f1_i3")
	assert.Equal(t, "vague", detail.Word)
	assert.Equal(t, "/veɪɡ/", detail.USPhone)
	assert.Equal(t, "/veɪɡ/", detail.Phonetic)
	assert.Equal(t, "adj. 模糊的", detail.Meaning)
	require.Len(t, detail.Translations, 1)
	assert.Equal(t, "unclear", detail.Translations[0].TextForeign)

	assert.Len(t, detail.ExampleSentences, 3)
	require.Len(t, detail.ExamSentences, 2)
	assert.Equal(t, "2019 CET4 reading", detail.ExamSentences[0].Source)

	require.Len(t, detail.Synonyms, 1)
	assert.Len(t, detail.Synonyms[0].Words, 5)
	assert.Len(t, detail.Antonyms, 3)
	require.Len(t, detail.RelatedWords, 4)
	assert.Equal(t, "vagueness", detail.RelatedWords[0].Words[0].Word)
	assert.Equal(t, "think of 'vogue' gone blurry", detail.Mnemonic)
}

func TestSourceRecord_NormalizeLegacyWithMissingSections(t *testing.T) {
	payload := `{
		"headWord": "terse",
		"content": {
			"word": {
				"content": {
					"trans": [{"pos": "adj", "tranCn": "简洁的"}]
				}
			}
		}
	}`
	var record sourceRecord
	require.NoError(t, json.Unmarshal([]byte(payload), &record))

	detail := record.normalize("cet6_f0_i1")
	assert.Equal(t, "terse", detail.Word)
	assert.Empty(t, detail.Phonetic)
	assert.Empty(t, detail.ExampleSentences)
	assert.Empty(t, detail.Synonyms)
	assert.Equal(t, "adj. 简洁的", detail.Meaning)
}
