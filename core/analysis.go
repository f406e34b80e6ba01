package core

import "context"

// MistakeType classifies a grammar correction.
type MistakeType string

const (
	MistakeGrammar    MistakeType = "Grammar"
	MistakeVocabulary MistakeType = "Vocabulary"
	MistakeSpelling   MistakeType = "Spelling"
	MistakeNone       MistakeType = "None"
)

// GrammarCorrection is the structured result of analyzing one sentence.
type GrammarCorrection struct {
	Original    string      `json:"original"`
	Corrected   string      `json:"corrected"`
	Explanation string      `json:"explanation"`
	MistakeType MistakeType `json:"mistakeType"`
}

// VocabularySuggestion is one contextual vocabulary hint.
type VocabularySuggestion struct {
	Term          string `json:"term"`
	Pronunciation string `json:"pronunciation"`
	Translation   string `json:"translation"`
	Example       string `json:"example"`
}

// GrammarPoint summarizes one grammar rule observed in the conversation.
type GrammarPoint struct {
	RuleName        string `json:"ruleName"`
	Explanation     string `json:"explanation"`
	ExampleFromChat string `json:"exampleFromChat"`
}

// QuizQuestion is one multiple-choice practice question. Options always
// holds exactly 4 entries and CorrectAnswerIndex is in [0,3].
type QuizQuestion struct {
	Question           string   `json:"question"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correctAnswerIndex"`
	Explanation        string   `json:"explanation"`
}

// ReviewSession bundles the grammar summary with the generated quiz.
type ReviewSession struct {
	Summary []GrammarPoint `json:"summary"`
	Quiz    []QuizQuestion `json:"quiz"`
}

// Analyst is the analysis collaborator behind the grammar, vocabulary, and
// review side requests. Each call is independent of the chat cycle.
type Analyst interface {
	AnalyzeGrammar(ctx context.Context, targetLanguage string, sentence string) (*GrammarCorrection, error)
	SuggestVocabulary(ctx context.Context, targetLanguage string, scenarioContext string, recentHistory string) ([]VocabularySuggestion, error)
	GenerateReview(ctx context.Context, targetLanguage string, conversation string) (*ReviewSession, error)
}
