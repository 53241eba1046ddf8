package exercise

// Quality is a preferred backend tier for generation.
type Quality string

const (
	QualityFast     Quality = "fast"
	QualityBalanced Quality = "balanced"
	QualityHigh     Quality = "quality"
)

// GenerationRequest asks for Count exercises on a topic. Requests are
// normalized before generation; see exercisegen.Normalize.
type GenerationRequest struct {
	Subject    Subject
	Category   string
	Topic      string
	Difficulty Difficulty

	// Types are the preferred exercise types. Empty means any type the
	// subject supports.
	Types []Type

	Count          int
	Lesson         *LessonContext
	Options        Options
	Language       string
	TargetLanguage string
}

// LessonContext ties generated exercises to the lesson the learner is on.
type LessonContext struct {
	Title            string   `json:"title"`
	Concepts         []string `json:"concepts,omitempty"`
	Vocabulary       []string `json:"vocabulary,omitempty"`
	PriorExerciseIDs []string `json:"priorExerciseIds,omitempty"`
}

// Options tune a single generation request.
type Options struct {
	// HintCount is the number of hints to ask for. Zero means the default.
	HintCount int `json:"hintCount,omitempty"`

	// Quality selects a backend tier when Model is empty.
	Quality Quality `json:"quality,omitempty"`

	// Model is an explicit backend identifier to try first.
	Model string `json:"model,omitempty"`

	// CustomInstructions are appended verbatim to the user prompt.
	CustomInstructions string `json:"customInstructions,omitempty"`
}
