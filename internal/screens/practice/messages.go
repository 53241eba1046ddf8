package practice

import "github.com/abhisek/practiz/internal/practice"

// generatedMsg is sent when the exercise batch has been generated.
type generatedMsg struct {
	Response *practice.GenerateResponse
	Err      error
}

// gradedMsg is sent when a submission has been graded.
type gradedMsg struct {
	Response *practice.SubmitResponse
	Err      error
}
