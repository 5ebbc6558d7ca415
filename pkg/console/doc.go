// Package console implements the interactive terminal front end. Prompts go
// through a PromptDriver; the default driver is backed by survey.
package console
