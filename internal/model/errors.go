package model

import "errors"

// Common errors used across the application
var (
	// Guess input rejections
	ErrNotPlaying     = errors.New("game is not in progress")
	ErrWrongLength    = errors.New("guess has the wrong number of letters")
	ErrDuplicateGuess = errors.New("word has already been guessed")
	ErrInvalidLetter  = errors.New("invalid letter")
	ErrInvalidBoard   = errors.New("invalid board index")

	// Word validation
	ErrNotAWord              = errors.New("not a word")
	ErrValidationUnavailable = errors.New("word validation unavailable")

	// Evaluation
	ErrWordLengthMismatch = errors.New("words must match the configured length")

	// Puzzle setup
	ErrNoAnswers = errors.New("not enough answers for puzzle")

	// Storage
	ErrNotFound           = errors.New("not found")
	ErrStorageUnavailable = errors.New("storage unavailable")

	// Player errors
	ErrPlayerNotFound = errors.New("player not found")

	// Dictionary errors
	ErrDictionaryNotLoaded = errors.New("dictionary not loaded")
)
