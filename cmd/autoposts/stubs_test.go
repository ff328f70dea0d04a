package main

import (
	"context"
	"errors"

	"autoposts/internal/gemini"
)

type stubGen struct{}

func (stubGen) GeneratePost(context.Context) (*gemini.Content, error) {
	return &gemini.Content{
		PostText:    "Go concurrente\n\nLas goroutines son baratas.",
		ImagePrompt: "gophers passing messages",
	}, nil
}

type failingGen struct{}

func (failingGen) GeneratePost(context.Context) (*gemini.Content, error) {
	return nil, errors.New("model overloaded")
}

type stubSynth struct{}

func (stubSynth) Generate(context.Context, string) ([]byte, error) {
	return []byte{0x89, 'P', 'N', 'G'}, nil
}
