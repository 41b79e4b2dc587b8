// Copyright 2026 Coursetta Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/coursetta/coursetta/ai"
	"github.com/coursetta/coursetta/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Generator implements ai.AnswerGenerator using OpenAI-compatible chat APIs.
// Questions carrying an image are routed to the vision model; everything else
// uses the cheaper text model.
type Generator struct {
	textClient   llms.Model
	visionClient llms.Model
	temperature  float64
	logger       *slog.Logger
}

// newGenerator is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newGenerator(config *ai.Config) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	textClient, err := openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken(config.Token),
		openai.WithModel(config.ChatModel),
	)
	if err != nil {
		return nil, err
	}

	visionClient, err := openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken(config.Token),
		openai.WithModel(config.VisionModel),
	)
	if err != nil {
		return nil, err
	}

	return &Generator{
		textClient:   textClient,
		visionClient: visionClient,
		temperature:  config.Temperature,
		logger:       slog.Default().With("component", "openai-generator"),
	}, nil
}

// NewGenerator creates a new answer generator using the provided configuration.
//
// Returns ai.AnswerGenerator interface to enforce abstraction.
func NewGenerator(config *ai.Config) (ai.AnswerGenerator, error) {
	return newGenerator(config)
}

// GenerateAnswer produces an answer to the question grounded in the retrieved
// evidence. When imageData is non-empty it is attached as an image part and
// the vision model handles the request.
func (g *Generator) GenerateAnswer(ctx context.Context, question string, evidence []*core.ScoredResult, imageData string) (string, error) {
	prompt := buildAnswerPrompt(question, evidence)

	parts := []llms.ContentPart{llms.TextPart(prompt)}
	client := g.textClient
	if imageData != "" {
		if !strings.HasPrefix(imageData, "data:image/") {
			imageData = "data:image/jpeg;base64," + imageData
		}
		parts = append(parts, llms.ImageURLPart(imageData))
		client = g.visionClient
	}

	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: parts,
		},
	}

	g.logger.Debug("generating answer",
		"evidence", len(evidence),
		"vision", imageData != "")

	response, err := client.GenerateContent(ctx, content, llms.WithTemperature(g.temperature))
	if err != nil {
		g.logger.Error("failed to generate answer", "err", err)
		return "", err
	}

	if len(response.Choices) < 1 {
		g.logger.Warn("no choices returned from model")
		return "", errors.New("model returned no choices")
	}

	answer := strings.TrimSpace(response.Choices[0].Content)
	if answer == "" {
		return "", errors.New("model returned empty answer")
	}
	return answer, nil
}
