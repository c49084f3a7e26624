// Package translation names localization keys: a local glossary always
// works offline, and a chat model improves names when an API key is set.
package translation

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"zh-extractor/internal/cache"
	"zh-extractor/internal/textutil"
)

// Completer is a chat model endpoint.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Service names keys through the cache, then the chat model, then the
// local glossary. It is safe for concurrent use.
type Service struct {
	client  Completer
	cache   *cache.TranslationCache
	local   *Local
	prompts *PromptBuilder
	sem     *semaphore.Weighted
}

// NewService creates a Service. client may be nil for offline naming.
// maxConcurrent bounds in-flight API calls.
func NewService(client Completer, c *cache.TranslationCache, local *Local, maxConcurrent int) *Service {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Service{
		client:  client,
		cache:   c,
		local:   local,
		prompts: NewPromptBuilder(local),
		sem:     semaphore.NewWeighted(int64(maxConcurrent)),
	}
}

// Name returns the key name for text found in folder. API failures fall
// back to the local glossary and are not cached; only cancellation is
// returned as an error.
func (s *Service) Name(ctx context.Context, text, folder string) (string, error) {
	key := cache.Key(folder, text)
	if v, ok := s.cache.Get(key); ok {
		return v, nil
	}

	result := s.local.Name(text)

	if s.client != nil {
		name, err := s.remote(ctx, text, folder)
		switch {
		case ctx.Err() != nil:
			return "", ctx.Err()
		case err != nil:
			log.Warn().Err(err).Str("text", textutil.Truncate(text, 20)).Msg("Key naming API failed, using local glossary")
			return result, nil
		case name != "":
			result = name
		}
	}

	if err := s.cache.Set(ctx, key, result); err != nil {
		log.Warn().Err(err).Msg("Failed to cache key name")
	}
	return result, nil
}

func (s *Service) remote(ctx context.Context, text, folder string) (string, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer s.sem.Release(1)

	reply, err := s.client.Complete(ctx, s.prompts.GetSystemPrompt(), s.prompts.BuildUserPrompt(text, folder))
	if err != nil {
		return "", err
	}
	return CleanReply(reply), nil
}

// CleanReply extracts the name from a model reply: the last "->" segment of
// the first non-empty line, stripped of quotes and code fences.
func CleanReply(reply string) string {
	for _, line := range strings.Split(reply, "\n") {
		line = strings.Trim(strings.TrimSpace(line), "`\"' ")
		if line == "" {
			continue
		}
		if i := strings.LastIndex(line, "->"); i >= 0 {
			line = strings.TrimSpace(line[i+2:])
		}
		if textutil.ContainsChinese(line) {
			return ""
		}
		return strings.Trim(line, "`\"' ")
	}
	return ""
}
