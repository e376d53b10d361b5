package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrIngredientNotFound signals a missing ingredient record.
	ErrIngredientNotFound = errors.New("ingredient not found")
	// ErrInvalidRequest signals a malformed client request.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUnknownTarget signals an unrecognized collection target. Programmer error: propagates.
	ErrUnknownTarget = errors.New("unknown collection target")
	// ErrUnknownPolicy signals an unrecognized merge policy. Programmer error: propagates.
	ErrUnknownPolicy = errors.New("unknown merge policy")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrChatProviderError signals a chat completion provider failure.
	ErrChatProviderError = errors.New("chat provider error")
)
