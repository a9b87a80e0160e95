package builder

import (
	"encoding/base64"
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/hxuan190/arb-engine/internal/domain"
)

// EncodeSwapPayload renders the contract-call body as base64 JSON, the form
// embedded in the flash-loan message.
func EncodeSwapPayload(payload *domain.SwapPayload) (string, error) {
	data, err := sonic.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode swap payload: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// DecodeSwapPayload is the inverse; download consumers use it to inspect an
// artifact's instructions.
func DecodeSwapPayload(encoded string) (*domain.SwapPayload, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode swap payload: %w", err)
	}
	var payload domain.SwapPayload
	if err := sonic.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode swap payload: %w", err)
	}
	return &payload, nil
}
