package application

import "context"

// Speaker is the host runtime's output channel for one interaction.
type Speaker interface {
	Speak(ctx context.Context, text string) error
	SpeakDialog(ctx context.Context, id string, data map[string]any) error
}
