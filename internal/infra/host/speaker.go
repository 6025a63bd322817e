package host

import (
	"context"
	"fmt"

	"lifx-skill/internal/dialog"
)

// transcript collects everything spoken while handling one request.
type transcript struct {
	renderer *dialog.Renderer
	lines    []string
}

func (t *transcript) Speak(_ context.Context, text string) error {
	t.lines = append(t.lines, text)
	return nil
}

func (t *transcript) SpeakDialog(_ context.Context, id string, data map[string]any) error {
	text, err := t.renderer.Render(id, data)
	if err != nil {
		return fmt.Errorf("rendering dialog: %w", err)
	}
	t.lines = append(t.lines, text)
	return nil
}
