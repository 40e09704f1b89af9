package gear

import "context"

// Confirmer resolves a dangerous-operation prompt with the user. A nil
// error means the user accepted; declined or timed-out prompts return an
// error. Wildy loadout changes go through this before anything commits,
// and every precondition is re-checked afterwards because the world may
// have moved on while the prompt was open.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) error
}

// AutoConfirmer accepts every prompt. Wired where no interactive surface
// exists, such as service-to-service calls and tests.
type AutoConfirmer struct{}

func (AutoConfirmer) Confirm(ctx context.Context, prompt string) error {
	return ctx.Err()
}
