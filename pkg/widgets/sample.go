package widgets

import "github.com/wraith13/never-stop-watch/pkg/model"

// Sample returns a tree that uses every widget. It is rendered by the host
// when no tree is given.
func Sample() *model.Node {
	body := model.New(List, nil).WithChildren(model.List(
		model.New(Ticker, map[string]any{"label": "fast", "fast": true}),
		model.New(Ticker, map[string]any{"label": "slow"}),
		model.New(Group, nil).WithChildren(model.List(
			model.New(Label, map[string]any{"text": "f/b focus and blur, any key dismisses a toast"}),
			model.New(Label, map[string]any{"text": "q quits"}),
		)),
	))
	toasts := model.New(Toast, nil).WithChildren(model.List(
		model.New(Label, map[string]any{"text": "welcome"}),
		model.New(Label, map[string]any{"text": "never stop watch is running"}),
	))
	return model.New(Screen, map[string]any{"theme": "dark", "title": "never stop watch"}).
		WithChildren(model.Keyed().
			Set("header", model.New(Title, nil)).
			Set("body", body).
			Set("bar", model.New(Segment, map[string]any{"text": "ready"})).
			Set("toast", toasts))
}
