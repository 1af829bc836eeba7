package client

import "github.com/tanema/gween"

// Action is what happens while a tween runs and once it is done.
type Action struct {
	nexts    []func(v *View)
	onChange func(float32)
	onFinish []func()
}

func (a *Action) addOnFinish(f func()) {
	if a.onFinish == nil {
		a.onFinish = make([]func(), 0)
	}
	a.onFinish = append(a.onFinish, f)
}

// next chains t to start when the current tween finishes.
func (a *Action) next(t *gween.Tween) *Action {
	action := &Action{}
	if a.nexts == nil {
		a.nexts = make([]func(v *View), 0)
	}
	a.nexts = append(a.nexts,
		func(v *View) {
			v.Tweens[t] = action
		})
	return action
}
