package main

import "context"

type envKey struct{}

func withEnv(ctx context.Context, e *env) context.Context {
	return context.WithValue(ctx, envKey{}, e)
}

func fromContext(ctx context.Context) *env {
	e, ok := ctx.Value(envKey{}).(*env)
	if !ok {
		panic("keyforge: command run without an environment wired by PersistentPreRunE")
	}
	return e
}
