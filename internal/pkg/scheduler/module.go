package scheduler

import (
	"context"

	"go.uber.org/fx"
)

// Module provides the scheduler and ties it to the application lifecycle.
// Jobs are registered by fx.Invoke functions of the modules that own them.
var Module = fx.Module("scheduler",
	fx.Provide(NewScheduler),
	fx.Invoke(registerHooks),
)

func registerHooks(lc fx.Lifecycle, s *Scheduler) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			s.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return s.Stop(ctx)
		},
	})
}
