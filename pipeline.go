package mediate

import "context"

// pipeline is the composed invocation chain for one command identity.
type pipeline func(ctx context.Context, cmd any) (any, error)

// composePipeline builds the frozen chain for one command from every
// hook whose scope matches its profile:
//
//	pre hooks (sorted) -> around hooks (nested) -> handler -> post hooks (sorted)
//
// and, on any failure, the sorted on-error hooks followed by error
// propagation. With zero matching hooks the chain is a direct
// pass-through to the handler.
func composePipeline(cb *commandBinding, hooks []Hook) pipeline {
	var pres, arounds, posts, onErrors []Hook
	for _, h := range hooks {
		if !h.Scope.Match(cb.profile) {
			continue
		}
		switch h.Kind {
		case HookPre:
			pres = append(pres, h)
		case HookAround:
			arounds = append(arounds, h)
		case HookPost:
			posts = append(posts, h)
		case HookOnError:
			onErrors = append(onErrors, h)
		}
	}

	key := cb.profile.Key()
	terminal := func(ctx context.Context, cmd any) (any, error) {
		if err := ctx.Err(); err != nil {
			return nil, stageError(key, StageHandler, err)
		}
		res, err := cb.invoke(ctx, cmd)
		if err != nil {
			return nil, stageError(key, StageHandler, err)
		}
		return res, nil
	}

	if len(pres)+len(arounds)+len(posts)+len(onErrors) == 0 {
		return terminal
	}

	sortHooks(pres)
	sortHooks(arounds)
	sortHooks(posts)
	sortHooks(onErrors)

	// Around hooks are stored as a flat sorted list, so they are wired
	// in reverse: the last iteration wraps everything in the
	// lowest-order hook, making its before logic first and its after
	// logic last.
	chain := terminal
	for i := len(arounds) - 1; i >= 0; i-- {
		around := arounds[i].fn.(AroundFunc)
		next := chain
		chain = func(ctx context.Context, cmd any) (any, error) {
			res, err := around(ctx, cmd, func(ctx context.Context) (any, error) {
				return next(ctx, cmd)
			})
			if err != nil {
				return nil, stageError(key, StageAround, err)
			}
			return res, nil
		}
	}

	return func(ctx context.Context, cmd any) (any, error) {
		res, err := func() (any, error) {
			for _, h := range pres {
				if cerr := ctx.Err(); cerr != nil {
					return nil, stageError(key, StagePre, cerr)
				}
				if err := h.fn.(PreFunc)(ctx, cmd); err != nil {
					return nil, stageError(key, StagePre, err)
				}
			}
			res, err := chain(ctx, cmd)
			if err != nil {
				return nil, err
			}
			for _, h := range posts {
				if cerr := ctx.Err(); cerr != nil {
					return nil, stageError(key, StagePost, cerr)
				}
				if err := h.fn.(PostFunc)(ctx, cmd, res); err != nil {
					return nil, stageError(key, StagePost, err)
				}
			}
			return res, nil
		}()
		if err != nil {
			for _, h := range onErrors {
				h.fn.(OnErrorFunc)(ctx, cmd, err)
			}
			return nil, err
		}
		return res, nil
	}
}

// stageError wraps err in an ExecutionError unless an inner stage
// already wrapped it, so nested around hooks don't stack wrappers.
func stageError(key Key, stage Stage, err error) error {
	if _, wrapped := err.(*ExecutionError); wrapped {
		return err
	}
	return &ExecutionError{Key: key, Stage: stage, Err: err}
}
