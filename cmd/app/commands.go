package main

import (
	"context"
	"fmt"
	"os"
	"time"

	conf "github.com/oneee-playground/crackdash/internal/config"
	"github.com/oneee-playground/crackdash/internal/console"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

func (a *app) login(ctx context.Context, username, password string) error {
	if err := a.gateway.Login(ctx, username, password); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Logged in as %s (%s)\n", a.store.Username(), a.store.Role())
	return nil
}

func (a *app) logout(ctx context.Context) error {
	if !a.gateway.IsAuthenticated() {
		return nil
	}
	return a.gateway.Logout(ctx)
}

func (a *app) whoami() error {
	sess, ok := a.store.Current()
	if !ok {
		fmt.Fprintln(os.Stdout, "Not logged in")
		return nil
	}
	fmt.Fprintf(os.Stdout, "%s (%s)\n", sess.Username, sess.Role)
	return nil
}

// loadBoard fills the registry first so jobs pick up resource colors.
func (a *app) loadBoard(ctx context.Context) error {
	if err := a.registry.Load(ctx); err != nil {
		a.log.Warn("failed to load resources", zap.Error(err))
	}
	if _, err := a.reconciler.Reconcile(ctx); err != nil {
		return errors.Wrap(err, "loading jobs")
	}
	return nil
}

func (a *app) listJobs(ctx context.Context) error {
	if err := a.guard("jobs"); err != nil {
		return err
	}
	if err := a.loadBoard(ctx); err != nil {
		return err
	}
	console.RenderBoard(os.Stdout, a.board, a.registry)
	return nil
}

func (a *app) job(ctx context.Context, id string, follow bool) error {
	if err := a.guard("jobs.detail", "id", id); err != nil {
		return err
	}
	if err := a.registry.Load(ctx); err != nil {
		a.log.Warn("failed to load resources", zap.Error(err))
	}

	view := console.NewDetailView(a.log, console.DetailViewOpts{
		JobID:     id,
		Jobs:      a.jobs,
		Tools:     a.catalog,
		Resources: a.registry,
		Notifier:  a.center,
		Interval:  conf.PollInterval,
	})
	if err := view.SetVisible(ctx, true); err != nil {
		return err
	}
	defer view.SetVisible(ctx, false)

	snap, _ := view.Snapshot()
	console.RenderDetail(os.Stdout, snap)
	if !follow {
		return nil
	}

	ticker := time.NewTicker(conf.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		snap, visible := view.Snapshot()
		if !visible {
			return errors.New("job detail is no longer available")
		}
		console.RenderDetail(os.Stdout, snap)
	}
}

func (a *app) submit(ctx context.Context, name, toolID string, params map[string]string) error {
	if err := a.guard("jobs.new"); err != nil {
		return err
	}

	id, err := a.jobs.Submit(ctx, name, toolID, params)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, id)
	return nil
}

func (a *app) pauseJob(ctx context.Context, id string) error {
	if err := a.guard("jobs.detail", "id", id); err != nil {
		return err
	}
	return a.jobs.Pause(ctx, id)
}

func (a *app) resumeJob(ctx context.Context, id string) error {
	if err := a.guard("jobs.detail", "id", id); err != nil {
		return err
	}
	return a.jobs.Resume(ctx, id)
}

func (a *app) stopJob(ctx context.Context, id string) error {
	if err := a.guard("jobs.detail", "id", id); err != nil {
		return err
	}
	return a.jobs.Stop(ctx, id)
}

func (a *app) deleteJob(ctx context.Context, id string) error {
	if err := a.guard("jobs.detail", "id", id); err != nil {
		return err
	}
	return a.jobs.Delete(ctx, id)
}

// reorder moves the listed jobs to the top of the active list in the
// given order and submits the result.
func (a *app) reorder(ctx context.Context, order []string) error {
	if err := a.guard("jobs"); err != nil {
		return err
	}
	if err := a.loadBoard(ctx); err != nil {
		return err
	}

	a.reorderer.Begin()
	for idx, id := range order {
		if err := a.reorderer.Move(id, idx); err != nil {
			a.reorderer.Cancel(ctx)
			return err
		}
	}

	if err := a.reorderer.Confirm(ctx); err != nil {
		return err
	}
	console.RenderBoard(os.Stdout, a.board, a.registry)
	return nil
}

func (a *app) listResources(ctx context.Context) error {
	if err := a.guard("resources"); err != nil {
		return err
	}
	if err := a.registry.Load(ctx); err != nil {
		return err
	}
	console.RenderResources(os.Stdout, a.registry.List())
	return nil
}

func (a *app) pauseResource(ctx context.Context, id string) error {
	if err := a.guard("resources"); err != nil {
		return err
	}
	return a.resources.Pause(ctx, id)
}

func (a *app) resumeResource(ctx context.Context, id string) error {
	if err := a.guard("resources"); err != nil {
		return err
	}
	return a.resources.Resume(ctx, id)
}

func (a *app) disconnectResource(ctx context.Context, id string) error {
	if err := a.guard("resources"); err != nil {
		return err
	}
	return a.resources.Disconnect(ctx, id)
}

func (a *app) managers(ctx context.Context) error {
	if err := a.guard("resources"); err != nil {
		return err
	}
	managers, err := a.resources.Managers(ctx)
	if err != nil {
		return err
	}
	console.RenderManagers(os.Stdout, managers)
	return nil
}

func (a *app) connect(ctx context.Context, managerID string, params map[string]string) error {
	if err := a.guard("resources.connect", "manager", managerID); err != nil {
		return err
	}
	return a.resources.Connect(ctx, managerID, params)
}

func (a *app) tools(ctx context.Context) error {
	if err := a.guard("tools"); err != nil {
		return err
	}
	tools, err := a.catalog.List(ctx)
	if err != nil {
		return err
	}
	console.RenderTools(os.Stdout, tools)
	return nil
}
