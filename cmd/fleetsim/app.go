package main

import (
	"fmt"
	"os"

	"github.com/fleetsim/fleetsim/internal/interp"
	"github.com/fleetsim/fleetsim/internal/tools"
	"github.com/fleetsim/fleetsim/pkg/cluster"
	"github.com/fleetsim/fleetsim/pkg/config"
	"github.com/fleetsim/fleetsim/pkg/registry"
	"github.com/fleetsim/fleetsim/pkg/router"
	"github.com/fleetsim/fleetsim/pkg/scenario"
	"github.com/fleetsim/fleetsim/pkg/session"
	"github.com/fleetsim/fleetsim/pkg/simulator"
)

// app bundles everything a command needs: the interpreter over the tool
// catalogue, the shared fleet store, scenario contexts, and persistence.
type app struct {
	settings  *config.Settings
	interp    *interp.Interpreter
	base      *cluster.Config
	store     *simulator.Store
	scenarios *scenario.Manager
	session   *session.Manager
	history   *session.History
}

func newApp() (*app, error) {
	settings, err := config.Load()
	if err != nil {
		return nil, err
	}

	base := cluster.Default()
	if settings.ClusterFile != "" {
		base, err = cluster.LoadFile(settings.ClusterFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load cluster file: %w", err)
		}
	}

	reg, err := loadRegistry(settings)
	if err != nil {
		return nil, err
	}

	rt := router.New()
	tools.RegisterAll(rt)

	sess, err := session.NewManager("fleetsim")
	if err != nil {
		return nil, err
	}
	hist, err := session.NewHistory("fleetsim", settings.HistoryLimit)
	if err != nil {
		return nil, err
	}

	return &app{
		settings:  settings,
		interp:    interp.New(reg, rt),
		base:      base,
		store:     simulator.NewStore(base),
		scenarios: scenario.NewManager(),
		session:   sess,
		history:   hist,
	}, nil
}

func loadRegistry(settings *config.Settings) (*registry.Registry, error) {
	if settings.DefinitionsDir == "" {
		return registry.Default()
	}
	return registry.Load(os.DirFS(settings.DefinitionsDir), ".")
}

// execContext builds a simulator context from the persisted session,
// attaching the active scenario when one is selected.
func (a *app) execContext() *simulator.Context {
	st := a.session.State()

	node := st.CurrentNode
	if node == "" {
		node = a.settings.DefaultNode
	}

	ctx := &simulator.Context{
		IsRoot:      st.IsRoot || a.settings.StartAsRoot,
		CurrentNode: node,
		Store:       a.store,
	}
	if st.ActiveScenario != "" {
		if scen := a.scenarios.GetContext(st.ActiveScenario); scen != nil {
			ctx.Scenario = scen
		}
	}
	return ctx
}
