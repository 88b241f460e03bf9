package main

import (
	"log/slog"
	"os"

	"github.com/arbor-ui/arbor/internal/config"
	"github.com/arbor-ui/arbor/pkg/compose"
	"github.com/arbor-ui/arbor/pkg/protocol"
	"github.com/arbor-ui/arbor/pkg/render"
	"github.com/arbor-ui/arbor/pkg/server"
	"github.com/arbor-ui/arbor/pkg/state"
)

// buildServer assembles the demo application: a landing page with a
// collapsible navigation menu driven by a state cell.
func buildServer(cfg *config.Config, devMode bool) *server.Server {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	srvCfg := server.DefaultConfig()
	srvCfg.Address = cfg.Addr()
	srvCfg.DevMode = devMode
	srvCfg.StaticDir = cfg.Static.Dir
	srvCfg.StaticPrefix = cfg.Static.Prefix
	srvCfg.Metrics = cfg.Telemetry.Metrics
	srvCfg.Tracing = cfg.Telemetry.Tracing
	srvCfg.Logger = logger

	srv := server.New(srvCfg)

	// Each session gets its own menu cell, so one client toggling its
	// navigation never recomposes anyone else's page.
	srv.RegisterSessionPage("/", "Arbor", func(sess *server.Session) server.Page {
		menuOpen := state.NewCell(false)
		if sess != nil {
			sess.BindAction(protocol.ActionToggle, func(_ *server.Session, _ *protocol.Event) error {
				menuOpen.Update(func(v bool) bool { return !v })
				return nil
			})
		}
		return homePage(menuOpen)
	})
	return srv
}

func homePage(menuOpen *state.Cell[bool]) server.Page {
	action, _ := protocol.EncodeAction(&protocol.ActionDescriptor{
		Type:     protocol.ActionToggle,
		TargetID: "menu",
	})
	return func(s *compose.Scope) {
		display := "none"
		expanded := "false"
		if menuOpen.Get() {
			display = "block"
			expanded = "true"
		}
		s.Emit(render.Element("main",
			render.Element("header",
				render.Element("h1", render.Text("Arbor")),
				render.Element("button",
					render.A("id", "menu-trigger"),
					render.A(protocol.ActionAttr, action),
					render.A("aria-controls", "menu"),
					render.A("aria-expanded", expanded),
					render.Text("Menu"),
				),
			),
			render.Element("nav",
				render.A("id", "menu"),
				render.A("style", "display:"+display),
				render.Element("a", render.A("href", "/"), render.Text("Home")),
			),
		))
	}
}
