package cli

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/chazu/zonelabel/internal/logger"
	"github.com/chazu/zonelabel/pkg/engine"
	"github.com/chazu/zonelabel/pkg/host"
	"github.com/chazu/zonelabel/pkg/scene"
	"github.com/chazu/zonelabel/pkg/zone"
	"github.com/rs/zerolog"
)

// ScriptExt marks scene scripts evaluated by pkg/engine.
const ScriptExt = ".zl"

// loadDocument reads a scene document or evaluates a scene script.
func (a *app) loadDocument(ctx context.Context, path string) (*host.Document, error) {
	var (
		doc *host.Document
		err error
	)
	if strings.EqualFold(filepath.Ext(path), ScriptExt) {
		eng := engine.NewEngine(engine.WithTimeout(a.cfg.ScriptTimeout))
		doc, err = eng.LoadFile(ctx, path)
	} else {
		doc, err = host.LoadFile(path)
	}
	if err != nil {
		return nil, WrapCLIError(ExitSceneLoad, "load scene", err)
	}
	a.log.Debug().Str("path", path).Int("elements", doc.Len()).Msg("loaded scene")
	return doc, nil
}

// sceneFor extracts the phase elements and zones the configuration names.
func (a *app) sceneFor(doc *host.Document, phase string) *scene.Scene {
	return &scene.Scene{
		Elements: doc.PhaseElements(phase),
		Zones:    doc.ScopeZones(a.cfg.ZoneCategory),
	}
}

// logFor returns the app logger tagged with a component name.
func (a *app) logFor(component string) zerolog.Logger {
	return logger.Named(a.log, component)
}

// indexOptions maps configuration to zone index options.
func (a *app) indexOptions() []zone.Option {
	if !a.cfg.Pruning {
		return []zone.Option{zone.WithoutPruning()}
	}
	return nil
}
