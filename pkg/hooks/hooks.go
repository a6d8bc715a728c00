// Package hooks runs user-provided shell fragments at five bootstrap
// lifecycle points with a documented environment contract. Each hook runs
// as a /usr/bin/env bash -c invocation.
package hooks

import (
	"context"
	"os/exec"
	"strconv"

	"github.com/arc-language/debstrap/pkg/diagnostics"
)

// Kind is one of the five lifecycle points the orchestrator invokes hooks
// at.
type Kind string

const (
	Download  Kind = "download"
	Extract   Kind = "extract"
	Essential Kind = "essential"
	Target    Kind = "target"
	Done      Kind = "done"
)

// Env is the environment passed to a hook: WORKSPACE always, PACKAGES for
// everything but "done", TARGET for everything but "download".
type Env struct {
	Workspace string
	Packages  string
	Target    string
}

func (e Env) vars(kind Kind) []string {
	vars := []string{"WORKSPACE=" + e.Workspace}
	if kind != Done {
		vars = append(vars, "PACKAGES="+e.Packages)
	}
	if kind != Download {
		vars = append(vars, "TARGET="+e.Target)
	}
	return vars
}

// Run executes every hook fragment of kind in order. A non-zero exit is
// logged as a warning and does not abort the pipeline.
func Run(ctx context.Context, kind Kind, fragments []string, env Env, log *diagnostics.Logger) {
	for i, fragment := range fragments {
		log.Debug("running hook no. " + strconv.Itoa(i+1))

		cmd := exec.CommandContext(ctx, "/usr/bin/env", "bash", "-c", fragment)
		cmd.Dir = env.Workspace
		cmd.Env = append(cmd.Env, env.vars(kind)...)

		if err := cmd.Run(); err != nil {
			log.Warning("hook returned an error.")
		}
	}
}
