package orchestrator

import (
	"fmt"

	"github.com/draughtworks/loom/internal/fancy"
	"github.com/draughtworks/loom/internal/orchestrator/finitestate"
)

// ReportTree renders the per-module outcomes of a generate run as a styled
// tree for the CLI.
func ReportTree(results []Result) string {
	t := fancy.Tree()
	t.Root(fancy.RootStyle.Render(fmt.Sprintf("Generate Run (%d modules)", len(results))))

	for _, res := range results {
		node := fancy.Tree()
		node.Root(fancy.ModuleStyle.Render(res.Module))
		node.Child(fmt.Sprintf("Backend: %s", fancy.BackendStyle.Render(res.Backend)))

		switch {
		case res.Err != nil:
			node.Child(fancy.ErrorStyle.Render(fmt.Sprintf("Error: %v", res.Err)))
		case res.Rebuilt:
			node.Child(fancy.OkStyle.Render("Rebuilt model and generated"))
		case res.State == finitestate.StateDone:
			node.Child(fancy.SkipStyle.Render("Cache hit, generated from derived model"))
		default:
			node.Child(fancy.InfoStyle.Render(fmt.Sprintf("State: %s", res.State)))
		}
		t.Child(node)
	}

	return t.String()
}
