package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
	"github.com/spf13/cobra"

	"timeliner/internal/model"
	"timeliner/internal/source"
	"timeliner/internal/temporal"
	"timeliner/internal/timeline"
)

// BuildCmd builds a timeline from document files and prints its forest.
var BuildCmd = &cobra.Command{
	Use:   "build <file>...",
	Short: "Build the containment tree of annotated documents",
	Long: `Resolve every event of the given document files and print the events
grouped by date-window containment. Wider windows are parents of the
windows they contain; events with identical windows share a node.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBuild,
}

// Shared by build and export-ics.
var (
	defaultRef string
	workers    int
)

var buildJSON bool

func addTimelineFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&defaultRef, "default-ref", "", "Reference date (YYYY-MM-DD) for documents without one")
	cmd.Flags().IntVar(&workers, "workers", 4, "Concurrent event resolvers")
}

func init() {
	addTimelineFlags(BuildCmd)
	BuildCmd.Flags().BoolVarP(&buildJSON, "json", "j", false, "Output resolved events as JSON")
}

// loadTimeline reads document files and builds their timeline.
func loadTimeline(ctx context.Context, files []string) (*timeline.Timeline, error) {
	var ref temporal.CalendarDate
	if defaultRef != "" {
		d, err := temporal.ParseReferenceDate(defaultRef)
		if err != nil {
			return nil, err
		}
		ref = d
	}

	var docs []model.Document
	for _, f := range files {
		loaded, err := source.LoadFile(f)
		if err != nil {
			return nil, err
		}
		docs = append(docs, loaded...)
	}

	b, err := timeline.NewBuilder(timeline.Options{
		DefaultReference: ref,
		Workers:          workers,
		TokenCacheSize:   1024,
	})
	if err != nil {
		return nil, err
	}
	return b.Build(ctx, docs)
}

type eventJSON struct {
	ID       string `json:"id"`
	Document string `json:"document"`
	Text     string `json:"text"`
	Start    string `json:"start"`
	End      string `json:"end,omitempty"`
	Label    string `json:"label,omitempty"`
}

func runBuild(cmd *cobra.Command, args []string) error {
	tl, err := loadTimeline(cmd.Context(), args)
	if err != nil {
		return err
	}

	if buildJSON {
		out := make([]eventJSON, 0, len(tl.Events))
		for _, e := range tl.Events {
			r := e.Range()
			out = append(out, eventJSON{
				ID:       e.Event.ID,
				Document: e.DocumentID,
				Text:     e.Event.Text(),
				Start:    r.Start.String(),
				End:      r.End.String(),
				Label:    e.Label(),
			})
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	outline := tl.Outline()
	if len(outline) == 0 {
		pterm.Info.Println("No dated events.")
		return nil
	}

	list := make(pterm.LeveledList, 0, len(outline))
	for _, item := range outline {
		text := item.Text
		if item.Node {
			text = pterm.LightCyan(text)
		}
		list = append(list, pterm.LeveledListItem{Level: item.Depth, Text: text})
	}
	if err := pterm.DefaultTree.WithRoot(putils.TreeFromLeveledList(list)).Render(); err != nil {
		return err
	}

	pterm.Printf("%s dated, %s undated\n",
		pterm.Green(fmt.Sprintf("%d", len(tl.Events))),
		pterm.Yellow(fmt.Sprintf("%d", tl.Undated)))
	return nil
}
