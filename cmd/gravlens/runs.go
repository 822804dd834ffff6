package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/gravlens/internal/storage"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tKIND\tTIME\tGRID\tFRAMES\tLENS")

	for _, run := range runs {
		frames := fmt.Sprint(run.Frames)
		if !run.Complete {
			frames += "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			run.ID,
			run.Scenario,
			run.Kind,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.GridSize,
			frames,
			run.Lens,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s (%s)\n", meta.Scenario, meta.Kind)
	fmt.Printf("lens: %s\n\n", meta.Lens)

	if len(meta.Tables) == 0 {
		printObservables(meta.Observables)
		return nil
	}

	for _, name := range meta.Tables {
		t, err := st.LoadTable(runID, name)
		if err != nil {
			return err
		}
		if name == storage.GalaxyTable || len(t.Rows) < 2 {
			continue
		}
		for _, col := range t.Header[1:] {
			graph := asciigraph.Plot(t.Column(col),
				asciigraph.Height(10),
				asciigraph.Width(80),
				asciigraph.Caption(fmt.Sprintf("%s: %s vs %s", name, col, t.Header[0])),
			)
			fmt.Println(graph)
			fmt.Println()
		}
	}

	printObservables(meta.Observables)
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	tables := make([]storage.Table, 0, len(meta.Tables))
	for _, name := range meta.Tables {
		t, err := st.LoadTable(runID, name)
		if err != nil {
			return err
		}
		tables = append(tables, *t)
	}
	return storage.ExportJSON(os.Stdout, *meta, tables...)
}
