package commands

import (
	"log/slog"
	"os"
	"time"

	"szenesync/lib/configutil"
	"szenesync/lib/scrapers/hessenszene"
	"szenesync/lib/serviceutil"
	"szenesync/lib/webflow"
	"szenesync/services/eventsync"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(syncCmd)
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

func buildService() *eventsync.Service {
	cfg, err := configutil.ReadConfig[eventsync.Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}

	scraper, err := hessenszene.NewClient(hessenszene.ClientOptions{})
	if err != nil {
		serviceutil.Fatal("failed to initialize scraper client", err)
	}

	wf := webflow.NewClient(webflow.ClientOptions{
		APIToken: cfg.APIToken,
		SiteID:   cfg.SiteID,
	})

	service, err := eventsync.NewService(cfg, scraper, wf)
	if err != nil {
		serviceutil.Fatal("invalid config", err)
	}
	return service
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Runs a single scrape-and-sync pass against the configured collection.",
	Run: func(cmd *cobra.Command, args []string) {
		service := buildService()

		t1 := time.Now()
		report, err := service.RunSync(cmd.Context())
		if err != nil {
			serviceutil.Fatal("sync failed", err)
		}
		t2 := time.Now()

		t := newTable()
		t.AppendHeader(table.Row{"Event", "Action", "Item", "Error"})
		for _, event := range report.Events {
			t.AppendRow(table.Row{event.Name, event.Action, event.ItemID, event.Error})
		}
		t.Render()

		slog.Info("sync finished",
			"created", report.Created,
			"updated", report.Updated,
			"failed", report.Failed,
			"seconds", t2.Sub(t1).Seconds())
	},
}
