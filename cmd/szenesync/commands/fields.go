package commands

import (
	"szenesync/lib/configutil"
	"szenesync/lib/serviceutil"
	"szenesync/lib/webflow"
	"szenesync/services/eventsync"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(fieldsCmd)
}

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "Prints the field schema of the configured collection.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := configutil.ReadConfig[eventsync.Config]("config.json5")
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}
		if err := cfg.Validate(); err != nil {
			serviceutil.Fatal("invalid config", err)
		}

		client := webflow.NewClient(webflow.ClientOptions{
			APIToken: cfg.APIToken,
			SiteID:   cfg.SiteID,
		})

		collection, err := client.GetCollection(cmd.Context(), cfg.CollectionID)
		if err != nil {
			serviceutil.Fatal("failed to fetch collection schema", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"Name", "Slug", "Type", "Required"})
		for _, field := range collection.Fields {
			t.AppendRow(table.Row{field.Name, field.Slug, field.Type, field.IsRequired})
		}
		t.Render()
	},
}
