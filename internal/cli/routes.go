package cli

import (
	"cicd-demo/backend/internal/config"
	"cicd-demo/backend/internal/httpapi/router"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List the HTTP routes served by this build",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load(viper.GetViper())

		routes, err := router.Routes(router.New(nil, cfg))
		if err != nil {
			return err
		}

		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Method", "Path"})
		for _, route := range routes {
			t.AppendRow(table.Row{route.Method, route.Path})
		}
		t.SetStyle(table.StyleLight)
		t.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(routesCmd)
}
